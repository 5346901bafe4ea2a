package composite

import (
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/ourbooth/booth/util/log"
)

// Face detection tuning. Conservative defaults tolerant of typical booth
// photos (frontal faces, decent lighting).
const (
	faceMinSizePct    = 5
	faceMaxSizePct    = 80
	faceShiftFactor   = 0.1
	faceScaleFactor   = 1.1
	faceMinConfidence = 10.0
	faceIoUThreshold  = 0.2
)

// FaceFinder wraps a pigo classifier. A nil FaceFinder (or one whose model
// failed to load) disables face anchoring without failing the pipeline.
type FaceFinder struct {
	classifier *pigo.Pigo
}

// NewFaceFinder loads a facefinder cascade model from disk. A missing or
// unreadable model logs a warning and returns nil so cover fitting falls
// back to centered or smart cropping.
func NewFaceFinder(modelPath string) *FaceFinder {
	if modelPath == "" {
		return nil
	}
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		log.Printf("Warning: Failed to load face detection model: %v. Face anchoring will be disabled.", err)
		return nil
	}

	classifier, err := pigo.NewPigo().Unpack(modelData)
	if err != nil {
		log.Printf("Warning: Failed to unpack face detection model: %v. Face anchoring will be disabled.", err)
		return nil
	}
	return &FaceFinder{classifier: classifier}
}

// bestFaceAnchor returns the center of the highest-confidence detected face.
func (f *FaceFinder) bestFaceAnchor(img image.Image) (image.Point, bool) {
	if f == nil || f.classifier == nil {
		return image.Point{}, false
	}

	b := img.Bounds()
	cols, rows := b.Dx(), b.Dy()
	if cols == 0 || rows == 0 {
		return image.Point{}, false
	}

	nrgba := toNRGBA(img)
	pixels := pigo.RgbToGrayscale(nrgba)

	minDim := minInt(cols, rows)
	params := pigo.CascadeParams{
		MinSize:     minDim * faceMinSizePct / 100,
		MaxSize:     minDim * faceMaxSizePct / 100,
		ShiftFactor: faceShiftFactor,
		ScaleFactor: faceScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := f.classifier.RunCascade(params, 0.0)
	dets = f.classifier.ClusterDetections(dets, faceIoUThreshold)

	best := pigo.Detection{}
	found := false
	for _, det := range dets {
		if det.Q < faceMinConfidence {
			continue
		}
		if !found || det.Q > best.Q {
			best = det
			found = true
		}
	}
	if !found {
		return image.Point{}, false
	}

	// pigo reports row/col of the detection center.
	return image.Pt(b.Min.X+best.Col, b.Min.Y+best.Row), true
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, img.At(x, y))
		}
	}
	return out
}
