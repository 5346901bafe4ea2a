package filter

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
)

// DeltaEThreshold is the perceptual equivalence gate in CIE76 units.
// Differences below ~2.3 are considered just noticeable; the two filter
// projections must stay under this bound wherever they claim equivalence.
const DeltaEThreshold = 3.0

// CalibrationIntensities are the intensity steps the calibration sweeps.
var CalibrationIntensities = []float64{0, 25, 50, 75, 100}

// RGBToLab converts an sRGB color to CIE LAB (D65), L in [0,100].
func RGBToLab(c color.Color) (l, a, b float64) {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0, 0, 0
	}
	l, a, b = cf.Lab()
	return l * 100, a * 100, b * 100
}

// DeltaE returns the CIE76 color difference between two sRGB colors:
// the Euclidean distance between their LAB representations.
func DeltaE(c1, c2 color.Color) float64 {
	a, ok1 := colorful.MakeColor(c1)
	b, ok2 := colorful.MakeColor(c2)
	if !ok1 || !ok2 {
		return 0
	}
	return a.DistanceLab(b) * 100
}

// Reference image layout: a fixed 100x100 raster with four horizontal bands.
const refSize = 100

// Band is one horizontal stripe of the calibration reference image.
type Band struct {
	Name string
	// SampleY is a row inside the band, away from its edges.
	SampleY int
	// Chromatic marks bands with nonzero chroma. The batch projection's
	// grayscale/sepia handling deliberately collapses hue, so chromatic
	// bands are only gated for presets that leave hue intact.
	Chromatic bool
	Color     color.NRGBA
}

// ReferenceBands returns the band layout of the reference image, top to
// bottom: pure red, pure white, mid gray, pure black.
func ReferenceBands() []Band {
	return []Band{
		{Name: "red", SampleY: 12, Chromatic: true, Color: color.NRGBA{255, 0, 0, 255}},
		{Name: "white", SampleY: 37, Color: color.NRGBA{255, 255, 255, 255}},
		{Name: "gray", SampleY: 62, Color: color.NRGBA{128, 128, 128, 255}},
		{Name: "black", SampleY: 87, Color: color.NRGBA{0, 0, 0, 255}},
	}
}

// ReferenceImage builds the deterministic calibration fixture.
func ReferenceImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, refSize, refSize))
	bands := ReferenceBands()
	bandH := refSize / len(bands)
	for i, band := range bands {
		r := image.Rect(0, i*bandH, refSize, (i+1)*bandH)
		draw.Draw(img, r, &image.Uniform{band.Color}, image.Point{}, draw.Src)
	}
	return img
}

// ExactChroma reports whether both projections represent the parameters'
// chroma operations identically at every intensity. Grayscale and sepia are
// approximated in the batch model, so their presence excludes the chromatic
// band from the equivalence claim.
func ExactChroma(p Parameters) bool {
	return p.Grayscale == 0 && p.Sepia == 0
}

// CalibrationSample is one preset/intensity/band measurement.
type CalibrationSample struct {
	Preset    PresetID
	Intensity float64
	Band      string
	DeltaE    float64
	// Gated marks samples the equivalence contract applies to.
	Gated bool
}

// Calibrate renders the reference image through the preview descriptor and
// the batch modifiers of one preset across the standard intensity sweep and
// measures the per-band color difference between the two results.
func Calibrate(p Preset) []CalibrationSample {
	ref := ReferenceImage()
	bands := ReferenceBands()
	exact := ExactChroma(p.Params)

	var samples []CalibrationSample
	for _, intensity := range CalibrationIntensities {
		previewed := RenderPreview(ref, ProjectPreview(p.Params, intensity))
		batched := Apply(ref, ProjectBatch(p.Params, intensity))

		for _, band := range bands {
			const x = refSize / 2
			d := DeltaE(previewed.NRGBAAt(x, band.SampleY), batched.NRGBAAt(x, band.SampleY))
			samples = append(samples, CalibrationSample{
				Preset:    p.ID,
				Intensity: intensity,
				Band:      band.Name,
				DeltaE:    d,
				Gated:     !band.Chromatic || exact,
			})
		}
	}
	return samples
}
