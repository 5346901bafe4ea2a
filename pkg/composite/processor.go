package composite

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
	"github.com/ourbooth/booth/util/log"

	// Decode-by-content support for photo payloads beyond the stdlib set.
	_ "golang.org/x/image/webp"
)

// Processor performs the per-image raster operations the compositor needs:
// payload decoding, cover/contain fitting, corner masking and encoding.
type Processor struct {
	resampler imaging.ResampleFilter
	smartCrop bool
	faces     *FaceFinder
	quality   int
}

// NewProcessor builds a processor. faces may be nil, in which case cover
// fitting never anchors on detected faces. quality applies to JPEG output.
func NewProcessor(smartCrop bool, faces *FaceFinder, quality int) *Processor {
	return &Processor{
		resampler: imaging.Lanczos,
		smartCrop: smartCrop,
		faces:     faces,
		quality:   quality,
	}
}

// DecodePayload decodes a photo payload into an image. Payloads commonly
// arrive as base64 data URLs; the wrapper is stripped and the bytes decoded
// by content, ignoring the declared MIME type.
func (p *Processor) DecodePayload(ctx context.Context, payload string) (image.Image, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	raw := payload
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		raw = raw[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return img, nil
}

// EncodeImage encodes an image to PNG or JPEG bytes.
func (p *Processor) EncodeImage(ctx context.Context, img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	switch contentType {
	case "image/png":
		err = png.Encode(&buf, img)
	case "image/jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality})
	default:
		return nil, fmt.Errorf("unsupported format: %s", contentType)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CoverFit resizes and crops img to exactly fill width x height, preserving
// aspect ratio. The crop window is centered by default; when enabled, smart
// cropping or a detected face shifts the anchor toward the interesting part
// of the photo.
func (p *Processor) CoverFit(ctx context.Context, img image.Image, width, height int) (image.Image, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid cover target %dx%d", width, height)
	}

	if p.faces != nil {
		if anchor, ok := p.faces.bestFaceAnchor(img); ok {
			return p.coverAround(ctx, img, width, height, anchor)
		}
	}

	if p.smartCrop {
		fitted, err := p.smartCoverFit(ctx, img, width, height)
		if err == nil {
			return fitted, nil
		}
		log.Printf("Smart crop failed, using centered crop: %v", err)
	}

	fitted := imaging.Fill(img, width, height, imaging.Center, p.resampler)
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return fitted, nil
}

// smartCoverFit uses content-aware cropping to pick the crop window, then
// resizes to the exact target. FindBestCrop has no context support, so it
// runs on a goroutine with cancellation handled on the select.
func (p *Processor) smartCoverFit(ctx context.Context, img image.Image, width, height int) (image.Image, error) {
	r := &resizer{resampler: p.resampler}
	analyzer := smartcrop.NewAnalyzer(r)

	type cropResult struct {
		crop image.Rectangle
		err  error
	}
	resultChan := make(chan cropResult, 1)

	go func() {
		topCrop, err := analyzer.FindBestCrop(img, width, height)
		resultChan <- cropResult{crop: topCrop, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return nil, fmt.Errorf("finding best crop: %w", result.err)
		}

		type subImager interface {
			SubImage(r image.Rectangle) image.Image
		}
		si, ok := img.(subImager)
		if !ok {
			return nil, fmt.Errorf("image type %T does not support sub-imaging", img)
		}

		resized := r.resizeWithContext(ctx, si.SubImage(result.crop), width, height)
		if resized == nil {
			return nil, ctx.Err()
		}
		return resized, nil
	}
}

// coverAround crops around an anchor point instead of the image center,
// clamping the window to the source bounds.
func (p *Processor) coverAround(ctx context.Context, img image.Image, width, height int, anchor image.Point) (image.Image, error) {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()

	scale := maxFloat(float64(width)/float64(srcW), float64(height)/float64(srcH))
	cropW := int(float64(width) / scale)
	cropH := int(float64(height) / scale)

	x0 := clampInt(anchor.X-cropW/2, b.Min.X, b.Max.X-cropW)
	y0 := clampInt(anchor.Y-cropH/2, b.Min.Y, b.Max.Y-cropH)
	window := image.Rect(x0, y0, x0+cropW, y0+cropH)

	cropped := imaging.Crop(img, window)
	fitted := imaging.Resize(cropped, width, height, p.resampler)
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return fitted, nil
}

// ContainFit scales img to fit entirely within width x height (up or down,
// preserving aspect ratio), padding the remainder transparently so the
// result is exactly the target size.
func (p *Processor) ContainFit(ctx context.Context, img image.Image, width, height int) (image.Image, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid contain target %dx%d", width, height)
	}

	b := img.Bounds()
	scale := minFloat(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	dstW := maxInt(1, int(math.Round(float64(b.Dx())*scale)))
	dstH := maxInt(1, int(math.Round(float64(b.Dy())*scale)))
	fitted := imaging.Resize(img, dstW, dstH, p.resampler)

	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	fb := fitted.Bounds()
	offset := image.Pt((width-fb.Dx())/2, (height-fb.Dy())/2)
	draw.Draw(canvas, fb.Add(offset).Sub(fb.Min), fitted, fb.Min, draw.Over)

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return canvas, nil
}

// ApplyRoundedCorners returns a copy of img with corners outside a rounded
// rectangle of the given radius made fully transparent.
func ApplyRoundedCorners(img image.Image, radius float64) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	if radius <= 0 {
		return out
	}
	maxRadius := float64(minInt(w, h)) / 2
	if radius > maxRadius {
		radius = maxRadius
	}

	// Only corner squares need testing, the rest of the image is untouched.
	r := int(radius + 1)
	corners := []struct {
		x0, y0 int // corner square origin
		cx, cy float64
	}{
		{0, 0, radius, radius},
		{w - r, 0, float64(w) - radius, radius},
		{0, h - r, radius, float64(h) - radius},
		{w - r, h - r, float64(w) - radius, float64(h) - radius},
	}

	for _, c := range corners {
		for y := c.y0; y < c.y0+r; y++ {
			for x := c.x0; x < c.x0+r; x++ {
				if x < 0 || y < 0 || x >= w || y >= h {
					continue
				}
				dx := float64(x) + 0.5 - c.cx
				dy := float64(y) + 0.5 - c.cy
				if dx*dx+dy*dy > radius*radius {
					out.SetNRGBA(x, y, color.NRGBA{})
				}
			}
		}
	}
	return out
}

// resizer adapts imaging.Resize to the smartcrop.Resizer interface and adds
// a context-aware variant. Resize itself cannot take a context because the
// interface does not support one.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

func (r *resizer) resizeWithContext(ctx context.Context, img image.Image, width, height int) image.Image {
	resultChan := make(chan image.Image, 1)

	go func() {
		resultChan <- imaging.Resize(img, width, height, r.resampler)
	}()

	select {
	case <-ctx.Done():
		return nil
	case result := <-resultChan:
		return result
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
