package filter

import (
	"errors"
	"image"

	"github.com/disintegration/gift"
	"github.com/ourbooth/booth/util/log"
)

// ErrApply is the only filter error surfaced to callers. Technical detail is
// logged, never returned.
var ErrApply = errors.New("filter could not be applied")

// previewPipeline builds the pixel pipeline equivalent to a preview
// descriptor: one clamped color stage per operation, in descriptor order.
func previewPipeline(d PreviewDescriptor) *gift.GIFT {
	g := gift.New()
	for _, op := range d.Ops {
		g.Add(previewStage(op))
	}
	return g
}

func previewStage(op PreviewOp) gift.Filter {
	v := op.Value
	switch op.Name {
	case OpGrayscale:
		return gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			r, g, b := grayscaleRGB(r0, g0, b0, v/100)
			return clamp01(r), clamp01(g), clamp01(b), a0
		})
	case OpSepia:
		return gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			r, g, b := sepiaRGB(r0, g0, b0, v/100)
			return clamp01(r), clamp01(g), clamp01(b), a0
		})
	case OpSaturate:
		return gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			r, g, b := saturateRGB(r0, g0, b0, v/100)
			return clamp01(r), clamp01(g), clamp01(b), a0
		})
	case OpBrightness:
		f := float32(v / 100)
		return gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			return clamp01(r0 * f), clamp01(g0 * f), clamp01(b0 * f), a0
		})
	default: // OpContrast
		f := float32(v / 100)
		return gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			return clamp01((r0-0.5)*f + 0.5), clamp01((g0-0.5)*f + 0.5), clamp01((b0-0.5)*f + 0.5), a0
		})
	}
}

// batchPipeline builds the pixel pipeline for batch modifiers: a combined
// saturation+brightness modulation followed by the linear contrast remap.
func batchPipeline(m BatchModifiers) *gift.GIFT {
	g := gift.New()

	if m.Saturation != BaselineNeutral || m.Brightness != BaselineNeutral {
		sat := m.Saturation / 100
		bright := float32(m.Brightness / 100)
		g.Add(gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			r, gr, b := saturateRGB(r0, g0, b0, sat)
			r, gr, b = clamp01(r), clamp01(gr), clamp01(b)
			return clamp01(r * bright), clamp01(gr * bright), clamp01(b * bright), a0
		}))
	}

	if m.ContrastLow != nil && m.ContrastHigh != nil {
		// output = slope*input + low, with [low, high] mapped onto [0,255].
		slope := float32((*m.ContrastHigh - *m.ContrastLow) / 255)
		offset := float32(*m.ContrastLow / 255)
		g.Add(gift.ColorFunc(func(r0, g0, b0, a0 float32) (float32, float32, float32, float32) {
			return clamp01(r0*slope + offset), clamp01(g0*slope + offset), clamp01(b0*slope + offset), a0
		}))
	}

	return g
}

// RenderPreview applies a preview descriptor to an image. This is the
// reference implementation of what a live-rendering surface does with the
// descriptor; the compositor itself uses the batch path.
func RenderPreview(img image.Image, d PreviewDescriptor) *image.NRGBA {
	return renderPipeline(img, previewPipeline(d))
}

// Apply applies batch modifiers to an image.
func Apply(img image.Image, m BatchModifiers) *image.NRGBA {
	return renderPipeline(img, batchPipeline(m))
}

func renderPipeline(img image.Image, g *gift.GIFT) *image.NRGBA {
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// ApplyToImage applies a preset's parameters at the given intensity to a
// single decoded image. At intensity zero (or below) the input is returned
// unchanged. Any processing failure surfaces as ErrApply with detail logged.
func ApplyToImage(img image.Image, p Parameters, intensity float64) (image.Image, error) {
	if img == nil {
		log.Printf("Filter apply failed: nil image (params=%+v intensity=%v)", p, intensity)
		return nil, ErrApply
	}
	if intensity <= 0 {
		return img, nil
	}

	m := ProjectBatch(p, intensity)
	if m.IsIdentity() {
		return img, nil
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		log.Printf("Filter apply failed: empty bounds %v (params=%+v intensity=%v)", b, p, intensity)
		return nil, ErrApply
	}

	return Apply(img, m), nil
}
