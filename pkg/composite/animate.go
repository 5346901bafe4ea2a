package composite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/ourbooth/booth/pkg/filter"
	"github.com/ourbooth/booth/util/log"
	"golang.org/x/sync/errgroup"
)

// ErrNoFrames is returned when an animation request yields no usable
// frames. Unlike the compositor, an animation cannot degrade to a
// background-only output.
var ErrNoFrames = errors.New("animation requires at least one valid frame")

// DefaultFrameDelayMS is the per-frame delay when the caller passes none.
const DefaultFrameDelayMS = 500

// FrameEncoder writes an ordered frame sequence as an animated image.
// Frames are full opaque snapshots; encoders must not assume inter-frame
// deltas.
type FrameEncoder interface {
	Encode(w io.Writer, frames []*image.NRGBA, delayMS int) error
}

// GIFEncoder encodes frames as an infinitely-looping animated GIF.
type GIFEncoder struct{}

// Encode quantizes each frame and writes the GIF. Delay is converted from
// milliseconds to the format's centisecond units.
func (GIFEncoder) Encode(w io.Writer, frames []*image.NRGBA, delayMS int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if delayMS <= 0 {
		delayMS = DefaultFrameDelayMS
	}

	out := &gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		paletted := image.NewPaletted(frame.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, frame.Bounds(), frame, frame.Bounds().Min)
		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, delayMS/10)
		out.Disposal = append(out.Disposal, gif.DisposalNone)
	}

	if err := gif.EncodeAll(w, out); err != nil {
		return fmt.Errorf("encoding gif: %w", err)
	}
	return nil
}

// Assembler turns an ordered list of photo payloads into an animated
// sequence: each frame is cover-fit to the target canvas and filtered
// independently, then handed to the frame encoder.
type Assembler struct {
	processor *Processor
	encoder   FrameEncoder
}

// NewAssembler wires an assembler. A nil encoder defaults to GIF output.
func NewAssembler(processor *Processor, encoder FrameEncoder) *Assembler {
	if encoder == nil {
		encoder = GIFEncoder{}
	}
	return &Assembler{processor: processor, encoder: encoder}
}

// Assemble renders the animation and returns the encoded bytes. Frame
// order follows payload order exactly; undecodable payloads are skipped.
// Zero usable frames is a fatal error.
func (a *Assembler) Assemble(ctx context.Context, payloads []string, width, height int, sel *FilterSelection, delayMS int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	frames := make([]*image.NRGBA, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkLimit)
	for i, payload := range payloads {
		if payload == "" {
			continue
		}
		i, payload := i, payload
		g.Go(func() error {
			frame, err := a.renderFrame(gctx, payload, width, height, sel)
			if err != nil {
				if errors.Is(err, filter.ErrApply) || gctx.Err() != nil {
					return err
				}
				log.Printf("Skipping frame %d: %v", i, err)
				return nil
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ordered := make([]*image.NRGBA, 0, len(frames))
	for _, f := range frames {
		if f != nil {
			ordered = append(ordered, f)
		}
	}
	if len(ordered) == 0 {
		return nil, ErrNoFrames
	}

	var buf bytes.Buffer
	if err := a.encoder.Encode(&buf, ordered, delayMS); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *Assembler) renderFrame(ctx context.Context, payload string, width, height int, sel *FilterSelection) (*image.NRGBA, error) {
	img, err := a.processor.DecodePayload(ctx, payload)
	if err != nil {
		return nil, err
	}

	if sel != nil && sel.Intensity > 0 {
		preset := filter.Lookup(sel.Preset)
		img, err = filter.ApplyToImage(img, preset.Params, sel.Intensity)
		if err != nil {
			return nil, err
		}
	}

	fitted, err := a.processor.CoverFit(ctx, img, width, height)
	if err != nil {
		return nil, err
	}
	return toNRGBA(fitted), nil
}
