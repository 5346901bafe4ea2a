package composite

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/ourbooth/booth/asset"
	"github.com/ourbooth/booth/config"
	"github.com/ourbooth/booth/pkg/filter"
	"github.com/ourbooth/booth/pkg/template"
	"github.com/ourbooth/booth/util/log"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"
)

// Concurrency limit for per-item photo and sticker work inside one render.
const renderWorkLimit = 4

// FilterSelection names a preset and a strength for a render request.
type FilterSelection struct {
	Preset    filter.PresetID `json:"preset"`
	Intensity float64         `json:"intensity"`
}

// Request is one ephemeral composite job: ordered photo payloads (empty
// string marks an empty slot), a template id, stickers and an optional
// filter. Consumed once.
type Request struct {
	TemplateID template.ID      `json:"templateId"`
	Photos     []string         `json:"photos"`
	Stickers   []Sticker        `json:"stickers"`
	Filter     *FilterSelection `json:"filter,omitempty"`
	Width      int              `json:"width"`
}

// Result is the rendered canvas plus the sizing metadata callers need.
type Result struct {
	Image  *image.NRGBA
	Width  int
	Height int
}

// Compositor layers background, photos, footer and stickers into one
// raster. It is a pure function of its request plus the static catalogs;
// concurrent renders share no mutable state.
type Compositor struct {
	processor *Processor
	resolver  AssetResolver
	fonts     *asset.Manager
}

// NewCompositor wires a compositor from its collaborators.
func NewCompositor(processor *Processor, resolver AssetResolver, fonts *asset.Manager) *Compositor {
	return &Compositor{
		processor: processor,
		resolver:  resolver,
		fonts:     fonts,
	}
}

// Processor exposes the compositor's image processor for callers that
// encode its output.
func (c *Compositor) Processor() *Processor {
	return c.processor
}

// Render runs the full pipeline: template resolution, geometry, background
// and border, photo cells, footer, stickers. Individual bad photos and stickers are
// skipped; filter failures and context cancellation abort the render.
func (c *Compositor) Render(ctx context.Context, req Request) (*Result, error) {
	tpl := template.Lookup(req.TemplateID)

	width := req.Width
	if width <= 0 {
		width = config.DefaultRenderWidth
	}
	geo := ComputeGeometry(tpl, width)

	canvas := image.NewNRGBA(image.Rect(0, 0, geo.Width, geo.Height))
	fillBackground(canvas, tpl)
	drawBorder(canvas, tpl, geo)

	cells, err := c.prepareCells(ctx, tpl, geo, req)
	if err != nil {
		return nil, err
	}
	for i, cell := range cells {
		if cell == nil {
			continue
		}
		origin := geo.CellOrigin(tpl, i)
		cb := cell.Bounds()
		draw.Draw(canvas, image.Rect(origin.X, origin.Y, origin.X+cb.Dx(), origin.Y+cb.Dy()), cell, cb.Min, draw.Over)
	}

	if tpl.Footer.Text != "" {
		if err := c.drawFooter(canvas, tpl, geo); err != nil {
			log.Printf("Footer rendering failed: %v", err)
		}
	}

	overlays := c.resolveStickers(ctx, req.Stickers)
	if err := c.placeStickers(ctx, canvas, geo, req.Stickers, overlays); err != nil {
		return nil, err
	}

	return &Result{Image: canvas, Width: geo.Width, Height: geo.Height}, nil
}

// fillBackground paints the template background. Values that are not plain
// hex colors (gradients) degrade to solid white in this raster path.
func fillBackground(canvas *image.NRGBA, tpl template.Template) {
	bg, ok := template.ParseHexColor(tpl.Style.BackgroundColor)
	if !ok {
		bg = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// drawBorder frames the canvas edge when the template styles one. The
// border width is authored in style units and scales with the output.
func drawBorder(canvas *image.NRGBA, tpl template.Template, geo Geometry) {
	if tpl.Style.BorderWidth <= 0 {
		return
	}
	bc, ok := template.ParseHexColor(tpl.Style.BorderColor)
	if !ok {
		return
	}
	w := int(math.Max(1, math.Round(tpl.Style.BorderWidth*geo.Scale)))
	src := image.NewUniform(bc)
	b := canvas.Bounds()
	draw.Draw(canvas, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+w), src, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(b.Min.X, b.Max.Y-w, b.Max.X, b.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(b.Max.X-w, b.Min.Y, b.Max.X, b.Max.Y), src, image.Point{}, draw.Src)
}

// prepareCells decodes, filters and fits each occupied photo slot in
// parallel, returning one fitted image per slot (nil for empty or
// undecodable slots). A filter failure aborts the whole render.
func (c *Compositor) prepareCells(ctx context.Context, tpl template.Template, geo Geometry, req Request) ([]image.Image, error) {
	count := tpl.Layout.Count
	if len(req.Photos) < count {
		count = len(req.Photos)
	}
	cells := make([]image.Image, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkLimit)

	for i := 0; i < count; i++ {
		if req.Photos[i] == "" {
			continue
		}
		i := i
		g.Go(func() error {
			img, err := c.processor.DecodePayload(ctx, req.Photos[i])
			if err != nil {
				log.Printf("Skipping photo slot %d: %v", i, err)
				return nil
			}

			if req.Filter != nil && req.Filter.Intensity > 0 {
				preset := filter.Lookup(req.Filter.Preset)
				img, err = filter.ApplyToImage(img, preset.Params, req.Filter.Intensity)
				if err != nil {
					return err
				}
			}

			fitted, err := c.processor.CoverFit(ctx, img, geo.CellWidth, geo.CellHeight)
			if err != nil {
				log.Printf("Skipping photo slot %d: %v", i, err)
				return nil
			}
			if geo.PhotoRadius > 0 {
				fitted = ApplyRoundedCorners(fitted, geo.PhotoRadius)
			}
			cells[i] = fitted
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

// drawFooter renders the divider line and centered footer text in the
// bottom band.
func (c *Compositor) drawFooter(canvas *image.NRGBA, tpl template.Template, geo Geometry) error {
	fg, ok := template.ParseHexColor(tpl.Footer.Color)
	if !ok {
		fg = color.NRGBA{R: 51, G: 51, B: 51, A: 255}
	}

	bandTop := geo.Height - geo.FooterHeight
	inset := int(math.Round(geo.Padding))
	divider := color.NRGBA{R: fg.R, G: fg.G, B: fg.B, A: 64}
	lineH := int(math.Max(1, math.Round(geo.Scale)))
	draw.Draw(canvas, image.Rect(inset, bandTop, geo.Width-inset, bandTop+lineH), image.NewUniform(divider), image.Point{}, draw.Over)

	face, err := c.fonts.GetFace(tpl.Footer.Font, tpl.FooterSize()*geo.Scale)
	if err != nil {
		return fmt.Errorf("loading footer face: %w", err)
	}

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	adv := d.MeasureString(tpl.Footer.Text)
	x := (fixed.I(geo.Width) - adv) / 2
	metrics := face.Metrics()
	centerY := fixed.I(bandTop + geo.FooterHeight/2)
	baseline := centerY + (metrics.Ascent-metrics.Descent)/2

	d.Dot = fixed.Point26_6{X: x, Y: baseline}
	d.DrawString(tpl.Footer.Text)
	return nil
}

// resolveStickers fetches and decodes sticker assets in parallel. A failed
// sticker logs and yields a nil slot so the others still render.
func (c *Compositor) resolveStickers(ctx context.Context, stickers []Sticker) []image.Image {
	overlays := make([]image.Image, len(stickers))
	if len(stickers) == 0 || c.resolver == nil {
		return overlays
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, renderWorkLimit)
	for i, s := range stickers {
		wg.Add(1)
		go func(i int, s Sticker) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			img, err := c.resolver.Resolve(ctx, s)
			if err != nil {
				log.Printf("Skipping sticker %s: %v", s.ID, err)
				return
			}
			overlays[i] = img
		}(i, s)
	}
	wg.Wait()
	return overlays
}

// placeStickers sizes each resolved overlay and draws it centered at the
// sticker's percentage coordinates, clamped fully inside the canvas.
func (c *Compositor) placeStickers(ctx context.Context, canvas *image.NRGBA, geo Geometry, stickers []Sticker, overlays []image.Image) error {
	base := BaseStickerFraction * float64(geo.Width)

	for i, s := range stickers {
		src := overlays[i]
		if src == nil {
			continue
		}

		size := int(math.Round(base * s.ClampedScale()))
		if size < 1 {
			size = 1
		}
		fitted, err := c.processor.ContainFit(ctx, src, size, size)
		if err != nil {
			log.Printf("Skipping sticker %s: %v", s.ID, err)
			continue
		}

		cx := s.X / 100 * float64(geo.Width)
		cy := s.Y / 100 * float64(geo.Height)
		x0 := clampInt(int(math.Round(cx-float64(size)/2)), 0, geo.Width-size)
		y0 := clampInt(int(math.Round(cy-float64(size)/2)), 0, geo.Height-size)

		fb := fitted.Bounds()
		draw.Draw(canvas, image.Rect(x0, y0, x0+size, y0+size), fitted, fb.Min, draw.Over)
	}
	return checkContext(ctx)
}
