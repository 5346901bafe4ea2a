package composite

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ourbooth/booth/asset"
	"github.com/ourbooth/booth/pkg/filter"
	"github.com/ourbooth/booth/pkg/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver serves fixed images per sticker id, or an error.
type stubResolver struct {
	images map[string]image.Image
	errs   map[string]error
}

func (r *stubResolver) Resolve(_ context.Context, s Sticker) (image.Image, error) {
	if err, ok := r.errs[s.ID]; ok {
		return nil, err
	}
	if img, ok := r.images[s.ID]; ok {
		return img, nil
	}
	return nil, errors.New("no such sticker")
}

func newTestCompositor(resolver AssetResolver) *Compositor {
	return NewCompositor(NewProcessor(false, nil, 90), resolver, asset.NewManager())
}

func TestRenderClassicGrid(t *testing.T) {
	c := newTestCompositor(nil)

	colors := []color.NRGBA{
		{R: 220, G: 40, B: 40, A: 255},
		{R: 40, G: 220, B: 40, A: 255},
		{R: 40, G: 40, B: 220, A: 255},
		{R: 220, G: 220, B: 40, A: 255},
	}
	photos := make([]string, 4)
	for i, cc := range colors {
		photos[i] = pngPayload(t, solidImage(cc, 120, 180))
	}

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     photos,
		Width:      400,
	})

	require.NoError(t, err)
	assert.Equal(t, 400, res.Width)
	assert.Equal(t, 600, res.Height)
	require.Equal(t, image.Rect(0, 0, 400, 600), res.Image.Bounds())

	tpl := template.Lookup(template.Classic2x2)
	geo := ComputeGeometry(tpl, 400)
	for i, want := range colors {
		origin := geo.CellOrigin(tpl, i)
		got := res.Image.NRGBAAt(origin.X+geo.CellWidth/2, origin.Y+geo.CellHeight/2)
		assert.InDelta(t, int(want.R), int(got.R), 3, "cell %d red", i)
		assert.InDelta(t, int(want.G), int(got.G), 3, "cell %d green", i)
		assert.InDelta(t, int(want.B), int(got.B), 3, "cell %d blue", i)
	}

	// The divider line sits at the top of the footer band over a white
	// background, so that row is no longer pure white.
	bandTop := res.Height - geo.FooterHeight
	divider := res.Image.NRGBAAt(200, bandTop)
	assert.Less(t, int(divider.R), 255, "footer band rendered")
}

func TestRenderEmptySlotsKeepBackground(t *testing.T) {
	c := newTestCompositor(nil)

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     []string{pngPayload(t, solidImage(color.NRGBA{R: 10, G: 10, B: 10, A: 255}, 60, 90)), "", "", ""},
		Width:      400,
	})

	require.NoError(t, err)

	tpl := template.Lookup(template.Classic2x2)
	geo := ComputeGeometry(tpl, 400)
	empty := geo.CellOrigin(tpl, 3)
	got := res.Image.NRGBAAt(empty.X+geo.CellWidth/2, empty.Y+geo.CellHeight/2)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, got, "empty slot shows background")
}

func TestRenderSkipsCorruptPhoto(t *testing.T) {
	c := newTestCompositor(nil)

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos: []string{
			pngPayload(t, solidImage(color.NRGBA{R: 10, G: 10, B: 10, A: 255}, 60, 90)),
			"data:image/png;base64,not-valid-base64!",
			"", "",
		},
		Width: 400,
	})

	require.NoError(t, err, "one bad photo never fails the composite")
	assert.NotNil(t, res.Image)
}

func TestRenderGradientBackgroundDegradesToWhite(t *testing.T) {
	c := newTestCompositor(nil)

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Rounded2x2,
		Photos:     []string{"", "", "", ""},
		Width:      400,
	})

	require.NoError(t, err)
	got := res.Image.NRGBAAt(2, 2)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, got)
}

func TestRenderRoundedPhotoCorners(t *testing.T) {
	c := newTestCompositor(nil)

	photo := pngPayload(t, solidImage(color.NRGBA{R: 200, G: 30, B: 30, A: 255}, 120, 180))
	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Rounded2x2,
		Photos:     []string{photo, "", "", ""},
		Width:      400,
	})

	require.NoError(t, err)

	tpl := template.Lookup(template.Rounded2x2)
	geo := ComputeGeometry(tpl, 400)
	origin := geo.CellOrigin(tpl, 0)

	corner := res.Image.NRGBAAt(origin.X, origin.Y)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, corner, "masked corner shows background")

	center := res.Image.NRGBAAt(origin.X+geo.CellWidth/2, origin.Y+geo.CellHeight/2)
	assert.InDelta(t, 200, int(center.R), 3)
	assert.InDelta(t, 30, int(center.G), 3)
}

func TestRenderPolaroidBorder(t *testing.T) {
	c := newTestCompositor(nil)

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Polaroid1x1,
		Photos:     []string{""},
		Width:      400,
	})

	require.NoError(t, err)
	assert.Equal(t, 500, res.Height)

	border := color.NRGBA{R: 229, G: 229, B: 229, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	assert.Equal(t, border, res.Image.NRGBAAt(0, 0), "top left frame")
	assert.Equal(t, border, res.Image.NRGBAAt(399, 499), "bottom right frame")
	assert.Equal(t, border, res.Image.NRGBAAt(1, 250), "left edge frame")
	assert.Equal(t, white, res.Image.NRGBAAt(10, 10), "background inside the frame")
}

func TestRenderStickerCenteredPlacement(t *testing.T) {
	red := solidImage(color.NRGBA{R: 255, A: 255}, 32, 32)
	c := newTestCompositor(&stubResolver{images: map[string]image.Image{"s1": red}})

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     []string{"", "", "", ""},
		Stickers:   []Sticker{{ID: "s1", Type: StickerEmoji, Emoji: "\U0001F600", X: 50, Y: 50, Scale: 1}},
		Width:      400,
	})

	require.NoError(t, err)

	// Base size is 15% of a 400px canvas: a 60px box centered at (200,300).
	center := res.Image.NRGBAAt(200, 300)
	assert.Equal(t, uint8(255), center.R)
	assert.Less(t, int(center.G), 10)

	outsideLeft := res.Image.NRGBAAt(168, 300)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, outsideLeft, "pixel left of the sticker box untouched")
}

func TestRenderStickerClampedInsideCanvas(t *testing.T) {
	red := solidImage(color.NRGBA{R: 255, A: 255}, 32, 32)
	c := newTestCompositor(&stubResolver{images: map[string]image.Image{"s1": red}})

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     []string{"", "", "", ""},
		Stickers:   []Sticker{{ID: "s1", Type: StickerEmoji, Emoji: "\U0001F600", X: 0, Y: 0, Scale: 1}},
		Width:      400,
	})

	require.NoError(t, err)
	corner := res.Image.NRGBAAt(1, 1)
	assert.Equal(t, uint8(255), corner.R, "sticker box pulled fully inside the canvas")
}

func TestRenderOneFailingStickerOfThree(t *testing.T) {
	red := solidImage(color.NRGBA{R: 255, A: 255}, 32, 32)
	blue := solidImage(color.NRGBA{B: 255, A: 255}, 32, 32)
	c := newTestCompositor(&stubResolver{
		images: map[string]image.Image{"ok1": red, "ok2": blue},
		errs:   map[string]error{"bad": errors.New("connection refused")},
	})

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     []string{"", "", "", ""},
		Stickers: []Sticker{
			{ID: "ok1", Type: StickerEmoji, Emoji: "\U0001F600", X: 25, Y: 25, Scale: 1},
			{ID: "bad", Type: StickerEmoji, Emoji: "\U0001F4A5", X: 50, Y: 50, Scale: 1},
			{ID: "ok2", Type: StickerEmoji, Emoji: "\U0001F389", X: 75, Y: 75, Scale: 1},
		},
		Width: 400,
	})

	require.NoError(t, err, "one failed sticker never fails the composite")
	assert.Equal(t, uint8(255), res.Image.NRGBAAt(100, 150).R, "first sticker rendered")
	assert.Equal(t, uint8(255), res.Image.NRGBAAt(300, 450).B, "third sticker rendered")

	middle := res.Image.NRGBAAt(200, 300)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, middle, "failed sticker left no mark")
}

func TestRenderUnknownTemplateFallsBack(t *testing.T) {
	c := newTestCompositor(nil)

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.ID("does-not-exist"),
		Photos:     []string{"", "", "", ""},
		Width:      400,
	})

	require.NoError(t, err)
	def := ComputeGeometry(template.Default(), 400)
	assert.Equal(t, def.Height, res.Height)
}

func TestRenderAppliesFilterToPhotosOnly(t *testing.T) {
	c := newTestCompositor(nil)

	gray := pngPayload(t, solidImage(color.NRGBA{R: 200, G: 60, B: 60, A: 255}, 120, 180))
	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     []string{gray, "", "", ""},
		Filter:     &FilterSelection{Preset: filter.PresetSilver, Intensity: 100},
		Width:      400,
	})

	require.NoError(t, err)

	tpl := template.Lookup(template.Classic2x2)
	geo := ComputeGeometry(tpl, 400)
	origin := geo.CellOrigin(tpl, 0)
	got := res.Image.NRGBAAt(origin.X+geo.CellWidth/2, origin.Y+geo.CellHeight/2)
	assert.InDelta(t, int(got.R), int(got.G), 2, "fully desaturated photo is neutral")
	assert.InDelta(t, int(got.G), int(got.B), 2)

	// Background and footer stay filter-free.
	bg := res.Image.NRGBAAt(2, 2)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, bg)
}

func TestRenderDefaultWidth(t *testing.T) {
	c := newTestCompositor(nil)

	res, err := c.Render(context.Background(), Request{
		TemplateID: template.Classic2x2,
		Photos:     []string{"", "", "", ""},
	})

	require.NoError(t, err)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 1200, res.Height)
}
