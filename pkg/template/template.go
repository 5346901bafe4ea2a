package template

import (
	"image/color"
	"strconv"
	"strings"
)

// Templates are static reference data: layout, style and footer descriptors
// consumed by id lookup. Nothing here is created or mutated at runtime.

// DesignWidth is the canvas width, in pixels, at which style units (gap,
// padding, radii, font sizes) are authored. Units scale proportionally to
// the requested output width.
const DesignWidth = 400.0

// DefaultFooterSize is the footer font size, in style units, used when a
// template leaves Footer.Size unset.
const DefaultFooterSize = 16.0

// ID identifies one of the known templates.
type ID string

// The closed set of template ids.
const (
	Classic2x2  ID = "classic-2x2"
	Strip1x4    ID = "strip-1x4"
	Strip1x3    ID = "strip-1x3"
	Rounded2x2  ID = "rounded-2x2"
	Polaroid1x1 ID = "polaroid-1x1"
)

// Layout describes the photo grid.
type Layout struct {
	Cols        int     `json:"cols"`
	Rows        int     `json:"rows"`
	Count       int     `json:"count"`
	AspectRatio float64 `json:"aspectRatio"` // canvas width / height
}

// Style describes colors and spacing, in style units.
type Style struct {
	BackgroundColor string  `json:"backgroundColor"`
	BorderColor     string  `json:"borderColor,omitempty"`
	BorderWidth     float64 `json:"borderWidth,omitempty"`
	Gap             float64 `json:"gap"`
	Padding         float64 `json:"padding"`
	PhotoRadius     float64 `json:"photoRadius,omitempty"`
}

// Footer describes the bottom text band. An empty Text disables the band.
type Footer struct {
	Text  string  `json:"text"`
	Font  string  `json:"font"`
	Color string  `json:"color"`
	Size  float64 `json:"size,omitempty"`
}

// Template is one static layout/style/footer descriptor.
type Template struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Layout   Layout `json:"layout"`
	Style    Style  `json:"style"`
	Footer   Footer `json:"footer"`
}

// FooterSize returns the footer font size in style units, applying the
// default when unset.
func (t Template) FooterSize() float64 {
	if t.Footer.Size > 0 {
		return t.Footer.Size
	}
	return DefaultFooterSize
}

// FooterBandUnits returns the footer band height in style units, zero when
// the template has no footer text.
func (t Template) FooterBandUnits() float64 {
	if t.Footer.Text == "" {
		return 0
	}
	return t.FooterSize() * 3
}

var catalog = []Template{
	{
		ID:       Classic2x2,
		Name:     "Classic",
		Category: "grid",
		Layout:   Layout{Cols: 2, Rows: 2, Count: 4, AspectRatio: 2.0 / 3.0},
		Style:    Style{BackgroundColor: "#ffffff", Gap: 10, Padding: 16},
		Footer:   Footer{Text: "OurBooth • 2025", Font: "sans", Color: "#333333", Size: 16},
	},
	{
		ID:       Strip1x4,
		Name:     "Photo Strip",
		Category: "strip",
		Layout:   Layout{Cols: 1, Rows: 4, Count: 4, AspectRatio: 1.0 / 3.0},
		Style:    Style{BackgroundColor: "#111111", Gap: 8, Padding: 12},
		Footer:   Footer{Text: "OurBooth", Font: "sans-bold", Color: "#f5f5f5", Size: 14},
	},
	{
		ID:       Strip1x3,
		Name:     "Mini Strip",
		Category: "strip",
		Layout:   Layout{Cols: 1, Rows: 3, Count: 3, AspectRatio: 0.4},
		Style:    Style{BackgroundColor: "#fdf6e3", Gap: 8, Padding: 12, PhotoRadius: 6},
		Footer:   Footer{}, // no footer band
	},
	{
		ID:       Rounded2x2,
		Name:     "Soft Square",
		Category: "grid",
		Layout:   Layout{Cols: 2, Rows: 2, Count: 4, AspectRatio: 2.0 / 3.0},
		// Gradient backgrounds are a preview-only affordance; the raster
		// path degrades them to solid white.
		Style:  Style{BackgroundColor: "linear-gradient(135deg, #fbc2eb, #a6c1ee)", Gap: 12, Padding: 20, PhotoRadius: 12},
		Footer: Footer{Text: "OurBooth • memories", Font: "italic", Color: "#6b5b95"},
	},
	{
		ID:       Polaroid1x1,
		Name:     "Polaroid",
		Category: "single",
		Layout:   Layout{Cols: 1, Rows: 1, Count: 1, AspectRatio: 4.0 / 5.0},
		Style:    Style{BackgroundColor: "#ffffff", BorderColor: "#e5e5e5", BorderWidth: 2, Gap: 0, Padding: 20, PhotoRadius: 4},
		Footer:   Footer{Text: "OurBooth", Font: "mono", Color: "#444444", Size: 18},
	},
}

// Catalog returns the static template list. The returned slice is shared;
// callers must not modify it.
func Catalog() []Template {
	return catalog
}

// Default returns the fallback template used for unknown ids.
func Default() Template {
	return catalog[0]
}

// Lookup resolves a template id, falling back to the default template.
// Unknown ids are an expected input, not an error.
func Lookup(id ID) Template {
	for _, t := range catalog {
		if t.ID == id {
			return t
		}
	}
	return Default()
}

// ParseHexColor parses #RGB and #RRGGBB color strings. Anything else,
// gradient expressions included, reports ok=false so callers can degrade
// to their documented fallback.
func ParseHexColor(s string) (color.NRGBA, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, false
	}
	hex := s[1:]

	switch len(hex) {
	case 3:
		var expanded strings.Builder
		for _, r := range hex {
			expanded.WriteRune(r)
			expanded.WriteRune(r)
		}
		hex = expanded.String()
	case 6:
	default:
		return color.NRGBA{}, false
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, true
}
