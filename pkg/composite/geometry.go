package composite

import (
	"image"
	"math"

	"github.com/ourbooth/booth/pkg/template"
)

// Geometry is the resolved pixel layout for one composite: canvas size,
// style-unit scale and the photo grid metrics.
type Geometry struct {
	Width  int
	Height int

	// Scale converts style units into pixels for this canvas width.
	Scale float64

	Padding      float64
	Gap          float64
	FooterHeight int

	CellWidth  int
	CellHeight int

	PhotoRadius float64
}

// ComputeGeometry derives the pixel layout for a template at the target
// width. Height follows the template aspect ratio; spacing values scale
// proportionally from style units.
func ComputeGeometry(tpl template.Template, width int) Geometry {
	height := int(math.Round(float64(width) / tpl.Layout.AspectRatio))
	scale := float64(width) / template.DesignWidth

	padding := tpl.Style.Padding * scale
	gap := tpl.Style.Gap * scale
	footerHeight := int(math.Round(tpl.FooterBandUnits() * scale))

	cols := tpl.Layout.Cols
	rows := tpl.Layout.Rows

	gridW := float64(width) - 2*padding - float64(cols-1)*gap
	gridH := float64(height-footerHeight) - 2*padding - float64(rows-1)*gap

	cellW := int(math.Floor(gridW / float64(cols)))
	cellH := int(math.Floor(gridH / float64(rows)))
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	return Geometry{
		Width:        width,
		Height:       height,
		Scale:        scale,
		Padding:      padding,
		Gap:          gap,
		FooterHeight: footerHeight,
		CellWidth:    cellW,
		CellHeight:   cellH,
		PhotoRadius:  tpl.Style.PhotoRadius * scale,
	}
}

// CellOrigin returns the top-left pixel of the photo cell at slot index,
// laid out row-major.
func (g Geometry) CellOrigin(tpl template.Template, index int) image.Point {
	col := index % tpl.Layout.Cols
	row := index / tpl.Layout.Cols
	x := g.Padding + float64(col)*(float64(g.CellWidth)+g.Gap)
	y := g.Padding + float64(row)*(float64(g.CellHeight)+g.Gap)
	return image.Pt(int(math.Round(x)), int(math.Round(y)))
}
