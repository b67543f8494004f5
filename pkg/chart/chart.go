// Package chart describes a layered embedding scatter plot.
//
// A Chart is a mutable, layer-accumulating description: the pipeline
// appends layers and binds scales, and a renderer (pkg/render) turns
// the finished description into an image. Nothing here draws pixels.
package chart

import (
	"image/color"

	"github.com/aclements/go-gg/table"

	"github.com/scviz/dimplot/pkg/colormap"
	"github.com/scviz/dimplot/pkg/engine"
)

// Shape is a point glyph code.
type Shape int

// Available point glyphs.
const (
	Circle Shape = iota
	Square
	Triangle
	Diamond
	TriangleDown
	Cross
)

// DefaultShapes is the glyph cycle used when the caller supplies none.
func DefaultShapes() []Shape {
	return []Shape{Circle, Square, Triangle, Diamond, TriangleDown, Cross}
}

// Chart is a layered scatter chart over a joined data table.
//
// PointFill and EllipseFill are independent scale namespaces: the
// ellipse layer's fill never shares a legend or a palette with the
// point layer's fill.
type Chart struct {
	// Data is the joined table all layer columns refer to.
	Data *table.Table

	// Layers are drawn in order: earlier layers render underneath.
	Layers []Layer

	// PointFill scales the point layer's fill variable.
	PointFill FillScale

	// PointShape scales the point layer's shape variable, when one
	// was requested.
	PointShape *ShapeScale

	// EllipseFill scales the ellipse layer's group variable, when an
	// ellipse layer is present.
	EllipseFill *DiscreteFill

	// Title is drawn centered above the plot when non-empty.
	Title string

	// Style is the final deterministic styling step, independent of
	// which layers were built.
	Style Style
}

// Add appends layers to the chart.
func (c *Chart) Add(layers ...Layer) *Chart {
	c.Layers = append(c.Layers, layers...)
	return c
}

// Layer is one drawable stratum of the chart.
type Layer interface {
	isLayer()
}

// PointLayer draws one marker per data row.
type PointLayer struct {
	// X and Y name float64 coordinate columns.
	X, Y string

	// Fill names the column scaled by the chart's PointFill.
	Fill string

	// Shape names the column scaled by the chart's PointShape. When
	// empty, every marker uses FixedShape.
	Shape string

	// FixedShape is the glyph used when Shape is empty.
	FixedShape Shape
}

func (PointLayer) isLayer() {}

// EllipseLayer draws one filled covariance ellipse per group.
type EllipseLayer struct {
	X, Y string

	// Group names the column whose distinct values define the
	// ellipse groups.
	Group string

	// Level is the normal-theory coverage level, e.g. 0.95.
	Level float64

	// Alpha is the fill opacity in [0, 1].
	Alpha float64
}

func (EllipseLayer) isLayer() {}

// LabelLayer draws text centered on each marker.
type LabelLayer struct {
	X, Y string

	// Values holds one label per data row, in row order.
	Values []string

	// Size is the font size in points.
	Size float64
}

func (LabelLayer) isLayer() {}

// TagLayer draws repelled name tags with leader lines. Tag positions
// are computed at render time by the Repel engine.
type TagLayer struct {
	X, Y string

	// Values holds one tag per data row, in row order.
	Values []string

	// Size is the font size in points.
	Size float64

	// MinSegLen is the displacement, in text-line units, beyond
	// which a leader line is drawn from tag to anchor.
	MinSegLen float64

	// BoxPad is the padding, in text-line units, added around each
	// tag's collision box.
	BoxPad float64

	// Repel computes the tag positions.
	Repel engine.Repeller
}

func (TagLayer) isLayer() {}

// FillScale maps a data column to fill colors.
type FillScale interface {
	isFillScale()
}

// ContinuousFill maps a numeric column onto a diverging gradient.
type ContinuousFill struct {
	// Map is the gradient; Min, Mid, Max bound its domain.
	Map colormap.Diverging

	Min, Mid, Max float64
}

func (*ContinuousFill) isFillScale() {}

// ColorFor maps a value to its gradient color.
func (s *ContinuousFill) ColorFor(v float64) color.Color {
	return s.Map.AtValue(v, s.Min, s.Mid, s.Max)
}

// DiscreteFill maps category levels onto a fixed palette. Colors wrap
// when there are more levels than palette entries.
type DiscreteFill struct {
	// Levels are the category values in first-appearance order.
	Levels []string

	// Colors is the palette, indexed by level position.
	Colors []color.Color

	// LegendGlyph and LegendGlyphSize override the legend marker so
	// swatches stay readable regardless of the drawn marker shape.
	LegendGlyph     Shape
	LegendGlyphSize float64

	// Alpha is the fill opacity in [0, 1]; 0 means opaque.
	Alpha float64
}

func (*DiscreteFill) isFillScale() {}

// ColorFor maps a level to its palette color, wrapping past the end.
func (s *DiscreteFill) ColorFor(level string) color.Color {
	for i, l := range s.Levels {
		if l == level {
			return s.Colors[i%len(s.Colors)]
		}
	}
	return color.RGBA{A: 255}
}

// ShapeScale maps category levels onto point glyphs, wrapping past the
// end of the glyph cycle.
type ShapeScale struct {
	Levels []string
	Shapes []Shape

	// LegendGlyphSize enlarges the legend markers for visibility.
	LegendGlyphSize float64
}

// ShapeFor maps a level to its glyph, wrapping past the end.
func (s *ShapeScale) ShapeFor(level string) Shape {
	for i, l := range s.Levels {
		if l == level {
			return s.Shapes[i%len(s.Shapes)]
		}
	}
	return Circle
}
