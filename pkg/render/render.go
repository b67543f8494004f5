// Package render rasterizes chart descriptions using fogleman/gg.
//
// The renderer applies the chart's style as a deterministic final
// step: white background, fixed 1:1 unit aspect, no axes or ticks
// (embedding coordinates carry no semantic meaning), then draws layers
// in order, the legend, and the title.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/aclements/go-gg/table"
	"github.com/fogleman/gg"

	"github.com/scviz/dimplot/internal/ellipse"
	"github.com/scviz/dimplot/pkg/chart"
	"github.com/scviz/dimplot/pkg/engine"
)

const (
	ellipseSegments = 100
	legendWidth     = 150
	legendPad       = 8
	legendRowGap    = 6
	gradientHeight  = 100
	lineHeightPx    = 12 // one text-line unit, used by tag geometry
)

// PNG renders the chart and writes it as a PNG image.
func PNG(c *chart.Chart, w io.Writer) error {
	img, err := Draw(c)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	return enc.Encode(w, img)
}

// Bytes renders the chart to an in-memory PNG.
func Bytes(c *chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Draw renders the chart to an image.
func Draw(c *chart.Chart) (image.Image, error) {
	if c == nil || c.Data == nil || c.Data.Len() == 0 {
		return nil, fmt.Errorf("render: empty chart")
	}

	style := c.Style
	style.ApplyDefaults()

	dc := gg.NewContext(style.Width, style.Height)
	dc.SetColor(color.White)
	dc.Clear()

	proj, err := newProjection(c, style)
	if err != nil {
		return nil, err
	}

	for _, layer := range c.Layers {
		switch l := layer.(type) {
		case chart.EllipseLayer:
			if err := drawEllipses(dc, c, l, proj); err != nil {
				return nil, err
			}
		case chart.PointLayer:
			if err := drawPoints(dc, c, l, proj, style); err != nil {
				return nil, err
			}
		case chart.LabelLayer:
			if err := drawLabels(dc, c, l, proj, style); err != nil {
				return nil, err
			}
		case chart.TagLayer:
			if err := drawTags(dc, c, l, proj, style); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("render: unsupported layer %T", layer)
		}
	}

	if err := drawLegend(dc, c, style); err != nil {
		return nil, err
	}
	if c.Title != "" {
		setFont(dc, style, style.TitleSize)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(c.Title, float64(style.Width)/2, style.Margin/2, 0.5, 0.5)
	}

	return dc.Image(), nil
}

// projection maps data coordinates to pixels with a fixed 1:1 unit
// aspect ratio.
type projection struct {
	scale        float64
	xmid, ymid   float64
	pxmid, pymid float64
}

func newProjection(c *chart.Chart, style chart.Style) (*projection, error) {
	xs, err := floatColumn(c.Data, layerX(c))
	if err != nil {
		return nil, err
	}
	ys, err := floatColumn(c.Data, layerY(c))
	if err != nil {
		return nil, err
	}

	xmin, xmax := minMax(xs)
	ymin, ymax := minMax(ys)
	xr := xmax - xmin
	yr := ymax - ymin
	if xr == 0 {
		xr = 1
	}
	if yr == 0 {
		yr = 1
	}

	// Reserve the right margin for an outside legend and keep the
	// same pixels-per-unit on both axes.
	plotW := float64(style.Width) - 2*style.Margin - legendOutsideWidth(c, style)
	plotH := float64(style.Height) - 2*style.Margin
	scale := math.Min(plotW/xr, plotH/yr)

	return &projection{
		scale: scale,
		xmid:  (xmin + xmax) / 2,
		ymid:  (ymin + ymax) / 2,
		pxmid: style.Margin + plotW/2,
		pymid: style.Margin + plotH/2,
	}, nil
}

func legendOutsideWidth(c *chart.Chart, style chart.Style) float64 {
	if style.LegendInside != nil {
		return 0
	}
	if c.PointFill == nil && c.PointShape == nil && c.EllipseFill == nil {
		return 0
	}
	return legendWidth
}

// at maps a data point to pixels. The y axis flips: data up is pixel up.
func (p *projection) at(x, y float64) (float64, float64) {
	return p.pxmid + (x-p.xmid)*p.scale, p.pymid - (y-p.ymid)*p.scale
}

func layerX(c *chart.Chart) string {
	for _, l := range c.Layers {
		if pl, ok := l.(chart.PointLayer); ok {
			return pl.X
		}
	}
	return "X1"
}

func layerY(c *chart.Chart) string {
	for _, l := range c.Layers {
		if pl, ok := l.(chart.PointLayer); ok {
			return pl.Y
		}
	}
	return "X2"
}

func drawEllipses(dc *gg.Context, c *chart.Chart, l chart.EllipseLayer, proj *projection) error {
	xs, err := floatColumn(c.Data, l.X)
	if err != nil {
		return err
	}
	ys, err := floatColumn(c.Data, l.Y)
	if err != nil {
		return err
	}
	groups, err := stringColumn(c.Data, l.Group)
	if err != nil {
		return err
	}
	if c.EllipseFill == nil {
		return fmt.Errorf("render: ellipse layer without an ellipse fill scale")
	}

	for _, level := range c.EllipseFill.Levels {
		var gx, gy []float64
		for i, g := range groups {
			if g == level {
				gx = append(gx, xs[i])
				gy = append(gy, ys[i])
			}
		}
		px, py := ellipse.Perimeter(gx, gy, l.Level, ellipseSegments)
		if px == nil {
			continue
		}

		dc.NewSubPath()
		for i := range px {
			x, y := proj.at(px[i], py[i])
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.ClosePath()
		dc.SetColor(withAlpha(c.EllipseFill.ColorFor(level), l.Alpha))
		dc.Fill()
	}
	return nil
}

func drawPoints(dc *gg.Context, c *chart.Chart, l chart.PointLayer, proj *projection, style chart.Style) error {
	xs, err := floatColumn(c.Data, l.X)
	if err != nil {
		return err
	}
	ys, err := floatColumn(c.Data, l.Y)
	if err != nil {
		return err
	}

	fills, err := pointColors(c, l)
	if err != nil {
		return err
	}

	var shapeLevels []string
	if l.Shape != "" {
		if shapeLevels, err = stringColumn(c.Data, l.Shape); err != nil {
			return err
		}
	}

	r := style.PointRadius
	for i := range xs {
		x, y := proj.at(xs[i], ys[i])

		shape := l.FixedShape
		if shapeLevels != nil && c.PointShape != nil {
			shape = c.PointShape.ShapeFor(shapeLevels[i])
		}

		glyphPath(dc, shape, x, y, r)
		dc.SetColor(fills[i])
		dc.FillPreserve()
		dc.SetColor(color.RGBA{60, 60, 60, 255})
		dc.SetLineWidth(0.8)
		dc.Stroke()
	}
	return nil
}

// pointColors resolves one fill color per row from the point fill
// scale.
func pointColors(c *chart.Chart, l chart.PointLayer) ([]color.Color, error) {
	n := c.Data.Len()
	out := make([]color.Color, n)

	switch scale := c.PointFill.(type) {
	case *chart.ContinuousFill:
		vals, err := numericColumn(c.Data, l.Fill)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			out[i] = scale.ColorFor(v)
		}
	case *chart.DiscreteFill:
		vals, err := stringColumn(c.Data, l.Fill)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			out[i] = scale.ColorFor(v)
		}
	default:
		return nil, fmt.Errorf("render: point layer without a fill scale")
	}
	return out, nil
}

func drawLabels(dc *gg.Context, c *chart.Chart, l chart.LabelLayer, proj *projection, style chart.Style) error {
	xs, err := floatColumn(c.Data, l.X)
	if err != nil {
		return err
	}
	ys, err := floatColumn(c.Data, l.Y)
	if err != nil {
		return err
	}
	if len(l.Values) != len(xs) {
		return fmt.Errorf("render: %d labels for %d points", len(l.Values), len(xs))
	}

	setFont(dc, style, l.Size)
	dc.SetColor(color.Black)
	for i := range xs {
		x, y := proj.at(xs[i], ys[i])
		dc.DrawStringAnchored(l.Values[i], x, y, 0.5, 0.35)
	}
	return nil
}

func drawTags(dc *gg.Context, c *chart.Chart, l chart.TagLayer, proj *projection, style chart.Style) error {
	if l.Repel == nil {
		return fmt.Errorf("render: tag layer without a repelling engine")
	}
	xs, err := floatColumn(c.Data, l.X)
	if err != nil {
		return err
	}
	ys, err := floatColumn(c.Data, l.Y)
	if err != nil {
		return err
	}
	if len(l.Values) != len(xs) {
		return fmt.Errorf("render: %d tags for %d points", len(l.Values), len(xs))
	}

	setFont(dc, style, l.Size)

	pad := l.BoxPad * lineHeightPx
	anchors := make([]engine.Point, len(xs))
	boxes := make([]engine.Box, len(xs))
	for i := range xs {
		x, y := proj.at(xs[i], ys[i])
		anchors[i] = engine.Point{X: x, Y: y}
		w, h := dc.MeasureString(l.Values[i])
		boxes[i] = engine.Box{X: x - w/2 - pad, Y: y - h/2 - pad, W: w + 2*pad, H: h + 2*pad}
	}
	bounds := engine.Box{W: float64(style.Width), H: float64(style.Height)}

	placed, err := l.Repel.Repel(anchors, boxes, bounds)
	if err != nil {
		return fmt.Errorf("render: repelling tags: %w", err)
	}
	if len(placed) != len(anchors) {
		return fmt.Errorf("render: repeller returned %d positions for %d tags", len(placed), len(anchors))
	}

	minSeg := l.MinSegLen * lineHeightPx
	for i, pos := range placed {
		if d := math.Hypot(pos.X-anchors[i].X, pos.Y-anchors[i].Y); d > minSeg {
			dc.SetColor(color.RGBA{120, 120, 120, 255})
			dc.SetLineWidth(0.6)
			dc.DrawLine(anchors[i].X, anchors[i].Y, pos.X, pos.Y)
			dc.Stroke()
		}
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(l.Values[i], pos.X, pos.Y, 0.5, 0.35)
	}
	return nil
}

// setFont loads the styled font at the given size, or keeps the
// context's built-in face when no font path is set (sizes are then
// approximate).
func setFont(dc *gg.Context, style chart.Style, size float64) {
	if style.FontPath == "" || size <= 0 {
		return
	}
	// Best effort: a bad font path falls back to the built-in face.
	_ = dc.LoadFontFace(style.FontPath, size)
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 || alpha >= 1 {
		return c
	}
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(alpha * 255),
	}
}

func floatColumn(t *table.Table, name string) ([]float64, error) {
	col := t.Column(name)
	if col == nil {
		return nil, fmt.Errorf("render: missing column %q", name)
	}
	vals, ok := col.([]float64)
	if !ok {
		return nil, fmt.Errorf("render: column %q must be []float64, got %T", name, col)
	}
	return vals, nil
}

// numericColumn reads a column for a continuous scale, accepting the
// same slice types the assembler classifies as numeric.
func numericColumn(t *table.Table, name string) ([]float64, error) {
	col := t.Column(name)
	if col == nil {
		return nil, fmt.Errorf("render: missing column %q", name)
	}
	switch v := col.(type) {
	case []float64:
		return v, nil
	case []int:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("render: column %q must be numeric, got %T", name, col)
}

func stringColumn(t *table.Table, name string) ([]string, error) {
	col := t.Column(name)
	if col == nil {
		return nil, fmt.Errorf("render: missing column %q", name)
	}
	switch v := col.(type) {
	case []string:
		return v, nil
	case []int:
		out := make([]string, len(v))
		for i, x := range v {
			out[i] = fmt.Sprint(x)
		}
		return out, nil
	}
	return nil, fmt.Errorf("render: column %q must be categorical, got %T", name, col)
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
