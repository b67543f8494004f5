package render

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/scviz/dimplot/pkg/chart"
)

// legendEntry is one swatch plus its label.
type legendEntry struct {
	label string
	color color.Color
	shape chart.Shape
	size  float64
}

// legendBlock is a titled group of entries or a continuous gradient.
type legendBlock struct {
	title    string
	entries  []legendEntry
	gradient *chart.ContinuousFill
}

// drawLegend draws all scale legends, either in the right margin or,
// when the style anchors it, inside the plot area on a bordered
// background.
func drawLegend(dc *gg.Context, c *chart.Chart, style chart.Style) error {
	blocks := legendBlocks(c, style)
	if len(blocks) == 0 {
		return nil
	}

	setFont(dc, style, style.LegendTextSize)

	w, h := legendExtent(dc, blocks, style)
	var x, y float64
	if style.LegendInside != nil {
		x, y = insideAnchor(style, w, h)

		dc.DrawRectangle(x-legendPad, y-legendPad, w+2*legendPad, h+2*legendPad)
		dc.SetColor(color.White)
		dc.FillPreserve()
		dc.SetColor(color.RGBA{80, 80, 80, 255})
		dc.SetLineWidth(1)
		dc.Stroke()
	} else {
		x = float64(style.Width) - legendWidth - style.Margin/2
		y = style.Margin
	}

	for _, b := range blocks {
		y = drawLegendBlock(dc, b, x, y, style)
		y += legendRowGap * 2
	}
	return nil
}

// insideAnchor resolves the normalized inside anchor ((0,0) bottom-left,
// (1,1) top-right) to the legend's pixel origin, clamped so the padded
// legend box stays on canvas. A legend wider or taller than the canvas
// pins to the top-left padding.
func insideAnchor(style chart.Style, w, h float64) (float64, float64) {
	x := style.LegendInside.X * (float64(style.Width) - w)
	y := (1 - style.LegendInside.Y) * (float64(style.Height) - h)
	x = clamp(x, legendPad, float64(style.Width)-w-legendPad)
	y = clamp(y, legendPad, float64(style.Height)-h-legendPad)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
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

// legendBlocks collects the legend content from the chart's scales:
// point fill (continuous or discrete), point shape, and the ellipse
// fill namespace, each under its own title.
func legendBlocks(c *chart.Chart, style chart.Style) []legendBlock {
	var blocks []legendBlock

	switch scale := c.PointFill.(type) {
	case *chart.ContinuousFill:
		blocks = append(blocks, legendBlock{title: fillTitle(c), gradient: scale})
	case *chart.DiscreteFill:
		b := legendBlock{title: fillTitle(c)}
		for i, level := range scale.Levels {
			b.entries = append(b.entries, legendEntry{
				label: level,
				color: scale.Colors[i%len(scale.Colors)],
				shape: scale.LegendGlyph,
				size:  glyphSizeOr(scale.LegendGlyphSize, style),
			})
		}
		blocks = append(blocks, b)
	}

	if c.PointShape != nil {
		b := legendBlock{title: shapeTitle(c)}
		for i, level := range c.PointShape.Levels {
			b.entries = append(b.entries, legendEntry{
				label: level,
				color: color.RGBA{90, 90, 90, 255},
				shape: c.PointShape.Shapes[i%len(c.PointShape.Shapes)],
				size:  glyphSizeOr(c.PointShape.LegendGlyphSize, style),
			})
		}
		blocks = append(blocks, b)
	}

	if c.EllipseFill != nil {
		b := legendBlock{title: ellipseTitle(c)}
		for i, level := range c.EllipseFill.Levels {
			b.entries = append(b.entries, legendEntry{
				label: level,
				color: c.EllipseFill.Colors[i%len(c.EllipseFill.Colors)],
				shape: chart.Square,
				size:  glyphSizeOr(c.EllipseFill.LegendGlyphSize, style),
			})
		}
		blocks = append(blocks, b)
	}
	return blocks
}

func glyphSizeOr(size float64, style chart.Style) float64 {
	if size > 0 {
		return size
	}
	return style.PointRadius
}

func fillTitle(c *chart.Chart) string {
	for _, l := range c.Layers {
		if pl, ok := l.(chart.PointLayer); ok {
			return pl.Fill
		}
	}
	return ""
}

func shapeTitle(c *chart.Chart) string {
	for _, l := range c.Layers {
		if pl, ok := l.(chart.PointLayer); ok {
			return pl.Shape
		}
	}
	return ""
}

func ellipseTitle(c *chart.Chart) string {
	for _, l := range c.Layers {
		if el, ok := l.(chart.EllipseLayer); ok {
			return el.Group
		}
	}
	return ""
}

func legendExtent(dc *gg.Context, blocks []legendBlock, style chart.Style) (float64, float64) {
	var w, h float64
	for _, b := range blocks {
		tw, th := dc.MeasureString(b.title)
		if tw > w {
			w = tw
		}
		h += th + legendRowGap

		if b.gradient != nil {
			h += gradientHeight + legendRowGap
			if 60 > w {
				w = 60
			}
			continue
		}
		for _, e := range b.entries {
			ew, eh := dc.MeasureString(e.label)
			ew += 2*e.size + legendPad
			if ew > w {
				w = ew
			}
			h += eh + legendRowGap
		}
		h += legendRowGap * 2
	}
	return w, h
}

// drawLegendBlock draws one block at (x, y) and returns the next y.
func drawLegendBlock(dc *gg.Context, b legendBlock, x, y float64, style chart.Style) float64 {
	setFont(dc, style, style.LegendTitleSize)
	dc.SetColor(color.Black)
	_, th := dc.MeasureString(b.title)
	y += th
	dc.DrawString(b.title, x, y)
	y += legendRowGap

	setFont(dc, style, style.LegendTextSize)

	if b.gradient != nil {
		return drawGradient(dc, b.gradient, x, y)
	}

	for _, e := range b.entries {
		cy := y + e.size
		glyphPath(dc, e.shape, x+e.size, cy, e.size)
		dc.SetColor(e.color)
		dc.FillPreserve()
		dc.SetColor(color.RGBA{60, 60, 60, 255})
		dc.SetLineWidth(0.8)
		dc.Stroke()

		dc.SetColor(color.Black)
		dc.DrawStringAnchored(e.label, x+2*e.size+legendPad, cy, 0, 0.35)
		y += 2*e.size + legendRowGap
	}
	return y
}

// drawGradient draws a vertical gradient bar with min/mid/max tick
// labels and returns the next y.
func drawGradient(dc *gg.Context, s *chart.ContinuousFill, x, y float64) float64 {
	const barW = 14
	for i := 0; i < gradientHeight; i++ {
		t := 1 - float64(i)/float64(gradientHeight-1)
		dc.SetColor(s.Map.At(t))
		dc.DrawRectangle(x, y+float64(i), barW, 1)
		dc.Fill()
	}
	dc.SetColor(color.RGBA{60, 60, 60, 255})
	dc.SetLineWidth(0.8)
	dc.DrawRectangle(x, y, barW, gradientHeight)
	dc.Stroke()

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(fmt.Sprintf("%.3g", s.Max), x+barW+legendPad, y, 0, 0.7)
	dc.DrawStringAnchored(fmt.Sprintf("%.3g", s.Mid), x+barW+legendPad, y+gradientHeight/2, 0, 0.35)
	dc.DrawStringAnchored(fmt.Sprintf("%.3g", s.Min), x+barW+legendPad, y+gradientHeight, 0, 0)
	return y + gradientHeight + legendRowGap
}
