package render

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/scviz/dimplot/pkg/chart"
)

// glyphPath traces a marker outline of radius r centered on (x, y).
// The caller fills and strokes it.
func glyphPath(dc *gg.Context, s chart.Shape, x, y, r float64) {
	switch s {
	case chart.Square:
		k := r * 0.9
		dc.DrawRectangle(x-k, y-k, 2*k, 2*k)
	case chart.Triangle:
		polygonPath(dc, x, y, r*1.2, 3, -math.Pi/2)
	case chart.TriangleDown:
		polygonPath(dc, x, y, r*1.2, 3, math.Pi/2)
	case chart.Diamond:
		polygonPath(dc, x, y, r*1.2, 4, -math.Pi/2)
	case chart.Cross:
		k := r * 0.35
		dc.NewSubPath()
		dc.MoveTo(x-k, y-r)
		dc.LineTo(x+k, y-r)
		dc.LineTo(x+k, y-k)
		dc.LineTo(x+r, y-k)
		dc.LineTo(x+r, y+k)
		dc.LineTo(x+k, y+k)
		dc.LineTo(x+k, y+r)
		dc.LineTo(x-k, y+r)
		dc.LineTo(x-k, y+k)
		dc.LineTo(x-r, y+k)
		dc.LineTo(x-r, y-k)
		dc.LineTo(x-k, y-k)
		dc.ClosePath()
	default: // chart.Circle
		dc.DrawCircle(x, y, r)
	}
}

// polygonPath traces a regular n-gon of circumradius r, rotated so the
// first vertex sits at the given start angle.
func polygonPath(dc *gg.Context, x, y, r float64, n int, start float64) {
	dc.NewSubPath()
	for i := 0; i < n; i++ {
		ang := start + 2*math.Pi*float64(i)/float64(n)
		px := x + r*math.Cos(ang)
		py := y + r*math.Sin(ang)
		if i == 0 {
			dc.MoveTo(px, py)
		} else {
			dc.LineTo(px, py)
		}
	}
	dc.ClosePath()
}
