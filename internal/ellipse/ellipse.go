// Package ellipse computes normal-theory covariance ellipses for
// grouped 2D scatter data.
package ellipse

import (
	"math"

	"github.com/aclements/go-moremath/vec"
	"gonum.org/v1/gonum/stat"
)

// Perimeter returns the perimeter of the covariance ellipse of (xs, ys)
// at the given coverage level, sampled at n points. The ellipse is the
// level set of the bivariate normal fitted to the data; for two degrees
// of freedom the chi-square quantile has the closed form -2*ln(1-level).
//
// Fewer than three points cannot define an ellipse; nil slices are
// returned in that case.
func Perimeter(xs, ys []float64, level float64, n int) (px, py []float64) {
	if len(xs) < 3 || len(xs) != len(ys) || n < 3 {
		return nil, nil
	}

	mx := stat.Mean(xs, nil)
	my := stat.Mean(ys, nil)
	vx := stat.Variance(xs, nil)
	vy := stat.Variance(ys, nil)
	cxy := stat.Covariance(xs, ys, nil)

	// Eigen-decomposition of the 2x2 covariance matrix, closed form.
	tr := vx + vy
	det := vx*vy - cxy*cxy
	disc := math.Sqrt(math.Max(0, tr*tr/4-det))
	l1 := tr/2 + disc
	l2 := tr/2 - disc
	if l2 < 0 {
		l2 = 0
	}

	var theta float64
	if cxy != 0 || vx != vy {
		theta = 0.5 * math.Atan2(2*cxy, vx-vy)
	}

	r := math.Sqrt(-2 * math.Log(1-level))
	a := r * math.Sqrt(l1)
	b := r * math.Sqrt(l2)

	sinT, cosT := math.Sincos(theta)
	px = make([]float64, n)
	py = make([]float64, n)
	for i, ang := range vec.Linspace(0, 2*math.Pi, n) {
		sa, ca := math.Sincos(ang)
		ex := a * ca
		ey := b * sa
		px[i] = mx + ex*cosT - ey*sinT
		py[i] = my + ex*sinT + ey*cosT
	}
	return px, py
}
