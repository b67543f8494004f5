package dimplot

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pseudocount added before the log2 transform so zero entries stay
// finite.
const Pseudocount = 0.001

// Matrix is a features-by-samples expression matrix: rows are features
// (genes), columns are samples, and column names are the sample IDs
// that key the annotation table. Treat it as immutable; the transform
// returns a copy.
type Matrix struct {
	features []string
	samples  []string
	data     *mat.Dense // features x samples
}

// NewMatrix builds a Matrix from row-major values of size
// len(features) x len(samples).
func NewMatrix(features, samples []string, values []float64) (*Matrix, error) {
	if len(features) == 0 || len(samples) == 0 {
		return nil, fmt.Errorf("matrix needs at least one feature and one sample, got %dx%d", len(features), len(samples))
	}
	if want := len(features) * len(samples); len(values) != want {
		return nil, fmt.Errorf("matrix %dx%d needs %d values, got %d", len(features), len(samples), want, len(values))
	}
	return &Matrix{
		features: features,
		samples:  samples,
		data:     mat.NewDense(len(features), len(samples), values),
	}, nil
}

// NFeatures returns the number of rows.
func (m *Matrix) NFeatures() int { return len(m.features) }

// NSamples returns the number of columns.
func (m *Matrix) NSamples() int { return len(m.samples) }

// Features returns the row names.
func (m *Matrix) Features() []string { return m.features }

// Samples returns the column names (sample IDs).
func (m *Matrix) Samples() []string { return m.samples }

// At returns the value at feature row i, sample column j.
func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

// Log2Transform returns a copy with log2(x + Pseudocount) applied
// element-wise. Values at or below -Pseudocount produce NaN; the
// transform is intended for non-negative counts.
func (m *Matrix) Log2Transform() *Matrix {
	t := mat.DenseCopyOf(m.data)
	t.Apply(func(_, _ int, v float64) float64 {
		return math.Log2(v + Pseudocount)
	}, t)
	return &Matrix{features: m.features, samples: m.samples, data: t}
}

// SamplesAsRows returns the transposed data (samples as rows), the
// orientation embedding and clustering engines consume.
func (m *Matrix) SamplesAsRows() *mat.Dense {
	n, d := len(m.samples), len(m.features)
	t := mat.NewDense(n, d, nil)
	t.Copy(m.data.T())
	return t
}
