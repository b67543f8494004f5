// Package pca provides a principal-component embedding engine.
//
// It is a deterministic, dependency-light stand-in for a UMAP engine:
// useful for smoke-testing a pipeline, or when no nonlinear embedder is
// available. Neighbors, Epochs, and Seed in the embed config are
// ignored; PCA has no stochastic state.
package pca

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/scviz/dimplot/pkg/engine"
)

// Engine embeds samples onto their leading principal components.
type Engine struct{}

// New returns a PCA embedding engine.
func New() *Engine {
	return &Engine{}
}

// Name implements engine.Embedder.
func (*Engine) Name() string { return "pca" }

// Embed projects samples (rows) onto the first cfg.Components principal
// components. The projection is of mean-centered data, so coordinates
// are centered on the origin.
func (*Engine) Embed(samples *mat.Dense, cfg engine.EmbedConfig) (*mat.Dense, error) {
	n, d := samples.Dims()
	k := cfg.Components
	if k <= 0 {
		return nil, fmt.Errorf("pca: components must be positive, got %d", k)
	}
	if k > d {
		return nil, fmt.Errorf("pca: %d components requested but data has only %d features", k, d)
	}
	if n < 2 {
		return nil, fmt.Errorf("pca: need at least 2 samples, got %d", n)
	}

	if cfg.Verbose {
		log.Printf("pca: projecting %d samples (%d features) onto %d components", n, d, k)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(samples, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed for %dx%d input", n, d)
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	// Center columns before projecting.
	centered := mat.NewDense(n, d, nil)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, samples)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, col[i]-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, d, 0, k))
	return &proj, nil
}
