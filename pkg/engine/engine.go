// Package engine defines the capability contracts consumed by dimplot.
//
// The embedding, clustering, and tag-repelling stages are provided by
// external engines injected by the caller. Each contract is a small
// interface so that any implementation (a cgo UMAP binding, a remote
// service, a test stub) can be plugged in without touching the pipeline.
package engine

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for missing capabilities. The pipeline checks all of
// them once at call entry and never mid-pipeline.
var (
	// ErrNoEmbedder is returned when no embedding engine was injected.
	ErrNoEmbedder = errors.New("no embedding engine configured: set Engines.Embedder (pca.New() is a built-in option)")

	// ErrNoClusterer is returned when clustering was requested but no
	// clustering engine was injected.
	ErrNoClusterer = errors.New("clustering requested but no clustering engine configured: set Engines.Clusterer (hdbcluster.New() is a built-in option)")

	// ErrNoRepeller is returned when name tags were requested but no
	// tag-repelling engine was injected.
	ErrNoRepeller = errors.New("name tags requested but no repelling engine configured: set Engines.Repeller")
)

// EmbedConfig carries the hyperparameters handed to an Embedder.
//
// Seed is reused for both the primary random state and any
// transform-time random state the engine maintains.
type EmbedConfig struct {
	// Neighbors is the local neighborhood size.
	Neighbors int

	// Components is the output dimensionality. Regardless of its
	// value, the plotting path consumes only the first two axes.
	Components int

	// Epochs is the number of optimization epochs.
	Epochs int

	// Seed seeds the engine's random state.
	Seed int64

	// Verbose asks the engine to report progress.
	Verbose bool
}

// Embedder computes a low-dimensional embedding of samples.
//
// The input matrix has one row per sample. The result must have the
// same number of rows and cfg.Components columns, in input row order.
type Embedder interface {
	// Name identifies the engine in logs and error messages.
	Name() string

	Embed(samples *mat.Dense, cfg EmbedConfig) (*mat.Dense, error)
}

// Clusterer derives one cluster label per sample.
//
// The input matrix has one row per sample. Labels are returned in input
// row order; 0 marks noise, clusters are numbered from 1.
type Clusterer interface {
	Name() string

	Cluster(samples *mat.Dense, minClusterSize int) ([]int, error)
}

// Point is a position in render space (pixels).
type Point struct {
	X, Y float64
}

// Box is an axis-aligned rectangle in render space, anchored at its
// top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Repeller places text boxes near their anchors while avoiding
// overlap. Given one box per anchor it returns the adjusted box
// centers, all within bounds.
type Repeller interface {
	Repel(anchors []Point, boxes []Box, bounds Box) ([]Point, error)
}

// RepellerFunc adapts a function to the Repeller interface.
type RepellerFunc func(anchors []Point, boxes []Box, bounds Box) ([]Point, error)

// Repel calls f.
func (f RepellerFunc) Repel(anchors []Point, boxes []Box, bounds Box) ([]Point, error) {
	return f(anchors, boxes, bounds)
}
