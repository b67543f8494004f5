// Package hdbcluster adapts the humilityai HDBSCAN implementation to
// the engine.Clusterer contract.
package hdbcluster

import (
	"fmt"
	"log"

	"github.com/humilityai/hdbscan"
	"gonum.org/v1/gonum/mat"
)

// Engine clusters samples with HDBSCAN using Euclidean distance and
// variance scoring.
type Engine struct {
	// Verbose makes the underlying clustering report progress.
	Verbose bool
}

// New returns an HDBSCAN clustering engine.
func New() *Engine {
	return &Engine{}
}

// Name implements engine.Clusterer.
func (*Engine) Name() string { return "hdbscan" }

// Cluster labels each sample (row) with its cluster: 0 for noise,
// 1..k for clusters, in input row order.
func (e *Engine) Cluster(samples *mat.Dense, minClusterSize int) ([]int, error) {
	n, d := samples.Dims()
	if minClusterSize < 2 {
		return nil, fmt.Errorf("hdbcluster: minimum cluster size must be at least 2, got %d", minClusterSize)
	}
	if n < minClusterSize {
		return nil, fmt.Errorf("hdbcluster: %d samples cannot form clusters of size %d", n, minClusterSize)
	}

	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, d)
		mat.Row(row, i, samples)
		data[i] = row
	}

	c, err := hdbscan.NewClustering(data, minClusterSize)
	if err != nil {
		return nil, fmt.Errorf("hdbcluster: %w", err)
	}
	c = c.OutlierDetection()
	if e.Verbose {
		c = c.Verbose()
		log.Printf("hdbcluster: clustering %d samples, min cluster size %d", n, minClusterSize)
	}
	if err := c.Run(hdbscan.EuclideanDistance, hdbscan.VarianceScore, true); err != nil {
		return nil, fmt.Errorf("hdbcluster: %w", err)
	}

	memberships := make([][]int, len(c.Clusters))
	for i, cluster := range c.Clusters {
		memberships[i] = cluster.Points
	}
	return labelsFromMemberships(n, memberships), nil
}

// labelsFromMemberships turns per-cluster point index lists into a flat
// label slice: points in memberships[i] get label i+1, everything else
// stays 0 (noise).
func labelsFromMemberships(n int, memberships [][]int) []int {
	labels := make([]int, n)
	for ci, points := range memberships {
		for _, p := range points {
			if p >= 0 && p < n {
				labels[p] = ci + 1
			}
		}
	}
	return labels
}
