package dimplot

import (
	"fmt"

	"github.com/aclements/go-gg/table"
	"gonum.org/v1/gonum/mat"

	"github.com/scviz/dimplot/pkg/chart"
	"github.com/scviz/dimplot/pkg/engine"
)

// Embed runs the preprocessing and embedding stages only and returns
// the embedding table: an "id" column with the sample names plus
// float64 columns X1..Xd in matrix sample order. Annotations are
// neither required nor validated on this path.
func Embed(m *Matrix, p Params, eng Engines) (*table.Table, error) {
	if m == nil {
		return nil, fmt.Errorf("nil input matrix")
	}
	if eng.Embedder == nil {
		return nil, engine.ErrNoEmbedder
	}
	emb, _, err := runEmbed(m, p.withDefaults(), eng)
	return emb, err
}

// Plot runs the full pipeline: preprocess, embed, optionally cluster,
// join with annotations on sample ID, and assemble a layered scatter
// chart. The chart plots the first two embedding axes only, whatever
// Params.Components says.
//
// All capability and argument guards run before any computation:
// a missing embedder, a missing clusterer with Params.Cluster set, a
// missing repeller with Options.Tags set, and nil annotations each
// fail immediately.
func Plot(m *Matrix, ann *table.Table, p Params, opts Options, eng Engines) (*chart.Chart, error) {
	if m == nil {
		return nil, fmt.Errorf("nil input matrix")
	}
	if eng.Embedder == nil {
		return nil, engine.ErrNoEmbedder
	}
	if p.Cluster && eng.Clusterer == nil {
		return nil, engine.ErrNoClusterer
	}
	if opts.Tags != nil && eng.Repeller == nil {
		return nil, engine.ErrNoRepeller
	}
	if ann == nil {
		return nil, ErrNoAnnotations
	}
	if opts.Aes == nil {
		return nil, fmt.Errorf("no plot variables: set Options.Aes to FillOnly, FillShape, or FillShapeEllipse")
	}
	if _, err := idColumn(ann); err != nil {
		return nil, err
	}

	p = p.withDefaults()
	if p.Components < 2 {
		return nil, fmt.Errorf("plotting needs at least 2 embedding components, got %d; use Embed for lower-dimensional output", p.Components)
	}
	emb, transformed, err := runEmbed(m, p, eng)
	if err != nil {
		return nil, err
	}

	if p.Cluster {
		labels, err := eng.Clusterer.Cluster(transformed.SamplesAsRows(), p.MinClusterSize)
		if err != nil {
			return nil, fmt.Errorf("clustering with %s: %w", eng.Clusterer.Name(), err)
		}
		if len(labels) != m.NSamples() {
			return nil, fmt.Errorf("clusterer %s returned %d labels for %d samples", eng.Clusterer.Name(), len(labels), m.NSamples())
		}
		ann, err = withClusterColumn(ann, m.Samples(), labels)
		if err != nil {
			return nil, err
		}
	}

	joined, err := joinOnID(emb, ann)
	if err != nil {
		return nil, err
	}
	if joined.Len() == 0 {
		return nil, fmt.Errorf("no sample IDs shared between matrix columns and annotation \"id\" values")
	}

	return assembleChart(joined, opts, eng)
}

// runEmbed applies the optional transform and invokes the embedding
// engine. It returns the embedding table and the (possibly transformed)
// matrix, which the clustering stage reuses.
func runEmbed(m *Matrix, p Params, eng Engines) (*table.Table, *Matrix, error) {
	x := m
	if p.Transform {
		x = m.Log2Transform()
	}

	cfg := engine.EmbedConfig{
		Neighbors:  p.Neighbors,
		Components: p.Components,
		Epochs:     p.Epochs,
		Seed:       p.Seed,
		Verbose:    true,
	}
	coords, err := eng.Embedder.Embed(x.SamplesAsRows(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding with %s: %w", eng.Embedder.Name(), err)
	}

	n, d := coords.Dims()
	if n != m.NSamples() {
		return nil, nil, fmt.Errorf("embedder %s returned %d rows for %d samples", eng.Embedder.Name(), n, m.NSamples())
	}
	if d != p.Components {
		return nil, nil, fmt.Errorf("embedder %s returned %d components, want %d", eng.Embedder.Name(), d, p.Components)
	}

	ids := make([]string, n)
	copy(ids, m.Samples())
	b := new(table.Builder).Add("id", ids)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, coords)
		b.Add(fmt.Sprintf("X%d", j+1), append([]float64(nil), col...))
	}
	return b.Done(), x, nil
}
