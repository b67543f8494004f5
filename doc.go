// Package dimplot turns a features-by-samples expression matrix into a
// 2D embedding scatter plot.
//
// The pipeline has four stages: an optional log2 transform, an
// embedding stage (a UMAP-class engine injected by the caller),
// an optional density-clustering stage whose labels join the sample
// annotations, and a chart assembly stage producing a layered scatter
// description rendered by pkg/render.
//
// Minimal use:
//
//	m, _ := matrixio.OpenMatrix("counts.csv")
//	ann, _ := matrixio.OpenAnnotations("samples.csv")
//	c, err := dimplot.Plot(m, ann,
//		dimplot.Params{Transform: true, Cluster: true},
//		dimplot.Options{Aes: dimplot.FillShape{Fill: "cluster", Shape: "tissue"}},
//		dimplot.Engines{Embedder: pca.New(), Clusterer: hdbcluster.New()},
//	)
//	if err != nil {
//		...
//	}
//	err = render.PNG(c, out)
//
// Embed runs the first two stages only and returns the coordinate
// table, for callers who want the embedding rather than a plot.
package dimplot
