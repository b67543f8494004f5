package dimplot

import (
	"errors"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"gonum.org/v1/gonum/mat"

	"github.com/scviz/dimplot/pkg/chart"
	"github.com/scviz/dimplot/pkg/engine"
)

// gridEmbedder is a deterministic stand-in for a UMAP engine: sample i
// lands at (i, 2i, 3i, ...). It records the config it received.
type gridEmbedder struct {
	gotCfg engine.EmbedConfig
	fail   bool
}

func (*gridEmbedder) Name() string { return "grid" }

func (e *gridEmbedder) Embed(samples *mat.Dense, cfg engine.EmbedConfig) (*mat.Dense, error) {
	if e.fail {
		return nil, errors.New("grid embedder forced failure")
	}
	e.gotCfg = cfg
	n, _ := samples.Dims()
	out := mat.NewDense(n, cfg.Components, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < cfg.Components; j++ {
			out.Set(i, j, float64((j+1)*i))
		}
	}
	return out, nil
}

// modClusterer labels sample i with i%k + 1 and never reports noise.
type modClusterer struct {
	k int
}

func (*modClusterer) Name() string { return "mod" }

func (c *modClusterer) Cluster(samples *mat.Dense, minClusterSize int) ([]int, error) {
	n, _ := samples.Dims()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i%c.k + 1
	}
	return labels, nil
}

// shortClusterer violates the contract by returning a single label
// regardless of the sample count.
type shortClusterer struct{}

func (*shortClusterer) Name() string { return "short" }

func (*shortClusterer) Cluster(samples *mat.Dense, minClusterSize int) ([]int, error) {
	return []int{1}, nil
}

// narrowEmbedder violates the contract by always returning one column.
type narrowEmbedder struct{}

func (*narrowEmbedder) Name() string { return "narrow" }

func (*narrowEmbedder) Embed(samples *mat.Dense, cfg engine.EmbedConfig) (*mat.Dense, error) {
	n, _ := samples.Dims()
	return mat.NewDense(n, 1, nil), nil
}

// noopRepeller leaves every tag on its anchor.
var noopRepeller = engine.RepellerFunc(
	func(anchors []engine.Point, boxes []engine.Box, bounds engine.Box) ([]engine.Point, error) {
		return anchors, nil
	})

func testMatrix(t *testing.T, samples ...string) *Matrix {
	t.Helper()
	features := []string{"g1", "g2", "g3"}
	values := make([]float64, len(features)*len(samples))
	for i := range values {
		values[i] = float64(i % 7)
	}
	m, err := NewMatrix(features, samples, values)
	if err != nil {
		t.Fatalf("NewMatrix: %v", err)
	}
	return m
}

func testAnnotations(ids []string, tissues []string) *table.Table {
	b := new(table.Builder).Add("id", ids).Add("tissue", tissues)
	return b.Done()
}

func TestEmbedReturnsRenamedCoordinates(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b", "c")
	emb := &gridEmbedder{}

	// Annotations are irrelevant on this path; none are supplied.
	got, err := Embed(m, Params{Components: 3}, Engines{Embedder: emb})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	wantCols := []string{"id", "X1", "X2", "X3"}
	if cols := got.Columns(); strings.Join(cols, ",") != strings.Join(wantCols, ",") {
		t.Fatalf("columns = %v, want %v", cols, wantCols)
	}

	x2 := got.MustColumn("X2").([]float64)
	if x2[2] != 4 {
		t.Errorf("X2[2] = %v, want 4", x2[2])
	}
	ids := got.MustColumn("id").([]string)
	if ids[1] != "b" {
		t.Errorf("ids = %v", ids)
	}
}

func TestEmbedDefaultsAndSeedReuse(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	emb := &gridEmbedder{}
	if _, err := Embed(m, Params{Seed: 42}, Engines{Embedder: emb}); err != nil {
		t.Fatalf("Embed: %v", err)
	}

	cfg := emb.gotCfg
	if cfg.Neighbors != DefaultNeighbors || cfg.Components != DefaultComponents || cfg.Epochs != DefaultEpochs {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Seed != 42 {
		t.Errorf("seed not passed through: %d", cfg.Seed)
	}
	if !cfg.Verbose {
		t.Error("verbosity should always be enabled")
	}
}

func TestEmbedRequiresEmbedder(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	if _, err := Embed(m, Params{}, Engines{}); !errors.Is(err, engine.ErrNoEmbedder) {
		t.Fatalf("expected ErrNoEmbedder, got %v", err)
	}
}

func TestPlotGuards(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b", "c")
	ann := testAnnotations([]string{"a", "b", "c"}, []string{"x", "y", "x"})
	opts := Options{Aes: FillOnly{Fill: "tissue"}}

	tests := []struct {
		name string
		ann  *table.Table
		p    Params
		opts Options
		eng  Engines
		want error
	}{
		{
			name: "no embedder",
			ann:  ann,
			opts: opts,
			eng:  Engines{},
			want: engine.ErrNoEmbedder,
		},
		{
			name: "cluster without clusterer",
			ann:  ann,
			p:    Params{Cluster: true},
			opts: opts,
			eng:  Engines{Embedder: &gridEmbedder{}},
			want: engine.ErrNoClusterer,
		},
		{
			name: "tags without repeller",
			ann:  ann,
			opts: Options{Aes: FillOnly{Fill: "tissue"}, Tags: &NameTags{Size: 8}},
			eng:  Engines{Embedder: &gridEmbedder{}},
			want: engine.ErrNoRepeller,
		},
		{
			name: "nil annotations",
			ann:  nil,
			opts: opts,
			eng:  Engines{Embedder: &gridEmbedder{}},
			want: ErrNoAnnotations,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Plot(m, tt.ann, tt.p, tt.opts, tt.eng)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if c != nil {
				t.Fatal("no chart may be returned on failure")
			}
		})
	}
}

func TestPlotRequiresAes(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	ann := testAnnotations([]string{"a", "b"}, []string{"x", "y"})
	_, err := Plot(m, ann, Params{}, Options{}, Engines{Embedder: &gridEmbedder{}})
	if err == nil || !strings.Contains(err.Error(), "Options.Aes") {
		t.Fatalf("expected missing-aes error, got %v", err)
	}
}

func TestPlotEmbedderFailureAborts(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	ann := testAnnotations([]string{"a", "b"}, []string{"x", "y"})
	_, err := Plot(m, ann, Params{},
		Options{Aes: FillOnly{Fill: "tissue"}},
		Engines{Embedder: &gridEmbedder{fail: true}})
	if err == nil || !strings.Contains(err.Error(), "grid") {
		t.Fatalf("expected wrapped embedder failure, got %v", err)
	}
}

func TestPlotClusterAugmentation(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b", "c", "d")
	ann := testAnnotations([]string{"d", "c", "b", "a"}, []string{"w", "x", "y", "z"})

	c, err := Plot(m, ann,
		Params{Cluster: true},
		Options{Aes: FillOnly{Fill: "cluster"}},
		Engines{Embedder: &gridEmbedder{}, Clusterer: &modClusterer{k: 2}})
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}

	clusters := c.Data.MustColumn("cluster").([]string)
	// Joined rows follow matrix sample order a,b,c,d; the clusterer
	// labels them 1,2,1,2, and the annotation table's reversed row
	// order must not matter.
	want := []string{"1", "2", "1", "2"}
	for i := range want {
		if clusters[i] != want[i] {
			t.Fatalf("cluster column = %v, want %v", clusters, want)
		}
	}

	// Every joined sample is labeled and the level count matches the
	// engine's distinct labels.
	levels := make(map[string]bool)
	for _, l := range clusters {
		if l == "" || l == "NA" {
			t.Fatalf("unlabeled sample in joined table: %v", clusters)
		}
		levels[l] = true
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 cluster levels, got %v", levels)
	}
}

func TestPlotRejectsShortLabelSlice(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b", "c")
	ann := testAnnotations([]string{"a", "b", "c"}, []string{"x", "y", "z"})

	_, err := Plot(m, ann,
		Params{Cluster: true},
		Options{Aes: FillOnly{Fill: "cluster"}},
		Engines{Embedder: &gridEmbedder{}, Clusterer: &shortClusterer{}})
	if err == nil || !strings.Contains(err.Error(), "labels") {
		t.Fatalf("expected label-count error, got %v", err)
	}
}

func TestEmbedRejectsWrongColumnCount(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	_, err := Embed(m, Params{Components: 2}, Engines{Embedder: &narrowEmbedder{}})
	if err == nil || !strings.Contains(err.Error(), "components") {
		t.Fatalf("expected component-count error, got %v", err)
	}
}

func TestPlotLabelColumnValidation(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	ann := testAnnotations([]string{"a", "b"}, []string{"x", "y"})
	eng := Engines{Embedder: &gridEmbedder{}, Repeller: noopRepeller}

	_, err := Plot(m, ann, Params{},
		Options{Aes: FillOnly{Fill: "tissue"}, Labels: &Labels{Column: "nope", Size: 8}}, eng)
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected unknown label column error, got %v", err)
	}

	_, err = Plot(m, ann, Params{},
		Options{Aes: FillOnly{Fill: "tissue"}, Tags: &NameTags{Column: "missing"}}, eng)
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected unknown tag column error, got %v", err)
	}
}

func TestPlotAutoLabelsFollowRowOrder(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b", "c")
	ann := testAnnotations([]string{"c", "a", "b"}, []string{"x", "y", "z"})

	c, err := Plot(m, ann, Params{},
		Options{Aes: FillOnly{Fill: "tissue"}, Labels: &Labels{Size: 6}},
		Engines{Embedder: &gridEmbedder{}})
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}

	var label chart.LabelLayer
	found := false
	for _, l := range c.Layers {
		if ll, ok := l.(chart.LabelLayer); ok {
			label = ll
			found = true
		}
	}
	if !found {
		t.Fatal("expected a label layer")
	}
	if len(label.Values) != 3 || label.Values[0] != "1" || label.Values[2] != "3" {
		t.Fatalf("auto labels = %v, want sequential 1..3", label.Values)
	}

	// Row order follows the embedding (matrix sample order), so "1"
	// always means the first matrix sample.
	ids := c.Data.MustColumn("id").([]string)
	if ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("joined order = %v, want embedding order", ids)
	}
}

func TestPlotTagDefaults(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	ann := testAnnotations([]string{"a", "b"}, []string{"x", "y"})

	c, err := Plot(m, ann, Params{},
		Options{Aes: FillOnly{Fill: "tissue"}, Tags: &NameTags{Size: 9}},
		Engines{Embedder: &gridEmbedder{}, Repeller: noopRepeller})
	if err != nil {
		t.Fatalf("Plot: %v", err)
	}

	var tag chart.TagLayer
	found := false
	for _, l := range c.Layers {
		if tl, ok := l.(chart.TagLayer); ok {
			tag = tl
			found = true
		}
	}
	if !found {
		t.Fatal("expected a tag layer")
	}
	// ID-tag form: text is the sample ID, leader/padding take the
	// fixed defaults.
	if tag.Values[0] != "a" || tag.Values[1] != "b" {
		t.Fatalf("tag values = %v, want sample IDs", tag.Values)
	}
	if tag.MinSegLen != 2 || tag.BoxPad != 0.5 {
		t.Fatalf("tag defaults = (%v, %v), want (2, 0.5)", tag.MinSegLen, tag.BoxPad)
	}
	if tag.Repel == nil {
		t.Fatal("tag layer must carry the repeller")
	}
}

func TestPlotDisjointIDs(t *testing.T) {
	t.Parallel()

	m := testMatrix(t, "a", "b")
	ann := testAnnotations([]string{"x", "y"}, []string{"p", "q"})

	_, err := Plot(m, ann, Params{},
		Options{Aes: FillOnly{Fill: "tissue"}},
		Engines{Embedder: &gridEmbedder{}})
	if err == nil || !strings.Contains(err.Error(), "no sample IDs shared") {
		t.Fatalf("expected disjoint-ID error, got %v", err)
	}
}
