package dimplot

import (
	"errors"
	"image/color"

	"github.com/scviz/dimplot/pkg/chart"
	"github.com/scviz/dimplot/pkg/engine"
)

// The output dimensionality default is exposed twice because the
// source material disagreed: its documentation promised 3 components
// while the operative default was 2. DefaultComponents is the operative
// value used when Params.Components is zero; DocumentedComponents is
// kept only so callers migrating from the original interface can ask
// for what its documentation described. The plotting path always
// consumes the first two axes only.
const (
	DefaultComponents    = 2
	DocumentedComponents = 3

	DefaultNeighbors      = 5
	DefaultEpochs         = 10000
	DefaultMinClusterSize = 7
)

// ErrNoAnnotations is returned by Plot when no annotation table was
// supplied. Embed does not require annotations.
var ErrNoAnnotations = errors.New("annotations are required for plotting: supply a table with an \"id\" column matching the matrix sample names, or call Embed for coordinates only")

// Params configures the embedding and clustering stages. Zero fields
// take the package defaults.
type Params struct {
	// Transform applies log2(x + Pseudocount) to the matrix first.
	Transform bool

	// Neighbors is the embedding neighborhood size (default 5).
	Neighbors int

	// Components is the embedding dimensionality (default
	// DefaultComponents). Only the first two axes are plotted.
	Components int

	// Epochs is the embedding epoch count (default 10000).
	Epochs int

	// Seed seeds the embedding engine; it is reused for both the
	// primary and the transform-time random state.
	Seed int64

	// Cluster derives a per-sample cluster label and adds it to the
	// annotations as a "cluster" column before joining.
	Cluster bool

	// MinClusterSize is the clustering density parameter (default 7).
	MinClusterSize int
}

func (p Params) withDefaults() Params {
	if p.Neighbors <= 0 {
		p.Neighbors = DefaultNeighbors
	}
	if p.Components <= 0 {
		p.Components = DefaultComponents
	}
	if p.Epochs <= 0 {
		p.Epochs = DefaultEpochs
	}
	if p.MinClusterSize <= 0 {
		p.MinClusterSize = DefaultMinClusterSize
	}
	return p
}

// Engines injects the external capability providers. Presence is
// checked once at call entry: Embedder is always required, Clusterer
// only when Params.Cluster is set, Repeller only when name tags are
// requested.
type Engines struct {
	Embedder  engine.Embedder
	Clusterer engine.Clusterer
	Repeller  engine.Repeller
}

// Aes is the aesthetic request: which annotation columns drive fill,
// shape, and ellipse grouping. It is a sealed set of three variants so
// the branch taken is explicit in the caller's code rather than
// inferred from an argument count.
type Aes interface {
	fillVar() string
}

// FillOnly colors points by one variable; every marker is a circle.
type FillOnly struct {
	Fill string
}

func (a FillOnly) fillVar() string { return a.Fill }

// FillShape colors points by Fill and picks glyphs by Shape.
type FillShape struct {
	Fill, Shape string
}

func (a FillShape) fillVar() string { return a.Fill }

// FillShapeEllipse additionally draws a background covariance ellipse
// per Ellipse group, on a fill scale independent of the point fill.
type FillShapeEllipse struct {
	Fill, Shape, Ellipse string
}

func (a FillShapeEllipse) fillVar() string { return a.Fill }

// Labels requests in-marker text. With an empty Column the labels are
// the sequential row numbers 1..N in joined-table order; otherwise the
// named annotation column supplies the text.
type Labels struct {
	Column string
	Size   float64
}

// NameTags requests repelled name tags with leader lines. With an
// empty Column the tags are the sample IDs and MinSegLen/BoxPad default
// to 2 and 0.5 text-line units.
type NameTags struct {
	Column    string
	Size      float64
	MinSegLen float64
	BoxPad    float64
}

// Options configures the chart assembly stage.
type Options struct {
	// Aes is required: at least one plot variable must be named.
	Aes Aes

	// Colors is the discrete fill palette (default
	// chart.DefaultPalette). Ignored for numeric fill variables,
	// which always use the diverging blue-white-red scale.
	Colors []color.Color

	// Shapes is the glyph cycle for the shape variable (default
	// chart.DefaultShapes).
	Shapes []chart.Shape

	// Labels optionally draws in-marker text.
	Labels *Labels

	// Tags optionally draws repelled name tags; requires
	// Engines.Repeller.
	Tags *NameTags

	// Title is drawn centered above the plot when non-empty.
	Title string

	// Style is the final styling step; zero fields take defaults.
	Style chart.Style
}
