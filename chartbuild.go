package dimplot

import (
	"fmt"
	"image/color"
	"reflect"
	"strconv"

	"github.com/aclements/go-gg/table"
	"gonum.org/v1/gonum/floats"

	"github.com/scviz/dimplot/pkg/chart"
	"github.com/scviz/dimplot/pkg/colormap"
)

const (
	defaultTextSize     = 10
	defaultTagMinSegLen = 2
	defaultTagBoxPad    = 0.5
	ellipseLevel        = 0.95
	ellipseAlpha        = 0.3
	legendGlyphSize     = 7
)

// assembleChart builds the layered chart from the joined table. Label
// and tag columns are validated before any layer is appended, so a bad
// request never produces a partial chart.
func assembleChart(joined *table.Table, opts Options, eng Engines) (*chart.Chart, error) {
	style := opts.Style
	style.ApplyDefaults()

	colors := opts.Colors
	if len(colors) == 0 {
		colors = chart.DefaultPalette()
	}
	shapes := opts.Shapes
	if len(shapes) == 0 {
		shapes = chart.DefaultShapes()
	}

	labelValues, err := textValues(joined, opts.Labels)
	if err != nil {
		return nil, err
	}
	tagValues, err := tagTextValues(joined, opts.Tags)
	if err != nil {
		return nil, err
	}

	c := &chart.Chart{
		Data:  joined,
		Title: opts.Title,
		Style: style,
	}

	point := chart.PointLayer{X: "X1", Y: "X2", FixedShape: chart.Circle}

	switch aes := opts.Aes.(type) {
	case FillOnly:
		point.Fill = aes.Fill

	case FillShape:
		point.Fill = aes.Fill
		point.Shape = aes.Shape

	case FillShapeEllipse:
		point.Fill = aes.Fill
		point.Shape = aes.Shape

		groups, err := stringColumn(joined, aes.Ellipse)
		if err != nil {
			return nil, err
		}
		c.EllipseFill = &chart.DiscreteFill{
			Levels: distinct(groups),
			Colors: chart.EllipsePalette(),
			Alpha:  ellipseAlpha,
		}
		c.Add(chart.EllipseLayer{
			X: "X1", Y: "X2",
			Group: aes.Ellipse,
			Level: ellipseLevel,
			Alpha: ellipseAlpha,
		})

	default:
		return nil, fmt.Errorf("unsupported aesthetic request %T", opts.Aes)
	}

	c.PointFill, err = fillScaleFor(joined, opts.Aes.fillVar(), colors)
	if err != nil {
		return nil, err
	}
	if point.Shape != "" {
		levels, err := stringColumn(joined, point.Shape)
		if err != nil {
			return nil, err
		}
		c.PointShape = &chart.ShapeScale{
			Levels:          distinct(levels),
			Shapes:          shapes,
			LegendGlyphSize: legendGlyphSize,
		}
	}
	c.Add(point)

	if opts.Labels != nil {
		size := opts.Labels.Size
		if size <= 0 {
			size = defaultTextSize
		}
		c.Add(chart.LabelLayer{X: "X1", Y: "X2", Values: labelValues, Size: size})
	}
	if opts.Tags != nil {
		t := *opts.Tags
		if t.Size <= 0 {
			t.Size = defaultTextSize
		}
		if t.Column == "" {
			// ID-tag form: fixed leader and padding defaults.
			t.MinSegLen = defaultTagMinSegLen
			t.BoxPad = defaultTagBoxPad
		}
		c.Add(chart.TagLayer{
			X: "X1", Y: "X2",
			Values:    tagValues,
			Size:      t.Size,
			MinSegLen: t.MinSegLen,
			BoxPad:    t.BoxPad,
			Repel:     eng.Repeller,
		})
	}

	return c, nil
}

// fillScaleFor picks the fill scale for a plot variable: numeric
// columns get the diverging blue-white-red scale centered on zero,
// anything else a discrete scale over the column's levels with a
// size-7 circular legend glyph.
func fillScaleFor(t *table.Table, name string, colors []color.Color) (chart.FillScale, error) {
	col := t.Column(name)
	if col == nil {
		return nil, columnErr(t, name)
	}

	if vals, ok := numericColumn(col); ok {
		return &chart.ContinuousFill{
			Map: colormap.BlueWhiteRed,
			Min: floats.Min(vals),
			Mid: 0,
			Max: floats.Max(vals),
		}, nil
	}

	return &chart.DiscreteFill{
		Levels:          distinct(stringify(col)),
		Colors:          colors,
		LegendGlyph:     chart.Circle,
		LegendGlyphSize: legendGlyphSize,
	}, nil
}

// textValues resolves the in-marker label text: row numbers 1..N for
// the size-only form, otherwise the named column's values.
func textValues(t *table.Table, l *Labels) ([]string, error) {
	if l == nil {
		return nil, nil
	}
	if l.Column == "" {
		vals := make([]string, t.Len())
		for i := range vals {
			vals[i] = strconv.Itoa(i + 1)
		}
		return vals, nil
	}
	return stringColumn(t, l.Column)
}

// tagTextValues resolves the name-tag text: sample IDs for the
// size-only form, otherwise the named column's values.
func tagTextValues(t *table.Table, tags *NameTags) ([]string, error) {
	if tags == nil {
		return nil, nil
	}
	if tags.Column == "" {
		return stringColumn(t, "id")
	}
	return stringColumn(t, tags.Column)
}

func stringColumn(t *table.Table, name string) ([]string, error) {
	col := t.Column(name)
	if col == nil {
		return nil, columnErr(t, name)
	}
	return stringify(col), nil
}

func columnErr(t *table.Table, name string) error {
	return fmt.Errorf("%q is not a column of the joined table (columns: %v)", name, t.Columns())
}

// numericColumn reports whether a column is numeric, converting int
// slices to float64.
func numericColumn(col interface{}) ([]float64, bool) {
	switch v := col.(type) {
	case []float64:
		return v, true
	case []int:
		out := make([]float64, len(v))
		for i, x := range v {
			out[i] = float64(x)
		}
		return out, true
	}
	return nil, false
}

// stringify renders any column as strings.
func stringify(col interface{}) []string {
	if s, ok := col.([]string); ok {
		return append([]string(nil), s...)
	}
	rv := reflect.ValueOf(col)
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return out
}

// distinct returns the unique values in first-appearance order.
func distinct(vals []string) []string {
	seen := make(map[string]bool, len(vals))
	var out []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
