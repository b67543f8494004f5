package chart

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LegendAnchor places the legend inside the plot area at a normalized
// coordinate: (0, 0) is the bottom-left corner, (1, 1) the top-right.
type LegendAnchor struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Style is the unconditional final styling step applied to every
// chart: canvas size, theme, legend and title sizing, and optional
// legend placement. It is independent of which layers built the chart.
type Style struct {
	// Width and Height are the canvas size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// PointRadius is the marker radius in pixels.
	PointRadius float64 `yaml:"point_radius"`

	// LegendTextSize and LegendTitleSize are font sizes in points.
	LegendTextSize  float64 `yaml:"legend_text_size"`
	LegendTitleSize float64 `yaml:"legend_title_size"`

	// TitleSize is the chart title font size in points.
	TitleSize float64 `yaml:"title_size"`

	// Margin is the padding, in pixels, between the data extent and
	// the canvas edge.
	Margin float64 `yaml:"margin"`

	// FontPath optionally names a TrueType font file. When empty the
	// renderer falls back to its built-in bitmap face and font sizes
	// are approximate.
	FontPath string `yaml:"font_path"`

	// LegendInside moves the legend inside the plot area, drawn on a
	// bordered background. When nil the legend sits in the right
	// margin.
	LegendInside *LegendAnchor `yaml:"legend_inside"`
}

// DefaultStyle returns the default chart style: a 1:1-unit white theme
// with no axes and an outside-right legend.
func DefaultStyle() Style {
	return Style{
		Width:           800,
		Height:          600,
		PointRadius:     4,
		LegendTextSize:  10,
		LegendTitleSize: 12,
		TitleSize:       18,
		Margin:          40,
	}
}

// LoadStyle reads a Style from a YAML file, filling unset fields with
// defaults. A missing file yields the default style.
func LoadStyle(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultStyle(), nil
		}
		return Style{}, fmt.Errorf("reading style %s: %w", path, err)
	}

	var s Style
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("parsing style %s: %w", path, err)
	}
	s.ApplyDefaults()

	return s, nil
}

// ApplyDefaults fills zero-valued fields with the defaults.
func (s *Style) ApplyDefaults() {
	def := DefaultStyle()
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
	if s.PointRadius <= 0 {
		s.PointRadius = def.PointRadius
	}
	if s.LegendTextSize <= 0 {
		s.LegendTextSize = def.LegendTextSize
	}
	if s.LegendTitleSize <= 0 {
		s.LegendTitleSize = def.LegendTitleSize
	}
	if s.TitleSize <= 0 {
		s.TitleSize = def.TitleSize
	}
	if s.Margin <= 0 {
		s.Margin = def.Margin
	}
}
