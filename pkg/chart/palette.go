package chart

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/scviz/dimplot/pkg/colormap"
)

// DefaultPalette is the discrete fill palette used when the caller
// supplies no colors.
func DefaultPalette() []color.Color {
	return colormap.Categorical.Colors()
}

// EllipsePalette is the fixed background palette for group ellipses.
// It cycles when the grouping variable has more than three levels.
func EllipsePalette() []color.Color {
	return []color.Color{
		colornames.Orange,
		colornames.Thistle,
		colornames.Yellow,
	}
}
