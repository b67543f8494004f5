package colormap

import (
	"image/color"
	"testing"
)

func TestSeuratColormapEndpoints(t *testing.T) {
	t.Parallel()

	c0, ok := Seurat.At(0).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=0")
	}
	if c0 != (color.RGBA{R: 211, G: 211, B: 211, A: 255}) {
		t.Fatalf("unexpected Seurat.At(0): %#v", c0)
	}

	c1, ok := Seurat.At(1).(color.RGBA)
	if !ok {
		t.Fatalf("expected color.RGBA at t=1")
	}
	if c1 != (color.RGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Fatalf("unexpected Seurat.At(1): %#v", c1)
	}
}

func TestDivergingEndpointsAndMidpoint(t *testing.T) {
	t.Parallel()

	d := BlueWhiteRed

	if got := d.At(0); got != (color.RGBA{R: 0, G: 0, B: 255, A: 255}) {
		t.Fatalf("unexpected At(0): %#v", got)
	}
	if got := d.At(0.5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("unexpected At(0.5): %#v", got)
	}
	if got := d.At(1); got != (color.RGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Fatalf("unexpected At(1): %#v", got)
	}
}

func TestDivergingAtValue(t *testing.T) {
	t.Parallel()

	d := BlueWhiteRed

	// Midpoint maps to Mid even when the domain is asymmetric.
	if got := d.AtValue(0, -1, 0, 10); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("unexpected midpoint color: %#v", got)
	}
	if got := d.AtValue(-1, -1, 0, 10); got != (color.RGBA{R: 0, G: 0, B: 255, A: 255}) {
		t.Fatalf("unexpected low-edge color: %#v", got)
	}
	if got := d.AtValue(10, -1, 0, 10); got != (color.RGBA{R: 255, G: 0, B: 0, A: 255}) {
		t.Fatalf("unexpected high-edge color: %#v", got)
	}

	// A value below the midpoint must land on the blue side.
	c := d.AtValue(-0.5, -1, 0, 10).(color.RGBA)
	if c.B <= c.R {
		t.Fatalf("expected blue-dominant color below midpoint, got %#v", c)
	}

	// Degenerate domain collapses to Mid.
	if got := d.AtValue(-1, 0, 0, 10); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("unexpected degenerate-domain color: %#v", got)
	}
}

func TestCategoricalAtIndexWraps(t *testing.T) {
	t.Parallel()

	n := len(Categorical.colors)
	if got, want := Categorical.AtIndex(n), Categorical.AtIndex(0); got != want {
		t.Fatalf("AtIndex should wrap: got %#v, want %#v", got, want)
	}
	if got, want := Categorical.AtIndex(n+3), Categorical.AtIndex(3); got != want {
		t.Fatalf("AtIndex should wrap: got %#v, want %#v", got, want)
	}
}

func TestCategoricalColors(t *testing.T) {
	t.Parallel()

	cs := Categorical.Colors()
	if len(cs) != len(Categorical.colors) {
		t.Fatalf("expected %d colors, got %d", len(Categorical.colors), len(cs))
	}
	if cs[0] != (color.RGBA{R: 31, G: 119, B: 180, A: 255}) {
		t.Fatalf("unexpected first color: %#v", cs[0])
	}
}
