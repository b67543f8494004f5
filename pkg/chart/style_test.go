package chart

import (
	"os"
	"path/filepath"
	"testing"
)

func loadFromString(t *testing.T, content string) Style {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "style.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing style file: %v", err)
	}

	s, err := LoadStyle(path)
	if err != nil {
		t.Fatalf("LoadStyle: %v", err)
	}
	return s
}

func TestLoadStyle(t *testing.T) {
	content := `
width: 1200
height: 900
legend_text_size: 14
legend_inside:
  x: 0.8
  y: 0.2
`
	s := loadFromString(t, content)

	if s.Width != 1200 || s.Height != 900 {
		t.Errorf("unexpected canvas size: %dx%d", s.Width, s.Height)
	}
	if s.LegendTextSize != 14 {
		t.Errorf("expected legend text size 14, got %v", s.LegendTextSize)
	}
	if s.LegendInside == nil {
		t.Fatal("expected legend_inside to be set")
	}
	if s.LegendInside.X != 0.8 || s.LegendInside.Y != 0.2 {
		t.Errorf("unexpected legend anchor: %#v", s.LegendInside)
	}

	// Unset fields fall back to defaults.
	if s.TitleSize != 18 {
		t.Errorf("expected default title size 18, got %v", s.TitleSize)
	}
	if s.PointRadius != 4 {
		t.Errorf("expected default point radius 4, got %v", s.PointRadius)
	}
}

func TestLoadStyleMissingFile(t *testing.T) {
	s, err := LoadStyle(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadStyle on missing file: %v", err)
	}
	if s != DefaultStyle() {
		t.Errorf("expected default style, got %#v", s)
	}
}

func TestLoadStyleBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.yaml")
	if err := os.WriteFile(path, []byte("width: [oops"), 0o644); err != nil {
		t.Fatalf("writing style file: %v", err)
	}
	if _, err := LoadStyle(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestScaleLookups(t *testing.T) {
	t.Parallel()

	df := &DiscreteFill{
		Levels: []string{"a", "b", "c"},
		Colors: DefaultPalette()[:2],
	}
	// Level "c" wraps onto the first palette entry.
	if got, want := df.ColorFor("c"), df.Colors[0]; got != want {
		t.Errorf("ColorFor(c) = %#v, want %#v", got, want)
	}

	ss := &ShapeScale{
		Levels: []string{"x", "y"},
		Shapes: []Shape{Square},
	}
	if got := ss.ShapeFor("y"); got != Square {
		t.Errorf("ShapeFor(y) = %v, want Square", got)
	}
	if got := ss.ShapeFor("unknown"); got != Circle {
		t.Errorf("ShapeFor(unknown) = %v, want Circle fallback", got)
	}
}
