package theme

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: mine\nselection: #FF0000\nCropMask: #00000080\nUnknown: #123456\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "mine" {
		t.Fatalf("name = %q", th.Name)
	}
	if th.Selection != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("selection = %v", th.Selection)
	}
	if th.CropMask.A != 0x80 {
		t.Fatalf("crop mask alpha = %d", th.CropMask.A)
	}
	if th.TempShape != Default().TempShape {
		t.Fatalf("unmentioned field lost its default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Selection: red\n")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, s := range []string{"#3B82F6", "#00000080", "#FFFFFF40"} {
		c, err := ParseColor(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if got := FormatColor(c); got != s {
			t.Errorf("FormatColor(ParseColor(%s)) = %s", s, got)
		}
	}
}

func TestLoaderSources(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ward.theme"), []byte("Name: ward\nSelection: #00FF00\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := &Loader{ConfigDir: dir}

	if th, err := l.Load(""); err != nil || th.Name != "Default" {
		t.Fatalf("empty name: %v %v", th, err)
	}
	if th, err := l.Load("dark"); err != nil || th.Name != "dark" {
		t.Fatalf("embedded: %v %v", th, err)
	}
	if th, err := l.Load("ward"); err != nil || th.Selection != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("config dir: %v %v", th, err)
	}
	if th, err := l.Load(filepath.Join(dir, "ward.theme")); err != nil || th.Name != "ward" {
		t.Fatalf("file path: %v %v", th, err)
	}
	if _, err := l.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmbeddedNames(t *testing.T) {
	names := Embedded()
	want := []string{"dark", "default", "high_contrast"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("Embedded() = %v", names)
	}
}
