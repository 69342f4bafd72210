package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/wounds
require_label = false

[editor]
container_width = 900
padding = 16
zoom_max = 2.5

[text]
font_size = 120
font_family = "Courier New"
color = #336699

[stroke]
freehand_width = 4
shape_fill = rgba

[notify]
save = true
copy = false

[theme.my_custom_theme]
Background = #111111
Selection = #FF000080
`
	_, err := Parse(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "[stroke]") {
		t.Fatalf("expected stroke colour error, got %v", err)
	}

	cfg, err := Parse(strings.NewReader(strings.Replace(input, "shape_fill = rgba", "shape_fill = transparent", 1)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/wounds" {
		t.Errorf("Expected save_dir '/tmp/wounds', got '%s'", cfg.SaveDir)
	}
	if cfg.RequireLabel {
		t.Error("Expected require_label to be false")
	}
	if cfg.Editor.ContainerWidth != 900 || cfg.Editor.Padding != 16 || cfg.Editor.ZoomMax != 2.5 {
		t.Errorf("Unexpected editor section: %+v", cfg.Editor)
	}
	if cfg.Editor.ContainerHeight != New().Editor.ContainerHeight {
		t.Errorf("Unset key lost its default: %+v", cfg.Editor)
	}
	if cfg.Text.FontSize != 72 {
		t.Errorf("Expected font size clamped to 72, got %v", cfg.Text.FontSize)
	}
	if cfg.Text.FontFamily != "Courier New" {
		t.Errorf("Unexpected font family %q", cfg.Text.FontFamily)
	}
	if cfg.Stroke.FreehandWidth != 4 {
		t.Errorf("Unexpected freehand width %v", cfg.Stroke.FreehandWidth)
	}
	if !cfg.Notify.Save || cfg.Notify.Copy {
		t.Errorf("Unexpected notify section: %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.Selection.A != 0x80 {
		t.Errorf("Unexpected Selection alpha: %+v", th.Selection)
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/wounds

[text]
font_family = "Times New Roman"

[notify]
save = true
copy = false

[theme.custom]
Name = custom
Background = #000000
CropMask = #00000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.RequireLabel != cfg2.RequireLabel {
		t.Errorf("Root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Editor != cfg2.Editor || cfg.Text != cfg2.Text || cfg.Stroke != cfg2.Stroke {
		t.Errorf("Section mismatch:\n%+v\n%+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestEditorConfig(t *testing.T) {
	cfg := New()
	cfg.Stroke.ShapeFill = "#00ff0080"
	cfg.RequireLabel = false
	ec := cfg.EditorConfig(nil)
	if ec.ShapeStyle.Fill != "#00ff0080" || ec.RequireLabel {
		t.Fatalf("unexpected editor config %+v", ec)
	}
	if ec.Container.W != cfg.Editor.ContainerWidth {
		t.Fatalf("container = %+v", ec.Container)
	}
}

func TestLoaderDevAndSave(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)

	l := NewLoader("dev", "")
	if p := l.GetConfigPath(); p != "" {
		t.Fatalf("unexpected config path %q", p)
	}

	cfg := New()
	cfg.Theme = "dark"
	if err := Save(cfg, filepath.Join(dir, ".woundmarkrc")); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Theme != "dark" {
		t.Fatalf("theme = %q", loaded.Theme)
	}

	if p := NewLoader("v1.0.0", "").GetConfigPath(); p != "" {
		t.Fatalf("release build picked up dev file %q", p)
	}
}
