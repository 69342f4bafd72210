package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/editor"
	"github.com/example/woundmark/internal/geom"
	"github.com/example/woundmark/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Editor holds canvas and zoom settings.
type Editor struct {
	ContainerWidth  int
	ContainerHeight int
	Padding         int
	ZoomMin         float64
	ZoomMax         float64
	ZoomStep        float64
}

// Text holds the style given to new text annotations.
type Text struct {
	FontSize   float64
	FontFamily string
	Color      string
}

// Stroke holds the style given to new paths and shapes.
type Stroke struct {
	FreehandColor string
	FreehandWidth float64
	ShapeColor    string
	ShapeWidth    float64
	ShapeFill     string
}

// Config holds the application configuration.
type Config struct {
	Theme        string
	SaveDir      string
	RequireLabel bool
	Editor       Editor
	Text         Text
	Stroke       Stroke
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	d := editor.DefaultConfig()
	return &Config{
		Theme:        "", // empty falls back to env, then the default theme
		RequireLabel: d.RequireLabel,
		Editor: Editor{
			ContainerWidth:  d.Container.W,
			ContainerHeight: d.Container.H,
			Padding:         d.Padding,
			ZoomMin:         d.ZoomMin,
			ZoomMax:         d.ZoomMax,
			ZoomStep:        d.ZoomStep,
		},
		Text: Text{
			FontSize:   d.TextStyle.FontSize,
			FontFamily: d.TextStyle.FontFamily,
			Color:      d.TextStyle.Color,
		},
		Stroke: Stroke{
			FreehandColor: d.FreehandStyle.Color,
			FreehandWidth: d.FreehandStyle.Width,
			ShapeColor:    d.ShapeStyle.Color,
			ShapeWidth:    d.ShapeStyle.Width,
			ShapeFill:     d.ShapeStyle.Fill,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// EditorConfig converts the settings into editor defaults drawn with t.
func (c *Config) EditorConfig(t *theme.Theme) editor.Config {
	text := annotation.DefaultTextStyle()
	text.FontSize = c.Text.FontSize
	text.FontFamily = c.Text.FontFamily
	text.Color = c.Text.Color
	return editor.Config{
		Container:     geom.Size{W: c.Editor.ContainerWidth, H: c.Editor.ContainerHeight},
		Padding:       c.Editor.Padding,
		ZoomMin:       c.Editor.ZoomMin,
		ZoomMax:       c.Editor.ZoomMax,
		ZoomStep:      c.Editor.ZoomStep,
		TextStyle:     text,
		FreehandStyle: annotation.StrokeStyle{Color: c.Stroke.FreehandColor, Width: c.Stroke.FreehandWidth},
		ShapeStyle:    annotation.StrokeStyle{Color: c.Stroke.ShapeColor, Width: c.Stroke.ShapeWidth, Fill: c.Stroke.ShapeFill},
		RequireLabel:  c.RequireLabel,
		Theme:         t,
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "require_label = %v\n", c.RequireLabel)
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	fmt.Fprintf(&sb, "container_width = %d\n", c.Editor.ContainerWidth)
	fmt.Fprintf(&sb, "container_height = %d\n", c.Editor.ContainerHeight)
	fmt.Fprintf(&sb, "padding = %d\n", c.Editor.Padding)
	fmt.Fprintf(&sb, "zoom_min = %g\n", c.Editor.ZoomMin)
	fmt.Fprintf(&sb, "zoom_max = %g\n", c.Editor.ZoomMax)
	fmt.Fprintf(&sb, "zoom_step = %g\n", c.Editor.ZoomStep)
	sb.WriteString("\n")

	sb.WriteString("[text]\n")
	fmt.Fprintf(&sb, "font_size = %g\n", c.Text.FontSize)
	fmt.Fprintf(&sb, "font_family = %q\n", c.Text.FontFamily)
	fmt.Fprintf(&sb, "color = %s\n", c.Text.Color)
	sb.WriteString("\n")

	sb.WriteString("[stroke]\n")
	fmt.Fprintf(&sb, "freehand_color = %s\n", c.Stroke.FreehandColor)
	fmt.Fprintf(&sb, "freehand_width = %g\n", c.Stroke.FreehandWidth)
	fmt.Fprintf(&sb, "shape_color = %s\n", c.Stroke.ShapeColor)
	fmt.Fprintf(&sb, "shape_width = %g\n", c.Stroke.ShapeWidth)
	fmt.Fprintf(&sb, "shape_fill = %s\n", c.Stroke.ShapeFill)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, nc := range t.Colors() {
			fmt.Fprintf(&sb, "%s: %s\n", nc.Name, theme.FormatColor(nc.Color))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
