package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/theme"
)

// Parse reads configuration from an io.Reader. Unknown keys and sections
// are ignored so older binaries can read newer files.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		var key, value string
		var ok bool
		if strings.Contains(line, "=") {
			key, value, ok = strings.Cut(line, "=")
		} else {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			if uq, err := strconv.Unquote(value); err == nil {
				value = uq
			} else {
				value = value[1 : len(value)-1]
			}
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "editor":
			err = setEditorField(&cfg.Editor, key, value)
		case currentSection == "text":
			err = setTextField(&cfg.Text, key, value)
		case currentSection == "stroke":
			err = setStrokeField(&cfg.Stroke, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("error in root section: %w", err)
			}
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "require_label":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		cfg.RequireLabel = b
	}
	return nil
}

func setEditorField(e *Editor, key, value string) error {
	switch strings.ToLower(key) {
	case "container_width":
		return parseInt(key, value, &e.ContainerWidth)
	case "container_height":
		return parseInt(key, value, &e.ContainerHeight)
	case "padding":
		return parseInt(key, value, &e.Padding)
	case "zoom_min":
		return parseFloat(key, value, &e.ZoomMin)
	case "zoom_max":
		return parseFloat(key, value, &e.ZoomMax)
	case "zoom_step":
		return parseFloat(key, value, &e.ZoomStep)
	}
	return nil
}

func setTextField(t *Text, key, value string) error {
	switch strings.ToLower(key) {
	case "font_size":
		if err := parseFloat(key, value, &t.FontSize); err != nil {
			return err
		}
		t.FontSize = max(annotation.MinFontSize, min(annotation.MaxFontSize, t.FontSize))
	case "font_family":
		t.FontFamily = value
	case "color":
		if err := checkColor(key, value); err != nil {
			return err
		}
		t.Color = value
	}
	return nil
}

func setStrokeField(s *Stroke, key, value string) error {
	switch strings.ToLower(key) {
	case "freehand_color":
		if err := checkColor(key, value); err != nil {
			return err
		}
		s.FreehandColor = value
	case "freehand_width":
		if err := parseWidth(key, value, &s.FreehandWidth); err != nil {
			return err
		}
	case "shape_color":
		if err := checkColor(key, value); err != nil {
			return err
		}
		s.ShapeColor = value
	case "shape_width":
		if err := parseWidth(key, value, &s.ShapeWidth); err != nil {
			return err
		}
	case "shape_fill":
		if err := checkColor(key, value); err != nil {
			return err
		}
		s.ShapeFill = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseInt(key, value string, dst *int) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	*dst = v
	return nil
}

func parseFloat(key, value string, dst *float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	*dst = v
	return nil
}

func parseWidth(key, value string, dst *float64) error {
	if err := parseFloat(key, value, dst); err != nil {
		return err
	}
	*dst = max(annotation.MinStrokeWidth, min(annotation.MaxStrokeWidth, *dst))
	return nil
}

func checkColor(key, value string) error {
	if _, err := annotation.ParseColor(value); err != nil {
		return fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	return nil
}
