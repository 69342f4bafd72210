package annotation

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// FontWeight is normal or bold.
type FontWeight string

const (
	WeightNormal FontWeight = "normal"
	WeightBold   FontWeight = "bold"
)

func (w FontWeight) Valid() bool { return w == WeightNormal || w == WeightBold }

// FontStyle is normal or italic.
type FontStyle string

const (
	StyleNormal FontStyle = "normal"
	StyleItalic FontStyle = "italic"
)

func (s FontStyle) Valid() bool { return s == StyleNormal || s == StyleItalic }

// TextDecoration draws an extra line through or under the text.
type TextDecoration string

const (
	DecorationNone        TextDecoration = "none"
	DecorationUnderline   TextDecoration = "underline"
	DecorationLineThrough TextDecoration = "line-through"
)

func (d TextDecoration) Valid() bool {
	switch d {
	case DecorationNone, DecorationUnderline, DecorationLineThrough:
		return true
	}
	return false
}

// ArrowDirection picks which ends of an arrow carry a head.
type ArrowDirection string

const (
	ArrowEnd   ArrowDirection = "end"
	ArrowStart ArrowDirection = "start"
	ArrowBoth  ArrowDirection = "both"
)

func (d ArrowDirection) Valid() bool {
	switch d {
	case ArrowEnd, ArrowStart, ArrowBoth:
		return true
	}
	return false
}

// HeadAtStart reports whether a head is drawn at the tail point.
func (d ArrowDirection) HeadAtStart() bool { return d == ArrowStart || d == ArrowBoth }

// HeadAtEnd reports whether a head is drawn at the end point.
func (d ArrowDirection) HeadAtEnd() bool { return d == ArrowEnd || d == ArrowBoth }

// Font families offered by the text tool.
const (
	FamilyArial     = "Arial"
	FamilyTimes     = "Times New Roman"
	FamilyCourier   = "Courier New"
	FamilyGeorgia   = "Georgia"
	FamilyVerdana   = "Verdana"
	defaultFontSize = 24
)

// Families lists the selectable font families.
func Families() []string {
	return []string{FamilyArial, FamilyTimes, FamilyCourier, FamilyGeorgia, FamilyVerdana}
}

// Editing limits applied by property setters.
const (
	MinFontSize    = 8
	MaxFontSize    = 72
	MinStrokeWidth = 1
	MaxStrokeWidth = 10
)

// Transparent disables shape filling.
const Transparent = "transparent"

// TextStyle is the styling given to newly placed text.
type TextStyle struct {
	FontSize   float64
	FontFamily string
	Weight     FontWeight
	Style      FontStyle
	Decoration TextDecoration
	Color      string
}

// DefaultTextStyle returns 24px black Arial.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		FontSize:   defaultFontSize,
		FontFamily: FamilyArial,
		Weight:     WeightNormal,
		Style:      StyleNormal,
		Decoration: DecorationNone,
		Color:      "#000000",
	}
}

// StrokeStyle is the styling given to new paths and shapes.
type StrokeStyle struct {
	Color string
	Width float64
	Fill  string
}

// DefaultFreehandStyle returns a 3px red stroke.
func DefaultFreehandStyle() StrokeStyle {
	return StrokeStyle{Color: "#ff0000", Width: 3}
}

// DefaultShapeStyle returns a 2px black outline with no fill.
func DefaultShapeStyle() StrokeStyle {
	return StrokeStyle{Color: "#000000", Width: 2, Fill: Transparent}
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, CSS colour names and
// "transparent". The alpha channel of hex forms is straight, not
// premultiplied.
func ParseColor(s string) (color.NRGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.NRGBA{}, fmt.Errorf("color cannot be empty")
	}
	if name == Transparent {
		return color.NRGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if !strings.HasPrefix(name, "#") {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	hex := name[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// IsTransparent reports whether s names a fully transparent colour.
func IsTransparent(s string) bool {
	c, err := ParseColor(s)
	return err == nil && c.A == 0
}
