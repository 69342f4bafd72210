package annotation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/example/woundmark/internal/geom"
)

// wireAnnotation is the stored envelope. Freehand and shape payloads travel
// as a JSON document inside Content so every annotation has the same shape.
type wireAnnotation struct {
	ID             string         `json:"id"`
	Type           Kind           `json:"type"`
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Content        string         `json:"content"`
	FontSize       float64        `json:"fontSize,omitempty"`
	FontFamily     string         `json:"fontFamily,omitempty"`
	FontWeight     FontWeight     `json:"fontWeight,omitempty"`
	FontStyle      FontStyle      `json:"fontStyle,omitempty"`
	TextDecoration TextDecoration `json:"textDecoration,omitempty"`
	Color          string         `json:"color,omitempty"`
	Rotation       float64        `json:"rotation,omitempty"`
}

type wireFreehand struct {
	Points []geom.Point `json:"points"`
	Color  string       `json:"color"`
	Width  float64      `json:"width"`
}

type wireShape struct {
	Type           ShapeKind      `json:"type"`
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Width          float64        `json:"width,omitempty"`
	Height         float64        `json:"height,omitempty"`
	Radius         float64        `json:"radius,omitempty"`
	X1             float64        `json:"x1,omitempty"`
	Y1             float64        `json:"y1,omitempty"`
	X2             float64        `json:"x2,omitempty"`
	Y2             float64        `json:"y2,omitempty"`
	ArrowDirection ArrowDirection `json:"arrowDirection,omitempty"`
	Rotation       float64        `json:"rotation,omitempty"`
	StrokeColor    string         `json:"strokeColor"`
	StrokeWidth    float64        `json:"strokeWidth"`
	FillColor      string         `json:"fillColor,omitempty"`
}

// MarshalJSON writes the stored envelope. Annotations that failed to decode
// are written back exactly as they were read.
func (a Annotation) MarshalJSON() ([]byte, error) {
	if a.bad != nil {
		return slices.Clone(a.bad.Raw), nil
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("annotation %s: %w", a.ID, err)
	}
	w := wireAnnotation{ID: a.ID, Type: a.Kind, X: a.Position.X, Y: a.Position.Y}
	switch a.Kind {
	case KindText:
		t := a.Text
		w.Content = t.Content
		w.FontSize = t.FontSize
		w.FontFamily = t.FontFamily
		w.FontWeight = t.Weight
		w.FontStyle = t.Style
		w.TextDecoration = t.Decoration
		w.Color = t.Color
		w.Rotation = t.Rotation
	case KindFreehand:
		f := a.Freehand
		b, err := json.Marshal(wireFreehand{Points: f.Points, Color: f.Color, Width: f.Width})
		if err != nil {
			return nil, err
		}
		w.Content = string(b)
	case KindShape:
		b, err := json.Marshal(shapeToWire(a.Shape))
		if err != nil {
			return nil, err
		}
		w.Content = string(b)
	}
	return json.Marshal(w)
}

func shapeToWire(s *Shape) wireShape {
	w := wireShape{Type: s.Kind, StrokeColor: s.Stroke, StrokeWidth: s.StrokeWidth, FillColor: s.Fill}
	switch s.Kind {
	case ShapeRect:
		w.X, w.Y, w.Width, w.Height = s.Rect.X, s.Rect.Y, s.Rect.W, s.Rect.H
	case ShapeCircle:
		w.X, w.Y, w.Radius = s.Circle.CX, s.Circle.CY, s.Circle.R
	case ShapeArrow:
		ar := s.Arrow
		w.X, w.Y = ar.X1, ar.Y1
		w.X1, w.Y1, w.X2, w.Y2 = ar.X1, ar.Y1, ar.X2, ar.Y2
		w.ArrowDirection = ar.Direction
		w.Rotation = ar.Rotation
		w.FillColor = ""
	}
	return w
}

func shapeFromWire(w wireShape) Shape {
	s := Shape{Kind: w.Type, Stroke: w.StrokeColor, StrokeWidth: w.StrokeWidth, Fill: w.FillColor}
	if s.Fill == "" {
		s.Fill = Transparent
	}
	switch w.Type {
	case ShapeRect:
		s.Rect = Rect{X: w.X, Y: w.Y, W: w.Width, H: w.Height}
	case ShapeCircle:
		s.Circle = Circle{CX: w.X, CY: w.Y, R: w.Radius}
	case ShapeArrow:
		s.Arrow = Arrow{X1: w.X1, Y1: w.Y1, X2: w.X2, Y2: w.Y2, Direction: w.ArrowDirection, Rotation: w.Rotation}
		if s.Arrow.Direction == "" {
			s.Arrow.Direction = ArrowEnd
		}
	}
	return s
}

// UnmarshalJSON decodes the stored envelope. A broken envelope is an error;
// a broken payload is kept as a malformed annotation that renders nothing.
func (a *Annotation) UnmarshalJSON(b []byte) error {
	var w wireAnnotation
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	dec, err := fromWire(w)
	if err != nil {
		*a = Annotation{
			ID:       w.ID,
			Kind:     w.Type,
			Position: geom.Pt(w.X, w.Y),
			bad:      &Malformed{Raw: bytes.Clone(b), Err: err},
		}
		return nil
	}
	*a = dec
	return nil
}

func fromWire(w wireAnnotation) (Annotation, error) {
	a := Annotation{ID: w.ID, Kind: w.Type, Position: geom.Pt(w.X, w.Y)}
	switch w.Type {
	case KindText:
		a.Text = &Text{
			Content:    w.Content,
			FontSize:   w.FontSize,
			FontFamily: w.FontFamily,
			Weight:     w.FontWeight,
			Style:      w.FontStyle,
			Decoration: w.TextDecoration,
			Color:      w.Color,
			Rotation:   w.Rotation,
		}
		fillTextDefaults(a.Text)
	case KindFreehand:
		var f wireFreehand
		if err := json.Unmarshal([]byte(w.Content), &f); err != nil {
			return Annotation{}, fmt.Errorf("freehand content: %w", err)
		}
		a.Freehand = &Freehand{Points: f.Points, Color: f.Color, Width: f.Width}
		a = a.synced()
	case KindShape:
		var ws wireShape
		if err := json.Unmarshal([]byte(w.Content), &ws); err != nil {
			return Annotation{}, fmt.Errorf("shape content: %w", err)
		}
		s := shapeFromWire(ws)
		a.Shape = &s
		a = a.synced()
	default:
		return Annotation{}, fmt.Errorf("unknown annotation type %q", w.Type)
	}
	a = a.Normalized()
	if err := a.Validate(); err != nil {
		return Annotation{}, err
	}
	return a, nil
}

// fillTextDefaults completes records written before the style fields existed.
func fillTextDefaults(t *Text) {
	d := DefaultTextStyle()
	if t.FontSize == 0 {
		t.FontSize = d.FontSize
	}
	if t.FontFamily == "" {
		t.FontFamily = d.FontFamily
	}
	if t.Weight == "" {
		t.Weight = d.Weight
	}
	if t.Style == "" {
		t.Style = d.Style
	}
	if t.Decoration == "" {
		t.Decoration = d.Decoration
	}
	if t.Color == "" {
		t.Color = d.Color
	}
}

// DecodeList parses a stored annotation list.
func DecodeList(data []byte) ([]Annotation, error) {
	var list []Annotation
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	return list, nil
}

// EncodeList renders a list in stored form.
func EncodeList(list []Annotation) ([]byte, error) {
	if list == nil {
		list = []Annotation{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode annotations: %w", err)
	}
	return b, nil
}

// Usable filters out malformed annotations.
func Usable(list []Annotation) []Annotation {
	out := make([]Annotation, 0, len(list))
	for _, a := range list {
		if a.Err() == nil {
			out = append(out, a)
		}
	}
	return out
}

// IsMalformed reports whether err came from a malformed annotation.
func IsMalformed(err error) bool { return errors.Is(err, ErrMalformed) }
