// Package annotation holds the marks a clinician places on a wound photo.
//
// An Annotation is a tagged union over text, freehand and shape variants.
// Values are treated as immutable: every mutation returns a new Annotation so
// a frame being rendered never observes a half-applied edit.
package annotation

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/google/uuid"

	"github.com/example/woundmark/internal/geom"
)

// ErrMalformed marks an annotation whose stored content could not be decoded.
var ErrMalformed = errors.New("malformed annotation")

// Kind discriminates the annotation variants. The values match the stored
// record format.
type Kind string

const (
	KindText     Kind = "text"
	KindFreehand Kind = "draw"
	KindShape    Kind = "shape"
)

// ShapeKind selects the geometry carried by a Shape.
type ShapeKind string

const (
	ShapeRect   ShapeKind = "rect"
	ShapeCircle ShapeKind = "circle"
	ShapeArrow  ShapeKind = "arrow"
)

// Valid reports whether k is a known shape kind.
func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeRect, ShapeCircle, ShapeArrow:
		return true
	}
	return false
}

// Text is a label drawn with its baseline starting at the envelope position.
type Text struct {
	Content    string
	FontSize   float64
	FontFamily string
	Weight     FontWeight
	Style      FontStyle
	Decoration TextDecoration
	Color      string
	Rotation   float64
}

// Freehand is a stroked polyline.
type Freehand struct {
	Points []geom.Point
	Color  string
	Width  float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Circle is centred on (CX, CY).
type Circle struct {
	CX, CY, R float64
}

// Arrow runs from (X1, Y1) to (X2, Y2) and is rotated about its midpoint.
type Arrow struct {
	X1, Y1, X2, Y2 float64
	Direction      ArrowDirection
	Rotation       float64
}

// Start returns the tail point.
func (a Arrow) Start() geom.Point { return geom.Pt(a.X1, a.Y1) }

// End returns the head point for the default direction.
func (a Arrow) End() geom.Point { return geom.Pt(a.X2, a.Y2) }

// Mid returns the rotation pivot.
func (a Arrow) Mid() geom.Point { return geom.Mid(a.Start(), a.End()) }

// Endpoints returns both endpoints with the rotation applied.
func (a Arrow) Endpoints() (geom.Point, geom.Point) {
	m := a.Mid()
	return a.Start().RotateAbout(m, a.Rotation), a.End().RotateAbout(m, a.Rotation)
}

// Shape is a rectangle, circle or arrow with a shared stroke style. Only the
// geometry named by Kind is meaningful.
type Shape struct {
	Kind        ShapeKind
	Rect        Rect
	Circle      Circle
	Arrow       Arrow
	Stroke      string
	StrokeWidth float64
	Fill        string
}

// Anchor returns the point used as the envelope position.
func (s Shape) Anchor() geom.Point {
	switch s.Kind {
	case ShapeRect:
		return geom.Pt(s.Rect.X, s.Rect.Y)
	case ShapeCircle:
		return geom.Pt(s.Circle.CX, s.Circle.CY)
	case ShapeArrow:
		return s.Arrow.Start()
	}
	return geom.Point{}
}

// Malformed keeps the raw stored form of an annotation that failed to decode,
// so it survives a load/save cycle untouched.
type Malformed struct {
	Raw []byte
	Err error
}

// Annotation is one mark on the image.
type Annotation struct {
	ID       string
	Kind     Kind
	Position geom.Point

	Text     *Text
	Freehand *Freehand
	Shape    *Shape

	bad *Malformed
}

// Err returns a non-nil error when the annotation cannot be rendered or hit.
func (a Annotation) Err() error {
	if a.bad != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, a.bad.Err)
	}
	return a.Validate()
}

// Malformed returns the raw stored form when decoding failed.
func (a Annotation) Malformed() (*Malformed, bool) {
	return a.bad, a.bad != nil
}

// NewID returns a fresh identifier.
func NewID() string { return uuid.NewString() }

// NewText places a text annotation at p.
func NewText(p geom.Point, content string, st TextStyle) Annotation {
	return Annotation{
		ID:       NewID(),
		Kind:     KindText,
		Position: p,
		Text: &Text{
			Content:    content,
			FontSize:   st.FontSize,
			FontFamily: st.FontFamily,
			Weight:     st.Weight,
			Style:      st.Style,
			Decoration: st.Decoration,
			Color:      st.Color,
		},
	}
}

// NewFreehand creates a path annotation. The points are copied.
func NewFreehand(points []geom.Point, st StrokeStyle) Annotation {
	a := Annotation{
		ID:       NewID(),
		Kind:     KindFreehand,
		Freehand: &Freehand{Points: slices.Clone(points), Color: st.Color, Width: st.Width},
	}
	return a.synced()
}

// NewRect creates a rectangle shape.
func NewRect(r Rect, st StrokeStyle) Annotation {
	return newShape(Shape{Kind: ShapeRect, Rect: r}, st)
}

// NewCircle creates a circle shape.
func NewCircle(c Circle, st StrokeStyle) Annotation {
	return newShape(Shape{Kind: ShapeCircle, Circle: c}, st)
}

// NewArrow creates an arrow shape, pointing at the end unless told otherwise.
func NewArrow(ar Arrow, st StrokeStyle) Annotation {
	if ar.Direction == "" {
		ar.Direction = ArrowEnd
	}
	return newShape(Shape{Kind: ShapeArrow, Arrow: ar}, st)
}

func newShape(s Shape, st StrokeStyle) Annotation {
	s.Stroke = st.Color
	s.StrokeWidth = st.Width
	s.Fill = st.Fill
	if s.Fill == "" || s.Kind == ShapeArrow {
		s.Fill = Transparent
	}
	a := Annotation{ID: NewID(), Kind: KindShape, Shape: &s}
	return a.synced()
}

// Clone returns a deep copy of a.
func (a Annotation) Clone() Annotation {
	if a.Text != nil {
		t := *a.Text
		a.Text = &t
	}
	if a.Freehand != nil {
		f := *a.Freehand
		f.Points = slices.Clone(f.Points)
		a.Freehand = &f
	}
	if a.Shape != nil {
		s := *a.Shape
		a.Shape = &s
	}
	if a.bad != nil {
		m := *a.bad
		m.Raw = slices.Clone(m.Raw)
		a.bad = &m
	}
	return a
}

// WithShape returns a copy of a carrying s, with the anchor re-synced.
func (a Annotation) WithShape(s Shape) Annotation {
	a = a.Clone()
	a.Shape = &s
	return a.synced()
}

// WithText returns a copy of a carrying t.
func (a Annotation) WithText(t Text) Annotation {
	a = a.Clone()
	a.Text = &t
	return a
}

// WithFreehand returns a copy of a carrying f, with the anchor re-synced.
func (a Annotation) WithFreehand(f Freehand) Annotation {
	a = a.Clone()
	f.Points = slices.Clone(f.Points)
	a.Freehand = &f
	return a.synced()
}

// Translate moves the whole geometry by d. Malformed annotations are
// returned unchanged.
func (a Annotation) Translate(d geom.Delta) Annotation {
	if a.bad != nil {
		return a
	}
	a = a.Clone()
	switch a.Kind {
	case KindText:
		a.Position = a.Position.Add(d)
		return a
	case KindFreehand:
		if a.Freehand != nil {
			for i, p := range a.Freehand.Points {
				a.Freehand.Points[i] = p.Add(d)
			}
		}
	case KindShape:
		if a.Shape != nil {
			s := a.Shape
			s.Rect.X += d.DX
			s.Rect.Y += d.DY
			s.Circle.CX += d.DX
			s.Circle.CY += d.DY
			s.Arrow.X1 += d.DX
			s.Arrow.Y1 += d.DY
			s.Arrow.X2 += d.DX
			s.Arrow.Y2 += d.DY
		}
	}
	return a.synced()
}

// synced copies the variant's anchor into the envelope position.
func (a Annotation) synced() Annotation {
	switch a.Kind {
	case KindFreehand:
		if a.Freehand != nil && len(a.Freehand.Points) > 0 {
			a.Position = a.Freehand.Points[0]
		}
	case KindShape:
		if a.Shape != nil {
			a.Position = a.Shape.Anchor()
		}
	}
	return a
}

// Validate checks that the variant is present, every number is finite and
// every enum holds one of its literal values.
func (a Annotation) Validate() error {
	if a.ID == "" {
		return errors.New("missing id")
	}
	if !a.Position.Finite() {
		return errors.New("position is not finite")
	}
	switch a.Kind {
	case KindText:
		if a.Text == nil {
			return errors.New("text annotation without text payload")
		}
		return a.Text.validate()
	case KindFreehand:
		if a.Freehand == nil {
			return errors.New("freehand annotation without path payload")
		}
		return a.Freehand.validate()
	case KindShape:
		if a.Shape == nil {
			return errors.New("shape annotation without shape payload")
		}
		return a.Shape.validate()
	}
	return fmt.Errorf("unknown annotation type %q", a.Kind)
}

func (t *Text) validate() error {
	if !geom.Finite(t.FontSize, t.Rotation) {
		return errors.New("text has non-finite number")
	}
	if t.FontSize < MinFontSize || t.FontSize > MaxFontSize {
		return fmt.Errorf("font size %v outside %d-%d", t.FontSize, MinFontSize, MaxFontSize)
	}
	if !t.Weight.Valid() {
		return fmt.Errorf("invalid font weight %q", t.Weight)
	}
	if !t.Style.Valid() {
		return fmt.Errorf("invalid font style %q", t.Style)
	}
	if !t.Decoration.Valid() {
		return fmt.Errorf("invalid text decoration %q", t.Decoration)
	}
	if _, err := ParseColor(t.Color); err != nil {
		return err
	}
	return nil
}

func (f *Freehand) validate() error {
	if len(f.Points) == 0 {
		return errors.New("freehand path has no points")
	}
	for _, p := range f.Points {
		if !p.Finite() {
			return errors.New("freehand point is not finite")
		}
	}
	if err := checkStrokeWidth(f.Width); err != nil {
		return err
	}
	if _, err := ParseColor(f.Color); err != nil {
		return err
	}
	return nil
}

func (s *Shape) validate() error {
	if err := checkStrokeWidth(s.StrokeWidth); err != nil {
		return err
	}
	if _, err := ParseColor(s.Stroke); err != nil {
		return err
	}
	if _, err := ParseColor(s.Fill); err != nil {
		return err
	}
	switch s.Kind {
	case ShapeRect:
		r := s.Rect
		if !geom.Finite(r.X, r.Y, r.W, r.H) {
			return errors.New("rect has non-finite number")
		}
	case ShapeCircle:
		c := s.Circle
		if !geom.Finite(c.CX, c.CY, c.R) || c.R < 0 {
			return errors.New("invalid circle geometry")
		}
	case ShapeArrow:
		ar := s.Arrow
		if !geom.Finite(ar.X1, ar.Y1, ar.X2, ar.Y2, ar.Rotation) {
			return errors.New("arrow has non-finite number")
		}
		if !ar.Direction.Valid() {
			return fmt.Errorf("invalid arrow direction %q", ar.Direction)
		}
	default:
		return fmt.Errorf("unknown shape type %q", s.Kind)
	}
	return nil
}

func checkStrokeWidth(w float64) error {
	if !geom.Finite(w) || w < MinStrokeWidth || w > MaxStrokeWidth {
		return fmt.Errorf("stroke width %v outside %d-%d", w, MinStrokeWidth, MaxStrokeWidth)
	}
	return nil
}

// Normalized returns a copy of a with text and arrow rotations mapped into
// [0, 360).
func (a Annotation) Normalized() Annotation {
	a = a.Clone()
	if a.Text != nil && geom.Finite(a.Text.Rotation) {
		a.Text.Rotation = NormalizeDegrees(a.Text.Rotation)
	}
	if a.Shape != nil && a.Shape.Kind == ShapeArrow && geom.Finite(a.Shape.Arrow.Rotation) {
		a.Shape.Arrow.Rotation = NormalizeDegrees(a.Shape.Arrow.Rotation)
	}
	return a
}

// NormalizeDegrees maps any finite angle into [0, 360).
func NormalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
