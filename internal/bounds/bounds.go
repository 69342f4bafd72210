// Package bounds computes hit boxes and resize handles for annotations.
//
// The same boxes drive hit-testing and the selection indicator, so text uses
// a width estimate rather than real font metrics: both callers must agree.
package bounds

import (
	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/geom"
)

const (
	// TextPad is the horizontal margin around estimated text.
	TextPad = 5
	// PathPad pads freehand, rectangle and circle boxes.
	PathPad = 5
	// ArrowPad pads arrow boxes.
	ArrowPad = 10
	// CharWidth is the assumed glyph advance as a fraction of the font size.
	CharWidth = 0.6

	// HandleSize is the drawn size of a corner handle.
	HandleSize = 8
	// HandleTolerance extends the handle hit area on every side.
	HandleTolerance = 5
)

// Of returns the axis-aligned box enclosing a. Malformed annotations have no
// box.
func Of(a annotation.Annotation) (geom.Box, bool) {
	if a.Err() != nil {
		return geom.Box{}, false
	}
	switch a.Kind {
	case annotation.KindText:
		return textBox(a.Position, a.Text), true
	case annotation.KindFreehand:
		return geom.BoxAround(a.Freehand.Points...).Pad(PathPad), true
	case annotation.KindShape:
		return shapeBox(a.Shape)
	}
	return geom.Box{}, false
}

func textBox(p geom.Point, t *annotation.Text) geom.Box {
	n := float64(len([]rune(t.Content)))
	return geom.Box{
		X: p.X - TextPad,
		Y: p.Y - t.FontSize,
		W: n*t.FontSize*CharWidth + 2*TextPad,
		H: t.FontSize + 2*TextPad,
	}
}

func shapeBox(s *annotation.Shape) (geom.Box, bool) {
	switch s.Kind {
	case annotation.ShapeRect:
		r := s.Rect
		return geom.Normalize(geom.Pt(r.X, r.Y), r.W, r.H).Pad(PathPad), true
	case annotation.ShapeCircle:
		c := s.Circle
		return geom.Box{X: c.CX - c.R, Y: c.CY - c.R, W: 2 * c.R, H: 2 * c.R}.Pad(PathPad), true
	case annotation.ShapeArrow:
		p1, p2 := s.Arrow.Endpoints()
		return geom.BoxAround(p1, p2).Pad(ArrowPad), true
	}
	return geom.Box{}, false
}

// HitTest reports whether p falls inside the box of a.
func HitTest(p geom.Point, a annotation.Annotation) bool {
	b, ok := Of(a)
	return ok && b.Contains(p)
}

// FindTopmost returns the last annotation in list whose box contains p,
// along with its index.
func FindTopmost(p geom.Point, list []annotation.Annotation) (annotation.Annotation, int, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if HitTest(p, list[i]) {
			return list[i], i, true
		}
	}
	return annotation.Annotation{}, -1, false
}
