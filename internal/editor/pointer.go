package editor

import (
	"math"
	"slices"
	"strings"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/bounds"
	"github.com/example/woundmark/internal/geom"
)

// Minimum sizes a resize may shrink a shape to.
const (
	MinRectEdge     = 10
	MinCircleRadius = 5
)

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureResize
	gestureDrag
	gestureFreehand
	gestureShape
	gestureCrop
)

// gesture is the pointer operation between down and up. At most one is
// active.
type gesture struct {
	kind   gestureKind
	start  geom.Point
	origin annotation.Annotation
	handle bounds.Handle
	path   []geom.Point
	shape  *annotation.Shape
}

// Busy reports whether a pointer gesture is in progress.
func (e *Editor) Busy() bool { return e.gesture.kind != gestureNone }

// PointerDown starts a gesture at a pointer position in the zoomed view.
func (e *Editor) PointerDown(sp geom.ScreenPoint) {
	p := sp.Raster(e.zoom)
	e.gesture = gesture{}

	if sel, ok := e.Selected(); ok && sel.Kind == annotation.KindShape {
		if b, ok := bounds.Of(sel); ok {
			if h, ok := bounds.ResizeHandleAt(p, b); ok {
				e.gesture = gesture{kind: gestureResize, start: p, origin: sel, handle: h}
				e.dropPreviewOf(sel.ID)
				return
			}
		}
	}

	if e.tool == ToolCrop {
		e.crop = &geom.Box{X: p.X, Y: p.Y}
		e.gesture = gesture{kind: gestureCrop, start: p}
		return
	}

	if e.tool == ToolSelect || e.tool == ToolTransform {
		if hit, _, ok := bounds.FindTopmost(p, e.annotations); ok {
			e.tool = ToolSelect
			e.selectedID = hit.ID
			e.gesture = gesture{kind: gestureDrag, start: p, origin: hit}
			e.dropPreviewOf(hit.ID)
			return
		}
		if e.tool == ToolSelect {
			e.selectedID = ""
			e.preview = nil
		}
		return
	}

	switch e.tool {
	case ToolFreehand:
		e.gesture = gesture{kind: gestureFreehand, start: p, path: []geom.Point{p}}
	case ToolShape:
		s := e.shapeFrom(p, p)
		e.gesture = gesture{kind: gestureShape, start: p, shape: &s}
	}
}

// dropPreviewOf discards a preview of id; its geometry is about to change.
func (e *Editor) dropPreviewOf(id string) {
	if e.preview != nil && e.preview.ID == id {
		e.preview = nil
	}
}

// PointerMove advances the active gesture.
func (e *Editor) PointerMove(sp geom.ScreenPoint) {
	p := sp.Raster(e.zoom)
	g := e.gesture
	switch g.kind {
	case gestureResize:
		e.replace(resize(g.origin, g.handle, p))
	case gestureDrag:
		e.replace(g.origin.Translate(p.Sub(g.start)))
	case gestureFreehand:
		path := make([]geom.Point, len(g.path), len(g.path)+1)
		copy(path, g.path)
		e.gesture.path = append(path, p)
	case gestureShape:
		s := e.shapeFrom(g.start, p)
		e.gesture.shape = &s
	case gestureCrop:
		b := geom.Normalize(g.start, p.X-g.start.X, p.Y-g.start.Y)
		e.crop = &b
	}
}

// PointerUp finishes the active gesture. Freehand strokes and shape drags
// become annotations; a crop rectangle stays up until ApplyCrop or
// CancelCrop.
func (e *Editor) PointerUp(sp geom.ScreenPoint) {
	g := e.gesture
	e.gesture = gesture{}
	switch g.kind {
	case gestureFreehand:
		if len(g.path) > 0 {
			e.add(annotation.NewFreehand(g.path, e.cfg.FreehandStyle))
		}
	case gestureShape:
		p := sp.Raster(e.zoom)
		if p == g.start {
			logger().Debug("empty shape drag discarded")
			return
		}
		e.add(e.newShape(g.start, p))
	case gestureCrop:
		if e.crop != nil && e.crop.Empty() {
			e.crop = nil
		}
	}
}

// Click opens the text prompt at the pointer when the text tool is active.
// It reports whether a prompt is now pending.
func (e *Editor) Click(sp geom.ScreenPoint) bool {
	if e.tool != ToolText {
		return false
	}
	p := sp.Raster(e.zoom)
	e.textAt = &p
	return true
}

// PendingText returns where the text prompt was opened.
func (e *Editor) PendingText() (geom.Point, bool) {
	if e.textAt == nil {
		return geom.Point{}, false
	}
	return *e.textAt, true
}

// SubmitText answers the pending prompt. Blank content cancels it.
func (e *Editor) SubmitText(content string) (annotation.Annotation, bool) {
	at := e.textAt
	e.textAt = nil
	if at == nil || strings.TrimSpace(content) == "" {
		return annotation.Annotation{}, false
	}
	a := annotation.NewText(*at, content, e.cfg.TextStyle)
	e.add(a)
	e.selectedID = a.ID
	return a, true
}

// CancelText dismisses the pending prompt.
func (e *Editor) CancelText() { e.textAt = nil }

// shapeFrom builds the outline previewed while dragging from a to b.
func (e *Editor) shapeFrom(a, b geom.Point) annotation.Shape {
	s := annotation.Shape{Kind: e.shapeKind}
	switch e.shapeKind {
	case annotation.ShapeRect:
		box := geom.Normalize(a, b.X-a.X, b.Y-a.Y)
		s.Rect = annotation.Rect{X: box.X, Y: box.Y, W: box.W, H: box.H}
	case annotation.ShapeCircle:
		box := geom.Normalize(a, b.X-a.X, b.Y-a.Y)
		c := box.Center()
		s.Circle = annotation.Circle{CX: c.X, CY: c.Y, R: math.Max(box.W, box.H) / 2}
	case annotation.ShapeArrow:
		s.Arrow = annotation.Arrow{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Direction: annotation.ArrowEnd}
	}
	return s
}

func (e *Editor) newShape(a, b geom.Point) annotation.Annotation {
	s := e.shapeFrom(a, b)
	switch s.Kind {
	case annotation.ShapeCircle:
		return annotation.NewCircle(s.Circle, e.cfg.ShapeStyle)
	case annotation.ShapeArrow:
		return annotation.NewArrow(s.Arrow, e.cfg.ShapeStyle)
	}
	return annotation.NewRect(s.Rect, e.cfg.ShapeStyle)
}

// resize recomputes the geometry of origin with handle h dragged to p.
func resize(origin annotation.Annotation, h bounds.Handle, p geom.Point) annotation.Annotation {
	if origin.Shape == nil {
		return origin
	}
	s := *origin.Shape
	switch s.Kind {
	case annotation.ShapeRect:
		r := geom.Normalize(geom.Pt(s.Rect.X, s.Rect.Y), s.Rect.W, s.Rect.H)
		x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
		if h.West() {
			x0 = math.Min(p.X, x1-MinRectEdge)
		} else {
			x1 = math.Max(p.X, x0+MinRectEdge)
		}
		if h.North() {
			y0 = math.Min(p.Y, y1-MinRectEdge)
		} else {
			y1 = math.Max(p.Y, y0+MinRectEdge)
		}
		s.Rect = annotation.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
	case annotation.ShapeCircle:
		c := geom.Pt(s.Circle.CX, s.Circle.CY)
		s.Circle.R = math.Max(p.Dist(c), MinCircleRadius)
	case annotation.ShapeArrow:
		ar := s.Arrow
		mid := ar.Mid()
		q := p.RotateAbout(mid, -ar.Rotation)
		if q.Dist(ar.Start()) <= q.Dist(ar.End()) {
			ar.X1, ar.Y1 = q.X, q.Y
		} else {
			ar.X2, ar.Y2 = q.X, q.Y
		}
		s.Arrow = ar
	}
	return origin.WithShape(s)
}

// overlayPath returns the freehand stroke in progress.
func (e *Editor) overlayPath() []geom.Point {
	if e.gesture.kind != gestureFreehand {
		return nil
	}
	return slices.Clone(e.gesture.path)
}
