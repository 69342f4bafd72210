package render

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/geom"
)

// Arrowhead geometry shared by committed arrows and the drag preview.
const (
	headBase      = 10
	headPerStroke = 2
	headAngle     = 30 // degrees either side of the shaft
)

func headLength(strokeWidth float64) float64 { return headBase + headPerStroke*strokeWidth }

func paint(s string) color.Color {
	c, err := annotation.ParseColor(s)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return c
}

// drawAnnotation draws a inside the centred transform context.
func (c *Compositor) drawAnnotation(dc *gg.Context, size geom.Size, a annotation.Annotation) {
	if err := a.Err(); err != nil {
		logger().Debug("skipping annotation", "id", a.ID, "err", err)
		return
	}
	switch a.Kind {
	case annotation.KindText:
		c.drawText(dc, size, a.Position, a.Text)
	case annotation.KindFreehand:
		drawPath(dc, size, a.Freehand.Points, a.Freehand.Color, a.Freehand.Width)
	case annotation.KindShape:
		drawShape(dc, size, *a.Shape)
	}
}

func (c *Compositor) drawText(dc *gg.Context, size geom.Size, pos geom.Point, t *annotation.Text) {
	face, err := c.fonts.face(variantFor(t), t.FontSize)
	if err != nil {
		logger().Warn("text face unavailable", "err", err)
		return
	}
	p := pos.Center(size)
	dc.Push()
	defer dc.Pop()
	dc.Translate(p.X, p.Y)
	if t.Rotation != 0 {
		dc.Rotate(gg.Radians(t.Rotation))
	}
	dc.SetFontFace(face)
	dc.SetColor(paint(t.Color))
	dc.DrawString(t.Content, 0, 0)

	var y float64
	switch t.Decoration {
	case annotation.DecorationUnderline:
		y = t.FontSize * 0.15
	case annotation.DecorationLineThrough:
		y = -t.FontSize * 0.3
	default:
		return
	}
	w, _ := dc.MeasureString(t.Content)
	dc.SetLineWidth(math.Max(1, t.FontSize/15))
	dc.DrawLine(0, y, w, y)
	dc.Stroke()
}

func drawPath(dc *gg.Context, size geom.Size, pts []geom.Point, stroke string, width float64) {
	if len(pts) == 0 {
		return
	}
	dc.SetColor(paint(stroke))
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	p := pts[0].Center(size)
	dc.MoveTo(p.X, p.Y)
	if len(pts) == 1 {
		// A single click still leaves a dot.
		dc.LineTo(p.X, p.Y)
	}
	for _, q := range pts[1:] {
		p = q.Center(size)
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
	dc.SetLineCap(gg.LineCapButt)
}

func drawShape(dc *gg.Context, size geom.Size, s annotation.Shape) {
	dc.SetLineWidth(s.StrokeWidth)
	dc.SetLineJoin(gg.LineJoinBevel)
	switch s.Kind {
	case annotation.ShapeRect:
		p := geom.Pt(s.Rect.X, s.Rect.Y).Center(size)
		dc.DrawRectangle(p.X, p.Y, s.Rect.W, s.Rect.H)
		fillStroke(dc, s)
	case annotation.ShapeCircle:
		p := geom.Pt(s.Circle.CX, s.Circle.CY).Center(size)
		dc.DrawCircle(p.X, p.Y, s.Circle.R)
		fillStroke(dc, s)
	case annotation.ShapeArrow:
		dc.SetColor(paint(s.Stroke))
		drawArrow(dc, size, s.Arrow, s.StrokeWidth)
	}
}

func fillStroke(dc *gg.Context, s annotation.Shape) {
	if !annotation.IsTransparent(s.Fill) {
		dc.SetColor(paint(s.Fill))
		dc.FillPreserve()
	}
	dc.SetColor(paint(s.Stroke))
	dc.Stroke()
}

// drawArrow draws the shaft rotated about its midpoint, then a filled head
// at each end the direction asks for. The current colour is used.
func drawArrow(dc *gg.Context, size geom.Size, ar annotation.Arrow, width float64) {
	m := ar.Mid().Center(size)
	mid := ar.Mid()
	s := ar.Start().Sub(mid)
	e := ar.End().Sub(mid)

	dc.Push()
	defer dc.Pop()
	dc.Translate(m.X, m.Y)
	if ar.Rotation != 0 {
		dc.Rotate(gg.Radians(ar.Rotation))
	}
	dc.SetLineWidth(width)
	dc.SetLineCap(gg.LineCapButt)
	dc.DrawLine(s.DX, s.DY, e.DX, e.DY)
	dc.Stroke()

	length := headLength(width)
	if ar.Direction.HeadAtEnd() {
		drawHead(dc, s, e, length)
	}
	if ar.Direction.HeadAtStart() {
		drawHead(dc, e, s, length)
	}
}

// drawHead fills a triangle whose tip sits on to, pointing away from from.
func drawHead(dc *gg.Context, from, to geom.Delta, length float64) {
	angle := math.Atan2(to.DY-from.DY, to.DX-from.DX)
	spread := gg.Radians(headAngle)
	dc.MoveTo(to.DX, to.DY)
	dc.LineTo(to.DX-length*math.Cos(angle-spread), to.DY-length*math.Sin(angle-spread))
	dc.LineTo(to.DX-length*math.Cos(angle+spread), to.DY-length*math.Sin(angle+spread))
	dc.ClosePath()
	dc.Fill()
}

// drawTransient draws the uncommitted freehand stroke or dragged shape.
func (c *Compositor) drawTransient(dc *gg.Context, size geom.Size, o Overlay) {
	if len(o.Path) > 0 {
		drawPath(dc, size, o.Path, o.PathStyle.Color, o.PathStyle.Width)
	}
	if o.Shape == nil {
		return
	}
	s := *o.Shape
	dc.SetColor(c.theme.TempShape)
	dc.SetLineWidth(2)
	switch s.Kind {
	case annotation.ShapeRect:
		p := geom.Pt(s.Rect.X, s.Rect.Y).Center(size)
		dc.DrawRectangle(p.X, p.Y, s.Rect.W, s.Rect.H)
		dc.Stroke()
	case annotation.ShapeCircle:
		p := geom.Pt(s.Circle.CX, s.Circle.CY).Center(size)
		dc.DrawCircle(p.X, p.Y, s.Circle.R)
		dc.Stroke()
	case annotation.ShapeArrow:
		ar := s.Arrow
		if !ar.Direction.Valid() {
			ar.Direction = annotation.ArrowEnd
		}
		drawArrow(dc, size, ar, 2)
	}
}
