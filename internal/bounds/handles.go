package bounds

import (
	"math"

	"github.com/example/woundmark/internal/geom"
)

// Handle names a corner of a selection box.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleNE
	HandleSW
	HandleSE
)

// Corners lists the handles in hit-test priority order.
var Corners = [4]Handle{HandleNW, HandleNE, HandleSW, HandleSE}

func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleNE:
		return "ne"
	case HandleSW:
		return "sw"
	case HandleSE:
		return "se"
	}
	return "none"
}

// North reports whether the handle sits on the top edge.
func (h Handle) North() bool { return h == HandleNW || h == HandleNE }

// West reports whether the handle sits on the left edge.
func (h Handle) West() bool { return h == HandleNW || h == HandleSW }

// Corner returns the corner of b the handle is attached to.
func (h Handle) Corner(b geom.Box) geom.Point {
	p := b.Min()
	if !h.West() {
		p.X += b.W
	}
	if !h.North() {
		p.Y += b.H
	}
	return p
}

// HandleBox returns the drawn square for h.
func HandleBox(h Handle, b geom.Box) geom.Box {
	c := h.Corner(b)
	return geom.Box{X: c.X - HandleSize/2, Y: c.Y - HandleSize/2, W: HandleSize, H: HandleSize}
}

// ResizeHandleAt returns the first handle, in Corners order, within
// HandleSize+HandleTolerance of p on both axes. On small boxes several
// handles can match; the earlier one wins.
func ResizeHandleAt(p geom.Point, b geom.Box) (Handle, bool) {
	const reach = HandleSize + HandleTolerance
	for _, h := range Corners {
		c := h.Corner(b)
		if math.Abs(p.X-c.X) <= reach && math.Abs(p.Y-c.Y) <= reach {
			return h, true
		}
	}
	return HandleNone, false
}
