package geom

import (
	"image"
	"math"
)

// Box is an axis-aligned box in absolute raster space.
type Box struct {
	X float64
	Y float64
	W float64
	H float64
}

// BoxAround returns the smallest box holding every point.
func BoxAround(pts ...Point) Box {
	if len(pts) == 0 {
		return Box{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Normalize turns a box dragged from origin with a possibly negative extent
// into one described by its min corner and absolute size.
func Normalize(origin Point, w, h float64) Box {
	b := Box{X: origin.X, Y: origin.Y, W: w, H: h}
	if b.W < 0 {
		b.X += b.W
		b.W = -b.W
	}
	if b.H < 0 {
		b.Y += b.H
		b.H = -b.H
	}
	return b
}

// Pad grows the box by m on every side.
func (b Box) Pad(m float64) Box {
	return Box{X: b.X - m, Y: b.Y - m, W: b.W + 2*m, H: b.H + 2*m}
}

// Contains reports whether p lies inside b, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Translate moves the box by d.
func (b Box) Translate(d Delta) Box {
	return Box{X: b.X + d.DX, Y: b.Y + d.DY, W: b.W, H: b.H}
}

// Min returns the top-left corner.
func (b Box) Min() Point { return Point{X: b.X, Y: b.Y} }

// Max returns the bottom-right corner.
func (b Box) Max() Point { return Point{X: b.X + b.W, Y: b.Y + b.H} }

// Center returns the middle of the box.
func (b Box) Center() Point { return Point{X: b.X + b.W/2, Y: b.Y + b.H/2} }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.W <= 0 || b.H <= 0 }

// Intersect returns the overlap of b and o. The result is empty, with zero
// size, when they do not overlap.
func (b Box) Intersect(o Box) Box {
	x0 := math.Max(b.X, o.X)
	y0 := math.Max(b.Y, o.Y)
	x1 := math.Min(b.X+b.W, o.X+o.W)
	y1 := math.Min(b.Y+b.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Box{X: x0, Y: y0}
	}
	return Box{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Rect rounds the box to integer pixel bounds.
func (b Box) Rect() image.Rectangle {
	x0 := int(math.Round(b.X))
	y0 := int(math.Round(b.Y))
	return image.Rect(x0, y0, x0+int(math.Round(b.W)), y0+int(math.Round(b.H)))
}

// BoxOf converts an integer rectangle.
func BoxOf(r image.Rectangle) Box {
	return Box{X: float64(r.Min.X), Y: float64(r.Min.Y), W: float64(r.Dx()), H: float64(r.Dy())}
}
