// Package geom defines the coordinate spaces the editor moves between.
//
// Stored annotation geometry lives in absolute raster space (Point). The
// compositor draws inside a context whose origin is the middle of the raster
// (Centered). Pointer events arrive in the zoomed view (ScreenPoint). Keeping
// them as distinct types means every conversion is spelled out at the call site.
package geom

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in absolute raster space, origin at the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Delta is a displacement between two absolute points.
type Delta struct {
	DX float64
	DY float64
}

// Neg returns the opposite displacement.
func (d Delta) Neg() Delta { return Delta{DX: -d.DX, DY: -d.DY} }

// Add returns p moved by d.
func (p Point) Add(d Delta) Point { return Point{X: p.X + d.DX, Y: p.Y + d.DY} }

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Delta { return Delta{DX: p.X - q.X, DY: p.Y - q.Y} }

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return r2.Norm(r2.Sub(r2.Vec(p), r2.Vec(q)))
}

// RotateAbout rotates p by deg degrees around c. Positive angles turn
// clockwise on screen because the y axis points down.
func (p Point) RotateAbout(c Point, deg float64) Point {
	if deg == 0 {
		return p
	}
	return Point(r2.Rotate(r2.Vec(p), Radians(deg), r2.Vec(c)))
}

// Mid returns the midpoint of p and q.
func Mid(p, q Point) Point {
	return Point(r2.Scale(0.5, r2.Add(r2.Vec(p), r2.Vec(q))))
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool { return Finite(p.X, p.Y) }

// Center converts p into the raster-centred space of a surface of size s.
func (p Point) Center(s Size) Centered {
	return Centered{X: p.X - float64(s.W)/2, Y: p.Y - float64(s.H)/2}
}

// Centered is a position relative to the middle of the raster.
type Centered struct {
	X float64
	Y float64
}

// Absolute converts c back to top-left origin space.
func (c Centered) Absolute(s Size) Point {
	return Point{X: c.X + float64(s.W)/2, Y: c.Y + float64(s.H)/2}
}

// ScreenPoint is a pointer position inside the zoomed canvas view.
type ScreenPoint struct {
	X float64
	Y float64
}

// Raster maps the pointer into raster space. The view is scaled visually so
// raster coordinates are the screen coordinates divided by the zoom.
func (s ScreenPoint) Raster(zoom float64) Point {
	if zoom <= 0 || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		zoom = 1
	}
	return Point{X: s.X / zoom, Y: s.Y / zoom}
}

// Size is an integer raster size.
type Size struct {
	W int
	H int
}

// Empty reports whether s has no area.
func (s Size) Empty() bool { return s.W <= 0 || s.H <= 0 }

// SizeOf returns the size of r.
func SizeOf(r image.Rectangle) Size { return Size{W: r.Dx(), H: r.Dy()} }

// DefaultDisplay is the surface size used before any image has loaded.
var DefaultDisplay = Size{W: 800, H: 600}

// FitSize scales src down, preserving its aspect ratio, so it fits inside
// container minus padding. It never scales up.
func FitSize(src, container Size, padding int) Size {
	if src.Empty() {
		return DefaultDisplay
	}
	scale := 1.0
	if aw := container.W - padding; aw > 0 {
		scale = math.Min(scale, float64(aw)/float64(src.W))
	}
	if ah := container.H - padding; ah > 0 {
		scale = math.Min(scale, float64(ah)/float64(src.H))
	}
	w := int(math.Round(float64(src.W) * scale))
	h := int(math.Round(float64(src.H) * scale))
	return Size{W: max(w, 1), H: max(h, 1)}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Finite reports whether every value is neither NaN nor infinite.
func Finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
