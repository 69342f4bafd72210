package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Shadow describes the soft drop shadow drawn under the canvas in the
// editor window.
type Shadow struct {
	Radius int
	Offset image.Point
	Color  color.RGBA
}

// DefaultShadow returns the shadow used behind the photo.
func DefaultShadow(c color.RGBA) Shadow {
	return Shadow{Radius: 12, Offset: image.Pt(6, 6), Color: c}
}

// Bounds returns the area of dst touched when casting a shadow for r.
func (s Shadow) Bounds(r image.Rectangle) image.Rectangle {
	return r.Inset(-max(s.Radius, 0)).Add(s.Offset)
}

// Cast draws the blurred shadow of the opaque rectangle r onto dst. The
// caller draws the canvas itself over r afterwards.
func (s Shadow) Cast(dst xdraw.Image, r image.Rectangle) {
	if r.Empty() || s.Color.A == 0 {
		return
	}
	radius := max(s.Radius, 0)
	area := r.Inset(-radius)
	mask := image.NewAlpha(area.Sub(area.Min))
	inner := r.Sub(area.Min)
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		row := mask.Pix[y*mask.Stride:]
		for x := inner.Min.X; x < inner.Max.X; x++ {
			row[x] = 0xff
		}
	}
	boxBlur(mask, radius)
	target := area.Add(s.Offset)
	xdraw.DrawMask(dst, target, image.NewUniform(s.Color), image.Point{}, mask, image.Point{}, xdraw.Over)
}

// boxBlur blurs the mask in place with a horizontal then vertical running
// average of width 2*radius+1, clipped at the edges.
func boxBlur(m *image.Alpha, radius int) {
	if radius == 0 {
		return
	}
	w, h := m.Rect.Dx(), m.Rect.Dy()
	line := make([]uint8, max(w, h))
	prefix := make([]int, max(w, h)+1)
	average := func(n int, at func(int) *uint8) {
		for i := 0; i < n; i++ {
			prefix[i+1] = prefix[i] + int(*at(i))
		}
		for i := 0; i < n; i++ {
			lo, hi := max(i-radius, 0), min(i+radius, n-1)
			line[i] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
		}
		for i := 0; i < n; i++ {
			*at(i) = line[i]
		}
	}
	for y := 0; y < h; y++ {
		average(w, func(x int) *uint8 { return &m.Pix[y*m.Stride+x] })
	}
	for x := 0; x < w; x++ {
		average(h, func(y int) *uint8 { return &m.Pix[y*m.Stride+x] })
	}
}
