package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/filter"
	"github.com/example/woundmark/internal/geom"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func scene(img *image.RGBA) Scene {
	return Scene{Size: geom.SizeOf(img.Bounds()), Image: img, Filters: filter.Identity()}
}

var white = color.RGBA{255, 255, 255, 255}

func TestRenderNotReady(t *testing.T) {
	c := New()
	if got := c.Render(Scene{Size: geom.Size{W: 10, H: 10}}); got != nil {
		t.Fatalf("expected nil frame before decode")
	}
	if _, err := c.Snapshot(Scene{}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestRenderPlaceholderOnDecodeError(t *testing.T) {
	c := New()
	out := c.Render(Scene{Size: geom.Size{W: 200, H: 100}, LoadErr: errors.New("boom"), Filters: filter.Identity()})
	if out == nil {
		t.Fatalf("expected placeholder frame")
	}
	if got := out.RGBAAt(2, 2); got != white {
		t.Fatalf("corner = %v, want white", got)
	}
	var dark bool
	for x := 0; x < 200 && !dark; x++ {
		if out.RGBAAt(x, 50).R < 200 {
			dark = true
		}
	}
	if !dark {
		t.Fatalf("placeholder text not drawn across the middle row")
	}
}

func TestRenderIdentityCopiesImage(t *testing.T) {
	img := solid(5, 3, color.RGBA{10, 20, 30, 255})
	img.SetRGBA(4, 2, color.RGBA{200, 100, 50, 255})
	out := New().Render(scene(img))
	if !bytes.Equal(out.Pix, img.Pix) {
		t.Fatalf("identity render changed pixels")
	}
}

func TestRenderFlipHorizontalMirrors(t *testing.T) {
	img := solid(20, 10, white)
	for y := 0; y < 10; y++ {
		img.SetRGBA(0, y, color.RGBA{255, 0, 0, 255})
	}
	s := scene(img)
	s.Transform = s.Transform.FlipHorizontal()
	out := New().Render(s)
	if got := out.RGBAAt(19, 5); got.R < 200 || got.G > 60 {
		t.Fatalf("right column = %v, want red", got)
	}
	if got := out.RGBAAt(0, 5); got.G < 200 {
		t.Fatalf("left column = %v, want white", got)
	}
}

func TestRenderInvertFilter(t *testing.T) {
	s := scene(solid(8, 8, white))
	s.Filters = s.Filters.ToggleInvert()
	out := New().Render(s)
	if got := out.RGBAAt(4, 4); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("inverted pixel = %v", got)
	}
}

func TestRenderRectStroke(t *testing.T) {
	s := scene(solid(50, 50, white))
	s.Annotations = []annotation.Annotation{
		annotation.NewRect(annotation.Rect{X: 10, Y: 10, W: 20, H: 20}, annotation.StrokeStyle{Color: "#ff0000", Width: 2}),
	}
	out := New().Render(s)
	if got := out.RGBAAt(10, 20); got.R < 200 || got.G > 60 {
		t.Fatalf("left edge = %v, want red", got)
	}
	if got := out.RGBAAt(20, 20); got != white {
		t.Fatalf("transparent fill drew inside: %v", got)
	}
	if got := out.RGBAAt(10, 10); got.R < 200 || got.G > 60 {
		t.Fatalf("corner join = %v, want red", got)
	}
}

// redPixels lists the pixels that are clearly pure red, on a light or a
// dark background alike.
func redPixels(img *image.RGBA) []image.Point {
	var pts []image.Point
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R > 230 && c.G < 25 && c.B < 25 {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

func TestRotatedAnnotationsIgnoreFilters(t *testing.T) {
	s := scene(solid(60, 40, white))
	s.Transform = s.Transform.Rotate(90).FlipHorizontal()
	s.Annotations = []annotation.Annotation{
		annotation.NewRect(annotation.Rect{X: 10, Y: 10, W: 20, H: 10}, annotation.StrokeStyle{Color: "#ff0000", Width: 2}),
	}
	plain := redPixels(New().Render(s))

	s.Filters = s.Filters.ToggleInvert().WithContrast(150)
	filtered := redPixels(New().Render(s))

	if len(plain) == 0 {
		t.Fatalf("rect not drawn")
	}
	if len(plain) != len(filtered) {
		t.Fatalf("red pixels: %d plain, %d filtered", len(plain), len(filtered))
	}
	for i := range plain {
		if plain[i] != filtered[i] {
			t.Fatalf("pixel %d moved: %v vs %v", i, plain[i], filtered[i])
		}
	}
	// Rotating a quarter turn and mirroring maps the rect spanning
	// (-20,-10)..(0,0) about the centre onto (0,0)..(10,20).
	area := image.Rect(27, 17, 43, 43)
	for _, p := range plain {
		if !p.In(area) {
			t.Fatalf("red pixel %v outside %v", p, area)
		}
	}
}

func TestRenderSkipsMalformed(t *testing.T) {
	img := solid(10, 10, white)
	s := scene(img)
	s.Annotations = []annotation.Annotation{{ID: "bad", Kind: "bogus"}}
	out := New().Render(s)
	if !bytes.Equal(out.Pix, img.Pix) {
		t.Fatalf("malformed annotation changed output")
	}
}

func TestSnapshotExcludesOverlays(t *testing.T) {
	img := solid(40, 40, white)
	s := scene(img)
	rect := annotation.NewRect(annotation.Rect{X: 5, Y: 5, W: 10, H: 10}, annotation.DefaultShapeStyle())
	s.Annotations = []annotation.Annotation{rect}
	s.SelectedID = rect.ID
	s.Overlay.Crop = &geom.Box{X: 20, Y: 20, W: 10, H: 10}

	c := New()
	frame := c.Render(s)
	if got := frame.RGBAAt(2, 35); got == white {
		t.Fatalf("crop mask missing from live frame")
	}

	data, err := c.Snapshot(s)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	snap, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if r, g, b, _ := snap.At(2, 35).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Fatalf("snapshot carries crop mask")
	}
	if r, _, _, _ := snap.At(5, 10).RGBA(); r>>8 > 60 {
		t.Fatalf("snapshot lost the annotation")
	}
}

func TestSnapshotUsesCommittedNotPreview(t *testing.T) {
	s := scene(solid(40, 40, white))
	rect := annotation.NewRect(annotation.Rect{X: 5, Y: 5, W: 10, H: 10}, annotation.DefaultShapeStyle())
	moved := rect.Translate(geom.Delta{DX: 20})
	s.Annotations = []annotation.Annotation{rect}
	s.Preview = &moved

	c := New()
	if got := c.Render(s).RGBAAt(25, 10); got == white {
		t.Fatalf("preview not drawn in live frame")
	}
	snap, err := c.SnapshotImage(s)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.RGBAAt(25, 10); got != white {
		t.Fatalf("preview leaked into snapshot: %v", got)
	}
}

func TestRenderDeterministic(t *testing.T) {
	s := scene(solid(30, 30, white))
	s.Annotations = []annotation.Annotation{
		annotation.NewArrow(annotation.Arrow{X1: 2, Y1: 15, X2: 28, Y2: 15, Rotation: 30}, annotation.DefaultShapeStyle()),
		annotation.NewFreehand([]geom.Point{{X: 1, Y: 1}, {X: 20, Y: 25}}, annotation.DefaultFreehandStyle()),
	}
	c := New()
	first := bytes.Clone(c.Render(s).Pix)
	if !bytes.Equal(first, c.Render(s).Pix) {
		t.Fatalf("two renders of the same scene differ")
	}
}

func TestShadowCast(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	sh := Shadow{Radius: 4, Offset: image.Pt(5, 5), Color: color.RGBA{A: 200}}
	r := image.Rect(20, 20, 60, 60)
	sh.Cast(dst, r)
	if a := dst.RGBAAt(45, 45).A; a < 150 {
		t.Fatalf("shadow centre alpha = %d", a)
	}
	if a := dst.RGBAAt(90, 90).A; a != 0 {
		t.Fatalf("shadow leaked to %d", a)
	}
	if !sh.Bounds(r).In(image.Rect(11, 11, 74, 74)) {
		t.Fatalf("unexpected bounds %v", sh.Bounds(r))
	}
}
