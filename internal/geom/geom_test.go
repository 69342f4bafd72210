package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCenterRoundTrip(t *testing.T) {
	s := Size{W: 801, H: 600}
	p := Pt(10, 20)
	c := p.Center(s)
	if !near(c.X, -390.5) || !near(c.Y, -280) {
		t.Fatalf("unexpected centred point %+v", c)
	}
	if back := c.Absolute(s); back != p {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestScreenPointRaster(t *testing.T) {
	got := ScreenPoint{X: 300, Y: 150}.Raster(1.5)
	if !near(got.X, 200) || !near(got.Y, 100) {
		t.Fatalf("unexpected raster point %+v", got)
	}
	if got := (ScreenPoint{X: 5, Y: 6}).Raster(0); got != Pt(5, 6) {
		t.Fatalf("zero zoom should be treated as 1, got %+v", got)
	}
}

func TestRotateAbout(t *testing.T) {
	got := Pt(0, 0).RotateAbout(Pt(50, 0), 90)
	if !near(got.X, 50) || !near(got.Y, -50) {
		t.Fatalf("unexpected rotation %+v", got)
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		name      string
		src       Size
		container Size
		want      Size
	}{
		{"never upscales", Size{400, 300}, Size{1000, 800}, Size{400, 300}},
		{"width bound", Size{2000, 1000}, Size{1032, 2000}, Size{1000, 500}},
		{"height bound", Size{1000, 2000}, Size{2000, 532}, Size{250, 500}},
		{"empty source", Size{}, Size{1000, 800}, DefaultDisplay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitSize(tt.src, tt.container, 32); got != tt.want {
				t.Fatalf("FitSize = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	b := Normalize(Pt(100, 80), -40, -30)
	if b != (Box{X: 60, Y: 50, W: 40, H: 30}) {
		t.Fatalf("unexpected normalised box %+v", b)
	}
}

func TestBoxContainsEdges(t *testing.T) {
	b := Box{X: 0, Y: 0, W: 10, H: 10}
	for _, p := range []Point{Pt(0, 0), Pt(10, 10), Pt(5, 10)} {
		if !b.Contains(p) {
			t.Errorf("expected %+v inside %+v", p, b)
		}
	}
	if b.Contains(Pt(10.01, 5)) {
		t.Errorf("point outside reported inside")
	}
}
