package bounds

import (
	"math"
	"testing"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/geom"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestTextBounds(t *testing.T) {
	a := annotation.NewText(geom.Pt(100, 100), "Nota", annotation.DefaultTextStyle())
	b, ok := Of(a)
	if !ok {
		t.Fatalf("no bounds for text")
	}
	if !approx(b.X, 95) || !approx(b.Y, 76) || !approx(b.W, 67.6) || !approx(b.H, 34) {
		t.Fatalf("unexpected text bounds %+v", b)
	}
}

func TestRotatedArrowBounds(t *testing.T) {
	a := annotation.NewArrow(annotation.Arrow{X1: 0, Y1: 0, X2: 100, Y2: 0, Rotation: 90}, annotation.DefaultShapeStyle())
	b, ok := Of(a)
	if !ok {
		t.Fatalf("no bounds for arrow")
	}
	c := b.Center()
	if !approx(c.X, 50) || !approx(c.Y, 0) {
		t.Fatalf("arrow box not centred on midpoint: %+v", b)
	}
	if !approx(b.X, 40) || !approx(b.W, 20) || !approx(b.Y, -60) || !approx(b.H, 120) {
		t.Fatalf("unexpected rotated arrow box %+v", b)
	}
}

func TestBoundsContainCanonicalPoints(t *testing.T) {
	st := annotation.DefaultShapeStyle()
	tests := []struct {
		name string
		a    annotation.Annotation
		pts  []geom.Point
	}{
		{
			name: "rect corners",
			a:    annotation.NewRect(annotation.Rect{X: 10, Y: 20, W: 30, H: 40}, st),
			pts:  []geom.Point{{X: 10, Y: 20}, {X: 40, Y: 20}, {X: 10, Y: 60}, {X: 40, Y: 60}},
		},
		{
			name: "circle extremes",
			a:    annotation.NewCircle(annotation.Circle{CX: 50, CY: 50, R: 20}, st),
			pts:  []geom.Point{{X: 30, Y: 50}, {X: 70, Y: 50}, {X: 50, Y: 30}, {X: 50, Y: 70}},
		},
		{
			name: "freehand points",
			a:    annotation.NewFreehand([]geom.Point{{X: 5, Y: 5}, {X: 80, Y: -3}, {X: 12, Y: 44}}, annotation.DefaultFreehandStyle()),
			pts:  []geom.Point{{X: 5, Y: 5}, {X: 80, Y: -3}, {X: 12, Y: 44}},
		},
		{
			name: "arrow endpoints",
			a:    annotation.NewArrow(annotation.Arrow{X1: 0, Y1: 0, X2: 60, Y2: 80}, st),
			pts:  []geom.Point{{X: 0, Y: 0}, {X: 60, Y: 80}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := Of(tt.a)
			if !ok {
				t.Fatalf("no bounds")
			}
			for _, p := range tt.pts {
				if !b.Contains(p) {
					t.Errorf("%+v not inside %+v", p, b)
				}
			}
		})
	}
}

func TestRotatedArrowContainsRotatedEndpoints(t *testing.T) {
	ar := annotation.Arrow{X1: 10, Y1: 10, X2: 90, Y2: 30, Rotation: 33}
	a := annotation.NewArrow(ar, annotation.DefaultShapeStyle())
	b, _ := Of(a)
	p1, p2 := ar.Endpoints()
	if !b.Contains(p1) || !b.Contains(p2) {
		t.Fatalf("rotated endpoints %+v %+v outside %+v", p1, p2, b)
	}
}

func TestFindTopmostPrefersLatest(t *testing.T) {
	st := annotation.DefaultShapeStyle()
	a := annotation.NewRect(annotation.Rect{X: 0, Y: 0, W: 100, H: 100}, st)
	b := annotation.NewRect(annotation.Rect{X: 50, Y: 50, W: 100, H: 100}, st)
	got, idx, ok := FindTopmost(geom.Pt(75, 75), []annotation.Annotation{a, b})
	if !ok || got.ID != b.ID || idx != 1 {
		t.Fatalf("expected b on top, got %v idx %d", got.ID, idx)
	}
	if _, _, ok := FindTopmost(geom.Pt(500, 500), []annotation.Annotation{a, b}); ok {
		t.Fatalf("expected miss")
	}
}

func TestMalformedIsSkipped(t *testing.T) {
	list, err := annotation.DecodeList([]byte(`[{"id":"x","type":"shape","x":0,"y":0,"content":"{"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := Of(list[0]); ok {
		t.Fatalf("malformed annotation produced bounds")
	}
	if HitTest(geom.Pt(0, 0), list[0]) {
		t.Fatalf("malformed annotation was hit")
	}
}

func TestResizeHandleAt(t *testing.T) {
	b := geom.Box{X: 100, Y: 100, W: 200, H: 100}
	tests := []struct {
		p    geom.Point
		want Handle
	}{
		{geom.Pt(100, 100), HandleNW},
		{geom.Pt(312, 88), HandleNE},
		{geom.Pt(90, 205), HandleSW},
		{geom.Pt(300, 200), HandleSE},
		{geom.Pt(200, 150), HandleNone},
		{geom.Pt(314, 100), HandleNone},
	}
	for _, tt := range tests {
		got, _ := ResizeHandleAt(tt.p, b)
		if got != tt.want {
			t.Errorf("ResizeHandleAt(%+v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestResizeHandlePriorityOnTinyBox(t *testing.T) {
	b := geom.Box{X: 0, Y: 0, W: 4, H: 4}
	if got, _ := ResizeHandleAt(geom.Pt(2, 2), b); got != HandleNW {
		t.Fatalf("overlapping handles should resolve to nw, got %v", got)
	}
}
