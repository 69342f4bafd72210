package annotation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/example/woundmark/internal/geom"
)

func TestTranslateKeepsAnchorInSync(t *testing.T) {
	r := NewRect(Rect{X: 50, Y: 50, W: 100, H: 70}, DefaultShapeStyle())
	moved := r.Translate(geom.Delta{DX: 10, DY: -5})
	if moved.Shape.Rect != (Rect{X: 60, Y: 45, W: 100, H: 70}) {
		t.Fatalf("unexpected rect %+v", moved.Shape.Rect)
	}
	if moved.Position != geom.Pt(60, 45) {
		t.Fatalf("anchor not synced: %+v", moved.Position)
	}
	if r.Shape.Rect.X != 50 {
		t.Fatalf("translate mutated the original")
	}

	ar := NewArrow(Arrow{X1: 0, Y1: 0, X2: 100, Y2: 0}, DefaultShapeStyle())
	ar = ar.Translate(geom.Delta{DX: 5, DY: 5})
	if ar.Shape.Arrow.X2 != 105 || ar.Shape.Arrow.Y1 != 5 {
		t.Fatalf("arrow endpoints not translated: %+v", ar.Shape.Arrow)
	}
	if ar.Position != geom.Pt(5, 5) {
		t.Fatalf("arrow anchor not synced: %+v", ar.Position)
	}

	fh := NewFreehand([]geom.Point{{X: 1, Y: 1}, {X: 2, Y: 3}}, DefaultFreehandStyle())
	fh2 := fh.Translate(geom.Delta{DX: 1, DY: 1})
	if fh.Freehand.Points[0] != geom.Pt(1, 1) {
		t.Fatalf("freehand points shared between copies")
	}
	if fh2.Position != geom.Pt(2, 2) {
		t.Fatalf("freehand anchor not synced: %+v", fh2.Position)
	}
}

func TestNewAnnotationsHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		a := NewText(geom.Pt(0, 0), "x", DefaultTextStyle())
		if seen[a.ID] {
			t.Fatalf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestArrowDefaultsToEndWithoutFill(t *testing.T) {
	st := DefaultShapeStyle()
	st.Fill = "#ff0000"
	a := NewArrow(Arrow{X2: 10}, st)
	if a.Shape.Arrow.Direction != ArrowEnd {
		t.Fatalf("direction = %q", a.Shape.Arrow.Direction)
	}
	if a.Shape.Fill != Transparent {
		t.Fatalf("arrow fill = %q", a.Shape.Fill)
	}
}

func TestRoundTrip(t *testing.T) {
	list := []Annotation{
		NewText(geom.Pt(100, 100), "Nota", DefaultTextStyle()),
		NewFreehand([]geom.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, DefaultFreehandStyle()),
		NewRect(Rect{X: 1, Y: 2, W: 3, H: 4}, DefaultShapeStyle()),
		NewCircle(Circle{CX: 10, CY: 10, R: 5}, DefaultShapeStyle()),
		NewArrow(Arrow{X1: 0, Y1: 0, X2: 100, Y2: 0, Direction: ArrowBoth, Rotation: 45}, DefaultShapeStyle()),
	}
	data, err := EncodeList(list)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeList(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(list) {
		t.Fatalf("got %d annotations, want %d", len(got), len(list))
	}
	for i := range list {
		if err := got[i].Err(); err != nil {
			t.Fatalf("annotation %d: %v", i, err)
		}
		if got[i].ID != list[i].ID || got[i].Kind != list[i].Kind || got[i].Position != list[i].Position {
			t.Errorf("annotation %d envelope mismatch: %+v vs %+v", i, got[i], list[i])
		}
	}
	if *got[4].Shape != *list[4].Shape {
		t.Errorf("arrow mismatch: %+v vs %+v", *got[4].Shape, *list[4].Shape)
	}
	if *got[0].Text != *list[0].Text {
		t.Errorf("text mismatch: %+v vs %+v", *got[0].Text, *list[0].Text)
	}
}

func TestShapeContentIsSerializedString(t *testing.T) {
	b, err := json.Marshal(NewRect(Rect{X: 1, Y: 2, W: 3, H: 4}, DefaultShapeStyle()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var env map[string]any
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	content, ok := env["content"].(string)
	if !ok {
		t.Fatalf("content is %T, want string", env["content"])
	}
	if !strings.Contains(content, `"type":"rect"`) {
		t.Fatalf("unexpected content %s", content)
	}
}

func TestMalformedContentIsKept(t *testing.T) {
	data := []byte(`[
		{"id":"a","type":"shape","x":0,"y":0,"content":"{not json"},
		{"id":"b","type":"shape","x":0,"y":0,"content":"{\"type\":\"hexagon\",\"strokeColor\":\"#000\",\"strokeWidth\":2}"},
		{"id":"c","type":"text","x":5,"y":5,"content":"ok"},
		{"id":"d","type":"text","x":5,"y":5,"content":"bad","fontWeight":"heavy"}
	]`)
	list, err := DecodeList(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("got %d annotations", len(list))
	}
	for _, i := range []int{0, 1, 3} {
		if err := list[i].Err(); !IsMalformed(err) {
			t.Errorf("annotation %d: expected malformed error, got %v", i, err)
		}
	}
	if err := list[2].Err(); err != nil {
		t.Fatalf("sibling corrupted: %v", err)
	}
	if got := Usable(list); len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("Usable = %+v", got)
	}

	out, err := EncodeList(list)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(out), `"content":"{not json"`) {
		t.Fatalf("malformed annotation not preserved: %s", out)
	}
}

func TestDecodeEnforcesLimits(t *testing.T) {
	data := []byte(`[
		{"id":"huge","type":"text","x":5,"y":5,"content":"x","fontSize":1e7},
		{"id":"tiny","type":"text","x":5,"y":5,"content":"x","fontSize":2},
		{"id":"thick","type":"freehand","x":0,"y":0,"content":"{\"points\":[{\"x\":1,\"y\":1}],\"color\":\"#000\",\"width\":40}"},
		{"id":"thin","type":"shape","x":0,"y":0,"content":"{\"type\":\"rect\",\"x\":0,\"y\":0,\"width\":5,\"height\":5,\"strokeColor\":\"#000\",\"strokeWidth\":0.5}"},
		{"id":"turned","type":"text","x":5,"y":5,"content":"x","fontSize":72,"rotation":-90},
		{"id":"spun","type":"shape","x":0,"y":0,"content":"{\"type\":\"arrow\",\"x1\":0,\"y1\":0,\"x2\":9,\"y2\":0,\"strokeColor\":\"#000\",\"strokeWidth\":10,\"rotation\":725}"}
	]`)
	list, err := DecodeList(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, i := range []int{0, 1, 2, 3} {
		if !IsMalformed(list[i].Err()) {
			t.Errorf("%s: expected malformed, got %v", list[i].ID, list[i].Err())
		}
	}
	if err := list[4].Err(); err != nil || list[4].Text.Rotation != 270 {
		t.Fatalf("text rotation = %+v, %v", list[4].Text, err)
	}
	if err := list[5].Err(); err != nil || list[5].Shape.Arrow.Rotation != 5 {
		t.Fatalf("arrow rotation = %+v, %v", list[5].Shape, err)
	}
}

func TestNormalizedCopies(t *testing.T) {
	a := NewText(geom.Pt(1, 2), "x", DefaultTextStyle())
	a.Text.Rotation = 360
	n := a.Normalized()
	if n.Text.Rotation != 0 || a.Text.Rotation != 360 {
		t.Fatalf("normalized %v, original %v", n.Text.Rotation, a.Text.Rotation)
	}
}

func TestDecodeRejectsBrokenEnvelope(t *testing.T) {
	if _, err := DecodeList([]byte(`[{"id":1}]`)); err == nil {
		t.Fatalf("expected error for wrong envelope type")
	}
}

func TestTransformComposition(t *testing.T) {
	var tr Transform
	for i := 0; i < 4; i++ {
		tr = tr.Rotate(90)
	}
	if tr.Rotation != 0 {
		t.Fatalf("rotation after four quarter turns = %d", tr.Rotation)
	}
	if got := (Transform{}).Rotate(270).Rotate(180); got.Rotation != 90 {
		t.Fatalf("rotation = %d", got.Rotation)
	}
	if !tr.FlipHorizontal().FlipHorizontal().Identity() {
		t.Fatalf("double flip is not identity")
	}
	var bad Transform
	if err := json.Unmarshal([]byte(`{"rotation":45}`), &bad); err == nil {
		t.Fatalf("expected error for 45 degree rotation")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]uint8
		wantErr bool
	}{
		{in: "#ff0000", want: [4]uint8{255, 0, 0, 255}},
		{in: "#0f0", want: [4]uint8{0, 255, 0, 255}},
		{in: "#3b82f680", want: [4]uint8{0x3b, 0x82, 0xf6, 0x80}},
		{in: "Blue", want: [4]uint8{0, 0, 255, 255}},
		{in: "transparent"},
		{in: "#12", wantErr: true},
		{in: "notacolor", wantErr: true},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) err = %v", tt.in, err)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got := [4]uint8{c.R, c.G, c.B, c.A}; got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
