package record

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/geom"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "visit.json")

	r := New("wound.jpg")
	list := []annotation.Annotation{
		annotation.NewText(geom.Pt(10, 20), "Granulation", annotation.DefaultTextStyle()),
		annotation.NewArrow(annotation.Arrow{X1: 1, Y1: 2, X2: 30, Y2: 40}, annotation.DefaultShapeStyle()),
	}
	tr := annotation.Transform{}.Rotate(90).FlipVertical()
	filters := r.Filters.WithContrast(140).ToggleSharpen()
	r.Crop = annotation.Crop{X: 5, Y: 6, W: 70, H: 80}
	if err := r.Apply(path, "Day 3", list, tr, filters, []byte("png-bytes")); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if data, err := os.ReadFile(SnapshotPath(path)); err != nil || string(data) != "png-bytes" {
		t.Fatalf("snapshot not written: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != r.ID || got.Label != "Day 3" || got.Transform != tr || got.Filters != filters || got.Crop != r.Crop {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.ImageRef != filepath.Join(dir, "wound.jpg") {
		t.Fatalf("image ref not resolved: %q", got.ImageRef)
	}
	if len(got.Annotations) != 2 || got.Annotations[1].Shape.Arrow.X2 != 30 {
		t.Fatalf("annotations = %+v", got.Annotations)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadKeepsMalformedAnnotations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.json")
	body := `{"id":"r1","image_url":"data:image/png;base64,AAAA","annotations":[
{"id":"a","type":"shape","x":0,"y":0,"content":"{not json"}],"transformations":{"rotation":180}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if r.ImageRef != "data:image/png;base64,AAAA" {
		t.Fatalf("data url rewritten: %q", r.ImageRef)
	}
	if len(r.Annotations) != 1 || !errors.Is(r.Annotations[0].Err(), annotation.ErrMalformed) {
		t.Fatalf("malformed annotation not preserved: %+v", r.Annotations)
	}
	if !r.Crop.Empty() {
		t.Fatalf("missing crop should keep the whole photo: %+v", r.Crop)
	}
	if r.Filters.Active() {
		t.Fatalf("missing filters should load as identity: %+v", r.Filters)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	path := filepath.Join(dir, "empty.json")
	os.WriteFile(path, []byte(`{"id":"x"}`), 0o644)
	if _, err := Load(path); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	os.WriteFile(path, []byte(`{"image_url":"a.png","transformations":{"rotation":45}}`), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for bad rotation")
	}
}
