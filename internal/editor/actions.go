package editor

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/filter"
	"github.com/example/woundmark/internal/geom"
	"github.com/example/woundmark/internal/imageio"
	"github.com/example/woundmark/internal/render"
)

// Crop returns the crop rectangle while the crop tool holds one.
func (e *Editor) Crop() (geom.Box, bool) {
	if e.crop == nil {
		return geom.Box{}, false
	}
	return *e.crop, true
}

// ApplyCrop replaces the photo with the part inside the crop rectangle and
// moves every annotation by the crop origin so it stays over the same
// pixels. The rectangle is clipped to the display raster first.
func (e *Editor) ApplyCrop() error {
	if e.crop == nil {
		return ErrEmptyCrop
	}
	if e.source == nil {
		return ErrNoImage
	}
	box := geom.Normalize(e.crop.Min(), e.crop.W, e.crop.H).
		Intersect(geom.BoxOf(e.source.Bounds()))
	r := box.Rect().Intersect(e.source.Bounds())
	if r.Empty() {
		return ErrEmptyCrop
	}

	e.source = imageio.Crop(e.source, r)
	e.kept = r.Add(e.kept.Min)
	e.size = geom.SizeOf(e.source.Bounds())
	shift := geom.Delta{DX: -float64(r.Min.X), DY: -float64(r.Min.Y)}
	next := make([]annotation.Annotation, len(e.annotations))
	for i, a := range e.annotations {
		next[i] = a.Translate(shift)
	}
	e.annotations = next
	e.crop = nil
	e.gesture = gesture{}
	e.selectedID = ""
	e.preview = nil
	logger().Debug("crop applied", "rect", r)
	return nil
}

// CancelCrop discards the crop rectangle.
func (e *Editor) CancelCrop() {
	e.crop = nil
	if e.gesture.kind == gestureCrop {
		e.gesture = gesture{}
	}
}

// Rotate turns the canvas by a quarter-turn multiple.
func (e *Editor) Rotate(deg int) error {
	if deg%90 != 0 {
		return fmt.Errorf("rotate by %d: not a quarter turn", deg)
	}
	e.transform = e.transform.Rotate(deg)
	return nil
}

// FlipHorizontal toggles the horizontal mirror.
func (e *Editor) FlipHorizontal() { e.transform = e.transform.FlipHorizontal() }

// FlipVertical toggles the vertical mirror.
func (e *Editor) FlipVertical() { e.transform = e.transform.FlipVertical() }

// ResetTransform restores the original orientation.
func (e *Editor) ResetTransform() { e.transform = annotation.Transform{} }

// SetContrast sets the contrast percentage, clamped to 0..200.
func (e *Editor) SetContrast(c float64) { e.filters = e.filters.WithContrast(c) }

// AdjustContrast moves the contrast by delta.
func (e *Editor) AdjustContrast(delta float64) { e.SetContrast(e.filters.Contrast + delta) }

func (e *Editor) ToggleInvert()  { e.filters = e.filters.ToggleInvert() }
func (e *Editor) ToggleSharpen() { e.filters = e.filters.ToggleSharpen() }
func (e *Editor) ToggleBlur()    { e.filters = e.filters.ToggleBlur() }

// ResetFilters turns every filter off.
func (e *Editor) ResetFilters() { e.filters = filter.Identity() }

// Zoom returns the view scale.
func (e *Editor) Zoom() float64 { return e.zoom }

// SetZoom sets the view scale within the configured limits.
func (e *Editor) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	z = clamp(z, e.cfg.ZoomMin, e.cfg.ZoomMax)
	// Keep repeated steps on the decimal grid.
	e.zoom = math.Round(z*1000) / 1000
}

func (e *Editor) ZoomIn()  { e.SetZoom(e.zoom + e.cfg.ZoomStep) }
func (e *Editor) ZoomOut() { e.SetZoom(e.zoom - e.cfg.ZoomStep) }

// Scene captures everything the next frame depends on.
func (e *Editor) Scene() render.Scene {
	s := render.Scene{
		Size:        e.size,
		Image:       e.source,
		LoadErr:     e.loadErr,
		Transform:   e.transform,
		Filters:     e.filters,
		Annotations: e.annotations,
		SelectedID:  e.selectedID,
		Overlay: render.Overlay{
			Path:      e.overlayPath(),
			PathStyle: e.cfg.FreehandStyle,
			Shape:     e.gesture.shape,
			Crop:      e.crop,
		},
	}
	if e.preview != nil {
		p := *e.preview
		s.Preview = &p
	}
	return s
}

// Frame renders the current state. It returns nil until a decode has
// completed. The image is reused by the next call.
func (e *Editor) Frame() *image.RGBA {
	return e.compositor.Render(e.Scene())
}

// Snapshot returns the flattened composite without overlays.
func (e *Editor) Snapshot() (*image.RGBA, error) {
	return e.compositor.SnapshotImage(e.Scene())
}

// Save commits the current state under label. A blank label is refused
// when labels are required and nothing changes.
func (e *Editor) Save(label string) (Commit, error) {
	label = strings.TrimSpace(label)
	if label == "" && e.cfg.RequireLabel {
		return Commit{}, ErrLabelRequired
	}
	png, err := e.compositor.Snapshot(e.Scene())
	if err != nil {
		return Commit{}, fmt.Errorf("snapshot: %w", err)
	}
	c := Commit{
		Annotations: e.Annotations(),
		Transform:   e.transform,
		Filters:     e.filters,
		Label:       label,
		ImageRef:    e.ref,
		Crop:        annotation.CropOf(e.kept),
		Snapshot:    png,
	}
	if e.OnSave != nil {
		if err := e.OnSave(c); err != nil {
			return Commit{}, fmt.Errorf("save: %w", err)
		}
	}
	e.label = label
	logger().Info("annotations saved", "label", label, "count", len(c.Annotations))
	return c, nil
}
