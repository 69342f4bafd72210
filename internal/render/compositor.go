// Package render composites a wound photo, its filters, its annotations and
// the editing overlays into one raster.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	"github.com/fogleman/gg"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/filter"
	"github.com/example/woundmark/internal/geom"
	"github.com/example/woundmark/internal/logging"
	"github.com/example/woundmark/internal/theme"
)

// ErrNotReady is returned when a snapshot is requested before any image
// decode has completed.
var ErrNotReady = errors.New("no image loaded")

// Scene is everything one frame depends on.
type Scene struct {
	// Size is the display size of the raster.
	Size geom.Size
	// Image is the photo already scaled to Size. Nil while loading or after a
	// failed decode.
	Image *image.RGBA
	// LoadErr is set when the photo could not be decoded; a placeholder is
	// drawn instead.
	LoadErr error

	Transform   annotation.Transform
	Filters     filter.Settings
	Annotations []annotation.Annotation
	// Preview replaces the annotation with the same ID while it is edited.
	Preview *annotation.Annotation

	Overlay    Overlay
	SelectedID string
}

// Ready reports whether there is anything to draw.
func (s Scene) Ready() bool { return s.Image != nil || s.LoadErr != nil }

// Overlay is the transient, uncommitted interaction state.
type Overlay struct {
	// Path is the freehand stroke being drawn.
	Path      []geom.Point
	PathStyle annotation.StrokeStyle
	// Shape is the shape being dragged out.
	Shape *annotation.Shape
	// Crop is the normalized crop rectangle.
	Crop *geom.Box
}

// Compositor owns the render surface. A Compositor is not safe for
// concurrent use.
type Compositor struct {
	theme   *theme.Theme
	fonts   *fontBank
	surface *image.RGBA
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithTheme sets the overlay colours.
func WithTheme(t *theme.Theme) Option {
	return func(c *Compositor) {
		if t != nil {
			c.theme = t
		}
	}
}

// New creates a Compositor.
func New(opts ...Option) *Compositor {
	c := &Compositor{theme: theme.Default(), fonts: newFontBank()}
	for _, o := range opts {
		o(c)
	}
	return c
}

func logger() *slog.Logger { return logging.Logger() }

// Render draws a full frame including crop and selection chrome. It returns
// nil when the scene is not ready. The returned image is reused by the next
// call.
func (c *Compositor) Render(s Scene) *image.RGBA {
	if !s.Ready() {
		return nil
	}
	dc := c.prepare(s.Size)
	c.composite(dc, s, true)
	if s.Overlay.Crop != nil {
		c.drawCrop(dc, s.Size, *s.Overlay.Crop)
	}
	c.drawSelection(dc, s)
	return c.surface
}

// SnapshotImage renders the flattened composite, without overlays, preview
// or chrome, into a new image owned by the caller.
func (c *Compositor) SnapshotImage(s Scene) (*image.RGBA, error) {
	if !s.Ready() {
		return nil, ErrNotReady
	}
	s.Preview = nil
	s.Overlay = Overlay{}
	s.SelectedID = ""
	dc := c.prepare(s.Size)
	c.composite(dc, s, false)
	out := image.NewRGBA(c.surface.Rect)
	copy(out.Pix, c.surface.Pix)
	return out, nil
}

// Snapshot is SnapshotImage encoded as PNG.
func (c *Compositor) Snapshot(s Scene) ([]byte, error) {
	img, err := c.SnapshotImage(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// prepare sizes and clears the surface.
func (c *Compositor) prepare(size geom.Size) *gg.Context {
	if size.Empty() {
		size = geom.DefaultDisplay
	}
	if c.surface == nil || geom.SizeOf(c.surface.Rect) != size {
		c.surface = image.NewRGBA(image.Rect(0, 0, size.W, size.H))
		logger().Debug("render surface resized", "w", size.W, "h", size.H)
	} else {
		clear(c.surface.Pix)
	}
	return gg.NewContextForRGBA(c.surface)
}

// composite runs the transformed part of the pipeline: photo, filters,
// annotations and, when overlays is set, the in-progress path or shape.
func (c *Compositor) composite(dc *gg.Context, s Scene, overlays bool) {
	size := geom.SizeOf(c.surface.Rect)
	if s.Image == nil {
		c.drawPlaceholder(dc, size)
	}

	dc.Push()
	applyTransform(dc, size, s.Transform)
	if s.Image != nil {
		dc.Push()
		dc.Translate(-float64(size.W)/2, -float64(size.H)/2)
		dc.DrawImage(s.Image, 0, 0)
		dc.Pop()
	}

	if s.Filters.Active() {
		dc.Pop()
		filter.ApplyRGBA(c.surface, s.Filters)
		dc.Push()
		applyTransform(dc, size, s.Transform)
	}

	for _, a := range s.Annotations {
		if s.Preview != nil && s.Preview.ID == a.ID {
			a = *s.Preview
		}
		c.drawAnnotation(dc, size, a)
	}

	if overlays {
		c.drawTransient(dc, size, s.Overlay)
	}
	dc.Pop()
}

// applyTransform centres the context and applies rotation, then the
// horizontal flip, then the vertical flip.
func applyTransform(dc *gg.Context, size geom.Size, t annotation.Transform) {
	dc.Translate(float64(size.W)/2, float64(size.H)/2)
	if t.Rotation != 0 {
		dc.Rotate(gg.Radians(float64(t.Rotation)))
	}
	if t.FlipH {
		dc.Scale(-1, 1)
	}
	if t.FlipV {
		dc.Scale(1, -1)
	}
}
