// Package editor is the interaction state machine of the wound photo
// annotator. It owns the annotation list, the selection, the in-progress
// gesture and the canvas transform and filter state, and asks a
// render.Compositor for frames.
//
// An Editor is driven from a single event loop. Every mutation replaces the
// annotation slice or the overlay state wholesale, so a frame built from an
// earlier Scene never observes a half-applied edit.
package editor

import (
	"errors"
	"image"
	"log/slog"
	"slices"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/filter"
	"github.com/example/woundmark/internal/geom"
	"github.com/example/woundmark/internal/imageio"
	"github.com/example/woundmark/internal/logging"
	"github.com/example/woundmark/internal/render"
	"github.com/example/woundmark/internal/theme"
)

var (
	// ErrLabelRequired is returned by Save when the label is blank.
	ErrLabelRequired = errors.New("a label is required to save")
	// ErrNoImage is returned for operations that need a decoded photo.
	ErrNoImage = errors.New("no image loaded")
	// ErrEmptyCrop is returned when the crop rectangle has no area inside
	// the image.
	ErrEmptyCrop = errors.New("crop rectangle is empty")
	// ErrNotFound is returned when an annotation ID is unknown.
	ErrNotFound = errors.New("annotation not found")
)

func logger() *slog.Logger { return logging.Logger() }

// Tool is the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolText
	ToolFreehand
	ToolShape
	ToolCrop
	ToolTransform
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolText:
		return "text"
	case ToolFreehand:
		return "freehand"
	case ToolShape:
		return "shape"
	case ToolCrop:
		return "crop"
	case ToolTransform:
		return "transform"
	}
	return "unknown"
}

// State is the interaction state reported to hosts.
type State string

const (
	StateSelect       State = "select"
	StatePlaceText    State = "place-text"
	StateFreehand     State = "freehand"
	StateShape        State = "shape"
	StateCropInactive State = "crop-inactive"
	StateCropActive   State = "crop-active"
)

// Config holds the editing defaults. Zero fields fall back to
// DefaultConfig.
type Config struct {
	// Container is the area the photo is fitted into.
	Container geom.Size
	Padding   int

	ZoomMin  float64
	ZoomMax  float64
	ZoomStep float64

	TextStyle     annotation.TextStyle
	FreehandStyle annotation.StrokeStyle
	ShapeStyle    annotation.StrokeStyle

	// RequireLabel makes Save refuse a blank label.
	RequireLabel bool

	Theme *theme.Theme
}

// DefaultConfig returns the stock editor settings.
func DefaultConfig() Config {
	return Config{
		Container:     geom.Size{W: 1200, H: 800},
		Padding:       32,
		ZoomMin:       0.1,
		ZoomMax:       3,
		ZoomStep:      0.1,
		TextStyle:     annotation.DefaultTextStyle(),
		FreehandStyle: annotation.DefaultFreehandStyle(),
		ShapeStyle:    annotation.DefaultShapeStyle(),
		RequireLabel:  true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Container.Empty() {
		c.Container = d.Container
	}
	if c.Padding < 0 {
		c.Padding = 0
	}
	if c.ZoomMin <= 0 {
		c.ZoomMin = d.ZoomMin
	}
	if c.ZoomMax < c.ZoomMin {
		c.ZoomMax = max(d.ZoomMax, c.ZoomMin)
	}
	if c.ZoomStep <= 0 {
		c.ZoomStep = d.ZoomStep
	}
	if c.TextStyle == (annotation.TextStyle{}) {
		c.TextStyle = d.TextStyle
	}
	if c.FreehandStyle == (annotation.StrokeStyle{}) {
		c.FreehandStyle = d.FreehandStyle
	}
	if c.ShapeStyle == (annotation.StrokeStyle{}) {
		c.ShapeStyle = d.ShapeStyle
	}
	c.TextStyle.FontSize = clamp(c.TextStyle.FontSize, annotation.MinFontSize, annotation.MaxFontSize)
	c.FreehandStyle.Width = clamp(c.FreehandStyle.Width, annotation.MinStrokeWidth, annotation.MaxStrokeWidth)
	c.ShapeStyle.Width = clamp(c.ShapeStyle.Width, annotation.MinStrokeWidth, annotation.MaxStrokeWidth)
	return c
}

// Session is what a host opens the editor with.
type Session struct {
	ImageRef    string
	Annotations []annotation.Annotation
	Transform   annotation.Transform
	// Filters is optional; the zero value means no filtering.
	Filters *filter.Settings
	Label   string
	// Crop is re-applied to the fitted photo on every decode of ImageRef.
	Crop annotation.Crop
}

// Commit is handed to OnSave.
type Commit struct {
	Annotations []annotation.Annotation
	Transform   annotation.Transform
	Filters     filter.Settings
	Label       string
	ImageRef    string
	// Crop is the kept region of ImageRef's fitted display photo. The
	// annotations are relative to it.
	Crop annotation.Crop
	// Snapshot is the flattened composite as PNG.
	Snapshot []byte
}

// Editor is the annotation editor core.
type Editor struct {
	cfg        Config
	compositor *render.Compositor

	// OnSave receives every successful save. An error aborts the save.
	OnSave func(Commit) error
	// OnClose is called when the editor is dismissed without saving.
	OnClose func()

	ref     string
	seq     uint64
	source  *image.RGBA
	kept    image.Rectangle
	loadErr error
	size    geom.Size

	annotations []annotation.Annotation
	selectedID  string
	preview     *annotation.Annotation

	tool      Tool
	shapeKind annotation.ShapeKind
	gesture   gesture
	crop      *geom.Box
	textAt    *geom.Point

	transform annotation.Transform
	filters   filter.Settings
	zoom      float64
	label     string
}

// New creates an editor for s. The photo is not loaded until the host
// passes the result of RequestImage to a fetcher.
func New(cfg Config, s Session) *Editor {
	cfg = cfg.withDefaults()
	e := &Editor{
		cfg:         cfg,
		compositor:  render.New(render.WithTheme(cfg.Theme)),
		ref:         s.ImageRef,
		kept:        s.Crop.Rect(),
		size:        geom.DefaultDisplay,
		annotations: slices.Clone(s.Annotations),
		shapeKind:   annotation.ShapeRect,
		transform:   s.Transform,
		filters:     filter.Identity(),
		zoom:        1,
		label:       s.Label,
	}
	if s.Filters != nil {
		e.filters = *s.Filters
	}
	return e
}

// Config returns the effective configuration.
func (e *Editor) Config() Config { return e.cfg }

// ImageRef returns the reference of the current photo.
func (e *Editor) ImageRef() string { return e.ref }

// RequestImage starts a new decode generation for ref and returns the
// request to hand to an imageio.Fetcher. Completions for earlier requests
// are ignored from now on.
func (e *Editor) RequestImage(ref string) imageio.Request {
	e.seq++
	if ref != e.ref {
		e.kept = image.Rectangle{}
	}
	e.ref = ref
	return imageio.Request{Seq: e.seq, Ref: ref}
}

// Reload returns a request for the current reference.
func (e *Editor) Reload() imageio.Request { return e.RequestImage(e.ref) }

// ImageDecoded installs a decode result. It reports false when the result
// belongs to a superseded request.
func (e *Editor) ImageDecoded(req imageio.Request, img image.Image, err error) bool {
	if req.Seq != e.seq {
		logger().Debug("stale decode ignored", "seq", req.Seq, "latest", e.seq)
		return false
	}
	if err == nil && img == nil {
		err = ErrNoImage
	}
	if err != nil {
		logger().Warn("image decode failed", "ref", req.Ref, "err", err)
		e.source = nil
		e.loadErr = err
		e.size = geom.DefaultDisplay
		return true
	}
	e.source = imageio.Fit(img, e.cfg.Container, e.cfg.Padding)
	if !e.kept.Empty() {
		r := e.kept.Intersect(e.source.Bounds())
		if r.Empty() {
			logger().Warn("stored crop outside photo, ignored", "ref", req.Ref, "crop", e.kept)
		} else {
			e.source = imageio.Crop(e.source, r)
		}
		e.kept = r
	}
	e.loadErr = nil
	e.size = geom.SizeOf(e.source.Bounds())
	logger().Debug("image installed", "ref", req.Ref, "w", e.size.W, "h", e.size.H)
	return true
}

// Kept returns the region of the fitted photo that crops have kept.
func (e *Editor) Kept() annotation.Crop { return annotation.CropOf(e.kept) }

// Loaded reports whether a decode, successful or not, has completed.
func (e *Editor) Loaded() bool { return e.source != nil || e.loadErr != nil }

// LoadErr returns the last decode error.
func (e *Editor) LoadErr() error { return e.loadErr }

// Size returns the display raster size.
func (e *Editor) Size() geom.Size { return e.size }

// Annotations returns a copy of the committed annotations.
func (e *Editor) Annotations() []annotation.Annotation { return slices.Clone(e.annotations) }

// Label returns the label last saved or opened with.
func (e *Editor) Label() string { return e.label }

// Transform returns the canvas transform.
func (e *Editor) Transform() annotation.Transform { return e.transform }

// Filters returns the filter settings.
func (e *Editor) Filters() filter.Settings { return e.filters }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// ShapeKind returns the shape drawn by the shape tool.
func (e *Editor) ShapeKind() annotation.ShapeKind { return e.shapeKind }

// State reports the interaction state for the active tool.
func (e *Editor) State() State {
	switch e.tool {
	case ToolText:
		return StatePlaceText
	case ToolFreehand:
		return StateFreehand
	case ToolShape:
		return StateShape
	case ToolCrop:
		if e.crop != nil {
			return StateCropActive
		}
		return StateCropInactive
	}
	return StateSelect
}

// SetTool switches tools, abandoning any gesture in progress. Leaving the
// crop tool discards the crop rectangle.
func (e *Editor) SetTool(t Tool) {
	if t == e.tool {
		return
	}
	e.gesture = gesture{}
	e.textAt = nil
	if e.tool == ToolCrop {
		e.crop = nil
	}
	e.tool = t
}

// SetShapeKind selects the shape tool and the kind it draws.
func (e *Editor) SetShapeKind(k annotation.ShapeKind) {
	if !k.Valid() {
		return
	}
	e.shapeKind = k
	e.SetTool(ToolShape)
}

// SetTextStyle sets the style for new text, clamping the size.
func (e *Editor) SetTextStyle(s annotation.TextStyle) {
	s.FontSize = clamp(s.FontSize, annotation.MinFontSize, annotation.MaxFontSize)
	e.cfg.TextStyle = s
}

// SetFreehandStyle sets the stroke for new paths.
func (e *Editor) SetFreehandStyle(s annotation.StrokeStyle) {
	s.Width = clamp(s.Width, annotation.MinStrokeWidth, annotation.MaxStrokeWidth)
	e.cfg.FreehandStyle = s
}

// SetShapeStyle sets the stroke and fill for new shapes.
func (e *Editor) SetShapeStyle(s annotation.StrokeStyle) {
	s.Width = clamp(s.Width, annotation.MinStrokeWidth, annotation.MaxStrokeWidth)
	if s.Fill == "" {
		s.Fill = annotation.Transparent
	}
	e.cfg.ShapeStyle = s
}

// Selected returns the selected annotation.
func (e *Editor) Selected() (annotation.Annotation, bool) {
	i := e.index(e.selectedID)
	if i < 0 {
		return annotation.Annotation{}, false
	}
	return e.annotations[i], true
}

// Select selects the annotation with id, or clears the selection for "".
func (e *Editor) Select(id string) error {
	if id != "" && e.index(id) < 0 {
		return ErrNotFound
	}
	e.selectedID = id
	if e.preview != nil && e.preview.ID != id {
		e.preview = nil
	}
	return nil
}

// Update replaces the annotation with the same ID and drops any preview of
// it.
func (e *Editor) Update(a annotation.Annotation) error {
	i := e.index(a.ID)
	if i < 0 {
		return ErrNotFound
	}
	a = a.Normalized()
	if err := a.Validate(); err != nil {
		return err
	}
	next := slices.Clone(e.annotations)
	next[i] = a
	e.annotations = next
	if e.preview != nil && e.preview.ID == a.ID {
		e.preview = nil
	}
	return nil
}

// Preview renders a in place of the committed annotation with the same ID
// until Update or ClearPreview. An invalid a is refused like in Update.
func (e *Editor) Preview(a annotation.Annotation) error {
	if e.index(a.ID) < 0 {
		return ErrNotFound
	}
	p := a.Normalized()
	if err := p.Validate(); err != nil {
		return err
	}
	e.preview = &p
	return nil
}

// ClearPreview drops the preview override.
func (e *Editor) ClearPreview() { e.preview = nil }

// Previewing returns the pending preview override.
func (e *Editor) Previewing() (annotation.Annotation, bool) {
	if e.preview == nil {
		return annotation.Annotation{}, false
	}
	return e.preview.Clone(), true
}

// Delete removes the selected annotation. It reports whether anything was
// removed.
func (e *Editor) Delete() bool {
	i := e.index(e.selectedID)
	if i < 0 {
		return false
	}
	e.annotations = slices.Delete(slices.Clone(e.annotations), i, i+1)
	e.selectedID = ""
	e.preview = nil
	e.gesture = gesture{}
	return true
}

// ClearAll removes every annotation, drops transient state and resets the
// filters.
func (e *Editor) ClearAll() {
	e.annotations = nil
	e.selectedID = ""
	e.preview = nil
	e.gesture = gesture{}
	e.crop = nil
	e.textAt = nil
	e.filters = filter.Identity()
}

// Close dismisses the editor without saving.
func (e *Editor) Close() {
	if e.OnClose != nil {
		e.OnClose()
	}
}

func (e *Editor) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(e.annotations, func(a annotation.Annotation) bool { return a.ID == id })
}

func (e *Editor) replace(a annotation.Annotation) {
	i := e.index(a.ID)
	if i < 0 {
		return
	}
	next := slices.Clone(e.annotations)
	next[i] = a
	e.annotations = next
}

func (e *Editor) add(a annotation.Annotation) {
	next := make([]annotation.Annotation, len(e.annotations), len(e.annotations)+1)
	copy(next, e.annotations)
	e.annotations = append(next, a)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
