// Package appstate hosts the wound editor in a shiny window: tool buttons
// on the left, a header with the record label, a shortcut bar along the
// bottom and the composited photo in between.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/woundmark/internal/render"
	"github.com/example/woundmark/internal/theme"
)

const (
	headerHeight = 24
	bottomHeight = 24
	buttonHeight = 24
	swatchSize   = 16
	swatchPitch  = 18
	optionHeight = 16
)

// toolbarWidth grows at start up to fit the widest tool label.
var toolbarWidth = 64

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// ButtonState describes the visual state of a control.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// layout splits the window into chrome and canvas.
type layout struct {
	width, height int
	canvas        image.Rectangle
}

func newLayout(width, height int) layout {
	return layout{
		width:  width,
		height: height,
		canvas: image.Rect(toolbarWidth, headerHeight, max(width, toolbarWidth), max(height-bottomHeight, headerHeight)),
	}
}

// frameRect places a frame of w×h raster pixels scaled by zoom. It is
// centred in the canvas while it fits and anchored to the canvas corner when
// it does not.
func (l layout) frameRect(w, h int, zoom float64) image.Rectangle {
	fw := int(float64(w) * zoom)
	fh := int(float64(h) * zoom)
	x := l.canvas.Min.X + max(0, (l.canvas.Dx()-fw)/2)
	y := l.canvas.Min.Y + max(0, (l.canvas.Dy()-fh)/2)
	return image.Rect(x, y, x+fw, y+fh)
}

// region names the part of the window a point falls in.
type region int

const (
	regionCanvas region = iota
	regionHeader
	regionToolbar
	regionShortcuts
)

func (l layout) regionOf(p image.Point) region {
	switch {
	case p.Y >= l.height-bottomHeight:
		return regionShortcuts
	case p.Y < headerHeight:
		return regionHeader
	case p.X < toolbarWidth:
		return regionToolbar
	}
	return regionCanvas
}

// control is one clickable element of the chrome. Controls are plain data
// so a frame can be drawn off the event loop.
type control struct {
	label  string
	action string
	rect   image.Rectangle
	swatch *color.RGBA
	state  ButtonState
}

func controlAt(cs []control, p image.Point) int {
	for i, c := range cs {
		if p.In(c.rect) {
			return i
		}
	}
	return -1
}

func measure(s string) int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return d.MeasureString(s).Ceil()
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

func outline(dst draw.Image, r image.Rectangle, c color.Color) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func caption(dst draw.Image, x, y int, s string, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func drawControl(dst draw.Image, c control, th *theme.Theme) {
	if c.swatch != nil {
		fill(dst, c.rect, *c.swatch)
		switch c.state {
		case StatePressed:
			outline(dst, c.rect.Inset(-1), th.ButtonBackgroundPress)
			outline(dst, c.rect, th.ButtonText)
		case StateHover:
			outline(dst, c.rect, th.ButtonBorder)
		}
		return
	}
	bg := th.ButtonBackground
	fg := th.ButtonText
	switch c.state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
		fg = th.Background
	}
	fill(dst, c.rect, bg)
	outline(dst, c.rect, th.ButtonBorder)
	caption(dst, c.rect.Min.X+4, c.rect.Min.Y+(c.rect.Dy()+9)/2, c.label, fg)
}

// prompt is the text being typed, either a text annotation or the record
// label.
type prompt struct {
	text  string
	at    image.Point
	size  float64
	color color.Color
	label bool
}

type paintState struct {
	layout
	theme     *theme.Theme
	frame     *image.RGBA
	frameRect image.Rectangle
	title     string
	status    string
	controls  []control
	shortcuts []control
	prompt    *prompt
	message   string
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	paintWindow(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// paintWindow draws one complete window image into dst.
func paintWindow(ctx context.Context, dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, dst.Bounds(), th.Background)

	if st.frame != nil && !st.frameRect.Empty() {
		render.DefaultShadow(th.CanvasShadow).Cast(dst, st.frameRect)
		if st.frameRect.Size() == st.frame.Bounds().Size() {
			draw.Draw(dst, st.frameRect, st.frame, st.frame.Bounds().Min, draw.Over)
		} else {
			xdraw.ApproxBiLinear.Scale(dst, st.frameRect, st.frame, st.frame.Bounds(), draw.Over, nil)
		}
	} else {
		msg := "Loading image..."
		c := st.canvas
		caption(dst, c.Min.X+(c.Dx()-measure(msg))/2, c.Min.Y+c.Dy()/2, msg, th.Foreground)
	}
	if ctx.Err() != nil {
		return
	}

	fill(dst, image.Rect(0, 0, st.width, headerHeight), th.ToolbarBackground)
	caption(dst, 4, 16, st.title, th.Foreground)
	caption(dst, toolbarWidth+8, 16, st.status, th.Foreground)
	fill(dst, image.Rect(0, headerHeight, toolbarWidth, st.height-bottomHeight), th.ToolbarBackground)
	for _, c := range st.controls {
		drawControl(dst, c, th)
	}
	fill(dst, image.Rect(0, st.height-bottomHeight, st.width, st.height), th.ToolbarBackground)
	for _, c := range st.shortcuts {
		drawControl(dst, c, th)
	}
	if ctx.Err() != nil {
		return
	}

	if st.prompt != nil {
		drawPrompt(dst, st, *st.prompt)
	}
	if st.message != "" {
		drawMessage(dst, st, st.message)
	}
}

func drawPrompt(dst *image.RGBA, st paintState, p prompt) {
	if p.label {
		box := drawBox(dst, st, fmt.Sprintf("Label: %s|", p.text), 20)
		caption(dst, box.Min.X, box.Max.Y+16, "Enter to save, Esc to cancel", st.theme.Foreground)
		return
	}
	face, err := faceForSize(p.size)
	if err != nil {
		log.Printf("prompt font: %v", err)
		return
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(p.color), Face: face, Dot: fixed.P(p.at.X, p.at.Y)}
	d.DrawString(p.text + "|")
}

func drawMessage(dst *image.RGBA, st paintState, msg string) {
	drawBox(dst, st, msg, 24)
}

// drawBox writes text centred over the canvas on a framed panel and returns
// the text rectangle.
func drawBox(dst *image.RGBA, st paintState, text string, size float64) image.Rectangle {
	face, err := faceForSize(size)
	if err != nil {
		log.Printf("message font: %v", err)
		return image.Rectangle{}
	}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: face}
	w := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	descent := face.Metrics().Descent.Ceil()
	c := st.canvas
	px := c.Min.X + (c.Dx()-w)/2
	py := c.Min.Y + (c.Dy()-ascent-descent)/2 + ascent
	tr := image.Rect(px, py-ascent, px+w, py+descent)
	panel := tr.Inset(-8)
	draw.Draw(dst, panel, &image.Uniform{color.RGBA{255, 255, 255, 230}}, image.Point{}, draw.Over)
	outline(dst, panel, st.theme.ButtonBorder)
	d.Dot = fixed.P(px, py)
	d.DrawString(text)
	return tr
}

// messageTTL is how long a status message stays on screen.
const messageTTL = 2 * time.Second
