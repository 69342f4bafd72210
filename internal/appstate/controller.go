package appstate

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/clipboard"
	"github.com/example/woundmark/internal/editor"
	"github.com/example/woundmark/internal/geom"
	"github.com/example/woundmark/internal/imageio"
	"github.com/example/woundmark/internal/notify"
	"github.com/example/woundmark/internal/theme"
)

// KeyShortcut represents a keyboard shortcut.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

type shortcutList []KeyShortcut

// shortcutOf normalises a key event so it can be looked up in the binding
// table. Named keys match by code, everything else by lower-case rune.
// Shift only counts together with Control since it is already reflected in
// the rune.
func shortcutOf(e key.Event) KeyShortcut {
	mods := e.Modifiers &^ (key.ModAlt | key.ModMeta)
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return KeyShortcut{Code: key.CodeReturnEnter, Modifiers: mods}
	case key.CodeEscape, key.CodeDeleteForward, key.CodeDeleteBackspace:
		return KeyShortcut{Code: e.Code, Modifiers: mods}
	}
	r := e.Rune
	if r <= 0 {
		return KeyShortcut{Code: e.Code, Modifiers: mods}
	}
	if mods&key.ModControl != 0 && r < 0x20 {
		r += 'a' - 1
	}
	if mods&key.ModControl == 0 {
		mods &^= key.ModShift
	}
	return KeyShortcut{Rune: unicode.ToLower(r), Modifiers: mods}
}

// PaletteColor is one swatch of the toolbar palette.
type PaletteColor struct {
	Name string
	Hex  string
}

var palette = []PaletteColor{
	{"Black", "#000000"},
	{"White", "#ffffff"},
	{"Red", "#ff0000"},
	{"Orange", "#ff8c00"},
	{"Yellow", "#ffd700"},
	{"Green", "#00a651"},
	{"Blue", "#0066ff"},
	{"Magenta", "#ff00ff"},
}

var (
	strokeWidths = []float64{1, 2, 3, 5, 8}
	fontSizes    = []float64{12, 16, 24, 32, 48}
)

type toolSpec struct {
	label string
	tool  editor.Tool
	shape annotation.ShapeKind
}

var tools = []toolSpec{
	{"M:Select", editor.ToolSelect, ""},
	{"T:Text", editor.ToolText, ""},
	{"B:Draw", editor.ToolFreehand, ""},
	{"X:Rect", editor.ToolShape, annotation.ShapeRect},
	{"O:Circle", editor.ToolShape, annotation.ShapeCircle},
	{"A:Arrow", editor.ToolShape, annotation.ShapeArrow},
	{"R:Crop", editor.ToolCrop, ""},
	{"W:Turn", editor.ToolTransform, ""},
}

type inputMode int

const (
	inputNone inputMode = iota
	inputText
	inputLabel
	inputEdit
)

// controller turns window events into editor calls. It runs on the event
// loop only.
type controller struct {
	ed       *editor.Editor
	theme    *theme.Theme
	notifier *notify.Notifier
	fetch    func(imageio.Request)

	writeImage func(image.Image) error
	writeText  func(string) error
	now        func() time.Time

	actions map[string]func()
	keys    map[KeyShortcut]string

	layout   layout
	controls []control
	keysBar  []control
	hover    int
	hoverKey int
	pressed  bool

	mode         inputMode
	input        string
	message      string
	messageUntil time.Time
	confirmClear bool
	quit         bool
}

func newController(ed *editor.Editor, th *theme.Theme, n *notify.Notifier) *controller {
	if th == nil {
		th = theme.Default()
	}
	c := &controller{
		ed:         ed,
		theme:      th,
		notifier:   n,
		fetch:      func(imageio.Request) {},
		writeImage: clipboard.WriteImage,
		writeText:  clipboard.WriteText,
		now:        time.Now,
		actions:    map[string]func(){},
		keys:       map[KeyShortcut]string{},
		hover:      -1,
		hoverKey:   -1,
	}
	c.registerActions()
	c.resize(newLayout(1024, 768))
	return c
}

func (c *controller) register(name string, keys shortcutList, fn func()) {
	c.actions[name] = fn
	for _, k := range keys {
		c.keys[k] = name
	}
}

func (c *controller) registerActions() {
	for _, t := range tools {
		t := t
		name := "tool." + t.tool.String()
		if t.shape != "" {
			name = "shape." + string(t.shape)
		}
		c.register(name, shortcutList{{Rune: unicode.ToLower(rune(t.label[0]))}}, func() { c.setTool(t) })
	}
	for i, p := range palette {
		hex := p.Hex
		c.register(fmt.Sprintf("color.%d", i), nil, func() { c.applyColor(hex) })
	}
	for i, w := range strokeWidths {
		w := w
		c.register(fmt.Sprintf("width.%d", i), nil, func() { c.applyWidth(w) })
	}
	for i, s := range fontSizes {
		s := s
		c.register(fmt.Sprintf("size.%d", i), nil, func() { c.applyFontSize(s) })
	}

	c.register("apply", shortcutList{{Code: key.CodeReturnEnter}}, c.apply)
	c.register("cancel", shortcutList{{Code: key.CodeEscape}}, c.cancel)
	c.register("delete", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		if c.ed.Delete() {
			c.flash("annotation deleted")
		}
	})
	c.register("clear", shortcutList{{Rune: 'k'}}, c.clearAll)

	c.register("rotate", shortcutList{{Rune: 'g'}}, func() {
		if err := c.ed.Rotate(90); err != nil {
			log.Printf("rotate: %v", err)
		}
	})
	c.register("flip.h", shortcutList{{Rune: 'h'}}, c.ed.FlipHorizontal)
	c.register("flip.v", shortcutList{{Rune: 'j'}}, c.ed.FlipVertical)
	c.register("transform.reset", shortcutList{{Rune: '0'}}, c.ed.ResetTransform)

	c.register("zoom.in", shortcutList{{Rune: '+'}, {Rune: '='}}, c.ed.ZoomIn)
	c.register("zoom.out", shortcutList{{Rune: '-'}}, c.ed.ZoomOut)
	c.register("zoom.reset", shortcutList{{Rune: '0', Modifiers: key.ModControl}}, func() { c.ed.SetZoom(1) })

	c.register("contrast.down", shortcutList{{Rune: '['}}, func() { c.ed.AdjustContrast(-10) })
	c.register("contrast.up", shortcutList{{Rune: ']'}}, func() { c.ed.AdjustContrast(10) })
	c.register("sharpen", shortcutList{{Rune: '1'}}, c.ed.ToggleSharpen)
	c.register("blur", shortcutList{{Rune: '2'}}, c.ed.ToggleBlur)
	c.register("invert", shortcutList{{Rune: 'i'}}, c.ed.ToggleInvert)
	c.register("filters.reset", shortcutList{{Rune: 'f'}}, c.ed.ResetFilters)

	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		c.mode = inputLabel
		c.input = c.ed.Label()
	})
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, c.copySnapshot)
	c.register("copy.json", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, c.copyAnnotations)
	c.register("reload", shortcutList{{Rune: 'r', Modifiers: key.ModControl}}, func() {
		c.fetch(c.ed.Reload())
	})
	c.register("quit", shortcutList{{Rune: 'q'}}, func() { c.quit = true })
	c.registerProperties()
	c.register("prompt.enter", nil, func() { c.typeKey(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress}) })
	c.register("prompt.cancel", nil, func() { c.typeKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress}) })
}

// trigger runs a named action.
func (c *controller) trigger(name string) {
	fn, ok := c.actions[name]
	if !ok {
		return
	}
	if name != "clear" {
		c.confirmClear = false
	}
	fn()
	c.refreshControls()
}

func (c *controller) flash(msg string) {
	log.Print(msg)
	c.message = msg
	c.messageUntil = c.now().Add(messageTTL)
}

func (c *controller) setTool(t toolSpec) {
	switch c.mode {
	case inputText:
		c.mode = inputNone
	case inputEdit:
		c.discardEdit()
	}
	if t.shape != "" {
		c.ed.SetShapeKind(t.shape)
		return
	}
	c.ed.SetTool(t.tool)
}

// apply commits a previewed property change, otherwise the crop.
func (c *controller) apply() {
	if c.applyPending() {
		return
	}
	if _, ok := c.ed.Crop(); ok {
		if err := c.ed.ApplyCrop(); err != nil {
			log.Printf("crop: %v", err)
			return
		}
		c.flash("cropped")
	}
}

func (c *controller) cancel() {
	if _, ok := c.ed.Crop(); ok {
		c.ed.CancelCrop()
		return
	}
	if c.pending() {
		c.ed.ClearPreview()
		c.flash("changes discarded")
		return
	}
	c.ed.ClearPreview()
	if err := c.ed.Select(""); err != nil {
		log.Printf("select: %v", err)
	}
}

// clearAll asks for confirmation on the first press.
func (c *controller) clearAll() {
	if !c.confirmClear {
		c.confirmClear = true
		c.flash("press K again to clear all annotations")
		return
	}
	c.confirmClear = false
	c.ed.ClearAll()
	c.flash("annotations cleared")
}

func (c *controller) save(label string) {
	commit, err := c.ed.Save(label)
	switch {
	case errors.Is(err, editor.ErrLabelRequired):
		c.flash("a label is required to save")
		return
	case err != nil:
		log.Printf("save: %v", err)
		c.flash("save failed")
		return
	}
	c.mode = inputNone
	c.input = ""
	c.flash(fmt.Sprintf("saved %q", commit.Label))
}

func (c *controller) copySnapshot() {
	img, err := c.ed.Snapshot()
	if err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if err := c.writeImage(img); err != nil {
		log.Printf("copy: %v", err)
		c.flash("copy failed")
		return
	}
	c.notifier.Copy("image")
	c.flash("image copied to clipboard")
}

func (c *controller) copyAnnotations() {
	data, err := annotation.EncodeList(c.ed.Annotations())
	if err != nil {
		log.Printf("copy annotations: %v", err)
		return
	}
	if err := c.writeText(string(data)); err != nil {
		log.Printf("copy annotations: %v", err)
		c.flash("copy failed")
		return
	}
	c.notifier.Copy("annotations")
	c.flash("annotations copied to clipboard")
}

// applyColor sets the colour of the active tool and recolours the
// selection. A pending preview takes the colour too and waits for Enter.
func (c *controller) applyColor(hex string) {
	cfg := c.ed.Config()
	switch c.ed.Tool() {
	case editor.ToolText:
		st := cfg.TextStyle
		st.Color = hex
		c.ed.SetTextStyle(st)
	case editor.ToolFreehand:
		st := cfg.FreehandStyle
		st.Color = hex
		c.ed.SetFreehandStyle(st)
	case editor.ToolShape:
		st := cfg.ShapeStyle
		st.Color = hex
		c.ed.SetShapeStyle(st)
	}
	pending := c.pending()
	a, ok := c.draft()
	if !ok {
		return
	}
	switch {
	case a.Text != nil:
		t := *a.Text
		t.Color = hex
		a = a.WithText(t)
	case a.Freehand != nil:
		f := *a.Freehand
		f.Color = hex
		a = a.WithFreehand(f)
	case a.Shape != nil:
		s := *a.Shape
		s.Stroke = hex
		a = a.WithShape(s)
	}
	if pending {
		c.preview("recolour", a)
		return
	}
	if err := c.ed.Update(a); err != nil {
		log.Printf("recolour: %v", err)
	}
}

func (c *controller) applyWidth(w float64) {
	if c.editing() {
		c.previewWidth(w)
		return
	}
	cfg := c.ed.Config()
	if c.ed.Tool() == editor.ToolFreehand {
		st := cfg.FreehandStyle
		st.Width = w
		c.ed.SetFreehandStyle(st)
		return
	}
	st := cfg.ShapeStyle
	st.Width = w
	c.ed.SetShapeStyle(st)
}

func (c *controller) applyFontSize(s float64) {
	if c.editing() {
		c.adjustText("font size", func(t *annotation.Text) { t.FontSize = s })
		return
	}
	st := c.ed.Config().TextStyle
	st.FontSize = s
	c.ed.SetTextStyle(st)
}

// key handles a key press and reports whether the window needs a repaint.
func (c *controller) key(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	if c.mode != inputNone {
		changed := c.typeKey(e)
		c.refreshControls()
		return changed
	}
	name, ok := c.keys[shortcutOf(e)]
	if !ok {
		return false
	}
	c.trigger(name)
	return true
}

func (c *controller) typeKey(e key.Event) bool {
	switch e.Code {
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		switch c.mode {
		case inputLabel:
			c.save(c.input)
			return true
		case inputEdit:
			c.finishEdit()
			return true
		}
		if _, ok := c.ed.SubmitText(c.input); !ok {
			log.Print("blank text discarded")
		}
		c.mode = inputNone
		c.input = ""
		return true
	case key.CodeEscape:
		switch c.mode {
		case inputText:
			c.ed.CancelText()
		case inputEdit:
			c.discardEdit()
			return true
		}
		c.mode = inputNone
		c.input = ""
		return true
	case key.CodeDeleteBackspace:
		if c.input != "" {
			_, n := utf8.DecodeLastRuneInString(c.input)
			c.input = c.input[:len(c.input)-n]
		}
		if c.mode == inputEdit {
			c.previewContent()
		}
		return true
	}
	if e.Modifiers&key.ModControl != 0 || e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
		return false
	}
	c.input += string(e.Rune)
	if c.mode == inputEdit {
		c.previewContent()
	}
	return true
}

// screenPoint converts window pixels to canvas-relative pointer
// coordinates.
func (c *controller) screenPoint(x, y float32) geom.ScreenPoint {
	r := c.frameRect()
	return geom.ScreenPoint{X: float64(x) - float64(r.Min.X), Y: float64(y) - float64(r.Min.Y)}
}

func (c *controller) frameRect() image.Rectangle {
	s := c.ed.Size()
	return c.layout.frameRect(s.W, s.H, c.ed.Zoom())
}

// mouse handles a pointer event and reports whether the window needs a
// repaint.
func (c *controller) mouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	if press && c.message != "" && c.now().Before(c.messageUntil) {
		c.messageUntil = time.Time{}
		return true
	}
	switch e.Button {
	case mouse.ButtonWheelUp:
		c.ed.ZoomIn()
		return true
	case mouse.ButtonWheelDown:
		c.ed.ZoomOut()
		return true
	}

	if !c.pressed {
		switch c.layout.regionOf(p) {
		case regionShortcuts:
			return c.chrome(c.keysBar, &c.hoverKey, p, press)
		case regionToolbar:
			return c.chrome(c.controls, &c.hover, p, press)
		case regionHeader:
			return false
		}
		if c.hover >= 0 || c.hoverKey >= 0 {
			c.hover, c.hoverKey = -1, -1
			c.refreshControls()
		}
	}
	if c.mode == inputLabel {
		return false
	}
	if press && c.mode == inputEdit {
		c.discardEdit()
	}

	sp := c.screenPoint(e.X, e.Y)
	switch {
	case press:
		c.pressed = true
		c.ed.PointerDown(sp)
	case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
		if !c.pressed {
			return false
		}
		c.pressed = false
		busy := c.ed.Busy()
		c.ed.PointerUp(sp)
		if !busy && c.ed.Click(sp) && c.mode != inputText {
			c.mode = inputText
			c.input = ""
		}
	case e.Direction == mouse.DirNone && c.pressed:
		c.ed.PointerMove(sp)
	default:
		return false
	}
	c.refreshControls()
	return true
}

func (c *controller) chrome(cs []control, hover *int, p image.Point, press bool) bool {
	i := controlAt(cs, p)
	changed := i != *hover
	*hover = i
	if press && i >= 0 {
		c.trigger(cs[i].action)
		return true
	}
	if changed {
		c.refreshControls()
	}
	return changed
}

// resize lays the chrome out for a new window size.
func (c *controller) resize(l layout) {
	c.layout = l
	c.refreshControls()
}

// refreshControls rebuilds the toolbar and shortcut bar for the current
// tool and selection.
func (c *controller) refreshControls() {
	c.controls = c.toolbar()
	c.keysBar = c.shortcutBar()
}

func (c *controller) toolbar() []control {
	var cs []control
	tool := c.ed.Tool()
	y := headerHeight
	for _, t := range tools {
		name := "tool." + t.tool.String()
		active := tool == t.tool
		if t.shape != "" {
			name = "shape." + string(t.shape)
			active = active && c.ed.ShapeKind() == t.shape
		}
		cs = append(cs, control{label: t.label, action: name, rect: image.Rect(0, y, toolbarWidth, y+buttonHeight), state: pressedIf(active)})
		y += buttonHeight
	}

	cfg := c.ed.Config()
	current := cfg.ShapeStyle.Color
	switch tool {
	case editor.ToolText:
		current = cfg.TextStyle.Color
	case editor.ToolFreehand:
		current = cfg.FreehandStyle.Color
	}
	y += 4
	cols := max(1, (toolbarWidth-4)/swatchPitch)
	for i, p := range palette {
		col, err := annotation.ParseColor(p.Hex)
		if err != nil {
			continue
		}
		sw := color.RGBA{col.R, col.G, col.B, 255}
		x := 4 + (i%cols)*swatchPitch
		yy := y + (i/cols)*swatchPitch
		cs = append(cs, control{label: p.Name, action: fmt.Sprintf("color.%d", i), rect: image.Rect(x, yy, x+swatchSize, yy+swatchSize), swatch: &sw, state: pressedIf(p.Hex == current)})
	}
	y += ((len(palette)+cols-1)/cols)*swatchPitch + 4

	switch tool {
	case editor.ToolFreehand, editor.ToolShape:
		width := cfg.ShapeStyle.Width
		if tool == editor.ToolFreehand {
			width = cfg.FreehandStyle.Width
		}
		c.widthOptions(&cs, y, width)
	case editor.ToolText:
		c.sizeOptions(&cs, y, cfg.TextStyle.FontSize)
	case editor.ToolSelect, editor.ToolTransform:
		if w, ok := c.selectionWidth(); ok {
			c.widthOptions(&cs, y, w)
		} else if s, ok := c.selectionFontSize(); ok {
			c.sizeOptions(&cs, y, s)
		}
	}

	if c.hover >= 0 && c.hover < len(cs) && cs[c.hover].state == StateDefault {
		cs[c.hover].state = StateHover
	}
	return cs
}

func (c *controller) widthOptions(cs *[]control, y int, width float64) {
	for i, w := range strokeWidths {
		*cs = append(*cs, control{label: fmt.Sprintf("%gpx", w), action: fmt.Sprintf("width.%d", i), rect: image.Rect(0, y, toolbarWidth, y+optionHeight), state: pressedIf(w == width)})
		y += optionHeight
	}
}

func (c *controller) sizeOptions(cs *[]control, y int, size float64) {
	for i, s := range fontSizes {
		*cs = append(*cs, control{label: fmt.Sprintf("%gpt", s), action: fmt.Sprintf("size.%d", i), rect: image.Rect(0, y, toolbarWidth, y+optionHeight), state: pressedIf(s == size)})
		y += optionHeight
	}
}

func pressedIf(b bool) ButtonState {
	if b {
		return StatePressed
	}
	return StateDefault
}

func (c *controller) shortcutBar() []control {
	type sc struct{ label, action string }
	var list []sc
	switch {
	case c.mode == inputText:
		list = []sc{{"Enter:place", "prompt.enter"}, {"Esc:cancel", "prompt.cancel"}}
	case c.mode == inputLabel:
		list = []sc{{"Enter:save", "prompt.enter"}, {"Esc:cancel", "prompt.cancel"}}
	case c.mode == inputEdit:
		list = []sc{{"Enter:apply", "prompt.enter"}, {"Esc:discard", "prompt.cancel"}}
	default:
		if c.ed.Tool() == editor.ToolCrop {
			list = append(list, sc{"Enter:crop", "apply"}, sc{"Esc:cancel", "cancel"})
		}
		if c.pending() {
			list = append(list, sc{"Enter:apply", "apply"}, sc{"Esc:discard", "cancel"})
		}
		if a, ok := c.draft(); ok {
			switch {
			case a.Text != nil:
				list = append(list,
					sc{"E:edit", "text.edit"},
					sc{"^B:bold", "text.bold"},
					sc{"^I:italic", "text.italic"},
					sc{"^U:line", "text.decoration"},
					sc{"^F:" + a.Text.FontFamily, "text.family"},
					sc{fmt.Sprintf(", .:turn %.0f", a.Text.Rotation), "rotate.right"},
				)
			case a.Shape != nil && a.Shape.Kind == annotation.ShapeArrow:
				list = append(list,
					sc{"D:heads " + string(a.Shape.Arrow.Direction), "arrow.heads"},
					sc{fmt.Sprintf(", .:turn %.0f", a.Shape.Arrow.Rotation), "rotate.right"},
				)
			case a.Shape != nil:
				list = append(list, sc{"N:fill", "shape.fill"})
			}
		}
		list = append(list,
			sc{"^S:save", "save"},
			sc{"^C:copy", "copy"},
			sc{"^+Shift+C:json", "copy.json"},
			sc{fmt.Sprintf("+/-:zoom (%.0f%%)", c.ed.Zoom()*100), "zoom.reset"},
			sc{"G:rotate", "rotate"},
			sc{"H/J:flip", "flip.h"},
			sc{fmt.Sprintf("[ ]:contrast %.0f%%", c.ed.Filters().Contrast), "contrast.up"},
			sc{"1:sharpen", "sharpen"},
			sc{"2:blur", "blur"},
			sc{"I:invert", "invert"},
			sc{"K:clear", "clear"},
			sc{"Q:quit", "quit"},
		)
	}
	var cs []control
	x := toolbarWidth + 4
	y := c.layout.height - bottomHeight + 3
	for i, s := range list {
		w := measure(s.label) + 8
		st := StateDefault
		if i == c.hoverKey {
			st = StateHover
		}
		cs = append(cs, control{label: s.label, action: s.action, rect: image.Rect(x, y, x+w, y+18), state: st})
		x += w + 6
	}
	return cs
}

// status is shown in the header.
func (c *controller) status() string {
	lbl := c.ed.Label()
	if lbl == "" {
		lbl = "(unlabelled)"
	}
	s := fmt.Sprintf("%s   %s   %.0f%%", lbl, c.ed.State(), c.ed.Zoom()*100)
	if err := c.ed.LoadErr(); err != nil {
		s += "   image failed to load"
	}
	if c.pending() {
		s += "   unapplied changes"
	}
	return s
}

// paintState captures what the paint goroutine needs. The frame is copied
// since the compositor reuses its surface.
func (c *controller) paintState() paintState {
	st := paintState{
		layout:    c.layout,
		theme:     c.theme,
		title:     "WoundMark",
		status:    c.status(),
		controls:  c.controls,
		shortcuts: c.keysBar,
	}
	if f := c.ed.Frame(); f != nil {
		st.frame = image.NewRGBA(f.Rect)
		copy(st.frame.Pix, f.Pix)
		st.frameRect = c.frameRect()
	}
	switch c.mode {
	case inputLabel:
		st.prompt = &prompt{text: c.input, label: true}
	case inputText:
		if at, ok := c.ed.PendingText(); ok {
			ts := c.ed.Config().TextStyle
			col, err := annotation.ParseColor(ts.Color)
			if err != nil {
				col = color.NRGBA{A: 255}
			}
			r := st.frameRect
			if r.Empty() {
				r = c.frameRect()
			}
			z := c.ed.Zoom()
			st.prompt = &prompt{
				text:  c.input,
				at:    image.Pt(r.Min.X+int(at.X*z), r.Min.Y+int(at.Y*z)),
				size:  ts.FontSize * z,
				color: col,
			}
		}
	}
	if c.message != "" && c.now().Before(c.messageUntil) {
		st.message = c.message
	}
	return st
}
