package appstate

import (
	"context"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/woundmark/internal/editor"
	"github.com/example/woundmark/internal/imageio"
	"github.com/example/woundmark/internal/notify"
	"github.com/example/woundmark/internal/theme"
)

// AppState holds what the window needs to host one editing session.
type AppState struct {
	cfg      editor.Config
	session  editor.Session
	theme    *theme.Theme
	notifier *notify.Notifier
	decode   imageio.DecodeFunc

	onSave func(editor.Commit) error

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithConfig sets the editor configuration.
func WithConfig(cfg editor.Config) Option { return func(a *AppState) { a.cfg = cfg } }

// WithSession sets the photo and annotations to open.
func WithSession(s editor.Session) Option { return func(a *AppState) { a.session = s } }

// WithTheme sets the window and overlay colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithNotifier sets the notifier used for clipboard notifications.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithDecoder replaces the image decoder.
func WithDecoder(fn imageio.DecodeFunc) Option { return func(a *AppState) { a.decode = fn } }

// WithOnSave registers the commit target. An error keeps the window open
// and is shown to the user.
func WithOnSave(fn func(editor.Commit) error) Option { return func(a *AppState) { a.onSave = fn } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{cfg: editor.DefaultConfig()}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	if a.cfg.Theme == nil {
		a.cfg.Theme = a.theme
	}
	return a
}

// newEditor builds the editor for the session with the host callbacks
// attached.
func (a *AppState) newEditor() *editor.Editor {
	ed := editor.New(a.cfg, a.session)
	ed.OnSave = a.onSave
	ed.OnClose = a.notifyClose
	return ed
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the window until it is closed or the user quits.
func (a *AppState) Main(s screen.Screen) {
	ed := a.newEditor()
	c := newController(ed, a.theme, a.notifier)

	// Ensure the toolbar is wide enough to fit all tool button labels so
	// the UI contents are not clipped on start up.
	d := &font.Drawer{Face: basicfont.Face7x13}
	for _, t := range tools {
		if w := d.MeasureString(t.label).Ceil() + 8; w > toolbarWidth {
			toolbarWidth = w
		}
	}

	cont := ed.Config().Container
	width := cont.W + toolbarWidth
	height := cont.H + headerHeight + bottomHeight
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "WoundMark"})
	if err != nil {
		log.Printf("new window: %v", err)
		return
	}
	defer w.Release()
	defer ed.Close()

	fetcher := imageio.NewFetcher(a.decode)
	defer fetcher.Close()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case res, ok := <-fetcher.Results():
				if !ok {
					return
				}
				w.Send(res)
			case <-done:
				return
			}
		}
	}()
	c.fetch = fetcher.Fetch
	c.resize(newLayout(width, height))
	c.fetch(ed.RequestImage(a.session.ImageRef))

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case imageio.Result:
			if ed.ImageDecoded(e.Request, e.Image, e.Err) {
				if e.Err != nil {
					c.flash("could not load image")
				}
				c.refreshControls()
				w.Send(paint.Event{})
			}
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			c.resize(newLayout(width, height))
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := c.paintState()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if c.mouse(e) {
				w.Send(paint.Event{})
			}
		case key.Event:
			if c.key(e) {
				w.Send(paint.Event{})
			}
			if c.quit {
				stopPaint()
				return
			}
		}
	}
}
