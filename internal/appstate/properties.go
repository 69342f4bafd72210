package appstate

import (
	"log"
	"slices"
	"strings"

	"golang.org/x/mobile/event/key"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/editor"
)

// rotationStep is how far one press of , or . turns text and arrows.
const rotationStep = 15

// registerProperties binds the keys that edit the selected annotation.
// Every edit is previewed first; Enter applies it and Esc discards it.
func (c *controller) registerProperties() {
	c.register("text.edit", shortcutList{{Rune: 'e'}}, c.editText)
	c.register("text.bold", shortcutList{{Rune: 'b', Modifiers: key.ModControl}}, func() {
		c.adjustText("bold", func(t *annotation.Text) {
			t.Weight = toggle(t.Weight, annotation.WeightNormal, annotation.WeightBold)
		})
	})
	c.register("text.italic", shortcutList{{Rune: 'i', Modifiers: key.ModControl}}, func() {
		c.adjustText("italic", func(t *annotation.Text) {
			t.Style = toggle(t.Style, annotation.StyleNormal, annotation.StyleItalic)
		})
	})
	c.register("text.decoration", shortcutList{{Rune: 'u', Modifiers: key.ModControl}}, func() {
		c.adjustText("decoration", func(t *annotation.Text) {
			t.Decoration = cycle(t.Decoration, []annotation.TextDecoration{
				annotation.DecorationNone, annotation.DecorationUnderline, annotation.DecorationLineThrough,
			})
		})
	})
	c.register("text.family", shortcutList{{Rune: 'f', Modifiers: key.ModControl}}, func() {
		c.adjustText("font", func(t *annotation.Text) {
			t.FontFamily = cycle(t.FontFamily, annotation.Families())
		})
	})
	c.register("rotate.left", shortcutList{{Rune: ','}}, func() { c.turnSelection(-rotationStep) })
	c.register("rotate.right", shortcutList{{Rune: '.'}}, func() { c.turnSelection(rotationStep) })
	c.register("arrow.heads", shortcutList{{Rune: 'd'}}, func() {
		c.adjustShape("arrow heads", func(s *annotation.Shape) bool {
			if s.Kind != annotation.ShapeArrow {
				return false
			}
			s.Arrow.Direction = cycle(s.Arrow.Direction, []annotation.ArrowDirection{
				annotation.ArrowEnd, annotation.ArrowStart, annotation.ArrowBoth,
			})
			return true
		})
	})
	c.register("shape.fill", shortcutList{{Rune: 'n'}}, func() {
		c.adjustShape("fill", func(s *annotation.Shape) bool {
			if s.Kind == annotation.ShapeArrow {
				return false
			}
			if s.Fill == annotation.Transparent {
				s.Fill = s.Stroke
			} else {
				s.Fill = annotation.Transparent
			}
			return true
		})
	})
}

func toggle[T comparable](v, a, b T) T {
	if v == a {
		return b
	}
	return a
}

// cycle returns the entry after v in order, wrapping around. Unknown values
// start from the first entry.
func cycle[T comparable](v T, order []T) T {
	i := slices.Index(order, v)
	return order[(i+1)%len(order)]
}

// editing reports whether the host selects rather than draws, so option
// buttons change the selection instead of the tool style.
func (c *controller) editing() bool {
	switch c.ed.Tool() {
	case editor.ToolSelect, editor.ToolTransform:
		_, ok := c.ed.Selected()
		return ok
	}
	return false
}

// draft is what a property change starts from: the pending preview of the
// selection, otherwise the selection itself.
func (c *controller) draft() (annotation.Annotation, bool) {
	sel, ok := c.ed.Selected()
	if !ok {
		return annotation.Annotation{}, false
	}
	if p, ok := c.ed.Previewing(); ok && p.ID == sel.ID {
		return p, true
	}
	return sel, true
}

// pending reports whether a previewed change waits for Enter.
func (c *controller) pending() bool {
	sel, ok := c.ed.Selected()
	if !ok {
		return false
	}
	p, ok := c.ed.Previewing()
	return ok && p.ID == sel.ID
}

func (c *controller) preview(what string, a annotation.Annotation) {
	if err := c.ed.Preview(a); err != nil {
		log.Printf("%s: %v", what, err)
	}
}

func (c *controller) adjustText(what string, fn func(*annotation.Text)) {
	a, ok := c.draft()
	if !ok || a.Text == nil {
		return
	}
	t := *a.Text
	fn(&t)
	c.preview(what, a.WithText(t))
}

func (c *controller) adjustShape(what string, fn func(*annotation.Shape) bool) {
	a, ok := c.draft()
	if !ok || a.Shape == nil {
		return
	}
	s := *a.Shape
	if !fn(&s) {
		return
	}
	c.preview(what, a.WithShape(s))
}

// turnSelection rotates selected text or an arrow by deg.
func (c *controller) turnSelection(deg float64) {
	a, ok := c.draft()
	if !ok {
		return
	}
	switch {
	case a.Text != nil:
		t := *a.Text
		t.Rotation += deg
		c.preview("rotate", a.WithText(t))
	case a.Shape != nil && a.Shape.Kind == annotation.ShapeArrow:
		s := *a.Shape
		s.Arrow.Rotation += deg
		c.preview("rotate", a.WithShape(s))
	}
}

// previewWidth changes the stroke of the selected path or shape.
func (c *controller) previewWidth(w float64) {
	a, ok := c.draft()
	if !ok {
		return
	}
	switch {
	case a.Freehand != nil:
		f := *a.Freehand
		f.Width = w
		c.preview("width", a.WithFreehand(f))
	case a.Shape != nil:
		s := *a.Shape
		s.StrokeWidth = w
		c.preview("width", a.WithShape(s))
	}
}

// editText opens the selected text's content for typing. Every key
// previews the new content.
func (c *controller) editText() {
	a, ok := c.draft()
	if !ok || a.Text == nil {
		return
	}
	c.mode = inputEdit
	c.input = a.Text.Content
}

func (c *controller) previewContent() {
	c.adjustText("edit", func(t *annotation.Text) { t.Content = c.input })
}

// finishEdit applies the typed content along with any other pending
// change. Blank text is refused and the prompt stays open.
func (c *controller) finishEdit() {
	if strings.TrimSpace(c.input) == "" {
		c.flash("text cannot be blank")
		return
	}
	c.previewContent()
	c.applyPending()
	c.mode = inputNone
	c.input = ""
}

// discardEdit closes the prompt and drops every pending change of the
// selection.
func (c *controller) discardEdit() {
	c.ed.ClearPreview()
	c.mode = inputNone
	c.input = ""
}

// applyPending commits the previewed change of the selection.
func (c *controller) applyPending() bool {
	if !c.pending() {
		return false
	}
	p, _ := c.ed.Previewing()
	if err := c.ed.Update(p); err != nil {
		log.Printf("apply: %v", err)
		c.flash("change rejected")
		return true
	}
	c.flash("changes applied")
	return true
}

// selectionWidth is the stroke width shown as current in the toolbar while
// a path or shape is selected.
func (c *controller) selectionWidth() (float64, bool) {
	a, ok := c.draft()
	if !ok {
		return 0, false
	}
	switch {
	case a.Freehand != nil:
		return a.Freehand.Width, true
	case a.Shape != nil:
		return a.Shape.StrokeWidth, true
	}
	return 0, false
}

func (c *controller) selectionFontSize() (float64, bool) {
	a, ok := c.draft()
	if !ok || a.Text == nil {
		return 0, false
	}
	return a.Text.FontSize, true
}
