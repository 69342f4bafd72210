package render

import (
	"github.com/fogleman/gg"

	"github.com/example/woundmark/internal/annotation"
	"github.com/example/woundmark/internal/bounds"
	"github.com/example/woundmark/internal/geom"
)

const (
	placeholderText = "Error loading image"
	placeholderSize = 16
)

func (c *Compositor) drawPlaceholder(dc *gg.Context, size geom.Size) {
	dc.SetColor(c.theme.Placeholder)
	dc.DrawRectangle(0, 0, float64(size.W), float64(size.H))
	dc.Fill()
	face, err := c.fonts.face(variant{}, placeholderSize)
	if err != nil {
		logger().Warn("placeholder face unavailable", "err", err)
		return
	}
	dc.SetFontFace(face)
	dc.SetColor(c.theme.PlaceholderText)
	dc.DrawStringAnchored(placeholderText, float64(size.W)/2, float64(size.H)/2, 0.5, 0.5)
}

// drawCrop darkens everything outside r and outlines it. r is drawn in
// absolute raster space whatever the current transform.
func (c *Compositor) drawCrop(dc *gg.Context, size geom.Size, r geom.Box) {
	full := geom.Box{W: float64(size.W), H: float64(size.H)}
	r = r.Intersect(full)

	dc.SetColor(c.theme.CropMask)
	top := geom.Box{W: full.W, H: r.Y}
	bottom := geom.Box{Y: r.Y + r.H, W: full.W, H: full.H - r.Y - r.H}
	left := geom.Box{Y: r.Y, W: r.X, H: r.H}
	right := geom.Box{X: r.X + r.W, Y: r.Y, W: full.W - r.X - r.W, H: r.H}
	for _, m := range []geom.Box{top, bottom, left, right} {
		if m.Empty() {
			continue
		}
		dc.DrawRectangle(m.X, m.Y, m.W, m.H)
		dc.Fill()
	}

	dc.SetColor(c.theme.CropBorder)
	dc.SetLineWidth(2)
	dc.SetDash(6, 4)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Stroke()
	dc.SetDash()

	dc.SetColor(c.theme.CropHandle)
	for _, h := range bounds.Corners {
		hb := bounds.HandleBox(h, r)
		dc.DrawRectangle(hb.X, hb.Y, hb.W, hb.H)
		dc.Fill()
	}
}

// drawSelection outlines the selected annotation, or its preview while one
// is active, with a dashed box and four corner handles.
func (c *Compositor) drawSelection(dc *gg.Context, s Scene) {
	if s.SelectedID == "" {
		return
	}
	var target *annotation.Annotation
	if s.Preview != nil && s.Preview.ID == s.SelectedID {
		target = s.Preview
	} else {
		for i := range s.Annotations {
			if s.Annotations[i].ID == s.SelectedID {
				target = &s.Annotations[i]
				break
			}
		}
	}
	if target == nil {
		return
	}
	b, ok := bounds.Of(*target)
	if !ok {
		return
	}

	dc.SetColor(c.theme.Selection)
	dc.SetLineWidth(2)
	dc.SetDash(5, 5)
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Stroke()
	dc.SetDash()

	dc.SetColor(c.theme.SelectionHandle)
	for _, h := range bounds.Corners {
		hb := bounds.HandleBox(h, b)
		dc.DrawRectangle(hb.X, hb.Y, hb.W, hb.H)
		dc.Fill()
	}
}
