package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/example/woundmark/internal/annotation"
)

// variant selects one of the bundled Go font files.
type variant struct {
	mono   bool
	bold   bool
	italic bool
}

func (v variant) ttf() []byte {
	switch {
	case v.mono && v.bold && v.italic:
		return gomonobolditalic.TTF
	case v.mono && v.bold:
		return gomonobold.TTF
	case v.mono && v.italic:
		return gomonoitalic.TTF
	case v.mono:
		return gomono.TTF
	case v.bold && v.italic:
		return gobolditalic.TTF
	case v.bold:
		return gobold.TTF
	case v.italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

type faceKey struct {
	variant
	size float64
}

// fontBank parses the bundled fonts lazily and caches one face per size.
// The Go fonts stand in for the families offered in the text tool: the
// monospaced family for Courier New, the proportional one for the rest.
type fontBank struct {
	fonts map[variant]*opentype.Font
	faces map[faceKey]font.Face
}

func newFontBank() *fontBank {
	return &fontBank{fonts: map[variant]*opentype.Font{}, faces: map[faceKey]font.Face{}}
}

func variantFor(t *annotation.Text) variant {
	return variant{
		mono:   t.FontFamily == annotation.FamilyCourier,
		bold:   t.Weight == annotation.WeightBold,
		italic: t.Style == annotation.StyleItalic,
	}
}

func (b *fontBank) face(v variant, size float64) (font.Face, error) {
	key := faceKey{variant: v, size: size}
	if f, ok := b.faces[key]; ok {
		return f, nil
	}
	parsed, ok := b.fonts[v]
	if !ok {
		var err error
		parsed, err = opentype.Parse(v.ttf())
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
		b.fonts[v] = parsed
	}
	f, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	b.faces[key] = f
	return f, nil
}
