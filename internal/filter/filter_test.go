package filter

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"testing"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func grey(v uint8) color.NRGBA { return color.NRGBA{R: v, G: v, B: v, A: 255} }

func TestIdentityLeavesPixelsUnchanged(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	before := bytes.Clone(img.Pix)
	Apply(img, Identity())
	if !bytes.Equal(before, img.Pix) {
		t.Fatalf("identity settings modified pixels")
	}
}

func TestSharpenThenContrast(t *testing.T) {
	img := uniform(3, 3, grey(100))
	img.SetNRGBA(1, 1, grey(110))

	Apply(img, Settings{Contrast: 150, Kernel: KernelSharpen})

	// sharpen: 5*110 - 4*100 = 150, then contrast 150 around 128.
	if got := img.NRGBAAt(1, 1); got != grey(211) {
		t.Fatalf("centre = %v, want 211", got)
	}
	// border pixels skip the convolution and only see contrast.
	if got := img.NRGBAAt(0, 0); got != grey(22) {
		t.Fatalf("corner = %v, want 22", got)
	}
	if got := img.NRGBAAt(1, 0); got != grey(22) {
		t.Fatalf("edge = %v, want 22", got)
	}
}

func TestContrastFirstWouldDiffer(t *testing.T) {
	// Guards the ordering: applying contrast before sharpening yields 212
	// at the centre, not 211.
	img := uniform(3, 3, grey(100))
	img.SetNRGBA(1, 1, grey(110))
	Apply(img, Settings{Contrast: 150})
	Apply(img, Settings{Contrast: NeutralContrast, Kernel: KernelSharpen})
	if got := img.NRGBAAt(1, 1); got != grey(212) {
		t.Fatalf("centre = %v, want 212", got)
	}
}

func TestBlurAveragesNeighbourhood(t *testing.T) {
	img := uniform(3, 3, grey(90))
	img.SetNRGBA(1, 1, grey(0))
	Apply(img, Settings{Contrast: NeutralContrast, Kernel: KernelBlur})
	if got := img.NRGBAAt(1, 1); got != grey(80) {
		t.Fatalf("centre = %v, want 80", got)
	}
}

func TestAlphaUntouched(t *testing.T) {
	img := uniform(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 77})
	Apply(img, Settings{Contrast: 180, Invert: true, Kernel: KernelSharpen})
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if a := img.NRGBAAt(x, y).A; a != 77 {
				t.Fatalf("alpha at %d,%d = %d", x, y, a)
			}
		}
	}
}

func TestInvertAfterContrast(t *testing.T) {
	img := uniform(1, 1, grey(100))
	Apply(img, Settings{Contrast: NeutralContrast, Invert: true})
	if got := img.NRGBAAt(0, 0); got != grey(155) {
		t.Fatalf("inverted = %v, want 155", got)
	}
	img = uniform(1, 1, grey(250))
	Apply(img, Settings{Contrast: 150, Invert: true})
	// contrast saturates to 255 before inversion.
	if got := img.NRGBAAt(0, 0); got != grey(0) {
		t.Fatalf("inverted = %v, want 0", got)
	}
}

func TestKernelsAreExclusive(t *testing.T) {
	s := Identity().ToggleSharpen().ToggleBlur()
	if s.Kernel != KernelBlur {
		t.Fatalf("kernel = %v, want blur", s.Kernel)
	}
	if s = s.ToggleBlur(); s.Kernel != KernelNone {
		t.Fatalf("kernel = %v, want none", s.Kernel)
	}
}

func TestWithContrastClamps(t *testing.T) {
	if got := Identity().WithContrast(500).Contrast; got != MaxContrast {
		t.Fatalf("contrast = %v", got)
	}
	if got := Identity().WithContrast(-3).Contrast; got != MinContrast {
		t.Fatalf("contrast = %v", got)
	}
}

func TestSettingsJSONDefaultsContrast(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{"invert":true,"kernel":"blur"}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Contrast != NeutralContrast || !s.Invert || s.Kernel != KernelBlur {
		t.Fatalf("unexpected settings %+v", s)
	}
	if err := json.Unmarshal([]byte(`{"kernel":"emboss"}`), &s); err == nil {
		t.Fatalf("expected error for unknown kernel")
	}
}

func TestApplyRGBAKeepsTransparentPixelsClear(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 50, G: 50, B: 50, A: 255})
	ApplyRGBA(img, Settings{Contrast: NeutralContrast, Invert: true})
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 205, G: 205, B: 205, A: 255}) {
		t.Fatalf("opaque pixel = %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{}) {
		t.Fatalf("transparent pixel = %v", got)
	}
}
