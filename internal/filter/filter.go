// Package filter implements the CPU pixel filters applied to the rendered
// photo before annotations are drawn on top of it.
package filter

import (
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	"math"
	"slices"
)

// Kernel selects the optional 3x3 convolution. Sharpen and blur share one
// field so enabling one always disables the other.
type Kernel int

const (
	KernelNone Kernel = iota
	KernelSharpen
	KernelBlur
)

func (k Kernel) String() string {
	switch k {
	case KernelSharpen:
		return "sharpen"
	case KernelBlur:
		return "blur"
	}
	return "none"
}

func (k Kernel) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kernel) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none", "":
		*k = KernelNone
	case "sharpen":
		*k = KernelSharpen
	case "blur":
		*k = KernelBlur
	default:
		return fmt.Errorf("unknown kernel %q", b)
	}
	return nil
}

var (
	sharpen = [9]float64{
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	}
	blur = [9]float64{
		1.0 / 9, 1.0 / 9, 1.0 / 9,
		1.0 / 9, 1.0 / 9, 1.0 / 9,
		1.0 / 9, 1.0 / 9, 1.0 / 9,
	}
)

func (k Kernel) weights() ([9]float64, bool) {
	switch k {
	case KernelSharpen:
		return sharpen, true
	case KernelBlur:
		return blur, true
	}
	return [9]float64{}, false
}

// Contrast limits, in percent.
const (
	MinContrast     = 0
	MaxContrast     = 200
	NeutralContrast = 100
)

// Settings is the filter state. Use Identity rather than the zero value:
// a zero Contrast means "no contrast at all".
type Settings struct {
	Contrast float64 `json:"contrast"`
	Invert   bool    `json:"invert"`
	Kernel   Kernel  `json:"kernel"`
}

// Identity returns settings that leave pixels untouched.
func Identity() Settings { return Settings{Contrast: NeutralContrast} }

// Active reports whether Apply would change anything.
func (s Settings) Active() bool {
	return s.Contrast != NeutralContrast || s.Invert || s.Kernel != KernelNone
}

// WithContrast returns s with the contrast clamped into range.
func (s Settings) WithContrast(c float64) Settings {
	if math.IsNaN(c) {
		return s
	}
	s.Contrast = math.Max(MinContrast, math.Min(MaxContrast, c))
	return s
}

// ToggleInvert flips colour inversion.
func (s Settings) ToggleInvert() Settings {
	s.Invert = !s.Invert
	return s
}

// ToggleSharpen enables sharpening, or disables it when already on.
func (s Settings) ToggleSharpen() Settings { return s.toggle(KernelSharpen) }

// ToggleBlur enables blurring, or disables it when already on.
func (s Settings) ToggleBlur() Settings { return s.toggle(KernelBlur) }

func (s Settings) toggle(k Kernel) Settings {
	if s.Kernel == k {
		s.Kernel = KernelNone
	} else {
		s.Kernel = k
	}
	return s
}

func (s *Settings) UnmarshalJSON(b []byte) error {
	var w struct {
		Contrast *float64 `json:"contrast"`
		Invert   bool     `json:"invert"`
		Kernel   Kernel   `json:"kernel"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Identity()
	if w.Contrast != nil {
		if math.IsInf(*w.Contrast, 0) {
			return fmt.Errorf("contrast must be finite")
		}
		out = out.WithContrast(*w.Contrast)
	}
	out.Invert = w.Invert
	out.Kernel = w.Kernel
	*s = out
	return nil
}

// ContrastFactor returns the multiplier applied around mid-grey for c.
func ContrastFactor(c float64) float64 {
	return 259 * (c + 255) / (255 * (259 - c))
}

// Apply filters img in place. Channels are straight (not premultiplied)
// values, alpha is never modified. The order is fixed: convolution, then
// contrast, then inversion.
func Apply(img *image.NRGBA, s Settings) {
	if img == nil || img.Rect.Empty() || !s.Active() {
		return
	}
	if k, ok := s.Kernel.weights(); ok {
		convolve(img, k)
	}
	doContrast := s.Contrast != NeutralContrast
	if !doContrast && !s.Invert {
		return
	}
	factor := ContrastFactor(s.Contrast)
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, i = x+1, i+4 {
			for c := 0; c < 3; c++ {
				v := float64(img.Pix[i+c])
				if doContrast {
					v = clamp(factor*(v-128) + 128)
				}
				if s.Invert {
					v = 255 - v
				}
				img.Pix[i+c] = store(v)
			}
		}
	}
}

// convolve reads neighbourhoods from a snapshot so already written pixels do
// not leak into later sums. The outermost rows and columns are left alone.
func convolve(img *image.NRGBA, k [9]float64) {
	b := img.Rect
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return
	}
	src := slices.Clone(img.Pix)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			for c := 0; c < 3; c++ {
				var sum float64
				for ky := -1; ky <= 1; ky++ {
					row := i + ky*img.Stride
					for kx := -1; kx <= 1; kx++ {
						sum += float64(src[row+kx*4+c]) * k[(ky+1)*3+kx+1]
					}
				}
				img.Pix[i+c] = store(sum)
			}
		}
	}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}

// store clamps and rounds half to even, matching a clamped byte array.
func store(v float64) uint8 {
	return uint8(math.RoundToEven(clamp(v)))
}

// ApplyRGBA filters a premultiplied image by way of a straight-alpha copy.
func ApplyRGBA(img *image.RGBA, s Settings) {
	if img == nil || !s.Active() {
		return
	}
	work := image.NewNRGBA(img.Rect)
	draw.Draw(work, work.Rect, img, img.Rect.Min, draw.Src)
	Apply(work, s)
	draw.Draw(img, img.Rect, work, work.Rect.Min, draw.Src)
}
