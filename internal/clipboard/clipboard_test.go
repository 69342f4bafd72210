//go:build linux || freebsd || openbsd || netbsd || dragonfly

package clipboard

import (
	"errors"
	"image"
	"sync"
	"testing"
)

func resetInit() {
	initOnce = sync.Once{}
	initErr = nil
	active = nil
}

func TestWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	resetInit()
	t.Cleanup(resetInit)

	if err := WriteText("[]"); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
	if err := WriteImage(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
	if _, err := ReadImage(); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
}

type memory map[format][]byte

func (m memory) write(f format, data []byte) error { m[f] = data; return nil }
func (m memory) read(f format) ([]byte, error)     { return m[f], nil }

func TestImageRoundTripThroughBackend(t *testing.T) {
	resetInit()
	t.Cleanup(resetInit)
	mem := memory{}
	initOnce.Do(func() { active = mem })

	if _, err := ReadImage(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	if err := WriteImage(src); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := ReadImage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if err := WriteText("{}"); err != nil || string(mem[formatText]) != "{}" {
		t.Fatalf("text write failed: %v", err)
	}
}
