package annotation

import (
	"encoding/json"
	"fmt"
	"image"
)

// Transform is the whole-canvas orientation. It applies to the image and
// every annotation together; rotation is applied first, then the horizontal
// flip, then the vertical flip.
type Transform struct {
	Rotation int  `json:"rotation"`
	FlipH    bool `json:"flipH"`
	FlipV    bool `json:"flipV"`
}

// Rotate adds deg, which must be a multiple of 90, to the rotation.
func (t Transform) Rotate(deg int) Transform {
	t.Rotation = ((t.Rotation+deg)%360 + 360) % 360
	return t
}

// FlipHorizontal toggles the horizontal mirror.
func (t Transform) FlipHorizontal() Transform {
	t.FlipH = !t.FlipH
	return t
}

// FlipVertical toggles the vertical mirror.
func (t Transform) FlipVertical() Transform {
	t.FlipV = !t.FlipV
	return t
}

// Identity reports whether t leaves the canvas untouched.
func (t Transform) Identity() bool { return t == Transform{} }

// Validate rejects rotations outside 0, 90, 180 and 270.
func (t Transform) Validate() error {
	switch t.Rotation {
	case 0, 90, 180, 270:
		return nil
	}
	return fmt.Errorf("rotation %d is not a quarter turn", t.Rotation)
}

func (t *Transform) UnmarshalJSON(b []byte) error {
	type plain Transform
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	v := Transform(p)
	if err := v.Validate(); err != nil {
		return err
	}
	*t = v
	return nil
}

// Crop is the region of the fitted display photo that was kept by crops,
// in display pixels. The zero value keeps the whole photo.
type Crop struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"width"`
	H int `json:"height"`
}

// CropOf converts r to a Crop.
func CropOf(r image.Rectangle) Crop {
	if r.Empty() {
		return Crop{}
	}
	return Crop{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rect returns the region as a rectangle; empty for the zero value.
func (c Crop) Rect() image.Rectangle {
	if c.W <= 0 || c.H <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(c.X, c.Y, c.X+c.W, c.Y+c.H)
}

// Empty reports whether c keeps the whole photo.
func (c Crop) Empty() bool { return c.Rect().Empty() }
