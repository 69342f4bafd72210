package theme

import (
	"image/color"
)

// Theme defines the colours of the editor window and of the overlays the
// compositor draws over the photo.
type Theme struct {
	Name string

	// Window
	Background color.RGBA // behind the canvas
	Foreground color.RGBA // status and label text

	// Toolbar
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CanvasShadow color.RGBA

	// Overlays
	Selection       color.RGBA // dashed box around the selected annotation
	SelectionHandle color.RGBA
	CropMask        color.RGBA // darkens the area outside the crop rectangle
	CropBorder      color.RGBA
	CropHandle      color.RGBA
	TempShape       color.RGBA // shape being dragged out
	Placeholder     color.RGBA // fill when the photo failed to load
	PlaceholderText color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "Default",
		Background:            color.RGBA{243, 244, 246, 255},
		Foreground:            color.RGBA{17, 24, 39, 255},
		ToolbarBackground:     color.RGBA{229, 231, 235, 255},
		ButtonBackground:      color.RGBA{209, 213, 219, 255},
		ButtonBackgroundHover: color.RGBA{191, 197, 205, 255},
		ButtonBackgroundPress: color.RGBA{59, 130, 246, 255},
		ButtonText:            color.RGBA{17, 24, 39, 255},
		ButtonBorder:          color.RGBA{107, 114, 128, 255},
		CanvasShadow:          color.RGBA{0, 0, 0, 90},
		Selection:             color.RGBA{59, 130, 246, 255},
		SelectionHandle:       color.RGBA{59, 130, 246, 255},
		CropMask:              color.RGBA{0, 0, 0, 128},
		CropBorder:            color.RGBA{255, 255, 255, 255},
		CropHandle:            color.RGBA{255, 255, 255, 255},
		TempShape:             color.RGBA{0, 0, 255, 255},
		Placeholder:           color.RGBA{255, 255, 255, 255},
		PlaceholderText:       color.RGBA{102, 102, 102, 255},
	}
}
