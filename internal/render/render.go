package render

import (
	"image"
	"image/color"

	"github.com/mgpai22/subcanvas/internal/geometry"
)

// raster the loop composites onto, in logical (pre pixel ratio) units
type Surface interface {
	Size() (width, height float64)
	Resize(width, height float64)
	Clear()
	DrawFrame(frame image.Image, dst geometry.Rect)
	FillRect(r geometry.Rect, c color.Color)
	MeasureText(text string) float64
	FontHeight() float64
	// draws text horizontally centered on x with its baseline at y
	FillTextCentered(text string, x, y float64, c color.Color)
}

// playback clock, read only
type Clock interface {
	CurrentTime() float64
}

type FrameSource interface {
	// current decoded frame, nil before the first one is available
	Frame() image.Image
	VideoSize() (width, height int)
}

type Cues interface {
	Lookup(seconds float64) (string, bool)
}

// decides whether the loop keeps running after a tick
type Gate interface {
	Playing() bool
}

type Style struct {
	FontSize         float64
	Padding          float64
	VerticalFraction float64
	Backing          color.Color
	Foreground       color.Color
}

func DefaultStyle() Style {
	return Style{
		FontSize:         24,
		Padding:          10,
		VerticalFraction: 0.85,
		Backing:          color.NRGBA{R: 0, G: 0, B: 0, A: 179}, // 0.7 alpha
		Foreground:       color.White,
	}
}
