package geometry

import (
	"errors"
	"image"
	"math"
)

// source dimensions are not known yet, typically because media metadata has
// not loaded; callers retry once they are
var ErrGeometryUnavailable = errors.New("source dimensions unavailable")

// destination rectangle in surface units
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// scales the source to the largest size that fits inside the destination
// while keeping its aspect ratio, centered
func Fit(sourceWidth, sourceHeight, destWidth, destHeight float64) (Rect, error) {
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return Rect{}, ErrGeometryUnavailable
	}

	scale := math.Min(destWidth/sourceWidth, destHeight/sourceHeight)
	width := sourceWidth * scale
	height := sourceHeight * scale

	return Rect{
		X:      destWidth/2 - width/2,
		Y:      destHeight/2 - height/2,
		Width:  width,
		Height: height,
	}, nil
}

// multiplies every component by factor
func (r Rect) Scale(factor float64) Rect {
	return Rect{
		X:      r.X * factor,
		Y:      r.Y * factor,
		Width:  r.Width * factor,
		Height: r.Height * factor,
	}
}

// rounds the rect onto the pixel grid
func (r Rect) Image() image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)),
		int(math.Round(r.Y+r.Height)),
	)
}
