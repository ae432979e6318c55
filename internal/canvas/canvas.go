package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/mgpai22/subcanvas/internal/geometry"
)

// Canvas is an RGBA raster addressed in logical units. The backing image is
// pixelRatio times larger in each dimension, like a browser canvas sized to
// the device pixel ratio.
type Canvas struct {
	img        *image.RGBA
	width      float64
	height     float64
	pixelRatio float64
	fontSize   float64
	face       font.Face
	scaler     draw.Scaler
}

func New(width, height, pixelRatio, fontSize float64) (*Canvas, error) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %vx%v", width, height)
	}

	c := &Canvas{
		pixelRatio: pixelRatio,
		fontSize:   fontSize,
		scaler:     draw.ApproxBiLinear,
	}
	if err := c.loadFace(); err != nil {
		return nil, err
	}
	c.Resize(width, height)
	return c, nil
}

func (c *Canvas) loadFace() error {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    c.fontSize * c.pixelRatio,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("failed to create font face: %w", err)
	}
	c.face = face
	return nil
}

// backing image; its size is the logical size times the pixel ratio
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

func (c *Canvas) Size() (float64, float64) {
	return c.width, c.height
}

func (c *Canvas) Resize(width, height float64) {
	c.width = width
	c.height = height
	w := int(math.Round(width * c.pixelRatio))
	h := int(math.Round(height * c.pixelRatio))
	c.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Black, image.Point{}, draw.Src)
}

func (c *Canvas) DrawFrame(frame image.Image, dst geometry.Rect) {
	r := dst.Scale(c.pixelRatio).Image()
	c.scaler.Scale(c.img, r, frame, frame.Bounds(), draw.Src, nil)
}

func (c *Canvas) FillRect(r geometry.Rect, col color.Color) {
	dr := r.Scale(c.pixelRatio).Image().Intersect(c.img.Bounds())
	draw.Draw(c.img, dr, image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *Canvas) MeasureText(text string) float64 {
	return fixedToFloat(font.MeasureString(c.face, text)) / c.pixelRatio
}

// nominal font size, matching how the backing box height is derived from the
// CSS font size in a browser canvas
func (c *Canvas) FontHeight() float64 {
	return c.fontSize
}

func (c *Canvas) FillTextCentered(text string, x, y float64, col color.Color) {
	width := fixedToFloat(font.MeasureString(c.face, text))
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot: fixed.Point26_6{
			X: floatToFixed(x*c.pixelRatio - width/2),
			Y: floatToFixed(y * c.pixelRatio),
		},
	}
	d.DrawString(text)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
