package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/HenrYxZ/experiments/pkg/core"
)

// BytesPerPixel is the number of channels stored per pixel (R, G, B)
const BytesPerPixel = 3

// FrameBuffer is a row-major RGB image with 8 bits per channel.
// Row 0 is the top of the image. It implements image.Image so it can be
// passed to any encoder directly.
type FrameBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrameBuffer allocates a black frame buffer
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*BytesPerPixel),
	}
}

// Stride returns the number of bytes in one row
func (fb *FrameBuffer) Stride() int {
	return fb.Width * BytesPerPixel
}

// Row returns the bytes of a single row. Rows never overlap, so separate
// goroutines may write separate rows without locking.
func (fb *FrameBuffer) Row(row int) []uint8 {
	stride := fb.Stride()
	return fb.Pix[row*stride : (row+1)*stride : (row+1)*stride]
}

// Pixel returns the RGB triple at (row, col)
func (fb *FrameBuffer) Pixel(row, col int) [3]uint8 {
	i := row*fb.Stride() + col*BytesPerPixel
	return [3]uint8{fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2]}
}

// ColorModel implements image.Image
func (fb *FrameBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// At implements image.Image; x is the column and y the row
func (fb *FrameBuffer) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(fb.Bounds())) {
		return color.RGBA{}
	}
	p := fb.Pixel(y, x)
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: 255}
}

// quantize converts a channel already clamped to [0,1] to 8 bits, rounding
// half away from zero. NaN maps to 0.
func quantize(c float64) uint8 {
	if math.IsNaN(c) {
		return 0
	}
	return uint8(math.Round(c * 255))
}

// vec3ToRGB clamps a linear color to [0,1] and converts it to an 8-bit RGB triple
func vec3ToRGB(c core.Vec3) [3]uint8 {
	c = c.Clamp(0, 1)
	return [3]uint8{quantize(c.X), quantize(c.Y), quantize(c.Z)}
}
