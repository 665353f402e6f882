package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HenrYxZ/experiments/pkg/core"
)

// setPixel writes through the row slice the renderer uses
func setPixel(fb *FrameBuffer, row, col int, rgb [3]uint8) {
	copy(fb.Row(row)[col*BytesPerPixel:], rgb[:])
}

func TestFrameBuffer_SetAndGetPixel(t *testing.T) {
	fb := NewFrameBuffer(4, 3)
	setPixel(fb, 2, 1, [3]uint8{10, 20, 30})

	assert.Equal(t, [3]uint8{10, 20, 30}, fb.Pixel(2, 1))
	assert.Equal(t, [3]uint8{0, 0, 0}, fb.Pixel(1, 2))

	// Row-major: row 2, column 1 starts at 2*stride + 1*3
	offset := 2*fb.Stride() + 1*BytesPerPixel
	assert.Equal(t, []uint8{10, 20, 30}, fb.Pix[offset:offset+3])
}

func TestFrameBuffer_ImplementsImage(t *testing.T) {
	var img image.Image = NewFrameBuffer(5, 2)
	fb := img.(*FrameBuffer)
	setPixel(fb, 1, 4, [3]uint8{200, 100, 50})

	assert.Equal(t, image.Rect(0, 0, 5, 2), img.Bounds())
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, img.At(4, 1))
	assert.Equal(t, color.RGBA{}, img.At(5, 0))
}

func TestFrameBuffer_RowsDoNotOverlap(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	top := fb.Row(0)
	top = append(top, 99) // Capacity is capped, so this reallocates

	assert.Equal(t, [3]uint8{0, 0, 0}, fb.Pixel(1, 0))
	assert.Len(t, top, 7)
}

func TestVec3ToRGB(t *testing.T) {
	assert.Equal(t, [3]uint8{255, 128, 0}, vec3ToRGB(core.NewVec3(1.2, 0.5, -0.1)))
}
