package raster

import (
	"fmt"

	"github.com/x448/float16"
)

// Planes returns the number of channels stored per pixel for model.
func (m Model) Planes() int {
	if m == Grayscale {
		return 1
	}
	return 3
}

// Float16 returns the image as planar IEEE half floats: the value plane, then
// for colour images the hue (as a fraction of a turn) and saturation planes.
// Each plane is row-major, Width*Height long.
func (im *Image) Float16() []uint16 {
	n := im.Width * im.Height
	out := make([]uint16, n*im.Model.Planes())
	for i, p := range im.Pix {
		out[i] = float16.Fromfloat32(float32(p.V)).Bits()
		if im.Model == Color {
			out[n+i] = float16.Fromfloat32(float32(p.H / 360)).Bits()
			out[2*n+i] = float16.Fromfloat32(float32(p.S)).Bits()
		}
	}
	return out
}

// FromFloat16 is the inverse of Image.Float16.
func FromFloat16(data []uint16, width, height int, model Model) (*Image, error) {
	n := width * height
	if width <= 0 || height <= 0 || len(data) != n*model.Planes() {
		return nil, fmt.Errorf("float16 buffer of %d values does not hold a %dx%d %s image", len(data), width, height, model)
	}
	im := New(width, height, model)
	for i := range im.Pix {
		p := Pixel{V: float64(float16.Frombits(data[i]).Float32())}
		if model == Color {
			p.H = float64(float16.Frombits(data[n+i]).Float32()) * 360
			p.S = float64(float16.Frombits(data[2*n+i]).Float32())
		}
		im.Pix[i] = p
	}
	return im, nil
}
