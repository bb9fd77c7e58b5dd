package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

func quantize(v float64, maxv float64) float64 {
	return math.Round(math.Min(math.Max(v, 0), 1) * maxv)
}

// Quantize renders the spectrogram with depth bits per channel (8 or 16).
// Color images become RGB with an opaque alpha channel, grayscale images a
// single luminance channel.
func (im *Image) Quantize(depth int) (image.Image, error) {
	if depth != 8 && depth != 16 {
		return nil, fmt.Errorf("quantize: unsupported bit depth %d", depth)
	}
	rect := image.Rect(0, 0, im.Width, im.Height)

	switch {
	case im.Model == Grayscale && depth == 8:
		out := image.NewGray(rect)
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				out.SetGray(x, y, color.Gray{Y: uint8(quantize(im.At(x, y).V, 0xff))})
			}
		}
		return out, nil
	case im.Model == Grayscale:
		out := image.NewGray16(rect)
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				out.SetGray16(x, y, color.Gray16{Y: uint16(quantize(im.At(x, y).V, 0xffff))})
			}
		}
		return out, nil
	case depth == 8:
		out := image.NewRGBA(rect)
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				p := im.At(x, y)
				r, g, b := HSVToRGB(p.H, p.S, p.V)
				out.SetRGBA(x, y, color.RGBA{
					R: uint8(quantize(r, 0xff)),
					G: uint8(quantize(g, 0xff)),
					B: uint8(quantize(b, 0xff)),
					A: 0xff,
				})
			}
		}
		return out, nil
	default:
		out := image.NewRGBA64(rect)
		for y := 0; y < im.Height; y++ {
			for x := 0; x < im.Width; x++ {
				p := im.At(x, y)
				r, g, b := HSVToRGB(p.H, p.S, p.V)
				out.SetRGBA64(x, y, color.RGBA64{
					R: uint16(quantize(r, 0xffff)),
					G: uint16(quantize(g, 0xffff)),
					B: uint16(quantize(b, 0xffff)),
					A: 0xffff,
				})
			}
		}
		return out, nil
	}
}

// FromImage reads a quantized spectrogram back into HSV pixels. In grayscale
// mode the value channel is the brightest of the colour components, so a
// colour image can be decoded as magnitude only.
func FromImage(src image.Image, model Model) *Image {
	b := src.Bounds()
	im := New(b.Dx(), b.Dy(), model)
	for y := 0; y < im.Height; y++ {
		for x := 0; x < im.Width; x++ {
			r16, g16, b16, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			r := float64(r16) / 0xffff
			g := float64(g16) / 0xffff
			bl := float64(b16) / 0xffff
			if model == Grayscale {
				im.Set(x, y, Pixel{V: math.Max(r, math.Max(g, bl))})
				continue
			}
			h, s, v := RGBToHSV(r, g, bl)
			im.Set(x, y, Pixel{H: h, S: s, V: v})
		}
	}
	return im
}
