package raster

import (
	"fmt"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/config"
)

// Model selects what a pixel stores.
type Model int

const (
	// Color stores phase as hue, a phase-freshness flag as saturation and
	// magnitude as value.
	Color Model = iota
	// Grayscale stores magnitude only.
	Grayscale
)

func (m Model) String() string {
	switch m {
	case Color:
		return "color"
	case Grayscale:
		return "grayscale"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Pixel is an HSV triple. H is in degrees [0, 360), S and V are in [0, 1].
// Grayscale images only use V.
type Pixel struct {
	H, S, V float64
}

// Image is a spectrogram. Column x is frame x; row 0 is the highest
// frequency and the last row the lowest.
type Image struct {
	Width  int
	Height int
	Model  Model
	Pix    []Pixel
}

// New allocates a black image.
func New(width, height int, model Model) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Model:  model,
		Pix:    make([]Pixel, width*height),
	}
}

// At returns the pixel of frame x at row y.
func (im *Image) At(x, y int) Pixel {
	return im.Pix[y*im.Width+x]
}

// Set stores the pixel of frame x at row y.
func (im *Image) Set(x, y int, p Pixel) {
	im.Pix[y*im.Width+x] = p
}

// FFTSize derives the transform size from the image height.
func (im *Image) FFTSize() (int, error) {
	return FFTSizeForHeight(im.Height)
}

// Validate checks that the image geometry can be decoded.
func (im *Image) Validate() error {
	if im.Width <= 0 {
		return codecerr.DimensionMismatch("width", im.Width, "image has no frames")
	}
	if _, err := im.FFTSize(); err != nil {
		return err
	}
	if len(im.Pix) != im.Width*im.Height {
		return codecerr.DimensionMismatch("pixels", len(im.Pix), "pixel count does not match width*height")
	}
	return nil
}

// FFTSizeForHeight returns (height-1)*2 when that is a supported power of two.
func FFTSizeForHeight(height int) (int, error) {
	if height < 2 || height%2 == 0 {
		return 0, codecerr.DimensionMismatch("height", height, "height must be odd")
	}
	n := (height - 1) * 2
	if !config.IsPowerOfTwo(n) || n < config.MinFFTSize || n > config.MaxFFTSize {
		return 0, codecerr.DimensionMismatch("height", height, fmt.Sprintf("fft size %d is not a supported power of two", n))
	}
	return n, nil
}
