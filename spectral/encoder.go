package spectral

import (
	"math"
	"math/cmplx"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/dynamics"
	"github.com/neurlang/gospectro/raster"
	"github.com/neurlang/gospectro/transform"
)

// Hue maps a phase in [-π, π] to a hue in [0, 360).
func Hue(phase float64) float64 {
	h := math.Mod((phase+math.Pi)/(2*math.Pi)*360, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// PhaseFromHue is the inverse of Hue.
func PhaseFromHue(hue float64) float64 {
	return hue/360*2*math.Pi - math.Pi
}

// Encoder converts frames of display rows into an image.
type Encoder struct {
	Shaper dynamics.Shaper
	Model  raster.Model
	// HoldThreshold is the normalized magnitude at or below which a bin is
	// written without phase.
	HoldThreshold float64
}

// Encode renders frames, one column each. freqs holds the frequency of every
// display row and fixes the image height.
func (e Encoder) Encode(frames []transform.Frame, freqs []float64) (*raster.Image, error) {
	if len(frames) == 0 {
		return nil, codecerr.DimensionMismatch("width", 0, "no frames to encode")
	}
	img := raster.New(len(frames), len(freqs), e.Model)
	for x, frame := range frames {
		if len(frame) != len(freqs) {
			return nil, codecerr.DimensionMismatch("frame", x, "row count differs from image height")
		}
		for y, c := range frame {
			p := raster.Pixel{V: e.Shaper.Encode(cmplx.Abs(c), freqs[y])}
			if e.Model == raster.Color && p.V > e.HoldThreshold {
				p.H = Hue(cmplx.Phase(c))
				p.S = 1
			}
			img.Set(x, y, p)
		}
	}
	return img, nil
}
