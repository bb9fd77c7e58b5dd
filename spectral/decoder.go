package spectral

import (
	"math/cmplx"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/dynamics"
	"github.com/neurlang/gospectro/raster"
	"github.com/neurlang/gospectro/transform"
)

// SaturationThreshold separates fresh pixels from held ones. Encoders write
// saturation 0 or 1, so anything from half up survives quantization.
const SaturationThreshold = 0.5

// HoldState carries the last fresh phase of every row across frames. It
// belongs to a single decode and must be consumed in frame order.
type HoldState struct {
	last []float64
}

// NewHoldState returns a state for rows rows, all starting at phase zero.
func NewHoldState(rows int) *HoldState {
	return &HoldState{last: make([]float64, rows)}
}

// Resolve returns the phase for pixel p at row. Saturated pixels update the
// row's phase; unsaturated ones reuse it.
func (s *HoldState) Resolve(row int, p raster.Pixel) float64 {
	if p.S >= SaturationThreshold {
		s.last[row] = PhaseFromHue(p.H)
	}
	return s.last[row]
}

// Decoded is the content recovered from an image, in display row order.
type Decoded struct {
	// Frames holds one complex value per row. Without phase the values are
	// real magnitudes.
	Frames   []transform.Frame
	HasPhase bool
}

// Magnitudes returns |Frames| per frame.
func (d *Decoded) Magnitudes() [][]float64 {
	out := make([][]float64, len(d.Frames))
	for i, f := range d.Frames {
		out[i] = make([]float64, len(f))
		for j, c := range f {
			out[i][j] = cmplx.Abs(c)
		}
	}
	return out
}

// Decoder recovers magnitudes, and phases for colour images.
type Decoder struct {
	Shaper dynamics.Shaper
}

// Decode unpacks img. freqs must hold the frequency of every display row.
func (d Decoder) Decode(img *raster.Image, freqs []float64) (*Decoded, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if len(freqs) != img.Height {
		return nil, codecerr.DimensionMismatch("height", img.Height, "row frequencies do not match image height")
	}

	out := &Decoded{
		Frames:   make([]transform.Frame, img.Width),
		HasPhase: img.Model == raster.Color,
	}
	state := NewHoldState(img.Height)
	for x := 0; x < img.Width; x++ {
		frame := make(transform.Frame, img.Height)
		for y := range frame {
			p := img.At(x, y)
			mag := d.Shaper.Decode(p.V, freqs[y])
			if out.HasPhase {
				frame[y] = cmplx.Rect(mag, state.Resolve(y, p))
			} else {
				frame[y] = complex(mag, 0)
			}
		}
		out.Frames[x] = frame
	}
	return out, nil
}
