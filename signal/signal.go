package signal

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/gospectro/codecerr"
)

// FullScale is the largest sample magnitude a rendered signal may contain.
const FullScale = 1.0

// Signal is a mono buffer of samples at a fixed sample rate.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// New validates and wraps samples.
func New(samples []float64, sampleRate int) (*Signal, error) {
	s := &Signal{Samples: samples, SampleRate: sampleRate}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate rejects non-positive sample rates and NaN or infinite samples.
func (s *Signal) Validate() error {
	if s.SampleRate <= 0 {
		return codecerr.InvalidConfig("sample_rate", s.SampleRate, "must be positive")
	}
	for i, v := range s.Samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return codecerr.NonFiniteSample(i, v)
		}
	}
	return nil
}

// Len returns the number of samples.
func (s *Signal) Len() int {
	return len(s.Samples)
}

// Duration returns the playing time of the buffer.
func (s *Signal) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(s.Samples)) / float64(s.SampleRate) * float64(time.Second))
}

// Peak returns the largest absolute sample value.
func Peak(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return math.Max(floats.Max(samples), -floats.Min(samples))
}

// RMS returns the root mean square of samples.
func RMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	return floats.Norm(samples, 2) / math.Sqrt(float64(len(samples)))
}

// LimitPeak scales samples in place so that no sample exceeds ceiling in
// magnitude. Quieter buffers are left untouched. It returns the applied gain.
func LimitPeak(samples []float64, ceiling float64) float64 {
	peak := Peak(samples)
	if peak <= ceiling || peak == 0 {
		return 1
	}
	gain := ceiling / peak
	floats.Scale(gain, samples)
	return gain
}
