package metadata

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/neurlang/gospectro/codecerr"
)

// SidecarExt is appended to the image stem to name its side-car file.
const SidecarExt = ".toml"

// Sidecar is the TOML document stored next to an image. Besides the
// metadata it records the transform geometry and the source length, so a
// decoder can restore the exact sample count.
type Sidecar struct {
	SampleRate   int  `toml:"sample_rate"`
	LogScale     bool `toml:"log_scale"`
	PhaseEncoded bool `toml:"phase_encoded"`
	FFTSize      int  `toml:"fft_size"`
	HopSize      int  `toml:"hop_size"`
	// Samples is the source length; zero keeps the full synthesized span.
	Samples int `toml:"samples"`
	// MinFreq is the lowest frequency of a log axis; zero defers to the
	// decoder's configuration.
	MinFreq float64 `toml:"min_freq,omitempty"`
}

// NewSidecar returns a side-car for m.
func NewSidecar(m Metadata, fftSize, hopSize, samples int) Sidecar {
	return Sidecar{
		SampleRate:   m.SampleRate,
		LogScale:     m.LogScale,
		PhaseEncoded: m.PhaseEncoded,
		FFTSize:      fftSize,
		HopSize:      hopSize,
		Samples:      samples,
	}
}

// Metadata returns the record carried by s.
func (s Sidecar) Metadata() Metadata {
	return Metadata{SampleRate: s.SampleRate, LogScale: s.LogScale, PhaseEncoded: s.PhaseEncoded}
}

// Validate checks the fields a decoder relies on.
func (s Sidecar) Validate() error {
	if err := s.Metadata().Validate(); err != nil {
		return err
	}
	if s.HopSize <= 0 || (s.FFTSize > 0 && s.HopSize >= s.FFTSize) {
		return codecerr.MalformedMetadata("hop_size", s.HopSize, "must be positive and smaller than fft_size")
	}
	if s.Samples < 0 {
		return codecerr.MalformedMetadata("samples", s.Samples, "must not be negative")
	}
	if math.IsNaN(s.MinFreq) || math.IsInf(s.MinFreq, 0) || s.MinFreq < 0 {
		return codecerr.MalformedMetadata("min_freq", s.MinFreq, "must be finite and not negative")
	}
	return nil
}

// SidecarPath returns the side-car file name for an image path.
func SidecarPath(imagePath string) string {
	return strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + SidecarExt
}

// WriteSidecar stores s as TOML at path.
func WriteSidecar(path string, s Sidecar) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// ReadSidecar loads and validates the side-car at path. Decoding failures
// are reported as malformed metadata.
func ReadSidecar(path string) (Sidecar, error) {
	var s Sidecar
	file, err := os.Open(path)
	if err != nil {
		return s, fmt.Errorf("open sidecar: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return Sidecar{}, codecerr.MalformedMetadata("sidecar", filepath.Base(path), err.Error())
	}
	if err := s.Validate(); err != nil {
		return Sidecar{}, err
	}
	return s, nil
}
