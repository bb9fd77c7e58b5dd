package config

import (
	"math"

	"github.com/neurlang/gospectro/codecerr"
)

const (
	MinFFTSize = 256
	MaxFFTSize = 16384
)

// Validate ensures the configuration is usable. It never adjusts values.
func (c *Config) Validate() error {
	if err := c.validateTransform(); err != nil {
		return err
	}
	if err := c.validateLevels(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTransform() error {
	if !IsPowerOfTwo(c.FFTSize) {
		return codecerr.InvalidConfig("fft_size", c.FFTSize, "must be a power of two")
	}
	if c.FFTSize < MinFFTSize || c.FFTSize > MaxFFTSize {
		return codecerr.InvalidConfig("fft_size", c.FFTSize, "must be between 256 and 16384")
	}
	if c.HopSize <= 0 || c.HopSize >= c.FFTSize {
		return codecerr.InvalidConfig("hop_size", c.HopSize, "must be positive and smaller than fft_size")
	}
	if !(c.MinFreq > 0) || math.IsInf(c.MinFreq, 0) {
		return codecerr.InvalidConfig("min_freq", c.MinFreq, "must be a positive frequency")
	}
	return nil
}

func (c *Config) validateLevels() error {
	if math.IsNaN(c.DbMin) || math.IsInf(c.DbMin, 0) {
		return codecerr.InvalidConfig("db_min", c.DbMin, "must be finite")
	}
	if math.IsNaN(c.DbMax) || c.DbMax > 0 {
		return codecerr.InvalidConfig("db_max", c.DbMax, "must not exceed 0 dB")
	}
	if c.DbMin >= c.DbMax {
		return codecerr.InvalidConfig("db_min", c.DbMin, "must be below db_max")
	}
	if !(c.BoostStartFreq >= 0) || math.IsInf(c.BoostStartFreq, 0) {
		return codecerr.InvalidConfig("boost_start_freq", c.BoostStartFreq, "must be zero or a positive frequency")
	}
	if math.IsNaN(c.BoostDbPerOctave) || math.IsInf(c.BoostDbPerOctave, 0) {
		return codecerr.InvalidConfig("boost_db_per_octave", c.BoostDbPerOctave, "must be finite")
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.GriffinLimIterations < 1 {
		return codecerr.InvalidConfig("griffin_lim_iterations", c.GriffinLimIterations, "must be at least 1")
	}
	if !(c.HoldThreshold >= 0 && c.HoldThreshold < 1) {
		return codecerr.InvalidConfig("hold_threshold", c.HoldThreshold, "must be in [0, 1)")
	}
	if c.BitDepth != 8 && c.BitDepth != 16 {
		return codecerr.InvalidConfig("bit_depth", c.BitDepth, "must be 8 or 16")
	}
	return nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
