package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "spectrogram_config.toml"

// Logging contains configuration for log output of the command line tools.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config holds every knob of one conversion.
//
// A Config is read-only for the duration of a conversion; the codec keeps its
// own copy.
type Config struct {
	// FFTSize is the analysis window length. Larger values give better
	// frequency resolution and worse time resolution.
	FFTSize int `toml:"fft_size"`
	// HopSize is the distance between consecutive analysis windows.
	HopSize int `toml:"hop_size"`
	// MinFreq is the lowest frequency shown in logarithmic mode (Hz).
	MinFreq float64 `toml:"min_freq"`
	DbMin   float64 `toml:"db_min"`
	DbMax   float64 `toml:"db_max"`
	// BoostStartFreq is where the high-frequency pre-emphasis begins (Hz).
	// Zero disables the boost.
	BoostStartFreq   float64 `toml:"boost_start_freq"`
	BoostDbPerOctave float64 `toml:"boost_db_per_octave"`
	UseLogScale      bool    `toml:"use_log_scale"`
	UsePhaseEncoding bool    `toml:"use_phase_encoding"`
	// GriffinLimIterations is only used when phase encoding is disabled.
	GriffinLimIterations int `toml:"griffin_lim_iterations"`

	// HoldThreshold is the normalized magnitude at or below which a bin is
	// stored without phase and decoded with the previous frame's phase.
	HoldThreshold float64 `toml:"hold_threshold"`
	// Seed feeds the initial phase estimate of magnitude-only decoding.
	Seed uint64 `toml:"seed"`
	// BitDepth is the per-channel depth of written images, 8 or 16.
	BitDepth int `toml:"bit_depth"`

	Logging Logging `toml:"logging"`
}

// Overlap returns the fraction of each window shared with the next one.
func (c Config) Overlap() float64 {
	if c.FFTSize <= 0 {
		return 0
	}
	return 1 - float64(c.HopSize)/float64(c.FFTSize)
}

// Load reads a TOML configuration file on top of Default and validates it.
// A missing file yields the defaults; the returned bool reports whether the
// file existed.
func Load(path string) (*Config, bool, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFileName
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &cfg, false, nil
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, true, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, true, err
	}
	return &cfg, true, nil
}

// Save writes the configuration as TOML, creating parent directories.
func (c Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
