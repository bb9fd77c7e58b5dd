package config

const (
	defaultFFTSize              = 4096
	defaultHopSize              = 128
	defaultMinFreq              = 20.0
	defaultDbMin                = -80.0
	defaultDbMax                = 0.0
	defaultBoostStartFreq       = 1000.0
	defaultBoostDbPerOctave     = 6.0
	defaultUseLogScale          = true
	defaultUsePhaseEncoding     = true
	defaultGriffinLimIterations = 30
	defaultHoldThreshold        = 0.02
	defaultSeed                 = 1
	defaultBitDepth             = 8
	defaultLogLevel             = "info"
	defaultLogFormat            = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFTSize:              defaultFFTSize,
		HopSize:              defaultHopSize,
		MinFreq:              defaultMinFreq,
		DbMin:                defaultDbMin,
		DbMax:                defaultDbMax,
		BoostStartFreq:       defaultBoostStartFreq,
		BoostDbPerOctave:     defaultBoostDbPerOctave,
		UseLogScale:          defaultUseLogScale,
		UsePhaseEncoding:     defaultUsePhaseEncoding,
		GriffinLimIterations: defaultGriffinLimIterations,
		HoldThreshold:        defaultHoldThreshold,
		Seed:                 defaultSeed,
		BitDepth:             defaultBitDepth,
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
