package codec

import (
	"context"
	"log/slog"
	"math/cmplx"
	"time"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/config"
	"github.com/neurlang/gospectro/dynamics"
	"github.com/neurlang/gospectro/freqaxis"
	"github.com/neurlang/gospectro/internal/logging"
	"github.com/neurlang/gospectro/metadata"
	"github.com/neurlang/gospectro/phase"
	"github.com/neurlang/gospectro/raster"
	"github.com/neurlang/gospectro/signal"
	"github.com/neurlang/gospectro/spectral"
	"github.com/neurlang/gospectro/transform"
)

// Codec performs conversions for one configuration. It is safe for
// concurrent use.
type Codec struct {
	cfg      config.Config
	logger   *slog.Logger
	progress func(iteration int, convergence float64)
}

// Option customises a Codec.
type Option func(*Codec)

// WithLogger routes stage logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress reports the spectral convergence of every Griffin-Lim
// iteration.
func WithProgress(fn func(iteration int, convergence float64)) Option {
	return func(c *Codec) {
		c.progress = fn
	}
}

// New validates cfg and returns a codec holding a copy of it.
func New(cfg config.Config, opts ...Option) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Codec{cfg: cfg, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the configuration in use.
func (c *Codec) Config() config.Config {
	return c.cfg
}

// Result is the output of Encode.
type Result struct {
	Image    *raster.Image
	Metadata metadata.Metadata
	FFTSize  int
	HopSize  int
	// Samples is the length of the encoded signal.
	Samples int
	// MinFreq is the lowest frequency of a log axis, zero for a linear one.
	MinFreq float64
}

// Sidecar returns the side-car record describing r.
func (r *Result) Sidecar() metadata.Sidecar {
	sc := metadata.NewSidecar(r.Metadata, r.FFTSize, r.HopSize, r.Samples)
	sc.MinFreq = r.MinFreq
	return sc
}

func (c *Codec) shaper(e *transform.Engine) dynamics.Shaper {
	return dynamics.Shaper{
		DbMin:            c.cfg.DbMin,
		DbMax:            c.cfg.DbMax,
		BoostStartFreq:   c.cfg.BoostStartFreq,
		BoostDbPerOctave: c.cfg.BoostDbPerOctave,
		Reference:        e.AmplitudeReference(),
	}
}

// Encode converts sig into a spectrogram image, one column per frame.
func (c *Codec) Encode(ctx context.Context, sig *signal.Signal) (*Result, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	engine, err := transform.New(c.cfg.FFTSize, c.cfg.HopSize)
	if err != nil {
		return nil, err
	}
	mapper, err := freqaxis.New(sig.SampleRate, c.cfg.FFTSize, c.cfg.MinFreq, c.cfg.UseLogScale)
	if err != nil {
		return nil, err
	}
	var minFreq float64
	if c.cfg.UseLogScale {
		minFreq = c.cfg.MinFreq
	}

	start := time.Now()
	frames, err := engine.Analyze(ctx, sig.Samples)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("analyzed signal",
		"samples", sig.Len(),
		"frames", len(frames),
		"fft_size", c.cfg.FFTSize,
		"hop_size", c.cfg.HopSize,
		"elapsed", time.Since(start),
	)

	for i, f := range frames {
		frames[i] = mapper.ToDisplay(f)
	}

	model := raster.Grayscale
	if c.cfg.UsePhaseEncoding {
		model = raster.Color
	}
	enc := spectral.Encoder{
		Shaper:        c.shaper(engine),
		Model:         model,
		HoldThreshold: c.cfg.HoldThreshold,
	}
	img, err := enc.Encode(frames, mapper.RowFrequencies())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("encoded image", "width", img.Width, "height", img.Height, "model", model)

	return &Result{
		Image: img,
		Metadata: metadata.Metadata{
			SampleRate:   sig.SampleRate,
			LogScale:     c.cfg.UseLogScale,
			PhaseEncoded: c.cfg.UsePhaseEncoding,
		},
		FFTSize: c.cfg.FFTSize,
		HopSize: c.cfg.HopSize,
		Samples: sig.Len(),
		MinFreq: minFreq,
	}, nil
}

// Decode converts img back to audio, keeping the full synthesized span.
func (c *Codec) Decode(ctx context.Context, img *raster.Image, md metadata.Metadata) (*signal.Signal, error) {
	return c.DecodeN(ctx, img, md, 0)
}

// DecodeN converts img back to audio of exactly length samples. A length of
// zero or less keeps the full synthesized span. The hop size and the log
// axis floor come from the configuration.
func (c *Codec) DecodeN(ctx context.Context, img *raster.Image, md metadata.Metadata, length int) (*signal.Signal, error) {
	return c.decode(ctx, img, md, c.cfg.HopSize, c.cfg.MinFreq, length)
}

// DecodeSidecar converts img back to audio using the geometry, log axis
// floor and length recorded in sc.
func (c *Codec) DecodeSidecar(ctx context.Context, img *raster.Image, sc metadata.Sidecar) (*signal.Signal, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if sc.FFTSize != 0 && sc.FFTSize != (img.Height-1)*2 {
		return nil, codecerr.DimensionMismatch("height", img.Height, "image height does not match side-car fft_size")
	}
	minFreq := c.cfg.MinFreq
	if sc.MinFreq > 0 {
		minFreq = sc.MinFreq
	}
	return c.decode(ctx, img, sc.Metadata(), sc.HopSize, minFreq, sc.Samples)
}

func (c *Codec) decode(ctx context.Context, img *raster.Image, md metadata.Metadata, hop int, minFreq float64, length int) (*signal.Signal, error) {
	if err := md.Validate(); err != nil {
		return nil, err
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	fftSize, err := img.FFTSize()
	if err != nil {
		return nil, err
	}
	engine, err := transform.New(fftSize, hop)
	if err != nil {
		return nil, err
	}
	mapper, err := freqaxis.New(md.SampleRate, fftSize, minFreq, md.LogScale)
	if err != nil {
		return nil, err
	}

	dec := spectral.Decoder{Shaper: c.shaper(engine)}
	decoded, err := dec.Decode(img, mapper.RowFrequencies())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("decoded image",
		"width", img.Width,
		"height", img.Height,
		"fft_size", fftSize,
		"hop_size", hop,
		"metadata", md.String(),
	)

	if md.PhaseEncoded && decoded.HasPhase {
		frames := make([]transform.Frame, len(decoded.Frames))
		for i, f := range decoded.Frames {
			frames[i] = mapper.ToLinear(f)
		}
		return engine.Render(ctx, frames, length, md.SampleRate)
	}
	if md.PhaseEncoded {
		c.logger.Warn("image carries no phase, reconstructing", "metadata", md.String())
	}
	return c.reconstruct(ctx, engine, mapper, decoded, length, md.SampleRate)
}

func (c *Codec) reconstruct(ctx context.Context, engine *transform.Engine, mapper *freqaxis.Mapper, decoded *spectral.Decoded, length, sampleRate int) (*signal.Signal, error) {
	target := make([][]float64, len(decoded.Frames))
	for i, f := range decoded.Frames {
		lin := mapper.ToLinear(f)
		mags := make([]float64, len(lin))
		for k, v := range lin {
			mags[k] = cmplx.Abs(v)
		}
		target[i] = mags
	}

	start := time.Now()
	r := phase.NewReconstructor(engine, c.cfg.GriffinLimIterations, c.cfg.Seed)
	r.Observer = func(iteration int, convergence float64) {
		c.logger.Debug("griffin-lim iteration", "iteration", iteration, "convergence", convergence)
		if c.progress != nil {
			c.progress(iteration, convergence)
		}
	}
	sig, err := r.Reconstruct(ctx, target, length, sampleRate)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("reconstructed phase",
		"iterations", c.cfg.GriffinLimIterations,
		"seed", c.cfg.Seed,
		"elapsed", time.Since(start),
	)
	return sig, nil
}
