package codec

import (
	"bytes"
	"context"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/config"
	"github.com/neurlang/gospectro/internal/logging"
	"github.com/neurlang/gospectro/metadata"
	"github.com/neurlang/gospectro/raster"
	"github.com/neurlang/gospectro/signal"
)

func sine(freq float64, rate, n int, amp float64) *signal.Signal {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return &signal.Signal{Samples: samples, SampleRate: rate}
}

func losslessConfig() config.Config {
	cfg := config.Default()
	cfg.FFTSize = 2048
	cfg.HopSize = 512
	// Below the epsilon floor, so no bin is clipped.
	cfg.DbMin = -240
	cfg.UseLogScale = false
	cfg.HoldThreshold = 0
	return cfg
}

func rmsError(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

func TestEncodeDimensions(t *testing.T) {
	c, err := New(losslessConfig())
	require.NoError(t, err)

	res, err := c.Encode(context.Background(), sine(440, 44100, 44100, 0.5))
	require.NoError(t, err)
	assert.Equal(t, 83, res.Image.Width)
	assert.Equal(t, 1025, res.Image.Height)
	assert.Equal(t, raster.Color, res.Image.Model)
	assert.Equal(t, metadata.Metadata{SampleRate: 44100, PhaseEncoded: true}, res.Metadata)
	assert.Equal(t, metadata.Sidecar{
		SampleRate:   44100,
		PhaseEncoded: true,
		FFTSize:      2048,
		HopSize:      512,
		Samples:      44100,
	}, res.Sidecar())
}

func TestPhaseRoundTripIsLossless(t *testing.T) {
	c, err := New(losslessConfig())
	require.NoError(t, err)
	src := sine(440, 44100, 44100, 0.5)

	res, err := c.Encode(context.Background(), src)
	require.NoError(t, err)
	out, err := c.DecodeN(context.Background(), res.Image, res.Metadata, src.Len())
	require.NoError(t, err)
	require.Len(t, out.Samples, src.Len())
	assert.Equal(t, 44100, out.SampleRate)

	// The first and last covered samples get no window energy and the tail
	// past the last frame is not covered at all.
	lo, hi := 1, 2048+82*512-1
	assert.Less(t, rmsError(src.Samples[lo:hi], out.Samples[lo:hi]), 1e-3)
	assert.InDelta(t, src.Samples[1], out.Samples[1], 1e-3)
	assert.InDelta(t, src.Samples[hi-1], out.Samples[hi-1], 1e-3)
}

func TestQuantizedRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 1024
	cfg.HopSize = 256
	cfg.UseLogScale = false
	cfg.BitDepth = 16
	c, err := New(cfg)
	require.NoError(t, err)
	src := sine(1000, 16000, 16000, 0.5)

	res, err := c.Encode(context.Background(), src)
	require.NoError(t, err)
	q, err := res.Image.Quantize(cfg.BitDepth)
	require.NoError(t, err)
	img := raster.FromImage(q, raster.Color)

	out, err := c.DecodeN(context.Background(), img, res.Metadata, src.Len())
	require.NoError(t, err)
	lo, hi := 1024, 14*1024
	assert.Less(t, rmsError(src.Samples[lo:hi], out.Samples[lo:hi]), 0.05)
}

func TestLogScaleRoundTripKeepsEnergy(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 1024
	cfg.HopSize = 256
	c, err := New(cfg)
	require.NoError(t, err)
	src := sine(440, 16000, 16000, 0.5)

	res, err := c.Encode(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.Metadata.LogScale)

	out, err := c.DecodeN(context.Background(), res.Image, res.Metadata, src.Len())
	require.NoError(t, err)
	lo, hi := 1024, 14*1024
	got := signal.RMS(out.Samples[lo:hi])
	want := signal.RMS(src.Samples[lo:hi])
	assert.InEpsilon(t, want, got, 0.5)
	assert.LessOrEqual(t, signal.Peak(out.Samples), signal.FullScale)
}

func TestDecodeSidecarUsesRecordedMinFreq(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 1024
	cfg.HopSize = 256
	cfg.MinFreq = 50
	enc, err := New(cfg)
	require.NoError(t, err)
	src := sine(440, 16000, 16000, 0.5)

	res, err := enc.Encode(context.Background(), src)
	require.NoError(t, err)
	sc := res.Sidecar()
	require.True(t, sc.LogScale)
	assert.Equal(t, 50.0, sc.MinFreq)

	want, err := enc.DecodeSidecar(context.Background(), res.Image, sc)
	require.NoError(t, err)

	cfg.MinFreq = 20
	dec, err := New(cfg)
	require.NoError(t, err)
	got, err := dec.DecodeSidecar(context.Background(), res.Image, sc)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want.Samples, got.Samples, 1e-9)

	// Without the side-car the decoder falls back to its own floor.
	warped, err := dec.DecodeN(context.Background(), res.Image, res.Metadata, src.Len())
	require.NoError(t, err)
	assert.Greater(t, rmsError(want.Samples, warped.Samples), 1e-3)
}

func TestMagnitudeOnlyUsesGriffinLim(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 256
	cfg.HopSize = 64
	cfg.UseLogScale = false
	cfg.UsePhaseEncoding = false
	cfg.GriffinLimIterations = 20

	var progress []float64
	c, err := New(cfg, WithProgress(func(_ int, conv float64) {
		progress = append(progress, conv)
	}))
	require.NoError(t, err)
	src := sine(500, 8000, 4000, 0.3)

	res, err := c.Encode(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, raster.Grayscale, res.Image.Model)
	assert.Equal(t, "SR8000_LIN_MAG", res.Metadata.String())

	out, err := c.DecodeSidecar(context.Background(), res.Image, res.Sidecar())
	require.NoError(t, err)
	require.Len(t, out.Samples, src.Len())
	require.Len(t, progress, 20)
	assert.Less(t, progress[len(progress)-1], progress[0])
	assert.NoError(t, out.Validate())
	assert.Greater(t, signal.RMS(out.Samples), 0.05)
}

func TestGrayscaleImageWithPhaseMetadataIsReconstructed(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 256
	cfg.HopSize = 64
	cfg.GriffinLimIterations = 2
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	require.NoError(t, err)
	c, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)

	res, err := c.Encode(context.Background(), sine(500, 8000, 2000, 0.3))
	require.NoError(t, err)
	gray := raster.FromImage(mustQuantize(t, res.Image), raster.Grayscale)

	out, err := c.Decode(context.Background(), gray, res.Metadata)
	require.NoError(t, err)
	assert.Equal(t, (res.Image.Width-1)*64+256, out.Len())
	assert.Contains(t, buf.String(), "reconstructing")
}

// mustQuantize renders img at 8 bits per channel.
func mustQuantize(t *testing.T, img *raster.Image) image.Image {
	t.Helper()
	q, err := img.Quantize(8)
	require.NoError(t, err)
	return q
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 1000
	_, err := New(cfg)
	assert.ErrorIs(t, err, codecerr.ErrInvalidConfig)
}

func TestEncodeRejectsNonFiniteSamples(t *testing.T) {
	c, err := New(config.Default())
	require.NoError(t, err)
	src := sine(440, 8000, 1000, 0.5)
	src.Samples[10] = math.NaN()

	_, err = c.Encode(context.Background(), src)
	require.ErrorIs(t, err, codecerr.ErrNonFiniteSample)
	var ce *codecerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "samples[10]", ce.Field)
}

func TestDecodeRejects(t *testing.T) {
	cfg := config.Default()
	cfg.FFTSize = 2048
	cfg.HopSize = 512
	c, err := New(cfg)
	require.NoError(t, err)
	md := metadata.Metadata{SampleRate: 8000, PhaseEncoded: true}
	ctx := context.Background()

	_, err = c.Decode(ctx, raster.New(4, 1000, raster.Color), md)
	assert.ErrorIs(t, err, codecerr.ErrDimensionMismatch)

	_, err = c.Decode(ctx, raster.New(0, 1025, raster.Color), md)
	assert.ErrorIs(t, err, codecerr.ErrDimensionMismatch)

	_, err = c.Decode(ctx, raster.New(4, 1025, raster.Color), metadata.Metadata{})
	assert.ErrorIs(t, err, codecerr.ErrMalformedMetadata)

	// fft 256 from the height, hop 512 from the configuration.
	_, err = c.Decode(ctx, raster.New(4, 129, raster.Color), md)
	assert.ErrorIs(t, err, codecerr.ErrInvalidConfig)

	sc := metadata.NewSidecar(md, 4096, 512, 0)
	_, err = c.DecodeSidecar(ctx, raster.New(4, 1025, raster.Color), sc)
	assert.ErrorIs(t, err, codecerr.ErrDimensionMismatch)
}

func TestEncodeHonoursCancellation(t *testing.T) {
	c, err := New(losslessConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Encode(ctx, sine(440, 44100, 44100, 0.5))
	assert.ErrorIs(t, err, context.Canceled)
}
