package transform

import (
	"context"
	"math"
	"math/cmplx"
	"runtime"

	"github.com/mjibson/go-dsp/fft"
	"github.com/r9y9/gossp/stft"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/signal"
)

// edgeEnergyRatio marks samples whose accumulated window energy is below this
// fraction of the maximum as edge samples. They are still divided exactly,
// then clamped to the peak of the remaining samples, so noise from lossy
// frames cannot turn into spikes where the window is nearly zero.
const edgeEnergyRatio = 0.1

// batchFrames is the number of frames synthesized per worker before their
// output is folded into the overlap-add buffer.
const batchFrames = 16

// Frame holds the fftSize/2+1 non-negative frequency bins of one window.
type Frame []complex128

// Engine performs analysis and synthesis for one fft/hop geometry. It holds
// no per-call state and may be shared between goroutines.
type Engine struct {
	fftSize int
	hopSize int
	window  []float64
	workers int
}

// New returns an engine for windows of fftSize samples spaced hopSize apart.
func New(fftSize, hopSize int) (*Engine, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, codecerr.InvalidConfig("fft_size", fftSize, "must be a power of two")
	}
	if hopSize <= 0 || hopSize >= fftSize {
		return nil, codecerr.InvalidConfig("hop_size", hopSize, "must be positive and smaller than fft_size")
	}
	s := stft.New(hopSize, fftSize)
	return &Engine{
		fftSize: fftSize,
		hopSize: hopSize,
		window:  s.Window,
		workers: runtime.GOMAXPROCS(0),
	}, nil
}

// FFTSize returns the window length.
func (e *Engine) FFTSize() int {
	return e.fftSize
}

// HopSize returns the distance between windows.
func (e *Engine) HopSize() int {
	return e.hopSize
}

// Bins returns the number of bins per frame.
func (e *Engine) Bins() int {
	return e.fftSize/2 + 1
}

// Window returns a copy of the Hann window.
func (e *Engine) Window() []float64 {
	return append([]float64(nil), e.window...)
}

// AmplitudeReference is the bin magnitude produced by a full-scale sinusoid
// centred on a bin.
func (e *Engine) AmplitudeReference() float64 {
	return floats.Sum(e.window) / 2
}

// FrameCount returns the number of frames Analyze produces for n samples.
func (e *Engine) FrameCount(n int) int {
	if n < e.fftSize {
		return 1
	}
	return (n-e.fftSize)/e.hopSize + 1
}

// OutputLength returns the number of samples covered by frames windows.
func (e *Engine) OutputLength(frames int) int {
	if frames <= 0 {
		return 0
	}
	return (frames-1)*e.hopSize + e.fftSize
}

// Analyze windows and transforms samples. Windows running past the end of the
// buffer are zero padded.
func (e *Engine) Analyze(ctx context.Context, samples []float64) ([]Frame, error) {
	count := e.FrameCount(len(samples))
	bins := e.Bins()
	frames := make([]Frame, count)

	err := e.forEach(ctx, count, func(i int) {
		buf := make([]float64, e.fftSize)
		start := i * e.hopSize
		for j := range buf {
			if start+j >= len(samples) {
				break
			}
			buf[j] = samples[start+j] * e.window[j]
		}
		spectrum := fft.FFTReal(buf)
		frames[i] = append(Frame(nil), spectrum[:bins]...)
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

// Synthesize rebuilds samples from frames by overlap-add, dividing by the
// accumulated squared window. Only samples with no window energy at all, the
// first and the last of the span, are left at zero. The result is
// trimmed or zero extended to length; a length of zero or less keeps the full
// overlap-add span.
func (e *Engine) Synthesize(ctx context.Context, frames []Frame, length int) ([]float64, error) {
	if len(frames) == 0 {
		return nil, codecerr.DimensionMismatch("frames", 0, "at least one frame is required")
	}
	for i, f := range frames {
		if len(f) != e.Bins() {
			return nil, codecerr.DimensionMismatch("frames", i, "frame has wrong bin count")
		}
	}

	total := e.OutputLength(len(frames))
	out := make([]float64, total)
	energy := make([]float64, total)

	batch := batchFrames * e.workers
	parts := make([][]float64, batch)
	for first := 0; first < len(frames); first += batch {
		last := min(first+batch, len(frames))
		err := e.forEach(ctx, last-first, func(i int) {
			parts[i] = e.inverse(frames[first+i])
		})
		if err != nil {
			return nil, err
		}
		for i := first; i < last; i++ {
			off := i * e.hopSize
			for j, v := range parts[i-first] {
				out[off+j] += v
				energy[off+j] += e.window[j] * e.window[j]
			}
		}
	}

	edge := edgeEnergyRatio * floats.Max(energy)
	var peak float64
	for i := range out {
		if energy[i] > 0 {
			out[i] /= energy[i]
		}
		if energy[i] >= edge {
			peak = math.Max(peak, math.Abs(out[i]))
		}
	}
	for i := range out {
		if energy[i] < edge {
			out[i] = math.Min(math.Max(out[i], -peak), peak)
		}
	}

	if length <= 0 {
		return out, nil
	}
	if length <= total {
		return out[:length], nil
	}
	return append(out, make([]float64, length-total)...), nil
}

// Render synthesizes frames, limits the peak to full scale and wraps the
// result as a signal.
func (e *Engine) Render(ctx context.Context, frames []Frame, length, sampleRate int) (*signal.Signal, error) {
	samples, err := e.Synthesize(ctx, frames, length)
	if err != nil {
		return nil, err
	}
	signal.LimitPeak(samples, signal.FullScale)
	return signal.New(samples, sampleRate)
}

// inverse returns the windowed time-domain contribution of one frame.
func (e *Engine) inverse(f Frame) []float64 {
	n := e.fftSize
	half := n / 2
	full := make([]complex128, n)
	copy(full, f)
	// DC and Nyquist are their own mirror images and must be real.
	full[0] = complex(real(f[0]), 0)
	full[half] = complex(real(f[half]), 0)
	for k := 1; k < half; k++ {
		full[n-k] = cmplx.Conj(f[k])
	}

	td := fft.IFFT(full)
	part := make([]float64, n)
	for j := range part {
		part[j] = real(td[j]) * e.window[j]
	}
	return part
}

func (e *Engine) forEach(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
