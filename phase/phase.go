package phase

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/signal"
	"github.com/neurlang/gospectro/transform"
)

// Reconstructor runs Griffin-Lim phase estimation.
type Reconstructor struct {
	Engine     *transform.Engine
	Iterations int
	// Rand seeds the initial phase. It is consumed by every call.
	Rand *rand.Rand
	// Observer, when set, receives the spectral convergence
	// ‖|STFT(x)| - target‖ / ‖target‖ after every iteration.
	Observer func(iteration int, convergence float64)
}

// NewReconstructor returns a reconstructor seeded with seed.
func NewReconstructor(engine *transform.Engine, iterations int, seed uint64) *Reconstructor {
	return &Reconstructor{
		Engine:     engine,
		Iterations: iterations,
		Rand:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Reconstruct estimates a phase for target, one magnitude slice of Bins()
// values per frame, and renders the result as a peak-limited signal of
// length samples.
func (r *Reconstructor) Reconstruct(ctx context.Context, target [][]float64, length, sampleRate int) (*signal.Signal, error) {
	frames, err := r.Estimate(ctx, target)
	if err != nil {
		return nil, err
	}
	return r.Engine.Render(ctx, frames, length, sampleRate)
}

// Estimate returns target combined with the estimated phase.
func (r *Reconstructor) Estimate(ctx context.Context, target [][]float64) ([]transform.Frame, error) {
	if r.Iterations < 1 {
		return nil, codecerr.InvalidConfig("griffin_lim_iterations", r.Iterations, "must be at least 1")
	}
	if r.Rand == nil {
		return nil, codecerr.InvalidConfig("rand", nil, "reconstructor needs an explicit random source")
	}
	if len(target) == 0 {
		return nil, codecerr.DimensionMismatch("width", 0, "no frames to reconstruct")
	}
	bins := r.Engine.Bins()
	var norm float64
	for i, mags := range target {
		if len(mags) != bins {
			return nil, codecerr.DimensionMismatch("frames", i, "frame has wrong bin count")
		}
		norm += floats.Dot(mags, mags)
	}
	norm = math.Sqrt(norm)

	frames := make([]transform.Frame, len(target))
	for i, mags := range target {
		frames[i] = make(transform.Frame, bins)
		for k, m := range mags {
			frames[i][k] = cmplx.Rect(m, (r.Rand.Float64()*2-1)*math.Pi)
		}
	}

	span := r.Engine.OutputLength(len(target))
	for it := 1; it <= r.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, err := r.Engine.Synthesize(ctx, frames, span)
		if err != nil {
			return nil, err
		}
		analysed, err := r.Engine.Analyze(ctx, x)
		if err != nil {
			return nil, err
		}

		var diff float64
		for i, mags := range target {
			for k, m := range mags {
				y := analysed[i][k]
				a := cmplx.Abs(y)
				diff += (a - m) * (a - m)
				if a > 0 {
					frames[i][k] = y * complex(m/a, 0)
				} else {
					frames[i][k] = complex(m, 0)
				}
			}
		}
		if r.Observer != nil {
			convergence := 0.0
			if norm > 0 {
				convergence = math.Sqrt(diff) / norm
			}
			r.Observer(it, convergence)
		}
	}
	return frames, nil
}
