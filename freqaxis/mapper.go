package freqaxis

import (
	"math"

	"github.com/neurlang/gospectro/codecerr"
)

// tap blends src[a] and src[b] with weight frac on b.
type tap struct {
	a, b int
	frac float64
}

func (t tap) apply(src []complex128) complex128 {
	if t.frac == 0 || t.a == t.b {
		return src[t.a]
	}
	f := complex(t.frac, 0)
	return src[t.a]*(1-f) + src[t.b]*f
}

// Mapper converts frames between linear bins and display rows. It is safe for
// concurrent use once built.
type Mapper struct {
	sampleRate int
	fftSize    int
	minFreq    float64
	logScale   bool
	bins       int

	toDisplay []tap
	toLinear  []tap
}

// New builds a mapper for frames of fftSize/2+1 bins. minFreq is only used
// when logScale is set and must lie below Nyquist.
func New(sampleRate, fftSize int, minFreq float64, logScale bool) (*Mapper, error) {
	if sampleRate <= 0 {
		return nil, codecerr.InvalidConfig("sample_rate", sampleRate, "must be positive")
	}
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, codecerr.InvalidConfig("fft_size", fftSize, "must be a power of two")
	}
	m := &Mapper{
		sampleRate: sampleRate,
		fftSize:    fftSize,
		minFreq:    minFreq,
		logScale:   logScale,
		bins:       fftSize/2 + 1,
	}
	if logScale {
		if !(minFreq > 0) || minFreq >= m.Nyquist() {
			return nil, codecerr.InvalidConfig("min_freq", minFreq, "must be positive and below nyquist")
		}
	}
	m.build()
	return m, nil
}

func (m *Mapper) build() {
	h := m.bins
	m.toDisplay = make([]tap, h)
	m.toLinear = make([]tap, h)

	if !m.logScale {
		for i := 0; i < h; i++ {
			m.toDisplay[i] = tap{a: h - 1 - i, b: h - 1 - i}
			m.toLinear[i] = tap{a: h - 1 - i, b: h - 1 - i}
		}
		return
	}

	for r := 0; r < h; r++ {
		pos := m.RowFrequency(r) * float64(m.fftSize) / float64(m.sampleRate)
		m.toDisplay[r] = between(pos, h, func(i int) int { return i })
	}

	span := math.Log(m.Nyquist() / m.minFreq)
	for b := 0; b < h; b++ {
		freq := m.BinFrequency(b)
		k := 0.0
		if freq > m.minFreq {
			k = float64(h-1) * math.Log(freq/m.minFreq) / span
		}
		m.toLinear[b] = between(k, h, func(i int) int { return h - 1 - i })
	}
}

// between returns the tap blending the integer neighbours of pos, clamped to
// [0, n-1] and translated to source indices by index.
func between(pos float64, n int, index func(int) int) tap {
	pos = math.Min(math.Max(pos, 0), float64(n-1))
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if hi > n-1 {
		hi = n - 1
	}
	frac := pos - float64(lo)
	if lo == hi {
		frac = 0
	}
	return tap{a: index(lo), b: index(hi), frac: frac}
}

// Bins returns the number of bins, and rows, per frame.
func (m *Mapper) Bins() int {
	return m.bins
}

// LogScale reports whether rows are spaced logarithmically.
func (m *Mapper) LogScale() bool {
	return m.logScale
}

// Nyquist returns half the sample rate.
func (m *Mapper) Nyquist() float64 {
	return float64(m.sampleRate) / 2
}

// BinFrequency returns the centre frequency of linear bin b.
func (m *Mapper) BinFrequency(b int) float64 {
	return float64(b) * float64(m.sampleRate) / float64(m.fftSize)
}

// LogFrequency returns the frequency at logarithmic index k, where k = 0 is
// the minimum frequency and k = Bins()-1 is Nyquist. It increases strictly
// with k.
func (m *Mapper) LogFrequency(k float64) float64 {
	t := k / float64(m.bins-1)
	return m.minFreq * math.Pow(m.Nyquist()/m.minFreq, t)
}

// RowFrequency returns the frequency shown at display row r.
func (m *Mapper) RowFrequency(r int) float64 {
	k := m.bins - 1 - r
	if m.logScale {
		return m.LogFrequency(float64(k))
	}
	return m.BinFrequency(k)
}

// RowFrequencies returns RowFrequency for every row.
func (m *Mapper) RowFrequencies() []float64 {
	out := make([]float64, m.bins)
	for r := range out {
		out[r] = m.RowFrequency(r)
	}
	return out
}

// ToDisplay reorders and warps one frame of linear bins into display rows.
func (m *Mapper) ToDisplay(linear []complex128) []complex128 {
	return apply(m.toDisplay, linear)
}

// ToLinear warps one frame of display rows back into linear bins.
func (m *Mapper) ToLinear(rows []complex128) []complex128 {
	return apply(m.toLinear, rows)
}

func apply(taps []tap, src []complex128) []complex128 {
	out := make([]complex128, len(taps))
	for i, t := range taps {
		out[i] = t.apply(src)
	}
	return out
}
