package dynamics

import "math"

// Epsilon keeps the logarithm finite for silent bins.
const Epsilon = 1e-10

// Shaper converts between linear amplitude and normalized intensity.
type Shaper struct {
	DbMin float64
	DbMax float64
	// BoostStartFreq is the pre-emphasis corner in Hz; 0 disables it.
	BoostStartFreq   float64
	BoostDbPerOctave float64
	// Reference is the amplitude read as 0 dB. Zero means 1.
	Reference float64
}

func (s Shaper) reference() float64 {
	if s.Reference > 0 {
		return s.Reference
	}
	return 1
}

// ToDb converts an amplitude to decibels relative to the reference.
func (s Shaper) ToDb(amplitude float64) float64 {
	return 20 * math.Log10(math.Abs(amplitude)/s.reference()+Epsilon)
}

// FromDb converts decibels relative to the reference to an amplitude. It
// removes the epsilon ToDb added, so silence decodes to exactly zero.
func (s Shaper) FromDb(db float64) float64 {
	return s.reference() * math.Max(math.Pow(10, db/20)-Epsilon, 0)
}

// Clamp limits db to [DbMin, DbMax].
func (s Shaper) Clamp(db float64) float64 {
	return math.Min(math.Max(db, s.DbMin), s.DbMax)
}

// Normalize clamps db and maps it to [0, 1].
func (s Shaper) Normalize(db float64) float64 {
	return (s.Clamp(db) - s.DbMin) / (s.DbMax - s.DbMin)
}

// Denormalize maps a [0, 1] intensity back to decibels.
func (s Shaper) Denormalize(v float64) float64 {
	return v*(s.DbMax-s.DbMin) + s.DbMin
}

// Gain returns the pre-emphasis in dB for a bin at freq Hz.
func (s Shaper) Gain(freq float64) float64 {
	if s.BoostStartFreq <= 0 || freq <= s.BoostStartFreq {
		return 0
	}
	return s.BoostDbPerOctave * math.Log2(freq/s.BoostStartFreq)
}

// Emphasize adds the pre-emphasis for freq to db.
func (s Shaper) Emphasize(db, freq float64) float64 {
	return db + s.Gain(freq)
}

// Deemphasize removes the pre-emphasis for freq from db.
func (s Shaper) Deemphasize(db, freq float64) float64 {
	return db - s.Gain(freq)
}

// Encode turns the amplitude of a bin at freq into a [0, 1] intensity.
func (s Shaper) Encode(amplitude, freq float64) float64 {
	return s.Normalize(s.Emphasize(s.ToDb(amplitude), freq))
}

// Decode turns a [0, 1] intensity of a bin at freq into an amplitude.
func (s Shaper) Decode(v, freq float64) float64 {
	return s.FromDb(s.Deemphasize(s.Denormalize(v), freq))
}
