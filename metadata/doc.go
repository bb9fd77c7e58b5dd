// Package metadata holds the side-channel record needed to invert a
// conversion: sample rate, frequency scale and phase mode.
//
// The record is independent of its transport. Two adapters are provided: a
// filename suffix of the form
//
//	{base}_SR{rate}_{LOG|LIN}_{PHASE|MAG}.png
//
// where the older {base}_SR{rate}_{LOG|LIN}.png form reads as PHASE, and a
// TOML side-car file that also records the transform geometry and the source
// length.
package metadata
