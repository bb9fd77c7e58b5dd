// Package dynamics maps spectral amplitudes to normalized pixel intensities
// and back.
//
// Amplitudes are converted to decibels relative to a reference, tilted by a
// frequency-dependent pre-emphasis, clamped to a configured window and scaled
// to [0, 1]. Decode runs the same steps backwards; de-emphasis removes exactly
// the gain pre-emphasis added.
package dynamics
