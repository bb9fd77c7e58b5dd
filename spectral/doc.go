// Package spectral packs spectral frames into spectrogram pixels and unpacks
// them again.
//
// In the colour model a pixel's value carries the shaped magnitude, its hue
// the phase and its saturation whether that phase is fresh. Bins at or below
// the hold threshold are written unsaturated; the decoder then ignores their
// hue and carries the last fresh phase of the same row forward through a
// HoldState. The grayscale model stores magnitude only.
package spectral
