// Command toimage converts audio files (WAV/FLAC) to spectrogram images (PNG).
//
// Settings come from spectrogram_config.toml in the working directory, or the
// built-in defaults when that file does not exist. Colour images keep the
// phase and decode without iteration; set use_phase_encoding = false for
// magnitude-only grayscale images.
//
// Usage:
//
//	toimage <audio_file>
//
// The output is written next to the input as
// <audio_file>_SR<rate>_<LOG|LIN>_<PHASE|MAG>.png together with a .toml
// side-car recording the exact source length.
//
// Supported input formats: .wav, .flac
package main
