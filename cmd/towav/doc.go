// Command towav converts spectrogram images back to audio files (WAV).
//
// Colour images carrying phase are inverted directly. Grayscale,
// magnitude-only images are reconstructed with the Griffin-Lim algorithm,
// whose quality depends on griffin_lim_iterations.
//
// Usage:
//
//	towav <image_file>
//
// Metadata is taken from the .toml side-car when present, otherwise from the
// _SR<rate>_<LOG|LIN>_<PHASE|MAG> file name suffix. The output WAV file is
// named after the image with a .wav extension.
package main
