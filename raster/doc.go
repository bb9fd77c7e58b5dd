// Package raster holds spectrogram images as grids of floating-point HSV
// pixels and converts them to and from quantized image.Image values.
//
// Quantizing to 8 or 16 bits per channel is the dominant source of
// reconstruction error in the codec: value carries magnitude in dB, so an
// 8-bit image resolves roughly (db_max-db_min)/255 dB, and hue resolves phase
// worse the darker the pixel is.
package raster
