// Package freqaxis warps spectral frames between linear bin order and display
// row order.
//
// Display rows run from the highest frequency (row 0) down to the lowest. In
// linear mode a row is simply a bin in reverse order. In logarithmic mode rows
// are spaced geometrically between a minimum frequency and Nyquist, and each
// row is interpolated from the two nearest linear bins. Interpolation works on
// the real and imaginary parts so phase never wraps around mid-interpolation.
// The logarithmic warp is lossy by nature.
package freqaxis
