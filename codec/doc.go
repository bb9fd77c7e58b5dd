// Package codec converts mono audio to spectrogram images and back.
//
// A Codec wires the analysis engine, the frequency axis, the dynamic-range
// shaper and the pixel codec together for one configuration. Encode returns
// the image with the metadata a decoder needs. Decode inverts it, using the
// phase stored in colour images or Griffin-Lim reconstruction for
// magnitude-only ones.
//
// Every input is validated before any transform work starts, and no call
// returns partial output.
package codec
