// Package transform implements the short-time Fourier analysis and the
// overlap-add synthesis used on both sides of the codec.
//
// Frames are Hann windowed, transformed with go-dsp and trimmed to the
// non-negative bins. Synthesis mirrors the bins back into a full spectrum,
// inverse transforms, windows again and normalizes by the accumulated squared
// window, which makes Analyze followed by Synthesize an identity wherever the
// window energy is not vanishing. Per-frame work runs in parallel; the
// overlap-add itself is an ordered, single-goroutine reduction.
package transform
