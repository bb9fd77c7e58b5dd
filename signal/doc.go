// Package signal holds mono audio buffers handed to and returned by the codec.
//
// It validates buffers before any transform work starts, applies peak limiting
// to synthesized output, and provides the file adapters that turn WAV and FLAC
// files into mono buffers (multi-channel input is averaged) and write 16-bit
// WAV files back.
package signal
