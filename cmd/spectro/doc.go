// Package main hosts the spectro CLI entrypoint and command graph.
//
// The Cobra command tree exposes encoding of wav/flac audio into spectrogram
// images, decoding of those images back into wav files, and configuration
// scaffolding. Configuration is read from spectrogram_config.toml in the
// working directory unless --config names another file; command flags
// override individual settings for a single run.
package main
