// Package config loads, defaults, and validates codec configuration.
//
// Settings live in a flat TOML document (spectrogram_config.toml by default)
// decoded on top of Default. Validate rejects out-of-range values instead of
// clamping them, so a typo in the file surfaces as an error naming the field.
package config
