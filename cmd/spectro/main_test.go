package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gospectro/config"
	"github.com/neurlang/gospectro/signal"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSmallConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := config.Default()
	cfg.FFTSize = 512
	cfg.HopSize = 128
	cfg.GriffinLimIterations = 3
	cfg.Logging.Format = "json"
	path := filepath.Join(dir, config.DefaultFileName)
	require.NoError(t, cfg.Save(path))
	return path
}

func TestConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "spectro.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default configuration")
	assert.FileExists(t, target)

	_, _, err = runCLI(t, "config", "init", "--path", target)
	assert.ErrorContains(t, err, "already exists")

	out, _, err = runCLI(t, "--config", target, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Config path: "+target)
	assert.Contains(t, out, "fft_size")
	assert.Contains(t, out, "4096")
	assert.Contains(t, out, "96.9%")
}

func TestConfigShowReportsMissingFile(t *testing.T) {
	out, _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "not found; defaults in use")
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("fft_size = 1000\n"), 0o644))
	_, _, err := runCLI(t, "--config", path, "config", "show")
	assert.ErrorContains(t, err, "fft_size")
}

func TestEncodeDecode(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSmallConfig(t, dir)

	samples := make([]float64, 4000)
	for i := range samples {
		samples[i] = 0.4 * math.Sin(2*math.Pi*600*float64(i)/8000)
	}
	wav := filepath.Join(dir, "voice.wav")
	require.NoError(t, signal.SaveWav(wav, &signal.Signal{Samples: samples, SampleRate: 8000}))

	out, _, err := runCLI(t, "--config", cfgPath, "encode", wav, "--sidecar", "--mag")
	require.NoError(t, err)
	image := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "voice_SR8000_LOG_MAG.png"), image)

	out, _, err = runCLI(t, "--config", cfgPath, "--log-level", "debug", "decode", image)
	require.NoError(t, err)
	decoded := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "voice_SR8000_LOG_MAG.wav"), decoded)

	sig, err := signal.LoadWav(decoded)
	require.NoError(t, err)
	assert.Equal(t, len(samples), sig.Len())
}

func TestEncodeRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeSmallConfig(t, dir)
	wav := filepath.Join(dir, "a.wav")
	require.NoError(t, signal.SaveWav(wav, &signal.Signal{Samples: make([]float64, 1000), SampleRate: 8000}))

	_, _, err := runCLI(t, "--config", cfgPath, "encode", wav, "--format", "jpeg")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "a_SR8000_LOG_PHASE.jpeg"))
}
