package codec

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/config"
	"github.com/neurlang/gospectro/metadata"
	"github.com/neurlang/gospectro/signal"
)

func fileConfig() config.Config {
	cfg := config.Default()
	cfg.FFTSize = 512
	cfg.HopSize = 128
	cfg.UseLogScale = false
	return cfg
}

func writeTone(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tone.wav")
	require.NoError(t, signal.SaveWav(path, sine(750, 8000, 6000, 0.5)))
	return path
}

func TestEncodeFileDecodeFileWithSidecar(t *testing.T) {
	dir := t.TempDir()
	c, err := New(fileConfig())
	require.NoError(t, err)

	name, err := c.EncodeFile(context.Background(), writeTone(t, dir), filepath.Join(dir, "tone"), FileOptions{Sidecar: true, Float16: true})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.png"), name)
	assert.FileExists(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.toml"))
	assert.FileExists(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.f16"))

	out := filepath.Join(dir, "out.wav")
	require.NoError(t, c.DecodeFile(context.Background(), name, out))
	sig, err := signal.LoadWav(out)
	require.NoError(t, err)
	assert.Equal(t, 6000, sig.Len())
	assert.Equal(t, 8000, sig.SampleRate)
	assert.InEpsilon(t, 0.5/1.41421356, signal.RMS(sig.Samples[512:5000]), 0.1)

	half := filepath.Join(dir, "half.wav")
	require.NoError(t, c.DecodeFile(context.Background(), filepath.Join(dir, "tone_SR8000_LIN_PHASE.f16"), half))
	sig, err = signal.LoadWav(half)
	require.NoError(t, err)
	assert.Equal(t, 6000, sig.Len())
}

func TestDecodeFileUsesFilenameMetadata(t *testing.T) {
	dir := t.TempDir()
	c, err := New(fileConfig())
	require.NoError(t, err)

	name, err := c.EncodeFile(context.Background(), writeTone(t, dir), filepath.Join(dir, "tone"), FileOptions{Ext: ".tiff"})
	require.NoError(t, err)
	assert.Equal(t, ".tiff", filepath.Ext(name))
	assert.NoFileExists(t, metadata.SidecarPath(name))

	out := filepath.Join(dir, "out.wav")
	require.NoError(t, c.DecodeFile(context.Background(), name, out))
	sig, err := signal.LoadWav(out)
	require.NoError(t, err)
	// Without a side-car the full overlap-add span is kept.
	assert.Equal(t, c.cfg.FFTSize+(43-1)*c.cfg.HopSize, sig.Len())
}

func TestDecodeFileRejectsUnlabelledImage(t *testing.T) {
	dir := t.TempDir()
	c, err := New(fileConfig())
	require.NoError(t, err)
	name, err := c.EncodeFile(context.Background(), writeTone(t, dir), filepath.Join(dir, "tone"), FileOptions{})
	require.NoError(t, err)

	plain := filepath.Join(dir, "plain.png")
	require.NoError(t, os.Rename(name, plain))
	err = c.DecodeFile(context.Background(), plain, filepath.Join(dir, "out.wav"))
	assert.ErrorIs(t, err, codecerr.ErrMalformedMetadata)
	assert.NoFileExists(t, filepath.Join(dir, "out.wav"))
}

func TestEncodeFileRemovesPartialOutputs(t *testing.T) {
	c, err := New(fileConfig())
	require.NoError(t, err)

	t.Run("sidecar", func(t *testing.T) {
		dir := t.TempDir()
		tone := writeTone(t, dir)
		// A directory in the way makes the side-car write fail.
		require.NoError(t, os.Mkdir(filepath.Join(dir, "tone_SR8000_LIN_PHASE.toml"), 0o755))

		_, err := c.EncodeFile(context.Background(), tone, filepath.Join(dir, "tone"), FileOptions{Sidecar: true})
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.png"))
		assert.DirExists(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.toml"))
	})

	t.Run("float16", func(t *testing.T) {
		dir := t.TempDir()
		tone := writeTone(t, dir)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "tone_SR8000_LIN_PHASE.f16"), 0o755))

		_, err := c.EncodeFile(context.Background(), tone, filepath.Join(dir, "tone"), FileOptions{Sidecar: true, Float16: true})
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.png"))
		assert.NoFileExists(t, filepath.Join(dir, "tone_SR8000_LIN_PHASE.toml"))
	})
}
