package codec

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/neurlang/gospectro/codecerr"
	"github.com/neurlang/gospectro/metadata"
	"github.com/neurlang/gospectro/raster"
	"github.com/neurlang/gospectro/signal"
)

// Float16Ext names the planar half-float dump written next to an image.
const Float16Ext = ".f16"

// FileOptions controls what EncodeFile writes besides the image.
type FileOptions struct {
	// Ext is the image container, ".png" when empty.
	Ext string
	// Sidecar writes the TOML side-car next to the image.
	Sidecar bool
	// Float16 writes the unquantized spectrogram as planar half floats.
	Float16 bool
}

// LoadAudio reads a wav or flac file, mixing all channels to mono.
func LoadAudio(inputFile string) (*signal.Signal, error) {
	if strings.EqualFold(filepath.Ext(inputFile), ".flac") {
		return signal.LoadFlac(inputFile)
	}
	return signal.LoadWav(inputFile)
}

// EncodeFile converts an audio file into an image named
// {base}_SR{rate}_{LOG|LIN}_{PHASE|MAG}{ext} and returns that path. When a
// write fails, the files already written for this call are removed.
func (c *Codec) EncodeFile(ctx context.Context, inputFile, base string, opts FileOptions) (name string, err error) {
	sig, err := LoadAudio(inputFile)
	if err != nil {
		return "", err
	}
	res, err := c.Encode(ctx, sig)
	if err != nil {
		return "", err
	}
	q, err := res.Image.Quantize(c.cfg.BitDepth)
	if err != nil {
		return "", err
	}

	ext := opts.Ext
	if ext == "" {
		ext = ".png"
	}
	name = stem(metadata.Filename(base, res.Metadata)) + ext
	if err := raster.WriteFile(name, q); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	written := []string{name}
	defer func() {
		if err == nil {
			return
		}
		for _, path := range written {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				c.logger.Warn("could not remove partial output", "path", path, "error", rmErr)
			}
		}
	}()
	c.logger.Info("wrote spectrogram", "path", name, "width", res.Image.Width, "height", res.Image.Height)

	if opts.Sidecar {
		path := metadata.SidecarPath(name)
		if err := metadata.WriteSidecar(path, res.Sidecar()); err != nil {
			return "", err
		}
		written = append(written, path)
	}
	if opts.Float16 {
		path := stem(name) + Float16Ext
		if err := writeFloat16(path, res.Image.Float16()); err != nil {
			return "", err
		}
		written = append(written, path)
	}
	return name, nil
}

// DecodeFile converts an image, or a half-float dump, back into a 16-bit
// wav file. Metadata comes from the side-car when one exists and from the
// file name otherwise. Half-float dumps require a side-car.
func (c *Codec) DecodeFile(ctx context.Context, inputFile, outputFile string) error {
	sc, haveSidecar, err := findSidecar(inputFile)
	if err != nil {
		return err
	}

	var img *raster.Image
	if strings.EqualFold(filepath.Ext(inputFile), Float16Ext) {
		if !haveSidecar {
			return codecerr.MalformedMetadata("sidecar", metadata.SidecarPath(inputFile), "half-float input needs a side-car")
		}
		img, err = readFloat16(inputFile, sc)
	} else {
		img, err = c.readImage(inputFile, sc, haveSidecar)
	}
	if err != nil {
		return err
	}

	var sig *signal.Signal
	if haveSidecar {
		sig, err = c.DecodeSidecar(ctx, img, sc)
	} else {
		var md metadata.Metadata
		if _, md, err = metadata.ParseFilename(inputFile); err != nil {
			return err
		}
		sig, err = c.Decode(ctx, img, md)
	}
	if err != nil {
		return err
	}
	if err := signal.SaveWav(outputFile, sig); err != nil {
		return err
	}
	c.logger.Info("wrote audio", "path", outputFile, "samples", sig.Len(), "duration", sig.Duration())
	return nil
}

func (c *Codec) readImage(inputFile string, sc metadata.Sidecar, haveSidecar bool) (*raster.Image, error) {
	phaseEncoded := sc.PhaseEncoded
	if !haveSidecar {
		_, md, err := metadata.ParseFilename(inputFile)
		if err != nil {
			return nil, err
		}
		phaseEncoded = md.PhaseEncoded
	}
	src, err := raster.ReadFile(inputFile)
	if err != nil {
		return nil, err
	}
	model := raster.Grayscale
	if phaseEncoded {
		model = raster.Color
	}
	return raster.FromImage(src, model), nil
}

func findSidecar(inputFile string) (metadata.Sidecar, bool, error) {
	path := metadata.SidecarPath(inputFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return metadata.Sidecar{}, false, nil
		}
		return metadata.Sidecar{}, false, fmt.Errorf("stat sidecar: %w", err)
	}
	sc, err := metadata.ReadSidecar(path)
	if err != nil {
		return metadata.Sidecar{}, false, err
	}
	return sc, true, nil
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func writeFloat16(path string, data []uint16) error {
	buf := make([]byte, 2*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write float16: %w", err)
	}
	return nil
}

func readFloat16(path string, sc metadata.Sidecar) (*raster.Image, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read float16: %w", err)
	}
	if sc.FFTSize <= 0 {
		return nil, codecerr.MalformedMetadata("fft_size", sc.FFTSize, "half-float input needs the fft size")
	}
	model := raster.Grayscale
	if sc.PhaseEncoded {
		model = raster.Color
	}
	height := sc.FFTSize/2 + 1
	plane := height * model.Planes()
	if len(buf)%2 != 0 || len(buf)/2%plane != 0 {
		return nil, codecerr.DimensionMismatch("float16", len(buf), "buffer does not hold whole frames")
	}
	data := make([]uint16, len(buf)/2)
	for i := range data {
		data[i] = binary.LittleEndian.Uint16(buf[2*i:])
	}
	return raster.FromFloat16(data, len(data)/plane, height, model)
}
