package raster

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnsupportedFormat is returned for file extensions without a lossless
// encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Encode writes img in the format named by ext (".png", ".bmp", ".tif" or
// ".tiff"). BMP holds 8 bits per channel only.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".png":
		return png.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case ".bmp":
		switch img.(type) {
		case *image.Gray16, *image.RGBA64:
			return fmt.Errorf("%w: bmp cannot hold 16-bit channels", ErrUnsupportedFormat)
		}
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Decode reads a PNG, BMP or TIFF image.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// WriteFile encodes img into name, choosing the format from its extension.
// Nothing is left behind when encoding fails.
func WriteFile(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Encode(f, img, filepath.Ext(name)); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	return f.Close()
}

// ReadFile decodes the image stored in name.
func ReadFile(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := Decode(f)
	return img, err
}
