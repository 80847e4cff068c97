// Package output persists rendered pixel buffers: PNG and BMP files, or an
// S3-compatible bucket.
package output

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
)

// ErrPixelCount is returned when a buffer does not hold width*height pixels.
var ErrPixelCount = errors.New("pixel buffer size does not match dimensions")

// Writer stores a finished image given as row-major pixels, top row first.
type Writer interface {
	Write(width, height int, pixels []color.RGBA) error
}

// ToImage wraps a row-major pixel buffer in an image.RGBA.
func ToImage(width, height int, pixels []color.RGBA) (*image.RGBA, error) {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%dx%d with %d pixels: %w", width, height, len(pixels), ErrPixelCount)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		img.SetRGBA(i%width, i/width, p)
	}
	return img, nil
}

// ForPath picks a file writer from the path's extension: .bmp writes a
// bitmap, anything else a PNG.
func ForPath(path string) Writer {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return BMPFile{Path: path}
	default:
		return PNGFile{Path: path}
	}
}

// createFile creates path and any missing parent directories.
func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
