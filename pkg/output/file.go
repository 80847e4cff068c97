package output

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

// PNGFile writes a PNG image to Path.
type PNGFile struct {
	Path string
}

// Write implements Writer.
func (w PNGFile) Write(width, height int, pixels []color.RGBA) error {
	return writeFile(w.Path, width, height, pixels, png.Encode)
}

// BMPFile writes an uncompressed 24-bit bitmap to Path.
type BMPFile struct {
	Path string
}

// Write implements Writer.
func (w BMPFile) Write(width, height int, pixels []color.RGBA) error {
	return writeFile(w.Path, width, height, pixels, bmp.Encode)
}

func writeFile(path string, width, height int, pixels []color.RGBA, encode func(io.Writer, image.Image) error) error {
	img, err := ToImage(width, height, pixels)
	if err != nil {
		return err
	}
	// Opaque pixels make the bitmap encoder choose 24 bits per pixel.
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 0xff
		}
	}

	f, err := createFile(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
