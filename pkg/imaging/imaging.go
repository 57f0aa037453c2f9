// Package imaging serializes decoded pixel grids to image files. Height
// grids keep their full 16-bit precision: PNG carries Gray16 natively and
// TIFF (deflate-compressed) is offered as a lossless interchange carrier.
package imaging

import (
	"bufio"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/tiff"

	"github.com/l2terrain/l2extract/pkg/terrain"
)

// WritePNG encodes img to path as PNG.
func WritePNG(img image.Image, path string) error {
	return writeFile(path, func(f *bufio.Writer) error {
		return png.Encode(f, img)
	})
}

// WriteTIFF encodes img to path as a deflate-compressed TIFF.
func WriteTIFF(img image.Image, path string) error {
	return writeFile(path, func(f *bufio.Writer) error {
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	})
}

// HeightImage converts a tile's height samples to a 16-bit grayscale image.
func HeightImage(t *terrain.Tile) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			v := t.HeightAt(x, y)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
		}
	}
	return img
}

func writeFile(path string, encode func(*bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
