package texture

import (
	"bytes"
	"encoding/binary"
	"image"
)

// g16Marker is the fixed byte sequence that immediately precedes G16 pixel
// data in heightmap exports. It is used when the compact-index length search
// is unreliable for that payload kind.
var g16Marker = []byte{0x00, 0x40, 0x80, 0x10}

// DecodeRGBA8 decodes a raw 32-bit-per-pixel payload. Samples are stored
// interleaved as B,G,R,A per pixel; the channel order swap is part of the
// wire format, not an accident.
func DecodeRGBA8(data []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * 4
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = data[src+2] // R
			img.Pix[dst+1] = data[src+1] // G
			img.Pix[dst+2] = data[src+0] // B
			img.Pix[dst+3] = data[src+3] // A
		}
	}
	return img
}

// DecodeP8 decodes a raw 8-bit palette/grayscale payload. The palette is not
// resolved; sample values are exposed directly as grayscale.
func DecodeP8(data []byte, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w], data[y*w:y*w+w])
	}
	return img
}

// DecodeG16 decodes a raw 16-bit little-endian grayscale payload, the format
// used for terrain height fields.
func DecodeG16(data []byte, w, h int) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := binary.LittleEndian.Uint16(data[(y*w+x)*2:])
			i := img.PixOffset(x, y)
			// Gray16 stores big-endian samples.
			img.Pix[i+0] = uint8(v >> 8)
			img.Pix[i+1] = uint8(v)
		}
	}
	return img
}

// G16Samples reads a G16 payload as raw unsigned 16-bit values in row-major
// order, for consumers that want heights rather than an image.
func G16Samples(data []byte, count int) []uint16 {
	samples := make([]uint16, count)
	for i := range samples {
		samples[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return samples
}

// FindG16Marker searches raw export data for the G16 marker followed by at
// least size payload bytes. Returns the offset of the pixel data (just after
// the marker), or -1.
func FindG16Marker(data []byte, size int) int {
	limit := len(data) - len(g16Marker) - size
	for i := 0; i <= limit; i++ {
		if bytes.Equal(data[i:i+len(g16Marker)], g16Marker) {
			return i + len(g16Marker)
		}
	}
	return -1
}
