// Package texture decodes the pixel payload formats found in Lineage 2
// texture exports: the three DXT block-compressed variants and three raw
// sample layouts. Payloads are located inside an export's raw byte range by
// scanning for their compact-index length prefix, since the container format
// exposes no fixed offset table for them.
package texture

import (
	"errors"
	"fmt"
	"image"

	"github.com/l2terrain/l2extract/pkg/unreal/index"
)

// Format identifies a texture payload layout.
type Format int

const (
	DXT1 Format = iota
	DXT3
	DXT5
	RGBA8
	P8
	G16
)

var (
	// ErrPayloadNotFound reports that the length-matching search could not
	// locate the pixel payload inside the export data.
	ErrPayloadNotFound = errors.New("texture payload not found in export data")

	// ErrUnsupportedFormat reports a payload layout this codec does not
	// decode.
	ErrUnsupportedFormat = errors.New("unsupported texture format")
)

func (f Format) String() string {
	switch f {
	case DXT1:
		return "DXT1"
	case DXT3:
		return "DXT3"
	case DXT5:
		return "DXT5"
	case RGBA8:
		return "RGBA8"
	case P8:
		return "P8"
	case G16:
		return "G16"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// PayloadSize returns the byte size of a w by h payload in this format.
// DXT formats require dimensions that are multiples of 4.
func (f Format) PayloadSize(w, h int) int {
	switch f {
	case DXT1:
		return (w / 4) * (h / 4) * 8
	case DXT3, DXT5:
		return (w / 4) * (h / 4) * 16
	case RGBA8:
		return w * h * 4
	case P8:
		return w * h
	case G16:
		return w * h * 2
	default:
		return 0
	}
}

// FindPayload locates pixel data inside raw export bytes by searching for a
// compact-index length field equal to size. The forward scan covers the bulk
// of the export; if it misses, a fallback scan covers roughly the last
// size+100 bytes, where small mip payloads tend to sit. Returns the offset
// where pixel data starts, or -1.
//
// The two strategies were arrived at empirically and are not equivalent; both
// are kept and tested independently.
func FindPayload(data []byte, size int) int {
	for i := 0; i < len(data)-size-10; i++ {
		v, _ := index.Decode(data, i)
		if v == size && i+5+size <= len(data) {
			return i + index.EncodedLen(v)
		}
	}

	start := len(data) - size - 100
	if start < 0 {
		start = 0
	}
	for i := start; i < len(data)-size; i++ {
		v, _ := index.Decode(data, i)
		if v == size && i+index.EncodedLen(v)+size <= len(data) {
			return i + index.EncodedLen(v)
		}
	}

	return -1
}

// Decode decodes an already-located payload of the given format.
func Decode(payload []byte, format Format, w, h int) (image.Image, error) {
	switch format {
	case DXT1:
		return DecodeDXT1(payload, w, h), nil
	case DXT3:
		return DecodeDXT3(payload, w, h), nil
	case DXT5:
		return DecodeDXT5(payload, w, h), nil
	case RGBA8:
		return DecodeRGBA8(payload, w, h), nil
	case P8:
		return DecodeP8(payload, w, h), nil
	case G16:
		return DecodeG16(payload, w, h), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Extract locates the payload of the given format inside raw export data and
// decodes it. Returns ErrPayloadNotFound when the length search misses; the
// caller skips that single asset and continues with its siblings.
func Extract(exportData []byte, format Format, w, h int) (image.Image, error) {
	size := format.PayloadSize(w, h)
	if size <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	offset := FindPayload(exportData, size)
	if offset < 0 {
		return nil, fmt.Errorf("%s %dx%d: %w", format, w, h, ErrPayloadNotFound)
	}
	return Decode(exportData[offset:offset+size], format, w, h)
}
