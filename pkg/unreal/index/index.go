// Package index implements the Unreal package "compact index" codec, a
// signed variable-length integer encoding used throughout the container
// format for object references and length prefixes.
//
// The first byte carries the sign in bit 7, a continuation flag in bit 6 and
// the low 6 value bits. Each following byte carries a continuation flag in
// bit 7 and 7 value bits. An encoding never exceeds 5 bytes.
package index

// Decode reads a compact index from data starting at offset. It returns the
// decoded value and the number of bytes consumed. An offset at or beyond the
// end of data decodes to (0, 0); the reference scanner relies on this instead
// of bounds-checking every probe.
func Decode(data []byte, offset int) (value, n int) {
	if offset < 0 || offset >= len(data) {
		return 0, 0
	}

	result := 0
	shift := 0
	negative := false

	for i := 0; i < 5 && offset+i < len(data); i++ {
		b := int(data[offset+i])
		if i == 0 {
			negative = b&0x80 != 0
			result = b & 0x3F
			if b&0x40 == 0 {
				return applySign(result, negative), 1
			}
			shift = 6
		} else {
			result |= (b & 0x7F) << shift
			if b&0x80 == 0 {
				return applySign(result, negative), i + 1
			}
			shift += 7
		}
		n = i + 1
	}

	return applySign(result, negative), n
}

func applySign(v int, negative bool) int {
	if negative {
		return -v
	}
	return v
}

// EncodedLen returns the number of bytes the canonical encoding of value
// occupies.
func EncodedLen(value int) int {
	if value < 0 {
		value = -value
	}
	switch {
	case value < 0x40:
		return 1
	case value < 0x2000:
		return 2
	case value < 0x100000:
		return 3
	case value < 0x8000000:
		return 4
	default:
		return 5
	}
}

// Append appends the minimal-length encoding of value to dst and returns the
// extended slice.
func Append(dst []byte, value int) []byte {
	v := value
	sign := byte(0)
	if v < 0 {
		sign = 0x80
		v = -v
	}

	b0 := sign | byte(v&0x3F)
	v >>= 6
	if v == 0 {
		return append(dst, b0)
	}
	dst = append(dst, b0|0x40)
	for i := 0; i < 4; i++ {
		b := byte(v & 0x7F)
		v >>= 7
		if v == 0 || i == 3 {
			return append(dst, b)
		}
		dst = append(dst, b|0x80)
	}
	return dst
}

// Encode returns the minimal-length encoding of value.
func Encode(value int) []byte {
	return Append(make([]byte, 0, 5), value)
}
