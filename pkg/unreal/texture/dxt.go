package texture

import (
	"encoding/binary"
	"image"
)

// rgb is an 8-bit color triple used while expanding block endpoints.
type rgb struct {
	r, g, b uint8
}

// expand565 widens a packed 5/6/5 color to 8-bit channels. Expansion uses
// value*255/max rather than bit replication; the original decoder's rounding
// is part of the output contract.
func expand565(c uint16) rgb {
	return rgb{
		r: uint8(int(c>>11&0x1F) * 255 / 31),
		g: uint8(int(c>>5&0x3F) * 255 / 63),
		b: uint8(int(c&0x1F) * 255 / 31),
	}
}

// lerp weights two colors w0:w1.
func lerp(c0, c1 rgb, w0, w1 int) rgb {
	total := w0 + w1
	return rgb{
		r: uint8((int(c0.r)*w0 + int(c1.r)*w1) / total),
		g: uint8((int(c0.g)*w0 + int(c1.g)*w1) / total),
		b: uint8((int(c0.b)*w0 + int(c1.b)*w1) / total),
	}
}

func setPixel(img *image.NRGBA, x, y int, c rgb, a uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i+0] = c.r
	img.Pix[i+1] = c.g
	img.Pix[i+2] = c.b
	img.Pix[i+3] = a
}

// DecodeDXT1 decodes a DXT1 payload into a non-premultiplied RGBA image.
// Blocks are scanned row-major; 4x4 texels per block, 2 index bits per texel.
// When endpoint0 <= endpoint1 the block uses the punch-through rule: color 2
// is the 1:1 average and color 3 is fully transparent.
func DecodeDXT1(data []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	pos := 0

	for by := 0; by < h/4; by++ {
		for bx := 0; bx < w/4; bx++ {
			c0 := binary.LittleEndian.Uint16(data[pos:])
			c1 := binary.LittleEndian.Uint16(data[pos+2:])
			indices := binary.LittleEndian.Uint32(data[pos+4:])
			pos += 8

			var colors [4]rgb
			var alphas [4]uint8
			colors[0] = expand565(c0)
			colors[1] = expand565(c1)
			alphas = [4]uint8{255, 255, 255, 255}
			if c0 > c1 {
				colors[2] = lerp(colors[0], colors[1], 2, 1)
				colors[3] = lerp(colors[0], colors[1], 1, 2)
			} else {
				colors[2] = lerp(colors[0], colors[1], 1, 1)
				colors[3] = rgb{}
				alphas[3] = 0
			}

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					idx := indices >> ((py*4 + px) * 2) & 0x3
					x, y := bx*4+px, by*4+py
					if x < w && y < h {
						setPixel(img, x, y, colors[idx], alphas[idx])
					}
				}
			}
		}
	}

	return img
}

// DecodeDXT3 decodes a DXT3 payload: 8 bytes of explicit 4-bit alpha per
// block followed by a DXT1-style color block without the punch-through rule.
// Alpha nibbles scale by 17 for an exact 0-15 to 0-255 mapping.
func DecodeDXT3(data []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	pos := 0

	for by := 0; by < h/4; by++ {
		for bx := 0; bx < w/4; bx++ {
			alphaBits := binary.LittleEndian.Uint64(data[pos:])
			c0 := binary.LittleEndian.Uint16(data[pos+8:])
			c1 := binary.LittleEndian.Uint16(data[pos+10:])
			indices := binary.LittleEndian.Uint32(data[pos+12:])
			pos += 16

			colors := colorBlockNoPunch(c0, c1)

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					texel := py*4 + px
					idx := indices >> (texel * 2) & 0x3
					alpha := uint8(alphaBits>>(texel*4)&0xF) * 17
					x, y := bx*4+px, by*4+py
					if x < w && y < h {
						setPixel(img, x, y, colors[idx], alpha)
					}
				}
			}
		}
	}

	return img
}

// DecodeDXT5 decodes a DXT5 payload: 2 alpha endpoints and 48 bits of 3-bit
// alpha indices per block, then a DXT1-style color block without the
// punch-through rule. The alpha ramp has 7 interpolated steps when
// endpoint0 > endpoint1, otherwise 5 steps plus forced 0 and 255.
func DecodeDXT5(data []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	pos := 0

	for by := 0; by < h/4; by++ {
		for bx := 0; bx < w/4; bx++ {
			a0 := int(data[pos])
			a1 := int(data[pos+1])
			var alphaBits uint64
			for i := 0; i < 6; i++ {
				alphaBits |= uint64(data[pos+2+i]) << (i * 8)
			}
			c0 := binary.LittleEndian.Uint16(data[pos+8:])
			c1 := binary.LittleEndian.Uint16(data[pos+10:])
			indices := binary.LittleEndian.Uint32(data[pos+12:])
			pos += 16

			var alphas [8]uint8
			alphas[0] = uint8(a0)
			alphas[1] = uint8(a1)
			if a0 > a1 {
				for i := 1; i <= 6; i++ {
					alphas[i+1] = uint8(((7-i)*a0 + i*a1) / 7)
				}
			} else {
				for i := 1; i <= 4; i++ {
					alphas[i+1] = uint8(((5-i)*a0 + i*a1) / 5)
				}
				alphas[6] = 0
				alphas[7] = 255
			}

			colors := colorBlockNoPunch(c0, c1)

			for py := 0; py < 4; py++ {
				for px := 0; px < 4; px++ {
					texel := py*4 + px
					idx := indices >> (texel * 2) & 0x3
					aIdx := alphaBits >> (texel * 3) & 0x7
					x, y := bx*4+px, by*4+py
					if x < w && y < h {
						setPixel(img, x, y, colors[idx], alphas[aIdx])
					}
				}
			}
		}
	}

	return img
}

// colorBlockNoPunch expands a color block that always interpolates colors
// 2-3 at 2:1 and 1:2 regardless of endpoint ordering; alpha is carried
// separately by the block's alpha section.
func colorBlockNoPunch(c0, c1 uint16) [4]rgb {
	var colors [4]rgb
	colors[0] = expand565(c0)
	colors[1] = expand565(c1)
	colors[2] = lerp(colors[0], colors[1], 2, 1)
	colors[3] = lerp(colors[0], colors[1], 1, 2)
	return colors
}
