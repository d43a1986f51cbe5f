package panel

import "log"

// st7305GroupBytes is the number of frame buffer bytes (24 pixels) the controller addresses as a
// single column.
const st7305GroupBytes = 3

// ST7305PackedLen is the size of the packed frame for a width×height panel.
func ST7305PackedLen(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	columns := (width + 3) / 4
	if r := columns % st7305GroupBytes; r != 0 {
		columns += st7305GroupBytes - r
	}
	return columns * (height / 2)
}

// PackST7305 converts a 1-bit LSB first frame buffer into the ST7305 pixel layout.
//
// The controller stores a 4×2 block of pixels per byte:
//
//	P0 P2 P4 P6     bit 7 5 3 1
//	P1 P3 P5 P7     bit 6 4 2 0
//
// Lines are consumed in pairs; each source byte of the pair yields two packed bytes, the first
// from the low nibbles. Source bytes are taken in groups of three, a trailing group of fewer bytes
// and a trailing unpaired line are skipped. It returns the number of bytes written to dst.
func PackST7305(dst, src []byte, width, height int) int {
	stride := (width + 7) / 8
	if stride <= 0 || height < 2 || len(src) < stride*height {
		return 0
	}

	groups := stride / st7305GroupBytes
	if debug && stride%st7305GroupBytes != 0 {
		log.Printf("panel: st7305 pack drops %d trailing bytes per line pair", stride%st7305GroupBytes)
	}

	var k int
	for i := 0; i+1 < height; i += 2 {
		upper := src[i*stride:]
		lower := src[(i+1)*stride:]
		for j := 0; j < groups*st7305GroupBytes; j++ {
			if k+2 > len(dst) {
				return k
			}
			b1, b2 := upper[j], lower[j]
			dst[k] = interleave(b1, b2)
			dst[k+1] = interleave(b1>>4, b2>>4)
			k += 2
		}
	}
	return k
}

// interleave merges the low nibbles of two vertically adjacent bytes.
func interleave(b1, b2 byte) (mix byte) {
	for k := 0; k < 4; k++ {
		mix |= (b1 >> k & 1) << (7 - 2*k)
		mix |= (b2 >> k & 1) << (6 - 2*k)
	}
	return
}
