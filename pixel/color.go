package pixel

import "image/color"

// MonoThreshold is the largest 16-bit sample that still lights a monochrome pixel.
const MonoThreshold = 0x8FFF

// Models for the frame buffer color types.
var (
	MonoModel   color.Model = color.ModelFunc(monoModel)
	RGB565Model color.Model = color.ModelFunc(rgb565Model)
)

var (
	Off = MonoColor{false}
	On  = MonoColor{true}
)

// MonoColor represents a 1-bit monochrome color. On is ink (dark) on a reflective panel.
type MonoColor struct {
	On bool
}

func (c MonoColor) RGBA() (r, g, b, a uint32) {
	if c.On {
		return 0, 0, 0, 0xffff
	}
	return 0xffff, 0xffff, 0xffff, 0xffff
}

// MonoSample thresholds a raw 16-bit sample: anything brighter than MonoThreshold is off.
func MonoSample(v uint16) MonoColor {
	return MonoColor{On: v <= MonoThreshold}
}

func monoModel(c color.Color) color.Color {
	if _, ok := c.(MonoColor); ok {
		return c
	}
	r, g, b, _ := c.RGBA()

	// These coefficients (the fractions 0.299, 0.587 and 0.114) are the same
	// as those given by the JFIF specification and used by func RGBToYCbCr in
	// ycbcr.go.
	//
	// Note that 19595 + 38470 + 7471 equals 65536.
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16

	return MonoColor{On: y <= MonoThreshold}
}

// RGB565Color represents a 16-bit 5-6-5 RGB color.
type RGB565Color struct {
	// Red, 5, Green, 6, Blue, 5
	V uint16
}

func (c RGB565Color) RGBA() (r, g, b, a uint32) {
	// Build a 5- or 6-bit value at the top of the low byte of each component.
	red := (c.V & 0xF800) >> 8
	grn := (c.V & 0x07E0) >> 3
	blu := (c.V & 0x001F) << 3
	// Duplicate the high bits in the low bits.
	red |= red >> 5
	grn |= grn >> 6
	blu |= blu >> 5
	// Duplicate the whole value in the high byte.
	red |= red << 8
	grn |= grn << 8
	blu |= blu << 8
	return uint32(red), uint32(grn), uint32(blu), 0xffff
}

func rgb565Model(c color.Color) color.Color {
	switch c := c.(type) {
	case MonoColor:
		if c.On {
			return RGB565Color{}
		}
		return RGB565Color{0xffff}
	case RGB565Color:
		return c
	default:
		return RGB565Color{ToRGB565(c)}
	}
}

// ToRGB565 packs any color into its 5-6-5 representation.
func ToRGB565(c color.Color) uint16 {
	r, g, b, _ := c.RGBA()
	r = (r & 0xF800)
	g = (g & 0xFC00) >> 5
	b = (b & 0xF800) >> 11
	return uint16(r | g | b)
}
