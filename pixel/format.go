package pixel

import "fmt"

// Format is a pixel format of a frame buffer or a rendered tile.
type Format uint8

// Supported formats.
const (
	Unknown Format = iota
	Mono           // 1 bit per pixel, rows of LSB-first bytes
	RGB565         // 16 bits per pixel, 5-6-5 RGB
	RGB666         // 24 bits per pixel, 6 significant bits per component
	RGB888         // 24 bits per pixel
)

func (f Format) String() string {
	switch f {
	case Mono:
		return "mono"
	case RGB565:
		return "RGB565"
	case RGB666:
		return "RGB666"
	case RGB888:
		return "RGB888"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// BytesPerPixel is the number of bytes a single pixel occupies, or 0 for sub-byte formats.
func (f Format) BytesPerPixel() int {
	switch f {
	case RGB565:
		return 2
	case RGB666, RGB888:
		return 3
	default:
		return 0
	}
}

// Stride is the number of bytes per row for an image of the given width.
func (f Format) Stride(width int) int {
	if f == Mono {
		return (width + 7) / 8 // round up to whole bytes
	}
	return width * f.BytesPerPixel()
}

// FrameLen is the number of bytes needed to hold a width×height image.
func (f Format) FrameLen(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return f.Stride(width) * height
}

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f >= Mono && f <= RGB888
}
