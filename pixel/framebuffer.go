package pixel

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/BeatGlow/panel/internal/status"
)

// FrameBuffer is the persistent, screen-shaped pixel store mirroring the panel contents.
type FrameBuffer struct {
	// Format of the pixels in Pix.
	Format Format

	// Width and Height of the screen in pixels.
	Width, Height int

	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int

	// Pix are the pixels.
	Pix []byte

	// Order of 16-bit pixels in Pix, little endian unless the panel wants them swapped.
	Order binary.ByteOrder
}

// NewFrameBuffer allocates a zeroed frame buffer.
func NewFrameBuffer(format Format, width, height int) (*FrameBuffer, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("%w: pixel: unsupported format %s", status.ErrNotSupported, format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: pixel: invalid size %dx%d", status.ErrInvalidParam, width, height)
	}
	return &FrameBuffer{
		Format: format,
		Width:  width,
		Height: height,
		Stride: format.Stride(width),
		Pix:    make([]byte, format.FrameLen(width, height)),
		Order:  binary.LittleEndian,
	}, nil
}

// Len is the number of bytes holding pixels.
func (fb *FrameBuffer) Len() int {
	return len(fb.Pix)
}

func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

func (fb *FrameBuffer) ColorModel() color.Model {
	switch fb.Format {
	case Mono:
		return MonoModel
	case RGB565:
		return RGB565Model
	default:
		return color.RGBAModel
	}
}

// PixOffset is the index of the first byte holding pixel (x, y).
func (fb *FrameBuffer) PixOffset(x, y int) int {
	if fb.Format == Mono {
		return y*fb.Stride + x/8
	}
	return y*fb.Stride + x*fb.Format.BytesPerPixel()
}

func (fb *FrameBuffer) order() binary.ByteOrder {
	if fb.Order == nil {
		return binary.LittleEndian
	}
	return fb.Order
}

func (fb *FrameBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(fb.Bounds()) {
		return color.Transparent
	}

	i := fb.PixOffset(x, y)
	switch fb.Format {
	case Mono:
		return MonoColor{On: fb.Pix[i]&(1<<uint(x%8)) != 0}
	case RGB565:
		return RGB565Color{fb.order().Uint16(fb.Pix[i:])}
	default:
		return color.RGBA{R: fb.Pix[i], G: fb.Pix[i+1], B: fb.Pix[i+2], A: 0xff}
	}
}

func (fb *FrameBuffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(fb.Bounds()) {
		return
	}

	i := fb.PixOffset(x, y)
	switch fb.Format {
	case Mono:
		if monoModel(c).(MonoColor).On {
			fb.Pix[i] |= 1 << uint(x%8)
		} else {
			fb.Pix[i] &^= 1 << uint(x%8)
		}
	case RGB565:
		fb.order().PutUint16(fb.Pix[i:], rgb565Model(c).(RGB565Color).V)
	case RGB666:
		r, g, b, _ := c.RGBA()
		fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2] = byte(r>>8)&0xFC, byte(g>>8)&0xFC, byte(b>>8)&0xFC
	default:
		r, g, b, _ := c.RGBA()
		fb.Pix[i], fb.Pix[i+1], fb.Pix[i+2] = byte(r>>8), byte(g>>8), byte(b>>8)
	}
}

// Clear zeroes all pixels.
func (fb *FrameBuffer) Clear() {
	for i := range fb.Pix {
		fb.Pix[i] = 0x00
	}
}

// Fill the frame buffer with a single color.
func (fb *FrameBuffer) Fill(c color.Color) {
	if fb.Format == Mono {
		var value byte
		if monoModel(c).(MonoColor).On {
			value = 0xff
		}
		for i := range fb.Pix {
			fb.Pix[i] = value
		}
		return
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.Set(x, y, c)
		}
	}
}
