package tile

import (
	"encoding/binary"
	"fmt"

	"github.com/BeatGlow/panel/internal/status"
	"github.com/BeatGlow/panel/pixel"
)

// Compose writes the tile into the frame buffer.
//
// Monochrome frame buffers receive one bit per tile pixel, thresholded from the 16-bit RGB565
// sample. Color frame buffers receive a row-by-row copy; with swap set, 16-bit pixels are stored
// with their bytes swapped. Points outside the frame buffer are skipped and reported with a
// [BoundsError] after the rest of the tile has been written.
func Compose(fb *pixel.FrameBuffer, t *Tile, swap bool) error {
	if fb == nil || len(fb.Pix) == 0 {
		return fmt.Errorf("%w: tile: no frame buffer", status.ErrInvalidParam)
	}
	if err := t.check(); err != nil {
		return err
	}

	if fb.Format == pixel.Mono {
		return composeMono(fb, t)
	}
	return composeColor(fb, t, swap)
}

func composeMono(fb *pixel.FrameBuffer, t *Tile) error {
	if t.Format != pixel.RGB565 {
		return fmt.Errorf("%w: tile: monochrome frame needs %s samples, got %s", status.ErrNotSupported, pixel.RGB565, t.Format)
	}

	var (
		offset  int
		skipped int
	)
	for y := t.Area.Y1; y <= t.Area.Y2; y++ {
		for x := t.Area.X1; x <= t.Area.X2; x, offset = x+1, offset+2 {
			if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
				skipped++
				continue
			}

			var (
				sample = binary.LittleEndian.Uint16(t.Pix[offset:])
				index  = y*fb.Stride + x/8
				bit    = byte(1) << uint(x%8)
			)
			if pixel.MonoSample(sample).On {
				fb.Pix[index] |= bit
			} else {
				fb.Pix[index] &^= bit
			}
		}
	}

	if skipped > 0 {
		return BoundsError{Skipped: skipped, Width: fb.Width, Height: fb.Height}
	}
	return nil
}

func composeColor(fb *pixel.FrameBuffer, t *Tile, swap bool) error {
	bpp := fb.Format.BytesPerPixel()
	if t.Format.BytesPerPixel() != bpp {
		return fmt.Errorf("%w: tile: cannot compose %s tile into %s frame", status.ErrNotSupported, t.Format, fb.Format)
	}
	swap = swap && bpp == 2

	// Clip the tile to the frame, the source keeps its own stride.
	clip := t.Area.Rect().Intersect(fb.Bounds())
	if clip.Empty() {
		return BoundsError{Skipped: t.Area.Width() * t.Area.Height(), Width: fb.Width, Height: fb.Height}
	}

	var (
		srcStride = t.Stride()
		dstStride = fb.Width * bpp
		rowBytes  = clip.Dx() * bpp
		src       = (clip.Min.Y-t.Area.Y1)*srcStride + (clip.Min.X-t.Area.X1)*bpp
		dst       = (clip.Min.Y*fb.Width + clip.Min.X) * bpp
	)
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		row := fb.Pix[dst : dst+rowBytes]
		copy(row, t.Pix[src:src+rowBytes])
		if swap {
			for i := 0; i < rowBytes; i += 2 {
				row[i], row[i+1] = row[i+1], row[i]
			}
		}
		dst += dstStride // next line in the frame buffer
		src += srcStride // next line in the tile
	}

	if composed := clip.Dx() * clip.Dy(); composed < t.Area.Width()*t.Area.Height() {
		return BoundsError{Skipped: t.Area.Width()*t.Area.Height() - composed, Width: fb.Width, Height: fb.Height}
	}
	return nil
}
