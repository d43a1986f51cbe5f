package tile

import (
	"fmt"
	"strings"

	"github.com/BeatGlow/panel/internal/status"
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// ParseRotation parses a rotation in degrees or by direction name.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(s) {
	case "", "no", "0":
		return NoRotation, nil
	case "90", "right", "cw":
		return Rotate90, nil
	case "180", "flip":
		return Rotate180, nil
	case "270", "left", "ccw":
		return Rotate270, nil
	default:
		return NoRotation, fmt.Errorf("%w: tile: invalid rotation %q", status.ErrInvalidParam, s)
	}
}

// Swapped reports whether the rotation exchanges the screen width and height.
func (r Rotation) Swapped() bool {
	return r%4 == Rotate90 || r%4 == Rotate270
}

// Scratch is the reusable destination of [Rotate].
//
// A rotated tile aliases the scratch buffer, it must be consumed before the next rotation.
type Scratch struct {
	buf []byte
}

// NewScratch allocates a scratch buffer able to hold tiles of up to size bytes.
func NewScratch(size int) *Scratch {
	return &Scratch{buf: make([]byte, size)}
}

// Cap is the largest tile (in bytes) the scratch can hold.
func (s *Scratch) Cap() int {
	if s == nil {
		return 0
	}
	return len(s.buf)
}

// RotateArea maps an area of the logical (rotated) screen onto the physical width×height panel.
func RotateArea(a Area, r Rotation, width, height int) Area {
	switch r % 4 {
	case Rotate90:
		return Area{X1: width - 1 - a.Y2, Y1: a.X1, X2: width - 1 - a.Y1, Y2: a.X2}
	case Rotate180:
		return Area{X1: width - 1 - a.X2, Y1: height - 1 - a.Y2, X2: width - 1 - a.X1, Y2: height - 1 - a.Y1}
	case Rotate270:
		return Area{X1: a.Y1, Y1: height - 1 - a.X2, X2: a.Y2, Y2: height - 1 - a.X1}
	default:
		return a
	}
}

// Rotate rewrites the tile for a screen rotated clock wise by r on a physical width×height panel.
//
// The returned tile lives in the scratch buffer. Without rotation the tile is returned as is.
func Rotate(s *Scratch, t *Tile, r Rotation, width, height int) (*Tile, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	if r%4 == NoRotation {
		return t, nil
	}

	var (
		bpp       = t.Format.BytesPerPixel()
		w, h      = t.Area.Width(), t.Area.Height()
		size      = w * h * bpp
		area      = RotateArea(t.Area, r, width, height)
		srcStride = t.Stride()
		dstStride = area.Width() * bpp
	)
	if size > s.Cap() {
		return nil, fmt.Errorf("%w: tile: %s needs %d bytes, rotation scratch holds %d", status.ErrInvalidParam, t.Area, size, s.Cap())
	}

	dst := s.buf[:size]
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch r % 4 {
			case Rotate90:
				dx, dy = h-1-y, x
			case Rotate180:
				dx, dy = w-1-x, h-1-y
			case Rotate270:
				dx, dy = y, w-1-x
			}
			si := y*srcStride + x*bpp
			di := dy*dstStride + dx*bpp
			copy(dst[di:di+bpp], t.Pix[si:si+bpp])
		}
	}

	return &Tile{Area: area, Pix: dst, Format: t.Format}, nil
}
