// Package tile composes rendered tiles into a frame buffer, rotating them first when the screen is
// mounted in a different orientation.
//
// A [Tile] is a rectangular sub-region of the screen redrawn in one flush call. Its pixel map is
// borrowed from the renderer and must not be retained after the flush returns.
package tile

import (
	"fmt"
	"image"

	"github.com/BeatGlow/panel/internal/status"
	"github.com/BeatGlow/panel/pixel"
)

// Area is an inclusive rectangle: both (X1, Y1) and (X2, Y2) are part of it.
type Area struct {
	X1, Y1, X2, Y2 int
}

// AreaOf converts a half-open image rectangle.
func AreaOf(r image.Rectangle) Area {
	return Area{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X - 1, Y2: r.Max.Y - 1}
}

func (a Area) Width() int  { return a.X2 - a.X1 + 1 }
func (a Area) Height() int { return a.Y2 - a.Y1 + 1 }

// Empty reports whether the area contains no pixels.
func (a Area) Empty() bool {
	return a.X2 < a.X1 || a.Y2 < a.Y1
}

// Rect is the half-open image rectangle covering a.
func (a Area) Rect() image.Rectangle {
	return image.Rect(a.X1, a.Y1, a.X2+1, a.Y2+1)
}

func (a Area) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", a.X1, a.Y1, a.X2, a.Y2)
}

// Tile is a rendered area with its pixel map.
type Tile struct {
	Area   Area
	Pix    []byte
	Format pixel.Format
}

// Stride is the number of bytes per tile row.
func (t *Tile) Stride() int {
	return t.Format.Stride(t.Area.Width())
}

func (t *Tile) check() error {
	if t == nil || len(t.Pix) == 0 || t.Area.Empty() {
		return fmt.Errorf("%w: tile: missing area or pixel map", status.ErrInvalidParam)
	}
	if t.Format.BytesPerPixel() == 0 {
		return fmt.Errorf("%w: tile: unsupported tile format %s", status.ErrNotSupported, t.Format)
	}
	if need := t.Stride() * t.Area.Height(); len(t.Pix) < need {
		return fmt.Errorf("%w: tile: pixel map of %d bytes is too short for %s, need %d", status.ErrInvalidParam, len(t.Pix), t.Area, need)
	}
	return nil
}

// BoundsError reports points of a tile that fell outside the frame buffer and were skipped.
type BoundsError struct {
	Skipped       int
	Width, Height int
}

func (err BoundsError) Error() string {
	return fmt.Sprintf("tile: %d points outside of %dx%d frame skipped", err.Skipped, err.Width, err.Height)
}

func (err BoundsError) Unwrap() error {
	return status.ErrInvalidParam
}
