// Package render draws into a screen-sized canvas and hands the changed parts to a panel port as
// a sequence of strip shaped tiles.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"os"

	"github.com/BeatGlow/panel/internal/status"
	"github.com/BeatGlow/panel/pixel"
	"github.com/BeatGlow/panel/tile"
	"tinygo.org/x/drivers"
)

var debug bool

func init() {
	debug = os.Getenv("PANEL_DEBUG") != ""
}

// Flusher receives rendered tiles, such as a panel.Port.
type Flusher interface {
	// Size of the logical screen.
	Size() (width, height int)

	// TileFormat is the pixel format of the tiles.
	TileFormat() pixel.Format

	// BufferLen is the maximum size of a tile in bytes.
	BufferLen() int

	// Flush a tile, last is set for the final tile of a frame.
	Flush(t *tile.Tile, last bool) error
}

// Canvas is a logical screen image.
//
// Drawing marks the touched pixels as invalid; Display sends the invalid area to the port, split
// into strips that fit the port render buffer.
type Canvas struct {
	*pixel.FrameBuffer
	port  Flusher
	strip []byte
	dirty image.Rectangle
}

// Interface checks.
var (
	_ draw.Image        = (*Canvas)(nil)
	_ drivers.Displayer = (*Canvas)(nil)
)

// NewCanvas returns a canvas covering the logical screen of port.
func NewCanvas(port Flusher) (*Canvas, error) {
	if port == nil {
		return nil, fmt.Errorf("%w: render: no port", status.ErrInvalidParam)
	}

	width, height := port.Size()
	fb, err := pixel.NewFrameBuffer(port.TileFormat(), width, height)
	if err != nil {
		return nil, err
	}
	if port.BufferLen() < fb.Stride {
		return nil, fmt.Errorf("%w: render: buffer of %d bytes can't hold a line of %d bytes", status.ErrInvalidParam, port.BufferLen(), fb.Stride)
	}

	c := &Canvas{
		FrameBuffer: fb,
		port:        port,
		strip:       make([]byte, port.BufferLen()),
	}
	c.Invalidate(fb.Bounds())
	return c, nil
}

// Set a pixel and mark it invalid.
func (c *Canvas) Set(x, y int, col color.Color) {
	c.FrameBuffer.Set(x, y, col)
	c.Invalidate(image.Rect(x, y, x+1, y+1))
}

// Clear zeroes all pixels.
func (c *Canvas) Clear() {
	c.FrameBuffer.Clear()
	c.Invalidate(c.Bounds())
}

// Fill the whole canvas with a single color.
func (c *Canvas) Fill(col color.Color) {
	c.FrameBuffer.Fill(col)
	c.Invalidate(c.Bounds())
}

// Invalidate marks an area for redrawing.
func (c *Canvas) Invalidate(r image.Rectangle) {
	r = r.Intersect(c.Bounds())
	if r.Empty() {
		return
	}
	c.dirty = c.dirty.Union(r)
}

// Invalid is the area that will be sent by the next Display.
func (c *Canvas) Invalid() image.Rectangle {
	return c.dirty
}

// Display sends the invalid area to the port.
func (c *Canvas) Display() error {
	if c.dirty.Empty() {
		return nil
	}

	var (
		r         = c.dirty
		bpp       = c.Format.BytesPerPixel()
		rowBytes  = r.Dx() * bpp
		rows      = len(c.strip) / rowBytes
		remaining = r.Dy()
	)
	if debug {
		log.Printf("render: display %s in strips of %d lines", r, rows)
	}

	for y := r.Min.Y; remaining > 0; {
		n := min(rows, remaining)
		for i := 0; i < n; i++ {
			o := c.PixOffset(r.Min.X, y+i)
			copy(c.strip[i*rowBytes:], c.Pix[o:o+rowBytes])
		}

		t := &tile.Tile{
			Area:   tile.AreaOf(image.Rect(r.Min.X, y, r.Max.X, y+n)),
			Pix:    c.strip[:n*rowBytes],
			Format: c.Format,
		}
		y, remaining = y+n, remaining-n
		if err := c.port.Flush(t, remaining == 0); err != nil {
			return err
		}
	}

	c.dirty = image.Rectangle{}
	return nil
}

// Size implements drivers.Displayer.
func (c *Canvas) Size() (x, y int16) {
	return int16(c.Width), int16(c.Height)
}

// SetPixel implements drivers.Displayer.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.Set(int(x), int(y), col)
}
