// Package panel contains drivers for SPI pixel panels and the flush pipeline that feeds them with
// rendered tiles.
//
// A driver is registered under a name with its geometry and connection. A [Port] opened on that
// name owns the screen-shaped frame buffer: every rendered tile is rotated (when the screen is
// mounted rotated), composed into the frame buffer and, on the last tile of a frame, handed to the
// driver which converts it into the controller wire format.
package panel

import (
	"fmt"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/panel/internal/status"
	"github.com/BeatGlow/panel/pixel"
	"github.com/BeatGlow/panel/tile"
)

var debug bool

func init() {
	debug = os.Getenv("PANEL_DEBUG") != ""
}

// Errors
var (
	ErrInvalidParam = status.ErrInvalidParam
	ErrAllocFailed  = status.ErrAllocFailed
	ErrNotSupported = status.ErrNotSupported
	ErrTransport    = status.ErrTransport
)

// Rotation defines pixel rotation.
type Rotation = tile.Rotation

// Supported rotations.
const (
	NoRotation = tile.NoRotation
	Rotate90   = tile.Rotate90  // Rotate 90° clock wise
	Rotate180  = tile.Rotate180 // Rotate 180°
	Rotate270  = tile.Rotate270 // Rotate 270° clock wise
)

// ParseRotation parses a rotation in degrees or by direction name.
func ParseRotation(s string) (Rotation, error) {
	return tile.ParseRotation(s)
}

// Driver is a registered panel driver.
type Driver interface {
	// Info describes the panel.
	Info() Info

	// Open brings up the panel.
	Open() error

	// Flush transfers the frame buffer to the panel.
	Flush(*pixel.FrameBuffer) error

	// Close the panel and its connection.
	Close() error
}

// Info describes a registered panel.
type Info struct {
	Name     string
	Width    int
	Height   int
	Format   pixel.Format
	Rotation Rotation

	// SwapBytes is set when the panel expects 16-bit pixels in big endian order.
	SwapBytes bool
}

// Config is the panel configuration.
type Config struct {
	// Width of the panel in pixels.
	Width int

	// Height of the panel in pixels.
	Height int

	// Rotation of the screen contents on the panel.
	Rotation Rotation

	// ColumnOffset is the first controller column of the panel, a per-panel calibration constant.
	ColumnOffset int

	// RowOffset is the first controller row of the panel.
	RowOffset int

	// Sleep is used for command delays, defaults to time.Sleep.
	Sleep func(time.Duration)
}

func (config *Config) sleep(d time.Duration) {
	if config.Sleep != nil {
		config.Sleep(d)
		return
	}
	time.Sleep(d)
}

// baseDriver has the connection and geometry shared by all drivers.
type baseDriver struct {
	c      Conn
	info   Info
	config Config
}

func (d *baseDriver) Info() Info {
	return d.info
}

// reset toggles the hardware reset line.
func (d *baseDriver) reset() (err error) {
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	d.config.sleep(10 * time.Millisecond)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	d.config.sleep(10 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	d.config.sleep(120 * time.Millisecond)
	return
}

func (d *baseDriver) command(command byte, data ...byte) error {
	if err := d.c.Command(command, data...); err != nil {
		return fmt.Errorf("%w: %s: command %#02x: %w", ErrTransport, d.info.Name, command, err)
	}
	return nil
}

func (d *baseDriver) commands(commands [][]byte) (err error) {
	for _, command := range commands {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *baseDriver) data(data []byte) error {
	if err := d.c.Data(data...); err != nil {
		return fmt.Errorf("%w: %s: write %d bytes: %w", ErrTransport, d.info.Name, len(data), err)
	}
	return nil
}

// checkFrame verifies the frame buffer matches the panel.
func (d *baseDriver) checkFrame(fb *pixel.FrameBuffer) error {
	if fb == nil {
		return fmt.Errorf("%w: %s: no frame buffer", ErrInvalidParam, d.info.Name)
	}
	if fb.Format != d.info.Format {
		return fmt.Errorf("%w: %s: can't flush %s frame buffer", ErrNotSupported, d.info.Name, fb.Format)
	}
	if fb.Width != d.info.Width || fb.Height != d.info.Height || len(fb.Pix) < fb.Format.FrameLen(fb.Width, fb.Height) {
		return fmt.Errorf("%w: %s: frame buffer is %dx%d, panel is %dx%d", ErrInvalidParam, d.info.Name, fb.Width, fb.Height, d.info.Width, d.info.Height)
	}
	return nil
}
