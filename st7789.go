package panel

import (
	"fmt"
	"time"

	"github.com/BeatGlow/panel/pixel"
	"github.com/BeatGlow/panel/script"
)

const (
	st7789DefaultWidth  = 240
	st7789DefaultHeight = 240
)

// Registers (from st7789.pdf).
const (
	st7789SLPOUT    = 0x11 // Sleep Out
	st7789INVON     = 0x21 // Display Inversion On
	st7789DISPOFF   = 0x28 // Display Off
	st7789DISPON    = 0x29 // Display On
	st7789CASET     = 0x2A // Column Address Set
	st7789RASET     = 0x2B // Row Address Set
	st7789RAMWR     = 0x2C // Memory Write
	st7789MADCTL    = 0x36 // Memory Data Access Control
	st7789COLMOD    = 0x3A // Interface Pixel Format
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789VCMOFSET  = 0xC5 // VCOM Offset Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
)

// st7789InitScript brings up the controller in 16-bit RGB 5-6-5 mode. Contents are rotated before
// they reach the frame buffer, so the memory access order stays at its default.
var st7789InitScript = script.New(
	script.Record{Op: st7789SLPOUT, Delay: 150 * time.Millisecond},
	script.Record{Op: st7789MADCTL, Data: []byte{0x00}},
	script.Record{Op: st7789COLMOD, Data: []byte{0x05}},        // 16 bits per pixel
	script.Record{Op: st7789PORCTRL, Data: []byte{0x0C, 0x0C}}, // default
	script.Record{Op: st7789GCTRL, Data: []byte{0x35}},         // 13.26V / -10.43V
	script.Record{Op: st7789VCOMS, Data: []byte{0x1A}},         // 0.75V
	script.Record{Op: st7789LCMCTRL, Data: []byte{0x2C}},
	script.Record{Op: st7789VDVVRHEN, Data: []byte{0x01}},
	script.Record{Op: st7789VRHS, Data: []byte{0x0B}},
	script.Record{Op: st7789VDVSET, Data: []byte{0x20}},
	script.Record{Op: st7789VCMOFSET, Data: []byte{0x20}},
	script.Record{Op: st7789FRCTR2, Data: []byte{0x0F}}, // 60Hz
	script.Record{Op: st7789PWCTRL1, Data: []byte{0xA4, 0xA1}},
	script.Record{Op: st7789INVON},
	script.Record{Op: st7789PVGAMCTRL, Data: []byte{0x00, 0x19, 0x1E, 0x0A, 0x09, 0x15, 0x3D, 0x44, 0x51, 0x12, 0x03, 0x00, 0x3F, 0x3F}},
	script.Record{Op: st7789NVGAMCTRL, Data: []byte{0x00, 0x18, 0x1E, 0x0A, 0x09, 0x25, 0x3F, 0x43, 0x52, 0x33, 0x03, 0x00, 0x3F, 0x3F}},
	script.Record{Op: st7789DISPON, Delay: 100 * time.Millisecond},
)

type st7789 struct {
	baseDriver
}

// RegisterST7789 registers a RGB565 ST7789 panel.
//
// If reg is nil, the panel is added to the [DefaultRegistry].
func RegisterST7789(reg *Registry, name string, c Conn, config *Config) (Driver, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: st7789: no connection", ErrInvalidParam)
	}
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = st7789DefaultWidth
	}
	if config.Height == 0 {
		config.Height = st7789DefaultHeight
	}
	if config.Width < 0 || config.Height < 0 || config.Width > 240 || config.Height > 320 {
		return nil, fmt.Errorf("%w: st7789: invalid size %dx%d, maximum size is 240x320", ErrInvalidParam, config.Width, config.Height)
	}

	d := &st7789{
		baseDriver: baseDriver{
			c:      c,
			config: *config,
			info: Info{
				Name:      name,
				Width:     config.Width,
				Height:    config.Height,
				Format:    pixel.RGB565,
				Rotation:  config.Rotation,
				SwapBytes: true,
			},
		},
	}

	if err := registryOrDefault(reg).Register(name, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *st7789) String() string {
	return fmt.Sprintf("ST7789 %dx%d", d.info.Width, d.info.Height)
}

func (d *st7789) Open() error {
	if err := d.reset(); err != nil {
		return fmt.Errorf("%w: st7789: reset: %w", ErrTransport, err)
	}
	return st7789InitScript.Run(d.c, d.config.Sleep)
}

// Flush writes the frame buffer, already in big endian order, to the panel memory.
func (d *st7789) Flush(fb *pixel.FrameBuffer) error {
	if err := d.checkFrame(fb); err != nil {
		return err
	}
	if err := d.commands(st7789Window(d.config.ColumnOffset, d.config.RowOffset, d.info.Width, d.info.Height)); err != nil {
		return err
	}
	return d.data(fb.Pix[:fb.Len()])
}

func (d *st7789) Close() error {
	if err := d.command(st7789DISPOFF); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// st7789Window addresses the whole panel and starts a memory write.
func st7789Window(colOffset, rowOffset, width, height int) [][]byte {
	x0, y0 := colOffset, rowOffset
	x1, y1 := x0+width-1, y0+height-1
	return [][]byte{
		{st7789CASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)},
		{st7789RASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)},
		{st7789RAMWR},
	}
}
