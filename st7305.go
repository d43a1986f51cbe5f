package panel

import (
	"fmt"
	"log"

	"github.com/BeatGlow/panel/pixel"
	"github.com/BeatGlow/panel/script"
)

// ST7305 defaults, for the 2.9" 168x384 reflective panel.
const (
	DefaultST7305Width  = 168
	DefaultST7305Height = 384
)

// Registers (from st7305.pdf).
const (
	st7305SLPOUT   = 0x11 // Sleep Out
	st7305INVOFF   = 0x20 // Display Inversion Off
	st7305DISPOFF  = 0x28 // Display Off
	st7305DISPON   = 0x29 // Display On
	st7305CASET    = 0x2A // Column Address Set
	st7305RASET    = 0x2B // Row Address Set
	st7305RAMWR    = 0x2C // Memory Write
	st7305MADCTL   = 0x36 // Memory Data Access Control
	st7305HPM      = 0x38 // High Power Mode
	st7305DTFORM   = 0x3A // Data Format Select
	st7305GTUPEQ   = 0x62 // Gate Timing Control
	st7305GATESET  = 0xB0 // Gate Line Setting
	st7305FRCTRL   = 0xB2 // Frame Rate Control
	st7305GTUPEQH  = 0xB3 // Update Period Gate EQ Control in HPM
	st7305GTUPEQL  = 0xB4 // Update Period Gate EQ Control in LPM
	st7305SOUEQ    = 0xB7 // Source EQ Enable
	st7305PNLSET   = 0xB8 // Panel Setting
	st7305GAMAMS   = 0xB9 // Gamma Mode Setting
	st7305CLRAM    = 0xBB // Enable Clear RAM
	st7305GCTRL    = 0xC0 // Gate Voltage Control
	st7305VSHPCTRL = 0xC1 // Source High Positive Voltage Control
	st7305VSLPCTRL = 0xC2 // Source Low Positive Voltage Control
	st7305VSHNCTRL = 0xC4 // Source High Negative Voltage Control
	st7305VSLNCTRL = 0xC5 // Source Low Negative Voltage Control
	st7305VSIKCTRL = 0xC9 // Source Voltage Select
	st7305AUTOPWR  = 0xD0 // Auto Power Down Control
	st7305BSTEN    = 0xD1 // Booster Enable
	st7305NVMLOAD  = 0xD6 // NVM Load Control
	st7305OSCSET   = 0xD8 // OSC Setting
)

// st7305InitScript brings up the controller; the gate line count is patched per panel.
var st7305InitScript = script.MustParse([]byte{
	3, 0, st7305NVMLOAD, 0x13, 0x02,
	2, 0, st7305BSTEN, 0x01,
	3, 0, st7305GCTRL, 0x12, 0x0A, // VGH 12V, VGL -6V
	5, 0, st7305VSHPCTRL, 0x73, 0x3E, 0x3C, 0x3C, // 4.8V
	5, 0, st7305VSLPCTRL, 0x00, 0x21, 0x23, 0x23, // 0.98V
	5, 0, st7305VSHNCTRL, 0x32, 0x5C, 0x5A, 0x5A, // -3.6V
	5, 0, st7305VSLNCTRL, 0x32, 0x35, 0x37, 0x37, // 0.22V
	3, 0, st7305OSCSET, 0x80, 0xE9,
	2, 0, st7305FRCTRL, 0x12,
	11, 0, st7305GTUPEQH, 0xE5, 0xF6, 0x17, 0x77, 0x77, 0x77, 0x77, 0x77, 0x77, 0x71,
	9, 0, st7305GTUPEQL, 0x05, 0x46, 0x77, 0x77, 0x77, 0x77, 0x76, 0x45,
	4, 0, st7305GTUPEQ, 0x32, 0x03, 0x1F,
	2, 0, st7305SOUEQ, 0x13,
	2, 0, st7305GATESET, 0x60, // 384 lines = 96 * 4
	1, 120, st7305SLPOUT,
	2, 0, st7305VSIKCTRL, 0x00,
	2, 0, st7305MADCTL, 0x48, // MX, DO
	2, 0, st7305DTFORM, 0x11, // 3 writes for 24 bits
	2, 0, st7305GAMAMS, 0x20, // mono
	2, 0, st7305PNLSET, 0x29, // 1-dot inversion, frame inversion, one line interlace
	2, 0, st7305AUTOPWR, 0xFF,
	1, 0, st7305HPM,
	1, 0, st7305INVOFF,
	2, 0, st7305CLRAM, 0x4F,
	1, 10, st7305DISPON,
	0,
})

type st7305 struct {
	baseDriver
	initScript *script.Script
	packed     []byte
}

// RegisterST7305 registers a monochrome ST7305 panel.
//
// The column offset of the config is the first controller column (CASET start) of the panel.
// If reg is nil, the panel is added to the [DefaultRegistry].
func RegisterST7305(reg *Registry, name string, c Conn, config *Config) (Driver, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: st7305: no connection", ErrInvalidParam)
	}
	if config == nil {
		config = new(Config)
	}
	if config.Width == 0 {
		config.Width = DefaultST7305Width
	}
	if config.Height == 0 {
		config.Height = DefaultST7305Height
	}
	if config.Width < 0 || config.Height < 2 || config.ColumnOffset < 0 || config.ColumnOffset > 0xff {
		return nil, fmt.Errorf("%w: st7305: invalid geometry %dx%d at column %d", ErrInvalidParam, config.Width, config.Height, config.ColumnOffset)
	}
	if config.Height > 512 || config.ColumnOffset+(config.Width+11)/12 > 0x100 {
		return nil, fmt.Errorf("%w: st7305: %dx%d at column %d exceeds the address range", ErrInvalidParam, config.Width, config.Height, config.ColumnOffset)
	}

	d := &st7305{
		baseDriver: baseDriver{
			c:      c,
			config: *config,
			info: Info{
				Name:     name,
				Width:    config.Width,
				Height:   config.Height,
				Format:   pixel.Mono,
				Rotation: config.Rotation,
			},
		},
		initScript: st7305InitScript.Clone(),
		packed:     make([]byte, ST7305PackedLen(config.Width, config.Height)),
	}

	if !d.initScript.Patch(st7305GATESET, 0, byte(config.Height/4)) {
		log.Printf("st7305: %s: no gate line setting in the init script", name)
	}

	if err := registryOrDefault(reg).Register(name, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *st7305) String() string {
	return fmt.Sprintf("ST7305 %dx%d", d.info.Width, d.info.Height)
}

// Open resets the panel and runs the init script.
func (d *st7305) Open() error {
	if err := d.reset(); err != nil {
		return fmt.Errorf("%w: st7305: reset: %w", ErrTransport, err)
	}
	if err := d.initScript.Run(d.c, d.config.Sleep); err != nil {
		return err
	}
	if debug {
		log.Printf("st7305: %s: initialized on %s", d.info.Name, d.c)
	}
	return nil
}

// Flush packs the frame buffer and writes it to the panel memory.
func (d *st7305) Flush(fb *pixel.FrameBuffer) error {
	if err := d.checkFrame(fb); err != nil {
		return err
	}

	n := PackST7305(d.packed, fb.Pix, fb.Width, fb.Height)

	col, row := st7305Window(d.config.ColumnOffset, d.info.Width, d.info.Height)
	if err := d.commands([][]byte{
		{st7305CASET, col[0], col[1]},
		{st7305RASET, row[0], row[1]},
		{st7305RAMWR},
	}); err != nil {
		return err
	}
	return d.data(d.packed[:n])
}

func (d *st7305) Close() error {
	if err := d.command(st7305DISPOFF); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// st7305Window is the address window for the whole panel: each column addresses 12 pixels
// (4 per byte, 3 bytes per column) and each row a pair of lines.
func st7305Window(xs, width, height int) (col, row [2]byte) {
	col = [2]byte{byte(xs), byte(xs + (width+11)/12 - 1)}
	row = [2]byte{0, byte((height+1)/2 - 1)}
	return
}
