package panel

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Conn errors.
var (
	ErrResetPin = errors.New("panel: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("panel: data/command (DC) GPIO pin is invalid")
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the SPI port name as known to spireg, use "" for the first available port.
	Port      string
	Mode      spi.Mode
	Speed     physic.Frequency
	DataLow   bool
	BatchSize int
	Reset     gpio.PinOut
	DC        gpio.PinOut
	CS        gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Mode:      spi.Mode0,
	Speed:     8 * physic.MegaHertz,
	BatchSize: 4096,
	Reset:     gpioreg.ByName("GPIO25"),
	DC:        gpioreg.ByName("GPIO24"),
}

// ValidSPISpeeds are common valid SPI bus speeds.
var ValidSPISpeeds = []physic.Frequency{
	500 * physic.KiloHertz,
	1 * physic.MegaHertz,
	2 * physic.MegaHertz,
	4 * physic.MegaHertz,
	8 * physic.MegaHertz,
	16 * physic.MegaHertz,
	20 * physic.MegaHertz,
	24 * physic.MegaHertz,
	32 * physic.MegaHertz,
	40 * physic.MegaHertz,
	48 * physic.MegaHertz,
}

// txConn is the part of a SPI connection used for writing.
type txConn interface {
	Tx(w, r []byte) error
}

// levelOut is the part of an output pin used for framing.
type levelOut interface {
	Out(gpio.Level) error
}

type spiConn struct {
	port      spi.PortCloser
	bus       txConn
	reset     levelOut
	dc        levelOut
	dcLevel   gpio.Level
	dcValid   bool
	cs        levelOut
	dataLow   bool
	batchSize int
}

// OpenSPI opens a SPI port through the periph.io registry.
//
// The host drivers must have been initialized, typically with host.Init().
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}

	if config.Speed == 0 {
		config.Speed = DefaultSPIConfig.Speed
	}
	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == config.Speed; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: panel: invalid SPI speed %s", ErrInvalidParam, config.Speed)
	}

	p, err := spireg.Open(config.Port)
	if err != nil {
		return nil, err
	}

	c, err := p.Connect(config.Speed, config.Mode, 8)
	if err != nil {
		_ = p.Close()
		return nil, err
	}

	batchSize := config.BatchSize
	if l, ok := c.(conn.Limits); ok && (batchSize <= 0 || l.MaxTxSize() < batchSize) {
		batchSize = l.MaxTxSize()
	}

	var cs levelOut
	if config.CS != nil {
		cs = config.CS
	}
	sc := newSPIConn(c, config.Reset, config.DC, cs, config.DataLow, batchSize)
	sc.port = p
	return sc, nil
}

func newSPIConn(bus txConn, reset, dc, cs levelOut, dataLow bool, batchSize int) *spiConn {
	if batchSize <= 0 {
		batchSize = DefaultSPIConfig.BatchSize
	}
	return &spiConn{
		bus:       bus,
		reset:     reset,
		dc:        dc,
		cs:        cs,
		dataLow:   dataLow,
		batchSize: batchSize,
	}
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %v", c.bus)
}

func (c *spiConn) Close() error {
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	if c.reset == nil {
		return nil
	}
	return c.reset.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if !c.dcValid || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel, c.dcValid = level, true
	}
	return nil
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiConn) Command(cmnd byte, data ...byte) (err error) {
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.updateDC(gpio.Level(c.dataLow)); err != nil {
		return
	}
	if err = c.bus.Tx([]byte{cmnd}, nil); err != nil {
		return
	}
	if len(data) > 0 {
		if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
			return
		}
		if err = c.writeChunked(data); err != nil {
			return
		}
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.writeChunked(data); err != nil {
		return
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) writeChunked(data []byte) (err error) {
	if len(data) <= c.batchSize {
		return c.bus.Tx(data, nil)
	}

	if debug {
		log.Printf("panel: write %d bytes of data in %d chunks", len(data), (len(data)+c.batchSize-1)/c.batchSize)
	}
	for buffer := data; len(buffer) > 0; {
		n := min(len(buffer), c.batchSize)
		if err = c.bus.Tx(buffer[:n], nil); err != nil {
			return
		}
		buffer = buffer[n:]
	}
	return
}
