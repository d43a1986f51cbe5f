package panel

import (
	"periph.io/x/conn/v3/gpio"
	"tinygo.org/x/drivers"
)

// OutputPin is a microcontroller output pin, such as machine.Pin.
type OutputPin interface {
	Set(bool)
}

type tinygoPin struct {
	p OutputPin
}

func (p tinygoPin) Out(l gpio.Level) error {
	p.p.Set(bool(l))
	return nil
}

func wrapPin(p OutputPin) levelOut {
	if p == nil {
		return nil
	}
	return tinygoPin{p}
}

// NewTinyGoConn uses a TinyGo SPI bus with the data/command, reset and (optional) chip select pins.
//
// The bus and pins must already be configured for output.
func NewTinyGoConn(bus drivers.SPI, dc, reset, cs OutputPin) (Conn, error) {
	if bus == nil {
		return nil, ErrInvalidParam
	}
	if dc == nil {
		return nil, ErrDCPin
	}
	if reset == nil {
		return nil, ErrResetPin
	}
	return newSPIConn(bus, wrapPin(reset), wrapPin(dc), wrapPin(cs), false, DefaultSPIConfig.BatchSize), nil
}
