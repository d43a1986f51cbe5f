package panel

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// transfer is a single command or data write seen by testConn.
type transfer struct {
	command bool
	bytes   []byte
}

func (t transfer) String() string {
	if t.command {
		return fmt.Sprintf("C % x", t.bytes)
	}
	return fmt.Sprintf("D % x", t.bytes)
}

type testConn struct {
	transfers []transfer
	resets    []gpio.Level
	closed    bool
	failOn    byte // command that fails, 0 never fails
}

func (c *testConn) String() string { return "test" }

func (c *testConn) Close() error {
	c.closed = true
	return nil
}

func (c *testConn) Reset(level gpio.Level) error {
	c.resets = append(c.resets, level)
	return nil
}

func (c *testConn) Command(command byte, data ...byte) error {
	if c.failOn != 0 && command == c.failOn {
		return errors.New("bus error")
	}
	c.transfers = append(c.transfers, transfer{true, append([]byte{command}, data...)})
	return nil
}

func (c *testConn) Data(data ...byte) error {
	c.transfers = append(c.transfers, transfer{false, append([]byte(nil), data...)})
	return nil
}

// commands returns the command transfers with the given opcode.
func (c *testConn) commands(op byte) (found [][]byte) {
	for _, t := range c.transfers {
		if t.command && t.bytes[0] == op {
			found = append(found, t.bytes)
		}
	}
	return
}

func (c *testConn) clear() {
	c.transfers = c.transfers[:0]
}

type sleeper struct {
	slept []time.Duration
}

func (s *sleeper) sleep(d time.Duration) {
	s.slept = append(s.slept, d)
}
