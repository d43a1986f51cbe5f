package panel

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BeatGlow/panel/pixel"
	"github.com/BeatGlow/panel/tile"
)

func noSleep(time.Duration) {}

type testPort struct {
	*Port
	conn  *testConn
	acked int
}

func openTestPort(t *testing.T, register func(*Registry, string, Conn, *Config) (Driver, error), config *Config) *testPort {
	t.Helper()

	var (
		reg = NewRegistry()
		tp  = &testPort{conn: new(testConn)}
	)
	config.Sleep = noSleep
	if _, err := register(reg, "test", tp.conn, config); err != nil {
		t.Fatal(err)
	}

	var err error
	if tp.Port, err = OpenPort(reg, "test", &PortConfig{Parts: 1, OnFlushReady: func() { tp.acked++ }}); err != nil {
		t.Fatal(err)
	}
	tp.conn.clear()
	return tp
}

// rgb565Tile returns a tile with every pixel set to v.
func rgb565Tile(a tile.Area, v uint16) *tile.Tile {
	return &tile.Tile{
		Area:   a,
		Pix:    bytes.Repeat([]byte{byte(v), byte(v >> 8)}, a.Width()*a.Height()),
		Format: pixel.RGB565,
	}
}

func TestPortFlushMono(t *testing.T) {
	p := openTestPort(t, RegisterST7305, &Config{Width: 24, Height: 4})

	if w, h := p.Size(); w != 24 || h != 4 {
		t.Errorf("expected 24x4 screen, got %dx%d", w, h)
	}
	if v := p.BufferLen(); v != 24*4*2 {
		t.Errorf("expected buffer of %d bytes, got %d", 24*4*2, v)
	}

	// Top half first, nothing is sent until the last tile.
	if err := p.Flush(rgb565Tile(tile.Area{X1: 0, Y1: 0, X2: 23, Y2: 1}, 0x0000), false); err != nil {
		t.Fatal(err)
	}
	if len(p.conn.transfers) != 0 {
		t.Errorf("expected no transfers before the last tile, got %v", p.conn.transfers)
	}
	if err := p.Flush(rgb565Tile(tile.Area{X1: 0, Y1: 2, X2: 23, Y2: 3}, 0x0000), true); err != nil {
		t.Fatal(err)
	}
	if p.acked != 2 {
		t.Errorf("expected 2 acknowledgements, got %d", p.acked)
	}
	if len(p.conn.transfers) != 4 {
		t.Fatalf("expected window, memory write and data, got %v", p.conn.transfers)
	}
	if data := p.conn.transfers[3]; data.command || !bytes.Equal(data.bytes, bytes.Repeat([]byte{0xFF}, 12)) {
		t.Errorf("expected all pixels on, got %s", data)
	}

	// White clears the pixels again.
	p.conn.clear()
	if err := p.Flush(rgb565Tile(tile.Area{X1: 0, Y1: 0, X2: 23, Y2: 3}, 0xFFFF), true); err != nil {
		t.Fatal(err)
	}
	if data := p.conn.transfers[3]; !bytes.Equal(data.bytes, make([]byte, 12)) {
		t.Errorf("expected all pixels off, got %s", data)
	}
}

func TestPortFlushRotated(t *testing.T) {
	tests := []struct {
		rotation Rotation
		width    int
		height   int
		index    int
		value    byte
	}{
		{Rotate90, 4, 24, 2, 0x80},
		{Rotate180, 24, 4, 11, 0x80},
		{Rotate270, 4, 24, 9, 0x01},
	}
	for _, test := range tests {
		t.Run(test.rotation.String(), func(it *testing.T) {
			p := openTestPort(it, RegisterST7305, &Config{Width: 24, Height: 4, Rotation: test.rotation})
			if w, h := p.Size(); w != test.width || h != test.height {
				it.Errorf("expected %dx%d screen, got %dx%d", test.width, test.height, w, h)
			}

			// A single dark pixel in the logical top-left corner.
			if err := p.Flush(rgb565Tile(tile.Area{}, 0x0000), false); err != nil {
				it.Fatal(err)
			}
			want := make([]byte, 12)
			want[test.index] = test.value
			if v := p.FrameBuffer().Pix; !bytes.Equal(v, want) {
				it.Errorf("expected % x, got % x", want, v)
			}
		})
	}
}

func TestPortDisabled(t *testing.T) {
	p := openTestPort(t, RegisterST7305, &Config{Width: 24, Height: 4})

	p.DisableUpdates()
	if p.UpdatesEnabled() {
		t.Fatal("expected updates to be disabled")
	}
	if err := p.Flush(rgb565Tile(tile.Area{X1: 0, Y1: 0, X2: 23, Y2: 3}, 0x0000), true); err != nil {
		t.Fatal(err)
	}
	if p.acked != 1 {
		t.Errorf("expected the dropped tile to be acknowledged, got %d", p.acked)
	}
	if len(p.conn.transfers) != 0 {
		t.Errorf("expected no transfers, got %v", p.conn.transfers)
	}
	if !bytes.Equal(p.FrameBuffer().Pix, make([]byte, 12)) {
		t.Error("expected the frame buffer to be left alone")
	}

	p.EnableUpdates()
	if err := p.Flush(rgb565Tile(tile.Area{X1: 0, Y1: 0, X2: 23, Y2: 3}, 0x0000), true); err != nil {
		t.Fatal(err)
	}
	if len(p.conn.transfers) == 0 {
		t.Error("expected the panel to be flushed after enabling updates")
	}
}

func TestPortToggleWhileFlushing(t *testing.T) {
	p := openTestPort(t, RegisterST7305, &Config{Width: 24, Height: 4})

	const frames = 200
	var (
		wg   sync.WaitGroup
		stop = make(chan struct{})
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				p.DisableUpdates()
				p.EnableUpdates()
			}
		}
	}()

	for i := 0; i < frames; i++ {
		if err := p.Flush(rgb565Tile(tile.Area{X1: 0, Y1: 0, X2: 23, Y2: 3}, 0x0000), true); err != nil {
			close(stop)
			wg.Wait()
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()

	if p.acked != frames {
		t.Errorf("expected %d acknowledgements, got %d", frames, p.acked)
	}
	// Every frame is either dropped or flushed as a whole: window, memory write and data.
	if n := len(p.conn.transfers); n%4 != 0 || n > 4*frames {
		t.Errorf("expected whole frames only, got %d transfers", n)
	}
	if !p.UpdatesEnabled() {
		t.Error("expected updates to end enabled")
	}
}

func TestPortFlushErrors(t *testing.T) {
	p := openTestPort(t, RegisterST7305, &Config{Width: 24, Height: 4})

	t.Run("out of bounds", func(it *testing.T) {
		p.conn.clear()
		err := p.Flush(rgb565Tile(tile.Area{X1: 20, Y1: 0, X2: 27, Y2: 0}, 0x0000), true)
		var bounds tile.BoundsError
		if !errors.As(err, &bounds) || bounds.Skipped != 4 || !errors.Is(err, ErrInvalidParam) {
			it.Errorf("expected 4 skipped points, got %v", err)
		}
		if len(p.conn.transfers) == 0 {
			it.Error("expected the panel to be flushed")
		}
		if v := p.FrameBuffer().Pix[2]; v != 0xF0 {
			it.Errorf("expected the visible part composed, got %#02x", v)
		}
	})
	t.Run("tile format", func(it *testing.T) {
		v := &tile.Tile{Area: tile.Area{}, Pix: make([]byte, 3), Format: pixel.RGB888}
		if err := p.Flush(v, true); !errors.Is(err, ErrInvalidParam) {
			it.Errorf("expected invalid parameter, got %v", err)
		}
	})
	t.Run("nil tile", func(it *testing.T) {
		if err := p.Flush(nil, true); !errors.Is(err, ErrInvalidParam) {
			it.Errorf("expected invalid parameter, got %v", err)
		}
	})
	t.Run("transport", func(it *testing.T) {
		p.conn.failOn = st7305RAMWR
		defer func() { p.conn.failOn = 0 }()
		if err := p.Flush(rgb565Tile(tile.Area{}, 0x0000), true); !errors.Is(err, ErrTransport) {
			it.Errorf("expected transport error, got %v", err)
		}
	})

	if p.acked != 4 {
		t.Errorf("expected every tile acknowledged, got %d", p.acked)
	}
}

func TestPortClose(t *testing.T) {
	p := openTestPort(t, RegisterST7305, &Config{Width: 24, Height: 4})
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if !p.conn.closed {
		t.Error("expected the connection to be closed")
	}
	if err := p.Flush(rgb565Tile(tile.Area{}, 0x0000), true); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expected invalid parameter after close, got %v", err)
	}
	if p.acked != 1 {
		t.Errorf("expected the tile to be acknowledged, got %d", p.acked)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected second close to be a no-op, got %v", err)
	}
}

func TestPortFlushColor(t *testing.T) {
	p := openTestPort(t, RegisterST7789, &Config{Width: 2, Height: 2})

	v := &tile.Tile{
		Area:   tile.Area{X1: 0, Y1: 0, X2: 1, Y2: 0},
		Pix:    []byte{0x34, 0x12, 0xCD, 0xAB},
		Format: pixel.RGB565,
	}
	if err := p.Flush(v, true); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"C 2a 00 00 00 01",
		"C 2b 00 00 00 01",
		"C 2c",
		"D 12 34 ab cd 00 00 00 00",
	}
	if len(p.conn.transfers) != len(want) {
		t.Fatalf("expected %d transfers, got %v", len(want), p.conn.transfers)
	}
	for i, v := range p.conn.transfers {
		if v.String() != want[i] {
			t.Errorf("transfer %d: expected %s, got %s", i, want[i], v)
		}
	}
	if c := p.FrameBuffer().At(1, 0); c != (pixel.RGB565Color{V: 0xABCD}) {
		t.Errorf("expected pixel %#04x, got %v", 0xABCD, c)
	}
}

func TestOpenPortMissing(t *testing.T) {
	if _, err := OpenPort(NewRegistry(), "missing", nil); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("expected invalid parameter, got %v", err)
	}
}

func TestTileFormat(t *testing.T) {
	tests := []struct {
		panel pixel.Format
		want  pixel.Format
	}{
		{pixel.Mono, pixel.RGB565},
		{pixel.RGB565, pixel.RGB565},
		{pixel.RGB666, pixel.RGB888},
		{pixel.RGB888, pixel.RGB888},
	}
	for _, test := range tests {
		t.Run(test.panel.String(), func(it *testing.T) {
			if v, err := TileFormat(test.panel); err != nil || v != test.want {
				it.Errorf("expected %s, got %s (%v)", test.want, v, err)
			}
		})
	}
	if _, err := TileFormat(pixel.Unknown); !errors.Is(err, ErrNotSupported) {
		t.Errorf("expected not supported, got %v", err)
	}
}
