package panel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/BeatGlow/panel/pixel"
	"github.com/BeatGlow/panel/tile"
)

// DefaultParts is the number of strips a screen is rendered in.
const DefaultParts = 10

// PortConfig configures the flush pipeline of a [Port].
type PortConfig struct {
	// Parts is the number of strips the renderer splits the screen in, defaults to DefaultParts.
	Parts int

	// OnFlushReady is called when a tile has been consumed, also when it was dropped or failed.
	OnFlushReady func()
}

// Port feeds rendered tiles to a panel.
//
// Tiles are given in logical (rotated) screen coordinates; the port rotates them onto the physical
// panel, composes them into its frame buffer and flushes the panel after the last tile of a frame.
// One flush is in progress at any time.
type Port struct {
	mu           sync.Mutex
	driver       Driver
	info         Info
	fb           *pixel.FrameBuffer
	scratch      *tile.Scratch
	tileFormat   pixel.Format
	bufferLen    int
	enabled      atomic.Bool
	onFlushReady func()
}

// OpenPort looks up the panel registered as name, opens it and sets up its frame buffer.
//
// If reg is nil, the [DefaultRegistry] is used.
func OpenPort(reg *Registry, name string, config *PortConfig) (*Port, error) {
	if config == nil {
		config = new(PortConfig)
	}
	parts := config.Parts
	if parts <= 0 {
		parts = DefaultParts
	}

	d, err := registryOrDefault(reg).Find(name)
	if err != nil {
		return nil, err
	}
	info := d.Info()

	tileFormat, err := TileFormat(info.Format)
	if err != nil {
		return nil, err
	}

	fb, err := pixel.NewFrameBuffer(info.Format, info.Width, info.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: panel: %s frame buffer: %w", ErrAllocFailed, name, err)
	}
	if info.SwapBytes {
		fb.Order = binary.BigEndian
	}

	if err = d.Open(); err != nil {
		return nil, err
	}

	p := &Port{
		driver:       d,
		info:         info,
		fb:           fb,
		tileFormat:   tileFormat,
		bufferLen:    info.Width * info.Height / parts * tileFormat.BytesPerPixel(),
		onFlushReady: config.OnFlushReady,
	}
	if info.Rotation%4 != NoRotation {
		p.scratch = tile.NewScratch(p.bufferLen)
		if debug {
			log.Printf("panel: %s rotated %s, scratch of %d bytes", name, info.Rotation, p.bufferLen)
		}
	}
	p.enabled.Store(true)

	return p, nil
}

// TileFormat is the pixel format rendered tiles must have for a panel of the given format.
func TileFormat(panel pixel.Format) (pixel.Format, error) {
	switch panel {
	case pixel.Mono, pixel.RGB565:
		return pixel.RGB565, nil
	case pixel.RGB666, pixel.RGB888:
		return pixel.RGB888, nil
	default:
		return pixel.Unknown, fmt.Errorf("%w: panel: no tile format for %s", ErrNotSupported, panel)
	}
}

// Info describes the panel.
func (p *Port) Info() Info {
	return p.info
}

// Size of the logical screen, width and height are swapped for panels mounted at 90° or 270°.
func (p *Port) Size() (width, height int) {
	if p.info.Rotation.Swapped() {
		return p.info.Height, p.info.Width
	}
	return p.info.Width, p.info.Height
}

// TileFormat is the pixel format of the tiles accepted by Flush.
func (p *Port) TileFormat() pixel.Format {
	return p.tileFormat
}

// BufferLen is the size in bytes of a render strip; tiles must not be larger.
func (p *Port) BufferLen() int {
	return p.bufferLen
}

// FrameBuffer is the panel-shaped frame buffer; it must not be modified while flushing.
func (p *Port) FrameBuffer() *pixel.FrameBuffer {
	return p.fb
}

// EnableUpdates resumes flushing to the panel.
func (p *Port) EnableUpdates() {
	p.enabled.Store(true)
}

// DisableUpdates freezes the panel; tiles are acknowledged but dropped.
func (p *Port) DisableUpdates() {
	p.enabled.Store(false)
}

// UpdatesEnabled reports whether tiles reach the panel.
func (p *Port) UpdatesEnabled() bool {
	return p.enabled.Load()
}

// Flush composes a rendered tile and, if last is set, transfers the frame to the panel.
//
// The tile pixels are only read during the call. OnFlushReady is called before Flush returns,
// regardless of the outcome.
func (p *Port) Flush(t *tile.Tile, last bool) (err error) {
	if p.onFlushReady != nil {
		defer p.onFlushReady()
	}
	if !p.enabled.Load() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fb == nil {
		return fmt.Errorf("%w: panel: %s is closed", ErrInvalidParam, p.info.Name)
	}

	if t != nil && t.Format != p.tileFormat {
		return fmt.Errorf("%w: panel: %s expects %s tiles, got %s", ErrInvalidParam, p.info.Name, p.tileFormat, t.Format)
	}

	if p.scratch != nil {
		if t, err = tile.Rotate(p.scratch, t, p.info.Rotation, p.info.Width, p.info.Height); err != nil {
			return
		}
	}

	if err = tile.Compose(p.fb, t, p.info.SwapBytes); err != nil {
		var bounds tile.BoundsError
		if !errors.As(err, &bounds) {
			return
		}
		if debug {
			log.Printf("panel: %s: %v", p.info.Name, err)
		}
	}

	if last {
		if flushErr := p.driver.Flush(p.fb); flushErr != nil {
			return flushErr
		}
	}
	return
}

// Close the panel.
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fb == nil {
		return nil
	}
	p.fb, p.scratch = nil, nil
	return p.driver.Close()
}
