// Command panel-dump runs the ST7305 pipeline without hardware and prints the bytes that would be
// sent to the controller.
package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/render"
)

// dumpConn prints every transfer.
type dumpConn struct {
	w     io.Writer
	full  bool
	bytes int
}

func (c *dumpConn) String() string { return "dump" }
func (c *dumpConn) Close() error   { return nil }

func (c *dumpConn) Reset(level gpio.Level) error {
	fmt.Fprintf(c.w, "reset %s\n", level)
	return nil
}

func (c *dumpConn) Command(command byte, data ...byte) error {
	fmt.Fprintf(c.w, "command %02x", command)
	if len(data) > 0 {
		fmt.Fprintf(c.w, " % x", data)
	}
	fmt.Fprintln(c.w)
	return nil
}

func (c *dumpConn) Data(data ...byte) error {
	c.bytes += len(data)
	fmt.Fprintf(c.w, "data %d bytes\n", len(data))
	if c.full || len(data) <= 64 {
		_, err := io.WriteString(c.w, hex.Dump(data))
		return err
	}
	_, err := io.WriteString(c.w, hex.Dump(data[:64]))
	fmt.Fprintln(c.w, "...")
	return err
}

// options are the command line settings.
type options struct {
	width, height int
	columnOffset  int
	rotation      panel.Rotation
	parts         int
	text          string
	full          bool
}

func main() {
	widthFlag := flag.Int("width", panel.DefaultST7305Width, "Panel width")
	heightFlag := flag.Int("height", panel.DefaultST7305Height, "Panel height")
	columnFlag := flag.Int("column-offset", 0, "First controller column of the panel")
	rotateFlag := flag.String("rotate", "", "Screen rotation")
	partsFlag := flag.Int("parts", panel.DefaultParts, "Number of render strips per screen")
	textFlag := flag.String("text", "ST7305", "Text to render")
	fullFlag := flag.Bool("full", false, "Dump complete data transfers")
	flag.Parse()

	rotation, err := panel.ParseRotation(*rotateFlag)
	if err != nil {
		fatal(err)
	}

	out := bufio.NewWriter(os.Stdout)
	err = run(out, options{
		width:        *widthFlag,
		height:       *heightFlag,
		columnOffset: *columnFlag,
		rotation:     rotation,
		parts:        *partsFlag,
		text:         *textFlag,
		full:         *fullFlag,
	})
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		fatal(err)
	}
}

// run renders the test pattern and writes the transfers to out.
func run(out io.Writer, opts options) error {
	var (
		conn   = &dumpConn{w: out, full: opts.full}
		reg    = panel.NewRegistry()
		config = &panel.Config{
			Width:        opts.width,
			Height:       opts.height,
			Rotation:     opts.rotation,
			ColumnOffset: opts.columnOffset,
			Sleep: func(d time.Duration) {
				fmt.Fprintf(out, "delay %s\n", d)
			},
		}
	)
	if _, err := panel.RegisterST7305(reg, "st7305", conn, config); err != nil {
		return err
	}

	fmt.Fprintln(out, "# open")
	var tiles int
	port, err := panel.OpenPort(reg, "st7305", &panel.PortConfig{
		Parts:        opts.parts,
		OnFlushReady: func() { tiles++ },
	})
	if err != nil {
		return err
	}
	defer port.Close()

	canvas, err := render.NewCanvas(port)
	if err != nil {
		return err
	}
	r := canvas.Bounds()
	canvas.Fill(color.White)
	render.Rectangle(canvas, r, color.Black)
	render.Line(canvas, r.Min, r.Max.Sub(image.Pt(1, 1)), color.Black)
	render.DrawBitmapString(canvas, 4, 4, strings.ToUpper(opts.text), color.Black)

	fmt.Fprintln(out, "# flush")
	if err = canvas.Display(); err != nil {
		return err
	}
	fmt.Fprintf(out, "# %d tiles, %d bytes of pixel data (%d expected)\n", tiles, conn.bytes,
		panel.ST7305PackedLen(config.Width, config.Height))
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
