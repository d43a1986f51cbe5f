package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/panel"
	"github.com/BeatGlow/panel/render"
)

func main() {
	widthFlag := flag.Int("width", 0, "Panel width (default: driver default)")
	heightFlag := flag.Int("height", 0, "Panel height (default: driver default)")
	columnFlag := flag.Int("column-offset", 0, "First controller column of the panel")
	rowFlag := flag.Int("row-offset", 0, "First controller row of the panel")
	portFlag := flag.String("port", "", "SPI port (default: use first available)")
	speedFlag := flag.Int64("speed", int64(panel.DefaultSPIConfig.Speed/physic.MegaHertz), "SPI speed in MHz")
	resetPinFlag := flag.String("reset", "GPIO25", "Reset GPIO pin")
	dcPinFlag := flag.String("dc", "GPIO24", "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", "", "Chip select GPIO pin (default: driven by the SPI port)")
	rotateFlag := flag.String("rotate", "", "Screen rotation")
	partsFlag := flag.Int("parts", panel.DefaultParts, "Number of render strips per screen")
	textFlag := flag.String("text", "BeatGlow", "Text to show")
	sizeFlag := flag.Float64("font-size", 24, "Font size in points")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <driver>\n", os.Args[0])
		os.Exit(1)
	}

	rotation, err := panel.ParseRotation(*rotateFlag)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using rotation: %s\n", rotation)

	if _, err = host.Init(); err != nil {
		fatal(err)
	}

	spiConfig := &panel.SPIConfig{
		Port:  *portFlag,
		Mode:  panel.DefaultSPIConfig.Mode,
		Speed: physic.Frequency(*speedFlag) * physic.MegaHertz,
		Reset: gpioreg.ByName(*resetPinFlag),
		DC:    gpioreg.ByName(*dcPinFlag),
	}
	if *csPinFlag != "" {
		spiConfig.CS = gpioreg.ByName(*csPinFlag)
	}
	conn, err := panel.OpenSPI(spiConfig)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("using connection: %s\n", conn)

	config := &panel.Config{
		Width:        *widthFlag,
		Height:       *heightFlag,
		Rotation:     rotation,
		ColumnOffset: *columnFlag,
		RowOffset:    *rowFlag,
	}
	switch driver := strings.ToLower(flag.Arg(0)); driver {
	case "st7305":
		_, err = panel.RegisterST7305(nil, driver, conn, config)
	case "st7789":
		_, err = panel.RegisterST7789(nil, driver, conn, config)
	default:
		err = fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		_ = conn.Close()
		fatal(err)
	}

	port, err := panel.OpenPort(nil, strings.ToLower(flag.Arg(0)), &panel.PortConfig{Parts: *partsFlag})
	if err != nil {
		_ = conn.Close()
		fatal(err)
	}

	info := port.Info()
	fmt.Printf("using panel: %s %dx%d %s\n", info.Name, info.Width, info.Height, info.Format)

	err = animate(port, *textFlag, *sizeFlag)
	if closeErr := port.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fatal(err)
	}
}

// animate draws the demo screen until drawing or flushing fails.
func animate(port *panel.Port, text string, size float64) error {
	canvas, err := render.NewCanvas(port)
	if err != nil {
		return err
	}
	font, err := render.NewFont(nil, size)
	if err != nil {
		return err
	}

	var (
		r       = canvas.Bounds()
		ticker  = time.NewTicker(100 * time.Millisecond)
		offset  int
		started = time.Now()
	)
	defer ticker.Stop()

	fmt.Println("hit control-c to stop...")
	for {
		canvas.Fill(color.White)
		render.Rectangle(canvas, r, color.Black)
		if _, err = font.DrawString(canvas, 4, 4, text, color.Black); err != nil {
			return err
		}
		render.WriteLine(canvas, 4, int16(r.Dy()-4), time.Since(started).Truncate(time.Second).String(), color.RGBA{A: 0xff})

		// Bouncing box below the text
		var (
			box  = 12
			span = max(1, r.Dx()-box-8)
			x    = offset % (2 * span)
		)
		if x > span {
			x = 2*span - x
		}
		y := 8 + int(font.Size()) + 4
		render.RoundedBox(canvas, image.Rect(4+x, y, 4+x+box, y+box), 3, color.Black)

		if err = canvas.Display(); err != nil {
			return err
		}

		offset += 2
		<-ticker.C
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
