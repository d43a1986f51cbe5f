package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// DefaultDPI is the resolution used for TrueType text.
const DefaultDPI = 72

// Font renders TrueType text.
type Font struct {
	font *truetype.Font
	size float64
	dpi  float64
}

// NewFont parses a TrueType font; a nil ttf selects Go Regular.
func NewFont(ttf []byte, size float64) (*Font, error) {
	if ttf == nil {
		ttf = goregular.TTF
	}
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return &Font{font: f, size: size, dpi: DefaultDPI}, nil
}

// Size is the font size in points.
func (f *Font) Size() float64 {
	return f.size
}

// DrawString draws text with the top of the line at (x, y) and returns the point after the last
// glyph.
func (f *Font) DrawString(dst draw.Image, x, y int, text string, c color.Color) (image.Point, error) {
	ctx := freetype.NewContext()
	ctx.SetDPI(f.dpi)
	ctx.SetFont(f.font)
	ctx.SetFontSize(f.size)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetSrc(image.NewUniform(c))

	pt, err := ctx.DrawString(text, freetype.Pt(x, y+int(math.Round(f.size*f.dpi/72))))
	if err != nil {
		return image.Point{}, err
	}
	return image.Pt(pt.X.Round(), pt.Y.Round()), nil
}

// Measure returns the advance width of text in pixels.
func (f *Font) Measure(text string) int {
	face := truetype.NewFace(f.font, &truetype.Options{
		Size: f.size,
		DPI:  f.dpi,
	})
	defer face.Close()
	return font.MeasureString(face, text).Round()
}

// DrawBitmapString draws text in the 7x13 fixed font with the top of the line at (x, y).
func DrawBitmapString(dst draw.Image, x, y int, text string, c color.Color) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}

// TinyFont is the bitmap font used by WriteLine.
var TinyFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// WriteLine writes text with the TinyGo font, (x, y) is on the baseline.
func WriteLine(d drivers.Displayer, x, y int16, text string, c color.RGBA) {
	tinyfont.WriteLine(d, TinyFont, x, y, text, c)
}

// LineWidth is the width in pixels of text in the TinyGo font.
func LineWidth(text string) int {
	_, outbox := tinyfont.LineWidth(TinyFont, text)
	return int(outbox)
}
