package render

import (
	"image"
	"image/color"
	"testing"
)

func newWhite(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name string
		draw func(*image.Gray)
		want int
		dark []image.Point
	}{
		{"point", func(img *image.Gray) { Line(img, image.Pt(2, 2), image.Pt(2, 2), color.Black) }, 1, []image.Point{{2, 2}}},
		{"diagonal", func(img *image.Gray) { Line(img, image.Pt(3, 3), image.Pt(0, 0), color.Black) }, 4, []image.Point{{0, 0}, {1, 1}, {3, 3}}},
		{"shallow", func(img *image.Gray) { Line(img, image.Pt(0, 0), image.Pt(4, 1), color.Black) }, 5, []image.Point{{0, 0}, {4, 1}}},
		{"steep", func(img *image.Gray) { Line(img, image.Pt(1, 5), image.Pt(0, 0), color.Black) }, 6, []image.Point{{0, 0}, {1, 5}}},
		{"horizontal", func(img *image.Gray) { HorizontalLine(img, 1, 1, 5, color.Black) }, 5, []image.Point{{1, 1}, {5, 1}}},
		{"vertical", func(img *image.Gray) { VerticalLine(img, 1, 1, 3, color.Black) }, 3, []image.Point{{1, 1}, {1, 3}}},
		{"rectangle", func(img *image.Gray) { Rectangle(img, image.Rect(0, 0, 4, 3), color.Black) }, 10, []image.Point{{0, 0}, {3, 2}, {3, 0}}},
		{"box", func(img *image.Gray) { Box(img, image.Rect(1, 1, 5, 4), color.Black) }, 12, []image.Point{{1, 1}, {4, 3}}},
		{"rounded box", func(img *image.Gray) { RoundedBox(img, image.Rect(0, 0, 8, 8), 2, color.Black) }, 64 - 4, []image.Point{{4, 4}, {0, 3}}},
		{"rounded rectangle", func(img *image.Gray) { RoundedRectangle(img, image.Rect(0, 0, 8, 8), 0, color.Black) }, 28, []image.Point{{0, 0}, {7, 7}}},
		{"circle", func(img *image.Gray) { Circle(img, image.Pt(5, 5), 0, color.Black) }, 1, []image.Point{{5, 5}}},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			img := newWhite(12, 12)
			test.draw(img)
			if n := countDark(img); n != test.want {
				it.Errorf("expected %d pixels, got %d", test.want, n)
			}
			for _, p := range test.dark {
				if img.GrayAt(p.X, p.Y).Y != 0 {
					it.Errorf("expected pixel at %s", p)
				}
			}
		})
	}
}

func TestCircleSymmetric(t *testing.T) {
	img := newWhite(21, 21)
	Circle(img, image.Pt(10, 10), 6, color.Black)
	for _, p := range []image.Point{{16, 10}, {4, 10}, {10, 16}, {10, 4}} {
		if img.GrayAt(p.X, p.Y).Y != 0 {
			t.Errorf("expected pixel at %s", p)
		}
	}
	if img.GrayAt(10, 10).Y == 0 {
		t.Error("expected the center to be empty")
	}
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			if img.GrayAt(x, y) != img.GrayAt(20-x, y) || img.GrayAt(x, y) != img.GrayAt(x, 20-y) {
				t.Fatalf("expected a symmetric circle, differs at (%d,%d)", x, y)
			}
		}
	}
}
