package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Line draws a line between two points, both included.
func Line(dst draw.Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws w pixels to the right of (x, y).
func HorizontalLine(dst draw.Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws h pixels down from (x, y).
func VerticalLine(dst draw.Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the outline of rect.
func Rectangle(dst draw.Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// Box draws a filled rectangle.
func Box(dst draw.Image, rect image.Rectangle, c color.Color) {
	draw.Draw(dst, rect.Canon(), image.NewUniform(c), image.Point{}, draw.Src)
}

// RoundedRectangle draws the outline of rect with corners of the given radius.
func RoundedRectangle(dst draw.Image, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	r := clampRadius(rect, radius)
	if r == 0 {
		Rectangle(dst, rect, c)
		return
	}

	var (
		x0, y0 = rect.Min.X, rect.Min.Y
		x1, y1 = rect.Max.X - 1, rect.Max.Y - 1
	)
	HorizontalLine(dst, x0+r, y0, rect.Dx()-2*r, c)
	HorizontalLine(dst, x0+r, y1, rect.Dx()-2*r, c)
	VerticalLine(dst, x0, y0+r, rect.Dy()-2*r, c)
	VerticalLine(dst, x1, y0+r, rect.Dy()-2*r, c)
	arc(r, func(dx, dy int) {
		dst.Set(x0+r-dx, y0+r-dy, c)
		dst.Set(x1-r+dx, y0+r-dy, c)
		dst.Set(x0+r-dx, y1-r+dy, c)
		dst.Set(x1-r+dx, y1-r+dy, c)
	})
}

// RoundedBox draws a filled rectangle with corners of the given radius.
func RoundedBox(dst draw.Image, rect image.Rectangle, radius int, c color.Color) {
	rect = rect.Canon()
	r := clampRadius(rect, radius)
	if r == 0 {
		Box(dst, rect, c)
		return
	}

	var (
		x0, y0 = rect.Min.X, rect.Min.Y
		x1, y1 = rect.Max.X - 1, rect.Max.Y - 1
	)
	Box(dst, image.Rect(x0, y0+r, x1+1, y1-r+1), c)
	arc(r, func(dx, dy int) {
		HorizontalLine(dst, x0+r-dx, y0+r-dy, x1-x0-2*r+2*dx+1, c)
		HorizontalLine(dst, x0+r-dx, y1-r+dy, x1-x0-2*r+2*dx+1, c)
	})
}

// Circle draws the outline of a circle.
func Circle(dst draw.Image, center image.Point, radius int, c color.Color) {
	if radius <= 0 {
		dst.Set(center.X, center.Y, c)
		return
	}
	arc(radius, func(dx, dy int) {
		dst.Set(center.X+dx, center.Y+dy, c)
		dst.Set(center.X-dx, center.Y+dy, c)
		dst.Set(center.X+dx, center.Y-dy, c)
		dst.Set(center.X-dx, center.Y-dy, c)
	})
}

func clampRadius(rect image.Rectangle, radius int) int {
	return max(0, min(radius, (rect.Dx()-1)/2, (rect.Dy()-1)/2))
}

// arc calls plot for every point (dx, dy) of a quarter circle, using the midpoint algorithm.
func arc(radius int, plot func(dx, dy int)) {
	var (
		x = radius
		y = 0
		f = 1 - radius
	)
	for y <= x {
		plot(x, y)
		plot(y, x)
		y++
		if f < 0 {
			f += 2*y + 1
		} else {
			x--
			f += 2*(y-x) + 1
		}
	}
}

// bresenham draws a line in any direction using integer arithmetic only.
func bresenham(dst draw.Image, x1, y1, x2, y2 int, c color.Color) {
	var (
		dx, sx = abs(x2 - x1), sign(x2 - x1)
		dy, sy = -abs(y2 - y1), sign(y2 - y1)
		e      = dx + dy
	)
	for {
		dst.Set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
