package tile

import (
	"errors"
	"image"
	"testing"

	"github.com/BeatGlow/panel/pixel"
)

func TestAreaRect(t *testing.T) {
	tests := []struct {
		area Area
		rect image.Rectangle
	}{
		{Area{0, 0, 0, 0}, image.Rect(0, 0, 1, 1)},
		{Area{2, 1, 5, 3}, image.Rect(2, 1, 6, 4)},
		{Area{-3, -2, -1, 0}, image.Rect(-3, -2, 0, 1)},
	}
	for _, test := range tests {
		t.Run(test.area.String(), func(it *testing.T) {
			if v := test.area.Rect(); v != test.rect {
				it.Errorf("expected %s, got %s", test.rect, v)
			}
			if v := AreaOf(test.rect); v != test.area {
				it.Errorf("expected %s back, got %s", test.area, v)
			}
			if v := test.area.Rect(); v.Dx() != test.area.Width() || v.Dy() != test.area.Height() {
				it.Errorf("expected %dx%d, got %dx%d", test.area.Width(), test.area.Height(), v.Dx(), v.Dy())
			}
		})
	}
}

func TestComposeColorOutside(t *testing.T) {
	fb, _ := pixel.NewFrameBuffer(pixel.RGB565, 4, 4)
	err := Compose(fb, uniform(Area{-3, -2, -1, 0}, pixel.RGB565, []byte{0xaa, 0xbb}), false)
	var bounds BoundsError
	if !errors.As(err, &bounds) {
		t.Fatalf("expected bounds error, got %v", err)
	}
	if bounds.Skipped != 9 {
		t.Errorf("expected 9 points skipped, got %d", bounds.Skipped)
	}
	for i, v := range fb.Pix {
		if v != 0 {
			t.Fatalf("expected an untouched frame, byte %d is %#02x", i, v)
		}
	}
}
