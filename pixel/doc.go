// Package pixel implements the pixel formats and the screen-shaped frame buffer used by panel drivers.
//
// The [FrameBuffer] is compatible with Go's native [image.Image] / [draw.Image] interfaces, so it can
// be inspected and painted with the standard library as well as written to by the tile composer.
package pixel
