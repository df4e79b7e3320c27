package ports

import (
	"image"
)

// FrameRenderer abstracts the pixel work done on frames between fetch and
// output: scaling and the optional FPS annotation.
type FrameRenderer interface {
	// Resize scales an image to exactly width x height.
	Resize(img image.Image, width, height int) image.Image

	// ResizeToWidth scales an image to the given width, preserving aspect
	// ratio. Images already at or below that width are returned unchanged.
	ResizeToWidth(img image.Image, width int) image.Image

	// AnnotateFPS draws a frame-rate readout onto a copy of the image.
	AnnotateFPS(img image.Image, fps float64) image.Image
}
