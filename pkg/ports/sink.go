package ports

import (
	"image"
)

// VideoSink abstracts an append-only, fixed-dimension video output.
//
// Open configures the container once with the output dimensions and the
// nominal frame rate; every Append must carry an image of exactly that size.
// Timing is implicit: frame i plays at i/fps, so the caller is responsible
// for appending at the cadence it wants the video to represent.
type VideoSink interface {
	// Open creates the output file. Must be called exactly once.
	Open(path string, width, height int, fps float64) error

	// Append writes the next frame. Images of a different size are rejected.
	Append(img image.Image) error

	// Close flushes and finalizes the container.
	Close() error
}
