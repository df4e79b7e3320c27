// Package mjpegsink implements ports.VideoSink as a Motion-JPEG AVI file.
// Every appended frame is JPEG-encoded and written through icza/mjpeg, so
// the output plays everywhere without native encoder dependencies.
package mjpegsink

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/icza/mjpeg"

	"github.com/user/stillcam/pkg/ports"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 80

// Sink writes an MJPEG AVI file.
type Sink struct {
	aw      mjpeg.AviWriter
	width   int
	height  int
	quality int
	closed  bool
}

// New creates a Sink encoding frames at the given JPEG quality (1-100).
func New(quality int) *Sink {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Sink{quality: quality}
}

// Open creates the AVI file. The AVI header carries an integer frame rate,
// so fps is rounded; the recorder's cadence is what actually spaces frames.
func (s *Sink) Open(path string, width, height int, fps float64) error {
	if s.aw != nil {
		return fmt.Errorf("sink already open")
	}
	rate := int32(math.Round(fps))
	if rate < 1 {
		rate = 1
	}
	aw, err := mjpeg.New(path, int32(width), int32(height), rate)
	if err != nil {
		return fmt.Errorf("create avi %s: %w", path, err)
	}
	s.aw = aw
	s.width = width
	s.height = height
	return nil
}

// Append encodes and writes the next frame. Frames of a size other than
// the open-time dimensions are rejected.
func (s *Sink) Append(img image.Image) error {
	if s.aw == nil || s.closed {
		return fmt.Errorf("sink not open")
	}
	bounds := img.Bounds()
	if bounds.Dx() != s.width || bounds.Dy() != s.height {
		return fmt.Errorf("frame is %dx%d, sink expects %dx%d",
			bounds.Dx(), bounds.Dy(), s.width, s.height)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: s.quality}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := s.aw.AddFrame(buf.Bytes()); err != nil {
		return fmt.Errorf("add frame: %w", err)
	}
	return nil
}

// Close finalizes the AVI index and closes the file.
func (s *Sink) Close() error {
	if s.aw == nil || s.closed {
		return nil
	}
	s.closed = true
	if err := s.aw.Close(); err != nil {
		return fmt.Errorf("close avi: %w", err)
	}
	return nil
}

// Ensure Sink implements ports.VideoSink
var _ ports.VideoSink = (*Sink)(nil)
