package mocks

import (
	"image"

	"github.com/user/stillcam/pkg/ports"
)

// VideoSink is a mock implementation of ports.VideoSink.
type VideoSink struct {
	OpenFunc   func(path string, width, height int, fps float64) error
	AppendFunc func(img image.Image) error
	CloseFunc  func() error

	// Recorded calls for verification
	OpenCalled  bool
	OpenPath    string
	OpenWidth   int
	OpenHeight  int
	OpenFPS     float64
	Appended    []image.Image
	CloseCalled bool
}

func (m *VideoSink) Open(path string, width, height int, fps float64) error {
	m.OpenCalled = true
	m.OpenPath = path
	m.OpenWidth = width
	m.OpenHeight = height
	m.OpenFPS = fps
	if m.OpenFunc != nil {
		return m.OpenFunc(path, width, height, fps)
	}
	return nil
}

func (m *VideoSink) Append(img image.Image) error {
	m.Appended = append(m.Appended, img)
	if m.AppendFunc != nil {
		return m.AppendFunc(img)
	}
	return nil
}

func (m *VideoSink) Close() error {
	m.CloseCalled = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Ensure VideoSink implements ports.VideoSink
var _ ports.VideoSink = (*VideoSink)(nil)
