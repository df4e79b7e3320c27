package mocks

import (
	"image"

	"github.com/user/stillcam/pkg/ports"
)

// FrameRenderer is a mock implementation of ports.FrameRenderer. Without
// overrides every method passes the image through unchanged.
type FrameRenderer struct {
	ResizeFunc        func(img image.Image, width, height int) image.Image
	ResizeToWidthFunc func(img image.Image, width int) image.Image
	AnnotateFPSFunc   func(img image.Image, fps float64) image.Image

	// Recorded calls for verification
	ResizeCalls        int
	ResizeToWidthCalls []int
	AnnotatedFPS       []float64
}

func (m *FrameRenderer) Resize(img image.Image, width, height int) image.Image {
	m.ResizeCalls++
	if m.ResizeFunc != nil {
		return m.ResizeFunc(img, width, height)
	}
	return img
}

func (m *FrameRenderer) ResizeToWidth(img image.Image, width int) image.Image {
	m.ResizeToWidthCalls = append(m.ResizeToWidthCalls, width)
	if m.ResizeToWidthFunc != nil {
		return m.ResizeToWidthFunc(img, width)
	}
	return img
}

func (m *FrameRenderer) AnnotateFPS(img image.Image, fps float64) image.Image {
	m.AnnotatedFPS = append(m.AnnotatedFPS, fps)
	if m.AnnotateFPSFunc != nil {
		return m.AnnotateFPSFunc(img, fps)
	}
	return img
}

// Ensure FrameRenderer implements ports.FrameRenderer
var _ ports.FrameRenderer = (*FrameRenderer)(nil)
