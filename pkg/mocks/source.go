// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"image"
	"sync"

	"github.com/user/stillcam/pkg/ports"
)

// FetchResult is one scripted outcome for FrameSource.Fetch.
type FetchResult struct {
	Img image.Image
	Err error
}

// FrameSource is a mock implementation of ports.FrameSource. Fetch walks
// through Results in order, repeating the last entry when exhausted.
type FrameSource struct {
	FetchFunc func(ctx context.Context) (image.Image, error)
	Results   []FetchResult

	mu         sync.Mutex
	FetchCalls int
}

func (m *FrameSource) Fetch(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	idx := m.FetchCalls
	m.FetchCalls++
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx)
	}
	if len(m.Results) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}
	if idx >= len(m.Results) {
		idx = len(m.Results) - 1
	}
	r := m.Results[idx]
	return r.Img, r.Err
}

// Calls returns the number of Fetch invocations so far.
func (m *FrameSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.FetchCalls
}

// Ensure FrameSource implements ports.FrameSource
var _ ports.FrameSource = (*FrameSource)(nil)
