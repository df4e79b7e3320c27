package mocks

import (
	"image"
	"sync"

	"github.com/user/stillcam/pkg/ports"
)

// Viewer is a mock implementation of ports.Viewer.
type Viewer struct {
	ShowFunc func(img image.Image)

	mu       sync.Mutex
	Shown    []image.Image
	done     chan struct{}
	doneOnce sync.Once
}

// NewViewer creates a mock viewer with an open Done channel.
func NewViewer() *Viewer {
	return &Viewer{done: make(chan struct{})}
}

func (m *Viewer) Show(img image.Image) {
	m.mu.Lock()
	m.Shown = append(m.Shown, img)
	m.mu.Unlock()
	if m.ShowFunc != nil {
		m.ShowFunc(img)
	}
}

func (m *Viewer) Done() <-chan struct{} {
	return m.done
}

func (m *Viewer) Run() {
	<-m.done
}

// Close simulates the user quitting the window.
func (m *Viewer) Close() {
	m.doneOnce.Do(func() { close(m.done) })
}

// ShownCount returns the number of frames shown so far.
func (m *Viewer) ShownCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Shown)
}

// Ensure Viewer implements ports.Viewer
var _ ports.Viewer = (*Viewer)(nil)
