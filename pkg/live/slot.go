// Package live implements the low-latency live pipeline: a paced background
// fetch loop that publishes into a single-slot latest-wins buffer, and a
// foreground session loop that drains the buffer into the viewer.
package live

import (
	"image"
	"sync"
	"time"
)

// Slot is a single-capacity, latest-wins frame buffer.
//
// Put always replaces the current occupant and never blocks; Take waits at
// most the given timeout. There is no history: a frame overwritten before it
// was consumed is gone, which is exactly what a live viewer wants.
type Slot struct {
	mu     sync.Mutex
	img    image.Image
	drops  uint64
	notify chan struct{}
}

// NewSlot creates an empty Slot.
func NewSlot() *Slot {
	return &Slot{notify: make(chan struct{}, 1)}
}

// Put publishes a frame, discarding any unconsumed occupant.
func (s *Slot) Put(img image.Image) {
	s.mu.Lock()
	if s.img != nil {
		s.drops++
	}
	s.img = img
	s.mu.Unlock()

	// Wake one waiting Take. The buffered channel keeps this non-blocking
	// when no consumer is waiting.
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Take removes and returns the current occupant, waiting up to timeout for
// one to arrive. The second return is false if the slot stayed empty.
func (s *Slot) Take(timeout time.Duration) (image.Image, bool) {
	if img, ok := s.take(); ok {
		return img, true
	}
	if timeout <= 0 {
		return nil, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case <-s.notify:
			// A stale wakeup is possible when a previous Take already
			// consumed the frame; re-check and keep waiting.
			if img, ok := s.take(); ok {
				return img, true
			}
		case <-timer.C:
			return nil, false
		}
	}
}

func (s *Slot) take() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil, false
	}
	img := s.img
	s.img = nil
	return img, true
}

// Drops returns the lifetime count of frames overwritten before consumption.
func (s *Slot) Drops() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drops
}
