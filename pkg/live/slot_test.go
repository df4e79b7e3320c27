package live

import (
	"image"
	"sync"
	"testing"
	"time"
)

func frame(id int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, id+1, 1))
}

func TestSlot_TakeEmpty(t *testing.T) {
	s := NewSlot()

	img, ok := s.Take(0)
	if ok {
		t.Fatalf("expected empty slot, got %v", img)
	}
}

func TestSlot_PutThenTake(t *testing.T) {
	s := NewSlot()
	want := frame(0)

	s.Put(want)

	got, ok := s.Take(0)
	if !ok {
		t.Fatal("expected a frame")
	}
	if got != want {
		t.Errorf("expected the published frame, got %v", got)
	}

	// Slot is empty again after consumption
	if _, ok := s.Take(0); ok {
		t.Error("expected empty slot after take")
	}
}

func TestSlot_LatestWins(t *testing.T) {
	s := NewSlot()

	last := frame(0)
	for i := 0; i < 10; i++ {
		last = frame(i)
		s.Put(last)
	}

	got, ok := s.Take(0)
	if !ok {
		t.Fatal("expected a frame")
	}
	if got != last {
		t.Error("expected the newest frame to win")
	}
	if s.Drops() != 9 {
		t.Errorf("expected 9 drops, got %d", s.Drops())
	}
}

func TestSlot_TakeTimeoutIsBounded(t *testing.T) {
	s := NewSlot()

	start := time.Now()
	_, ok := s.Take(50 * time.Millisecond)
	elapsed := time.Since(start)

	if ok {
		t.Fatal("expected timeout on empty slot")
	}
	if elapsed < 40*time.Millisecond {
		t.Errorf("returned too early: %v", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("waited far beyond timeout: %v", elapsed)
	}
}

func TestSlot_TakeWakesOnPut(t *testing.T) {
	s := NewSlot()
	want := frame(0)

	var wg sync.WaitGroup
	wg.Add(1)
	var got image.Image
	var ok bool
	go func() {
		defer wg.Done()
		got, ok = s.Take(time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	s.Put(want)
	wg.Wait()

	if !ok || got != want {
		t.Errorf("expected waiting take to receive the frame")
	}
}

func TestSlot_PutNeverBlocks(t *testing.T) {
	s := NewSlot()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			s.Put(frame(i % 4))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Put blocked without a consumer")
	}
}
