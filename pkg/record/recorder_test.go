package record

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/user/stillcam/pkg/adapters/logger"
	"github.com/user/stillcam/pkg/mocks"
	"github.com/user/stillcam/pkg/ports"
)

func frame(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestRecorder_ExactFrameCount(t *testing.T) {
	source := &mocks.FrameSource{}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	res, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        50,
		Duration:   200 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// round(50 * 0.2) = 10
	if res.FramesWritten != 10 {
		t.Errorf("expected 10 frames, got %d", res.FramesWritten)
	}
	if len(sink.Appended) != 10 {
		t.Errorf("expected 10 appends, got %d", len(sink.Appended))
	}
	if !sink.CloseCalled {
		t.Error("expected sink to be closed")
	}
}

func TestRecorder_FrameCountRounds(t *testing.T) {
	source := &mocks.FrameSource{}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	// round(30 * 0.25) = round(7.5) = 8
	res, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        30,
		Duration:   250 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.FramesWritten != 8 {
		t.Errorf("expected 8 frames, got %d", res.FramesWritten)
	}
}

func TestRecorder_ZeroFramesRejected(t *testing.T) {
	source := &mocks.FrameSource{}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	_, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        1,
		Duration:   100 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error for a zero-frame session")
	}
	if sink.OpenCalled {
		t.Error("sink must not be opened for a zero-frame session")
	}
}

func TestRecorder_FirstFetchPrecondition(t *testing.T) {
	source := &mocks.FrameSource{
		Results: []mocks.FetchResult{
			{Err: &ports.FetchError{Kind: ports.FetchTimeout}},
		},
	}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	_, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        10,
		Duration:   time.Second,
	})
	if err == nil {
		t.Fatal("expected error when the first fetch fails")
	}
	if sink.OpenCalled {
		t.Error("sink must not be opened when the first fetch fails")
	}
	if len(sink.Appended) != 0 {
		t.Error("no frames must be written when the first fetch fails")
	}
}

func TestRecorder_FreezesOnFailure(t *testing.T) {
	a := frame(4, 4)
	b := frame(4, 4)
	source := &mocks.FrameSource{
		Results: []mocks.FetchResult{
			{Img: a},
			{Err: &ports.FetchError{Kind: ports.FetchTimeout}},
			{Err: &ports.FetchError{Kind: ports.FetchNetwork}},
			{Img: b},
		},
	}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	res, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        40,
		Duration:   100 * time.Millisecond, // 4 frames
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if res.FramesWritten != 4 {
		t.Fatalf("expected 4 frames, got %d", res.FramesWritten)
	}
	if res.FetchFailures != 2 || res.FrozenFrames != 2 {
		t.Errorf("expected 2 failures frozen, got %d/%d", res.FetchFailures, res.FrozenFrames)
	}

	// Output sequence: A, A (frozen), A (frozen), B
	want := []image.Image{a, a, a, b}
	for i, w := range want {
		if sink.Appended[i] != w {
			t.Errorf("frame %d: wrong image in sequence", i)
		}
	}
}

func TestRecorder_FixedCadenceElapsed(t *testing.T) {
	source := &mocks.FrameSource{}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	start := time.Now()
	res, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        20,
		Duration:   500 * time.Millisecond, // 10 frames, 9 intervals
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	elapsed := time.Since(start)

	// 9 sleeps of 50ms: the wall clock must land near 450ms, never far
	// under (cadence is real time, not best effort).
	if elapsed < 400*time.Millisecond {
		t.Errorf("session finished too fast: %v", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Errorf("session ran far too long: %v", elapsed)
	}
	if res.FramesWritten != 10 {
		t.Errorf("expected 10 frames, got %d", res.FramesWritten)
	}
}

func TestRecorder_DimensionsFromFirstFrame(t *testing.T) {
	source := &mocks.FrameSource{
		Results: []mocks.FetchResult{{Img: frame(640, 480)}},
	}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	res, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        30,
		Duration:   100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sink.OpenWidth != 640 || sink.OpenHeight != 480 {
		t.Errorf("expected sink opened at 640x480, got %dx%d", sink.OpenWidth, sink.OpenHeight)
	}
	if res.Width != 640 || res.Height != 480 {
		t.Errorf("expected result 640x480, got %dx%d", res.Width, res.Height)
	}
}

func TestRecorder_ResizesToForcedDimensions(t *testing.T) {
	source := &mocks.FrameSource{
		Results: []mocks.FetchResult{{Img: frame(640, 480)}},
	}
	sink := &mocks.VideoSink{}
	renderer := &mocks.FrameRenderer{
		ResizeFunc: func(img image.Image, w, h int) image.Image {
			return frame(w, h)
		},
	}
	rec := New(source, sink, renderer, logger.NewNoop())

	_, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        30,
		Duration:   100 * time.Millisecond,
		Width:      320,
		Height:     240,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sink.OpenWidth != 320 || sink.OpenHeight != 240 {
		t.Errorf("expected sink opened at 320x240, got %dx%d", sink.OpenWidth, sink.OpenHeight)
	}
	if renderer.ResizeCalls == 0 {
		t.Error("expected frames to be resized")
	}
}

func TestRecorder_AppendErrorAborts(t *testing.T) {
	source := &mocks.FrameSource{}
	sink := &mocks.VideoSink{
		AppendFunc: func(img image.Image) error {
			return errors.New("disk full")
		},
	}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	_, err := rec.Run(context.Background(), Input{
		OutputPath: "out.avi",
		FPS:        10,
		Duration:   time.Second,
	})
	if err == nil {
		t.Fatal("expected append error to abort the session")
	}
	if !sink.CloseCalled {
		t.Error("sink must be closed on abort")
	}
}

func TestRecorder_CancelStopsSession(t *testing.T) {
	source := &mocks.FrameSource{}
	sink := &mocks.VideoSink{}
	rec := New(source, sink, &mocks.FrameRenderer{}, logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := rec.Run(ctx, Input{
		OutputPath: "out.avi",
		FPS:        2,
		Duration:   time.Minute,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancel did not stop the session promptly")
	}
	if !sink.CloseCalled {
		t.Error("sink must be closed on cancel")
	}
}
