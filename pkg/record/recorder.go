// Package record implements the fixed-cadence recorder: a single-threaded
// loop that writes exactly round(fps*seconds) frames at a strict frame
// interval, substituting the last good frame whenever a fetch fails so
// output timing is independent of fetch outcome.
package record

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/user/stillcam/pkg/ports"
)

// Input configures one recording session.
type Input struct {
	// OutputPath is the video file to create.
	OutputPath string

	// FPS is the nominal output frame rate.
	FPS float64

	// Duration is the capture length; the session writes
	// round(FPS * Duration.Seconds()) frames.
	Duration time.Duration

	// Width/Height force a fixed output size. Zero means the first
	// frame's native dimensions.
	Width  int
	Height int
}

// Result reports what a session wrote.
type Result struct {
	FramesWritten int
	FetchFailures int
	FrozenFrames  int
	Width         int
	Height        int
	Elapsed       time.Duration
}

// Recorder runs recording sessions. Fetch, write and sleep happen on one
// control flow: the freeze decision for tick i needs tick i's fetch outcome,
// and output order must match tick order.
type Recorder struct {
	source   ports.FrameSource
	sink     ports.VideoSink
	renderer ports.FrameRenderer
	logger   ports.Logger
}

// New creates a Recorder.
func New(source ports.FrameSource, sink ports.VideoSink, renderer ports.FrameRenderer, logger ports.Logger) *Recorder {
	return &Recorder{
		source:   source,
		sink:     sink,
		renderer: renderer,
		logger:   logger.WithComponent("recorder"),
	}
}

// Run executes one session. The first fetch must succeed before the sink is
// opened; if it fails, no output file is created and the session aborts.
// After that, fetch failures freeze the last good frame and the session
// always runs to the full frame count.
func (r *Recorder) Run(ctx context.Context, input Input) (Result, error) {
	result := Result{}

	total := int(math.Round(input.FPS * input.Duration.Seconds()))
	if input.FPS <= 0 || total < 1 {
		return result, fmt.Errorf("fps %.3f and duration %s yield no frames", input.FPS, input.Duration)
	}
	interval := time.Duration(float64(time.Second) / input.FPS)

	r.logger.Info("Fetching first frame")
	first, err := r.source.Fetch(ctx)
	if err != nil {
		return result, fmt.Errorf("first fetch: %w", err)
	}

	// The first frame fixes the output dimensions for the whole session.
	if input.Width > 0 && input.Height > 0 {
		result.Width = input.Width
		result.Height = input.Height
	} else {
		bounds := first.Bounds()
		result.Width = bounds.Dx()
		result.Height = bounds.Dy()
	}
	first = r.conform(first, result.Width, result.Height)

	if err := r.sink.Open(input.OutputPath, result.Width, result.Height, input.FPS); err != nil {
		return result, fmt.Errorf("open sink: %w", err)
	}

	r.logger.Info("Writing %d frames at %.3f fps (%dx%d) to %s",
		total, input.FPS, result.Width, result.Height, input.OutputPath)

	start := time.Now()
	next := start
	lastGood := first

	// Frame 0 goes out immediately so the video starts without a stall.
	if err := r.sink.Append(first); err != nil {
		r.sink.Close()
		return result, fmt.Errorf("append frame 0: %w", err)
	}
	result.FramesWritten = 1

	for i := 1; i < total; i++ {
		// Fixed-step accumulation from session start. Slow ticks eat
		// into the following sleep instead of shifting the schedule.
		next = next.Add(interval)

		img, err := r.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				r.sink.Close()
				result.Elapsed = time.Since(start)
				return result, ctx.Err()
			}
			result.FetchFailures++
			result.FrozenFrames++
			r.logger.Debug("[%05d] fetch failed, repeating last frame", i)
			img = lastGood
		} else {
			img = r.conform(img, result.Width, result.Height)
			lastGood = img
			r.logger.Debug("[%05d] ok @ t=%.3fs", i, time.Since(start).Seconds())
		}

		if err := r.sink.Append(img); err != nil {
			r.sink.Close()
			result.Elapsed = time.Since(start)
			return result, fmt.Errorf("append frame %d: %w", i, err)
		}
		result.FramesWritten++

		// Sleep to the tick boundary; when already past due, proceed
		// immediately (the schedule may run behind, never ahead).
		if d := time.Until(next); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				r.sink.Close()
				result.Elapsed = time.Since(start)
				return result, ctx.Err()
			case <-timer.C:
			}
		}
	}

	if err := r.sink.Close(); err != nil {
		return result, fmt.Errorf("close sink: %w", err)
	}
	result.Elapsed = time.Since(start)

	r.logger.Info("Wrote %d frames in %.2fs (%d failed fetches frozen over)",
		result.FramesWritten, result.Elapsed.Seconds(), result.FetchFailures)
	return result, nil
}

// conform resizes img to the session's fixed output size if needed.
func (r *Recorder) conform(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return img
	}
	return r.renderer.Resize(img, width, height)
}
