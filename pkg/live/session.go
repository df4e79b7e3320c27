package live

import (
	"context"
	"time"

	"github.com/user/stillcam/pkg/ports"
)

// DefaultPollTimeout bounds how long the session loop waits for a new
// frame before re-checking for a quit request.
const DefaultPollTimeout = 200 * time.Millisecond

// SessionOptions configures the foreground viewer loop.
type SessionOptions struct {
	// ResizeWidth downscales frames to this width before display
	// (0 = show at native size).
	ResizeWidth int

	// ShowFPS draws a display-rate readout onto each frame.
	ShowFPS bool

	// PollTimeout is the bounded wait per slot poll. Zero selects
	// DefaultPollTimeout.
	PollTimeout time.Duration
}

// Session is the foreground half of the live pipeline. It drains the
// poller's slot at its own cadence and hands frames to the viewer. The
// two halves share nothing but the slot.
type Session struct {
	poller   *Poller
	viewer   ports.Viewer
	renderer ports.FrameRenderer
	logger   ports.Logger
	opts     SessionOptions
}

// NewSession creates a viewer session consuming from poller.
func NewSession(poller *Poller, viewer ports.Viewer, renderer ports.FrameRenderer, logger ports.Logger, opts SessionOptions) *Session {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	return &Session{
		poller:   poller,
		viewer:   viewer,
		renderer: renderer,
		logger:   logger.WithComponent("session"),
		opts:     opts,
	}
}

// Run consumes frames until the viewer requests quit or ctx is cancelled.
// Empty polls are tolerated indefinitely: a stalled camera leaves the last
// shown frame on screen.
func (s *Session) Run(ctx context.Context) {
	var ema float64
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.viewer.Done():
			s.logger.Debug("Quit requested")
			return
		default:
		}

		img, ok := s.poller.Poll(s.opts.PollTimeout)
		if !ok {
			continue
		}

		if s.opts.ResizeWidth > 0 {
			img = s.renderer.ResizeToWidth(img, s.opts.ResizeWidth)
		}

		if s.opts.ShowFPS {
			now := time.Now()
			dt := now.Sub(last).Seconds()
			if dt < 1e-6 {
				dt = 1e-6
			}
			inst := 1.0 / dt
			if ema == 0 {
				ema = inst
			} else {
				ema = 0.9*ema + 0.1*inst
			}
			last = now
			img = s.renderer.AnnotateFPS(img, ema)
		}

		s.viewer.Show(img)
	}
}
