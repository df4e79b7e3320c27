package live

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/user/stillcam/pkg/ports"
)

// Poller owns the background fetch loop. It paces fetches to a target
// rate, publishes every successfully decoded frame into a latest-wins
// slot, and absorbs failures with an additive backoff. Failures never
// reach the consumer; only context cancellation stops the loop.
type Poller struct {
	source  ports.FrameSource
	slot    *Slot
	pacer   *Pacer
	backoff *Backoff
	logger  ports.Logger
	done    chan struct{}
}

// NewPoller creates a Poller fetching from source at targetFPS.
func NewPoller(source ports.FrameSource, targetFPS float64, logger ports.Logger) *Poller {
	return &Poller{
		source:  source,
		slot:    NewSlot(),
		pacer:   NewPacer(targetFPS),
		backoff: NewBackoff(DefaultBackoffStep, DefaultBackoffMax),
		logger:  logger.WithComponent("poller"),
		done:    make(chan struct{}),
	}
}

// Start launches the fetch loop. The loop exits at its next wait point
// after ctx is cancelled; Done reports the exit.
func (p *Poller) Start(ctx context.Context) {
	go p.loop(ctx)
}

// Poll takes the newest published frame, waiting up to timeout. An empty
// result is routine (no new frame in the window), never an error.
func (p *Poller) Poll(timeout time.Duration) (image.Image, bool) {
	return p.slot.Take(timeout)
}

// Done returns a channel closed when the fetch loop has exited.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// Drops returns how many published frames were overwritten unseen.
func (p *Poller) Drops() uint64 {
	return p.slot.Drops()
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)
	for {
		if !p.pacer.Wait(ctx) {
			return
		}

		img, err := p.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var fe *ports.FetchError
			if errors.As(err, &fe) {
				p.logger.Debug("Fetch failed (%s), backing off", fe.Kind)
			} else {
				p.logger.Debug("Fetch failed: %s", err)
			}
			// The slot keeps its stale frame so the viewer can go on
			// showing the last good image.
			if !p.backoff.Sleep(ctx) {
				return
			}
			continue
		}

		p.backoff.Reset()
		p.slot.Put(img)
	}
}
