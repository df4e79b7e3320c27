package live

import (
	"context"
	"time"
)

// minTargetFPS guards against a zero or negative rate turning the pacer
// into a busy loop or an infinite period.
const minTargetFPS = 0.1

// Pacer schedules fetch attempts at a fixed period using absolute due
// times. Due times accumulate from the previous due time, not from the
// actual fetch completion, so jitter in fetch latency does not drift the
// rate. When a fetch runs long the next attempt fires immediately and the
// schedule re-anchors, so a stall never produces a catch-up burst above the
// target rate.
type Pacer struct {
	period time.Duration
	next   time.Time
}

// NewPacer creates a Pacer for the given target rate in fetches per second.
func NewPacer(targetFPS float64) *Pacer {
	if targetFPS < minTargetFPS {
		targetFPS = minTargetFPS
	}
	return &Pacer{period: time.Duration(float64(time.Second) / targetFPS)}
}

// Period returns the pacing period.
func (p *Pacer) Period() time.Duration {
	return p.period
}

// Wait blocks until the next due time, then advances the schedule.
// It returns false if the context was cancelled while waiting.
func (p *Pacer) Wait(ctx context.Context) bool {
	now := time.Now()
	if p.next.IsZero() {
		p.next = now
	}
	if d := p.next.Sub(now); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}
	p.next = p.next.Add(p.period)
	if now := time.Now(); p.next.Before(now) {
		// Re-anchor so a stall yields one immediate attempt, not a burst.
		p.next = now.Add(p.period)
	}
	return true
}

// Default backoff tuning: grows by 50ms per consecutive failure up to half
// a second, so a camera blip never turns into a request hammer.
const (
	DefaultBackoffStep = 50 * time.Millisecond
	DefaultBackoffMax  = 500 * time.Millisecond
)

// Backoff is the additive, capped retry delay inserted after failed
// fetches. A single success resets it to zero.
type Backoff struct {
	delay time.Duration
	step  time.Duration
	max   time.Duration
}

// NewBackoff creates a Backoff with the given increment and cap.
func NewBackoff(step, max time.Duration) *Backoff {
	return &Backoff{step: step, max: max}
}

// next grows the delay by one step, capped, and returns the new delay.
func (b *Backoff) next() time.Duration {
	b.delay += b.step
	if b.delay > b.max {
		b.delay = b.max
	}
	return b.delay
}

// Current returns the delay the next Sleep will use as its base.
func (b *Backoff) Current() time.Duration {
	return b.delay
}

// Reset clears the delay after a successful fetch.
func (b *Backoff) Reset() {
	b.delay = 0
}

// Sleep grows the delay and waits it out. It returns false if the context
// was cancelled while sleeping.
func (b *Backoff) Sleep(ctx context.Context) bool {
	d := b.next()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
