// Package summarizer provides summary generation for capture sessions.
package summarizer

import "time"

// Summary contains all data collected during a recording session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Camera source information
	Source SourceInfo

	// Recording settings
	Settings Settings

	// Capture results
	Capture CaptureInfo

	// Video output details
	Video VideoInfo
}

// SourceInfo identifies the capture endpoint.
type SourceInfo struct {
	URL string
}

// Settings contains the recording configuration.
type Settings struct {
	FPS        float64
	Seconds    float64
	Codec      string
	TimeoutSec float64
	Resize     string // "WxH" or empty for native size
}

// CaptureInfo contains the per-session fetch and timing counters.
type CaptureInfo struct {
	FramesWritten int
	FetchFailures int
	FrozenFrames  int
	ElapsedMs     int
}

// VideoInfo contains information about the output video.
type VideoInfo struct {
	Path     string
	Width    int
	Height   int
	FileSize int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets the capture endpoint.
func (b *Builder) WithSource(url string) *Builder {
	b.summary.Source = SourceInfo{URL: url}
	return b
}

// WithSettings sets the recording settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithCapture sets the capture counters.
func (b *Builder) WithCapture(capture CaptureInfo) *Builder {
	b.summary.Capture = capture
	return b
}

// WithVideo sets the video output information.
func (b *Builder) WithVideo(video VideoInfo) *Builder {
	b.summary.Video = video
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
