package ports

import (
	"image"
)

// Viewer abstracts the on-screen display window.
//
// Run blocks on the window event loop and must be called from the main
// goroutine (GUI toolkits require it). Show may be called from any
// goroutine. Done is closed when the user asks to quit (key press or
// window close), which is the only way a live session ends besides
// context cancellation.
type Viewer interface {
	// Show displays the frame, replacing the previous one.
	Show(img image.Image)

	// Done returns a channel closed on quit request.
	Done() <-chan struct{}

	// Run runs the window event loop until Close or a quit request.
	Run()

	// Close tears the window down and unblocks Run.
	Close()
}
