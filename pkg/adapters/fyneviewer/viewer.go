// Package fyneviewer implements ports.Viewer as a Fyne desktop window.
package fyneviewer

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"

	"github.com/user/stillcam/pkg/ports"
)

// Viewer shows frames in a resizable window. Show may be called from any
// goroutine; Run must be called from the main goroutine and blocks until
// the window closes.
type Viewer struct {
	app    fyne.App
	window fyne.Window
	img    *canvas.Image

	done     chan struct{}
	doneOnce sync.Once
}

// New creates the window. Esc or q closes it, as does the window's close
// button.
func New(title string, width, height int) *Viewer {
	a := app.New()
	w := a.NewWindow(title)

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleFastest

	v := &Viewer{
		app:    a,
		window: w,
		img:    img,
		done:   make(chan struct{}),
	}

	w.SetContent(img)
	w.Resize(fyne.NewSize(float32(width), float32(height)))

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyEscape, fyne.KeyQ:
			v.Close()
		}
	})
	w.SetOnClosed(func() {
		v.doneOnce.Do(func() { close(v.done) })
	})

	return v
}

// Show replaces the displayed frame.
func (v *Viewer) Show(img image.Image) {
	select {
	case <-v.done:
		return
	default:
	}
	v.img.Image = img
	v.img.Refresh()
}

// Done is closed when the user quits the window.
func (v *Viewer) Done() <-chan struct{} {
	return v.done
}

// Run shows the window and runs the event loop. It blocks until Close.
func (v *Viewer) Run() {
	v.window.ShowAndRun()
}

// Close signals Done and tears down the event loop. Safe to call more
// than once and from any goroutine.
func (v *Viewer) Close() {
	v.doneOnce.Do(func() { close(v.done) })
	v.app.Quit()
}

// Ensure Viewer implements ports.Viewer
var _ ports.Viewer = (*Viewer)(nil)
