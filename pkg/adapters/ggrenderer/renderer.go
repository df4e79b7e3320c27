// Package ggrenderer implements ports.FrameRenderer using the gg library
// for annotation and golang.org/x/image for scaling.
package ggrenderer

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/stillcam/pkg/ports"
)

// Renderer implements ports.FrameRenderer.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// Resize scales an image to exactly width x height. CatmullRom is the
// slow, good-looking kernel; this path runs once per recorder tick where
// quality matters more than speed.
func (r *Renderer) Resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// ResizeToWidth downscales to the given width preserving aspect ratio.
// Images already at or below that width pass through untouched. The live
// path calls this per displayed frame, so it uses the fast kernel.
func (r *Renderer) ResizeToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	if width <= 0 || bounds.Dx() <= width {
		return img
	}
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// AnnotateFPS draws a frame-rate readout in the top-left corner onto a
// copy of the image.
func (r *Renderer) AnnotateFPS(img image.Image, fps float64) image.Image {
	dc := gg.NewContextForImage(img)
	text := fmt.Sprintf("%.1f FPS", fps)
	// Shadow first so the readout stays legible on bright frames.
	dc.SetRGB(0, 0, 0)
	dc.DrawString(text, 11, 31)
	dc.SetRGB(0, 1, 0)
	dc.DrawString(text, 10, 30)
	return dc.Image()
}

// Ensure Renderer implements ports.FrameRenderer
var _ ports.FrameRenderer = (*Renderer)(nil)
