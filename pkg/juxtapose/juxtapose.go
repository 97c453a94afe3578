// Package juxtapose places frames side by side so a reference frame and a
// streamed frame can be inspected together.
package juxtapose

import (
	"image"
	"image/color"
	"image/draw"
)

// Options configures the composition.
type Options struct {
	// Gap is the horizontal gap between panels in pixels.
	Gap int
	// Background fills the gap and any area not covered by a panel.
	Background color.Color
	// Highlight marks differing pixels in a diff mask.
	Highlight color.Color
	// WithMask appends a diff mask panel after the two frames.
	WithMask bool
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Gap:        4,
		Background: color.Black,
		Highlight:  color.RGBA{R: 255, A: 255},
		WithMask:   true,
	}
}

// Frames composes left and right side by side, each vertically centered.
// With opts.WithMask a third panel shows DiffMask(left, right).
func Frames(left, right image.Image, opts Options) *image.RGBA {
	panels := []image.Image{left, right}
	if opts.WithMask {
		panels = append(panels, DiffMask(left, right, opts.Highlight))
	}
	return Panels(panels, opts)
}

// Panels composes any number of images left to right.
func Panels(panels []image.Image, opts Options) *image.RGBA {
	width, height := 0, 0
	for i, p := range panels {
		b := p.Bounds()
		width += b.Dx()
		if i > 0 {
			width += opts.Gap
		}
		if b.Dy() > height {
			height = b.Dy()
		}
	}

	bg := opts.Background
	if bg == nil {
		bg = color.Black
	}

	output := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(output, output.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	x := 0
	for _, p := range panels {
		b := p.Bounds()
		y := (height - b.Dy()) / 2
		rect := image.Rect(x, y, x+b.Dx(), y+b.Dy())
		draw.Draw(output, rect, p, b.Min, draw.Src)
		x += b.Dx() + opts.Gap
	}
	return output
}

// DiffMask returns an image the size of the union of both bounds where
// differing pixels are painted with highlight and matching pixels are a
// dimmed gray copy of left.
func DiffMask(left, right image.Image, highlight color.Color) *image.RGBA {
	if highlight == nil {
		highlight = color.RGBA{R: 255, A: 255}
	}

	lb, rb := left.Bounds(), right.Bounds()
	w, h := lb.Dx(), lb.Dy()
	if rb.Dx() > w {
		w = rb.Dx()
	}
	if rb.Dy() > h {
		h = rb.Dy()
	}

	mask := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			inL := x < lb.Dx() && y < lb.Dy()
			inR := x < rb.Dx() && y < rb.Dy()
			if !inL || !inR {
				mask.Set(x, y, highlight)
				continue
			}

			lc := color.RGBAModel.Convert(left.At(lb.Min.X+x, lb.Min.Y+y)).(color.RGBA)
			rc := color.RGBAModel.Convert(right.At(rb.Min.X+x, rb.Min.Y+y)).(color.RGBA)
			if lc != rc {
				mask.Set(x, y, highlight)
				continue
			}
			g := color.GrayModel.Convert(lc).(color.Gray).Y / 3
			mask.Set(x, y, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}
	return mask
}

// CountDiff returns the number of pixels that differ between two images,
// counting pixels outside the overlap as different.
func CountDiff(left, right image.Image) int {
	lb, rb := left.Bounds(), right.Bounds()
	w, h := lb.Dx(), lb.Dy()
	if rb.Dx() > w {
		w = rb.Dx()
	}
	if rb.Dy() > h {
		h = rb.Dy()
	}

	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= lb.Dx() || y >= lb.Dy() || x >= rb.Dx() || y >= rb.Dy() {
				n++
				continue
			}
			lc := color.RGBAModel.Convert(left.At(lb.Min.X+x, lb.Min.Y+y))
			rc := color.RGBAModel.Convert(right.At(rb.Min.X+x, rb.Min.Y+y))
			if lc != rc {
				n++
			}
		}
	}
	return n
}
