// Package contactsheet lays out the frames of a sequence as a labelled grid.
package contactsheet

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/ports"
)

// ErrNoFrames is returned when rendering an empty sequence.
var ErrNoFrames = errors.New("contactsheet: no frames")

const labelHeight = 16

// Options configures the grid.
type Options struct {
	Columns    int // Frames per row (default: 5)
	Scale      int // Integer upscale factor (default: 1)
	Gap        int // Pixels between and around cells
	Labels     bool
	Background color.Color
	LabelColor color.Color

	// LabelBackground fills the label strip under each frame; nil leaves
	// the sheet background.
	LabelBackground color.Color
	// Border outlines each frame; nil draws no outline.
	Border color.Color
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Columns:    5,
		Scale:      1,
		Gap:        4,
		Labels:     true,
		Background: color.RGBA{R: 32, G: 32, B: 32, A: 255},
		LabelColor: color.White,

		LabelBackground: color.RGBA{R: 48, G: 48, B: 48, A: 255},
	}
}

// Size returns the canvas size for n frames of the given shape.
func Size(n int, shape frame.Shape, opts Options) (width, height int) {
	opts = normalize(opts)
	cols := opts.Columns
	if n < cols {
		cols = n
	}
	rows := (n + opts.Columns - 1) / opts.Columns

	cellW, cellH := cellSize(shape, opts)
	width = cols*cellW + (cols+1)*opts.Gap
	height = rows*cellH + (rows+1)*opts.Gap
	return width, height
}

// Render draws frames left to right, top to bottom, each labelled with its
// index in the sequence. All frames must share one shape.
func Render(r ports.Renderer, frames []frame.Frame, opts Options) (image.Image, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	opts = normalize(opts)

	shape := frames[0].Shape()
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if f.Shape() != shape {
			return nil, fmt.Errorf("%w: frame %d is %s, expected %s", frame.ErrMalformed, i, f.Shape(), shape)
		}
	}

	width, height := Size(len(frames), shape, opts)
	canvas := r.CreateCanvas(width, height, opts.Background)

	cellW, cellH := cellSize(shape, opts)
	imgW, imgH := shape.Width*opts.Scale, shape.Height*opts.Scale

	for i, f := range frames {
		col, row := i%opts.Columns, i/opts.Columns
		x := opts.Gap + col*(cellW+opts.Gap)
		y := opts.Gap + row*(cellH+opts.Gap)

		var img image.Image = f.Image()
		if opts.Scale > 1 {
			img = r.ResizeImage(img, imgW, imgH)
		}
		canvas.DrawImage(img, x, y)
		if opts.Border != nil {
			canvas.DrawRectStroke(x, y, imgW, imgH, opts.Border, 1)
		}

		if opts.Labels {
			if opts.LabelBackground != nil {
				canvas.DrawRect(x, y+imgH, imgW, labelHeight, opts.LabelBackground)
			}
			canvas.DrawText(fmt.Sprintf("%d", i), x+imgW/2, y+imgH+labelHeight/2, ports.TextStyle{
				FontSize: 11,
				Color:    opts.LabelColor,
				Align:    ports.AlignCenter,
			})
		}
	}

	return canvas.ToImage(), nil
}

func cellSize(shape frame.Shape, opts Options) (int, int) {
	w := shape.Width * opts.Scale
	h := shape.Height * opts.Scale
	if opts.Labels {
		h += labelHeight
	}
	return w, h
}

func normalize(opts Options) Options {
	if opts.Columns <= 0 {
		opts.Columns = 5
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	if opts.LabelColor == nil {
		opts.LabelColor = color.White
	}
	return opts
}
