package frame

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Resize scales a 3-channel frame to width × height using nearest-neighbour
// sampling, so identical inputs always produce identical outputs.
func Resize(f Frame, width, height int) (Frame, error) {
	if width <= 0 || height <= 0 {
		return Frame{}, fmt.Errorf("%w: resize target %dx%d", ErrMalformed, width, height)
	}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	if f.shape.Channels != 3 {
		return Frame{}, fmt.Errorf("%w: resize supports 3-channel frames, got %d", ErrMalformed, f.shape.Channels)
	}
	if f.shape.Width == width && f.shape.Height == height {
		return f, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := f.Image()
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return FromImage(dst), nil
}
