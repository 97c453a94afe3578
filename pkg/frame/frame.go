// Package frame defines the decoded video frame that flows between the
// decoders, the windower and the comparison stages.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrMalformed is returned when a frame's shape and data disagree.
var ErrMalformed = errors.New("frame: malformed frame")

// DType is the sample type of a frame.
type DType int

const (
	// Uint8 is an unsigned 8-bit sample, the only type decoders produce.
	Uint8 DType = iota
)

// String returns the string representation of the sample type.
func (d DType) String() string {
	switch d {
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// Shape is the height × width × channel layout of a frame.
type Shape struct {
	Height   int
	Width    int
	Channels int
}

// Elements returns the number of samples a frame of this shape holds.
func (s Shape) Elements() int {
	return s.Height * s.Width * s.Channels
}

// Valid reports whether every dimension is positive.
func (s Shape) Valid() bool {
	return s.Height > 0 && s.Width > 0 && s.Channels > 0
}

// String formats the shape as HxWxC.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Height, s.Width, s.Channels)
}

// Signature identifies the layout a windowing session locks onto.
type Signature struct {
	Shape Shape
	DType DType
}

// String formats the signature as HxWxC/dtype.
func (s Signature) String() string {
	return s.Shape.String() + "/" + s.DType.String()
}

// Frame is an immutable H×W×C array of samples.
// The zero Frame is malformed.
type Frame struct {
	shape Shape
	dtype DType
	data  []uint8
}

// New creates a uint8 frame. The data slice is copied.
func New(shape Shape, data []uint8) (Frame, error) {
	f := Frame{shape: shape, dtype: Uint8, data: data}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	f.data = append([]uint8(nil), data...)
	return f, nil
}

// Wrap creates a uint8 frame that takes ownership of data without copying.
// The caller must not modify data afterwards.
func Wrap(shape Shape, data []uint8) (Frame, error) {
	f := Frame{shape: shape, dtype: Uint8, data: data}
	if err := f.Validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}

// FromImage converts an image into a 3-channel RGB frame.
func FromImage(img image.Image) Frame {
	b := img.Bounds()
	shape := Shape{Height: b.Dy(), Width: b.Dx(), Channels: 3}
	data := make([]uint8, shape.Elements())

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < shape.Height; y++ {
			row := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride:]
			off := (b.Min.X - rgba.Rect.Min.X) * 4
			for x := 0; x < shape.Width; x++ {
				i := (y*shape.Width + x) * 3
				p := off + x*4
				data[i] = row[p]
				data[i+1] = row[p+1]
				data[i+2] = row[p+2]
			}
		}
		return Frame{shape: shape, dtype: Uint8, data: data}
	}

	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := (y*shape.Width + x) * 3
			data[i] = c.R
			data[i+1] = c.G
			data[i+2] = c.B
		}
	}
	return Frame{shape: shape, dtype: Uint8, data: data}
}

// Shape returns the frame layout.
func (f Frame) Shape() Shape { return f.shape }

// DType returns the sample type.
func (f Frame) DType() DType { return f.dtype }

// Signature returns the shape and sample type.
func (f Frame) Signature() Signature {
	return Signature{Shape: f.shape, DType: f.dtype}
}

// Data returns the underlying samples in HWC order. It must not be modified.
func (f Frame) Data() []uint8 { return f.data }

// Len returns the number of samples.
func (f Frame) Len() int { return len(f.data) }

// At returns the sample at row y, column x, channel c.
func (f Frame) At(y, x, c int) uint8 {
	return f.data[(y*f.shape.Width+x)*f.shape.Channels+c]
}

// Validate checks that the frame is well-formed.
func (f Frame) Validate() error {
	if !f.shape.Valid() {
		return fmt.Errorf("%w: invalid shape %s", ErrMalformed, f.shape)
	}
	if f.dtype != Uint8 {
		return fmt.Errorf("%w: unsupported dtype %s", ErrMalformed, f.dtype)
	}
	if len(f.data) != f.shape.Elements() {
		return fmt.Errorf("%w: shape %s needs %d samples, got %d",
			ErrMalformed, f.shape, f.shape.Elements(), len(f.data))
	}
	return nil
}

// Equal reports whether two frames have the same signature and samples.
func (f Frame) Equal(o Frame) bool {
	if f.Signature() != o.Signature() || len(f.data) != len(o.data) {
		return false
	}
	for i := range f.data {
		if f.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// DiffCount returns the number of differing samples between two frames of
// the same signature, or -1 when the signatures differ.
func (f Frame) DiffCount(o Frame) int {
	if f.Signature() != o.Signature() || len(f.data) != len(o.data) {
		return -1
	}
	n := 0
	for i := range f.data {
		if f.data[i] != o.data[i] {
			n++
		}
	}
	return n
}

// Image renders the frame as RGBA. Single-channel frames render as gray,
// a fourth channel is used as alpha.
func (f Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.shape.Width, f.shape.Height))
	ch := f.shape.Channels
	for y := 0; y < f.shape.Height; y++ {
		for x := 0; x < f.shape.Width; x++ {
			src := (y*f.shape.Width + x) * ch
			dst := y*img.Stride + x*4
			switch {
			case ch >= 3:
				img.Pix[dst] = f.data[src]
				img.Pix[dst+1] = f.data[src+1]
				img.Pix[dst+2] = f.data[src+2]
			default:
				img.Pix[dst] = f.data[src]
				img.Pix[dst+1] = f.data[src]
				img.Pix[dst+2] = f.data[src]
			}
			if ch >= 4 {
				img.Pix[dst+3] = f.data[src+3]
			} else {
				img.Pix[dst+3] = 255
			}
		}
	}
	return img
}
