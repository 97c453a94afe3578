// Package rawvideo reads and writes packed frame streams such as the
// rgb24 output of `ffmpeg -f rawvideo`.
package rawvideo

import (
	"errors"
	"fmt"
	"io"

	"github.com/user/vidseq/pkg/frame"
)

var (
	// ErrTruncated is returned when the stream ends in the middle of a frame.
	ErrTruncated = errors.New("rawvideo: truncated frame")

	// ErrShapeMismatch is returned when writing a frame of the wrong shape.
	ErrShapeMismatch = errors.New("rawvideo: shape mismatch")
)

// Reader splits a packed byte stream into frames of a fixed shape.
type Reader struct {
	r     io.Reader
	shape frame.Shape
	count int
}

// NewReader creates a Reader for frames of the given shape.
func NewReader(r io.Reader, shape frame.Shape) (*Reader, error) {
	if !shape.Valid() {
		return nil, fmt.Errorf("rawvideo: invalid shape %s", shape)
	}
	return &Reader{r: r, shape: shape}, nil
}

// Next reads the next frame. It returns io.EOF when the stream ends cleanly
// on a frame boundary and ErrTruncated when it ends mid-frame.
func (r *Reader) Next() (frame.Frame, error) {
	buf := make([]uint8, r.shape.Elements())
	n, err := io.ReadFull(r.r, buf)
	switch {
	case err == io.EOF:
		return frame.Frame{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return frame.Frame{}, fmt.Errorf("%w: frame %d has %d of %d bytes",
			ErrTruncated, r.count, n, len(buf))
	case err != nil:
		return frame.Frame{}, fmt.Errorf("read frame %d: %w", r.count, err)
	}

	f, err := frame.Wrap(r.shape, buf)
	if err != nil {
		return frame.Frame{}, err
	}
	r.count++
	return f, nil
}

// Count returns the number of frames read so far.
func (r *Reader) Count() int { return r.count }

// Shape returns the frame shape the reader produces.
func (r *Reader) Shape() frame.Shape { return r.shape }

// Writer packs frames of a fixed shape into a byte stream.
type Writer struct {
	w     io.Writer
	shape frame.Shape
}

// NewWriter creates a Writer for frames of the given shape.
func NewWriter(w io.Writer, shape frame.Shape) *Writer {
	return &Writer{w: w, shape: shape}
}

// Write appends one frame to the stream.
func (w *Writer) Write(f frame.Frame) error {
	if f.Shape() != w.shape {
		return fmt.Errorf("%w: expected %s, got %s", ErrShapeMismatch, w.shape, f.Shape())
	}
	_, err := w.w.Write(f.Data())
	return err
}
