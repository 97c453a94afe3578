// Package windower slices a stream of decoded frames into fixed-size,
// non-overlapping sequences.
//
// A Windower is not safe for concurrent use. It is driven by a single
// producer that pushes frames as they are decoded:
//
//	w, err := windower.New(5)
//	for {
//	    f, err := stream.Next(ctx)
//	    if err == io.EOF {
//	        break
//	    }
//	    seq, ok, err := w.Push(f)
//	    if ok {
//	        consume(seq)
//	    }
//	}
//	w.Flush()
package windower

import (
	"errors"
	"fmt"

	"github.com/user/vidseq/pkg/frame"
)

var (
	// ErrInvalidConfig is returned when frames per sequence is not positive.
	ErrInvalidConfig = errors.New("windower: invalid config")

	// ErrInvalidFrame is returned when a pushed frame is malformed or does not
	// match the signature of the frames already accepted in this session.
	ErrInvalidFrame = errors.New("windower: invalid frame")
)

// Sequence is an ordered window of exactly FramesPerSequence frames.
type Sequence []frame.Frame

// Shape returns the sequence layout as [frames, height, width, channels].
func (s Sequence) Shape() [4]int {
	if len(s) == 0 {
		return [4]int{}
	}
	sh := s[0].Shape()
	return [4]int{len(s), sh.Height, sh.Width, sh.Channels}
}

// Equal reports whether two sequences hold equal frames in the same order.
func (s Sequence) Equal(o Sequence) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Windower buffers frames and releases a Sequence each time N have arrived.
type Windower struct {
	n       int
	pending []frame.Frame
	emitted int

	// signature of the first frame accepted since construction or Reset
	sig    frame.Signature
	locked bool
}

// New creates a Windower that emits sequences of framesPerSequence frames.
func New(framesPerSequence int) (*Windower, error) {
	if framesPerSequence <= 0 {
		return nil, fmt.Errorf("%w: frames per sequence must be positive, got %d",
			ErrInvalidConfig, framesPerSequence)
	}
	return &Windower{
		n:       framesPerSequence,
		pending: make([]frame.Frame, 0, framesPerSequence),
	}, nil
}

// Push appends f to the pending window. When the window is full it is
// returned with ok set, and the windower starts accumulating a new one.
// On error the windower state is left unchanged.
func (w *Windower) Push(f frame.Frame) (seq Sequence, ok bool, err error) {
	if err := f.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %w", ErrInvalidFrame, err)
	}
	if w.locked && f.Signature() != w.sig {
		return nil, false, fmt.Errorf("%w: expected %s, got %s", ErrInvalidFrame, w.sig, f.Signature())
	}
	if !w.locked {
		w.sig = f.Signature()
		w.locked = true
	}

	w.pending = append(w.pending, f)
	if len(w.pending) < w.n {
		return nil, false, nil
	}

	// The emitted window owns its backing array; pending gets a fresh one.
	seq = Sequence(w.pending)
	w.pending = make([]frame.Frame, 0, w.n)
	w.emitted++
	return seq, true, nil
}

// Flush drops any partial window and returns the number of frames dropped.
// Incomplete windows are never emitted or padded.
func (w *Windower) Flush() int {
	dropped := len(w.pending)
	clear(w.pending)
	w.pending = w.pending[:0]
	return dropped
}

// Reset returns the windower to its initial state so it can be reused
// against a new source. FramesPerSequence is unchanged.
func (w *Windower) Reset() {
	w.Flush()
	w.emitted = 0
	w.sig = frame.Signature{}
	w.locked = false
}

// FramesPerSequence returns the window size.
func (w *Windower) FramesPerSequence() int { return w.n }

// Pending returns the number of frames waiting for the window to fill.
func (w *Windower) Pending() int { return len(w.pending) }

// TotalEmitted returns the number of sequences emitted since construction
// or the last Reset.
func (w *Windower) TotalEmitted() int { return w.emitted }

// Signature returns the locked frame signature, if any frame has been
// accepted since construction or the last Reset.
func (w *Windower) Signature() (frame.Signature, bool) {
	return w.sig, w.locked
}
