// Package videoinput implements the streaming path: encoded sources are fed
// to an operator that decodes them frame by frame and emits fixed-size
// windows as soon as they fill.
package videoinput

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/windower"
)

var (
	// ErrEmptyInput is returned when an empty buffer is fed.
	ErrEmptyInput = errors.New("videoinput: empty input")

	// ErrClosed is returned when feeding or reading a closed operator.
	ErrClosed = errors.New("videoinput: operator closed")
)

// Stats counts what an operator has processed.
type Stats struct {
	Sources       int `json:"sources"`
	Frames        int `json:"frames"`
	Sequences     int `json:"sequences"`
	DroppedFrames int `json:"droppedFrames"`
}

type source struct {
	name string
	data []byte
}

// Operator decodes queued sources in order and windows their frames.
// A source's trailing partial window is dropped before the next source
// starts, so no window spans two sources.
// An Operator is not safe for concurrent use.
type Operator struct {
	decoder ports.StreamDecoder
	logger  ports.Logger
	win     *windower.Windower

	queue   []source
	current ports.FrameStream
	name    string
	frameNo int

	stats  Stats
	closed bool
}

// NewOperator creates an operator that emits windows of framesPerSequence
// frames.
func NewOperator(decoder ports.StreamDecoder, framesPerSequence int, logger ports.Logger) (*Operator, error) {
	win, err := windower.New(framesPerSequence)
	if err != nil {
		return nil, err
	}
	return &Operator{
		decoder: decoder,
		logger:  logger.WithComponent("videoinput"),
		win:     win,
	}, nil
}

// Feed queues an encoded source. The data is not copied.
func (o *Operator) Feed(name string, data []byte) error {
	if o.closed {
		return ErrClosed
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyInput, name)
	}
	o.queue = append(o.queue, source{name: name, data: data})
	return nil
}

// Pending returns the number of fed sources not yet opened.
func (o *Operator) Pending() int { return len(o.queue) }

// Next returns the next full window. It returns io.EOF once every fed
// source is exhausted; feeding more sources makes Next productive again.
//
// A decode or frame error ends the current source and is returned; the
// following call continues with the next queued source.
func (o *Operator) Next(ctx context.Context) (windower.Sequence, error) {
	if o.closed {
		return nil, ErrClosed
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if o.current == nil {
			if len(o.queue) == 0 {
				return nil, io.EOF
			}
			if err := o.open(ctx); err != nil {
				return nil, err
			}
		}

		f, err := o.current.Next(ctx)
		if err == io.EOF {
			o.endSource()
			continue
		}
		if err != nil {
			name := o.name
			o.endSource()
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		o.stats.Frames++
		o.frameNo++

		seq, ok, err := o.win.Push(f)
		if err != nil {
			name, n := o.name, o.frameNo-1
			o.endSource()
			return nil, fmt.Errorf("%s: frame %d: %w", name, n, err)
		}
		if ok {
			o.stats.Sequences++
			o.logger.Debug("Emitted sequence %d", o.win.TotalEmitted()-1)
			return seq, nil
		}
	}
}

func (o *Operator) open(ctx context.Context) error {
	src := o.queue[0]
	o.queue[0] = source{}
	o.queue = o.queue[1:]

	o.logger.Debug("Feeding %s", src.name)

	stream, err := o.decoder.Open(ctx, src.data)
	if err != nil {
		return fmt.Errorf("open %s: %w", src.name, err)
	}
	o.current = stream
	o.name = src.name
	o.frameNo = 0
	o.stats.Sources++
	return nil
}

// endSource drops the partial window and closes the current stream.
func (o *Operator) endSource() {
	if dropped := o.win.Flush(); dropped > 0 {
		o.stats.DroppedFrames += dropped
		o.logger.Debug("Dropped %d trailing frames", dropped)
	}
	o.win.Reset()

	if o.current != nil {
		if err := o.current.Close(); err != nil {
			o.logger.Warn("Failed to close %s: %s", o.name, err.Error())
		}
	}
	o.current = nil
	o.name = ""
	o.frameNo = 0
}

// Stats returns counters accumulated since the operator was created.
func (o *Operator) Stats() Stats { return o.stats }

// FramesPerSequence returns the window size.
func (o *Operator) FramesPerSequence() int { return o.win.FramesPerSequence() }

// Close releases the open stream and discards queued sources.
func (o *Operator) Close() error {
	if o.closed {
		return nil
	}
	var err error
	if o.current != nil {
		err = o.current.Close()
		o.current = nil
	}
	o.queue = nil
	o.win.Reset()
	o.closed = true
	return err
}
