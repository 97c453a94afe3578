package mocks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/ports"
)

// Decoder is a mock implementation of ports.StreamDecoder and
// ports.VideoDecoder. It maps encoded buffers to the frames they decode to.
type Decoder struct {
	mu      sync.Mutex
	sources map[string][]frame.Frame

	OpenFunc      func(ctx context.Context, data []byte) (ports.FrameStream, error)
	DecodeAllFunc func(ctx context.Context, data []byte) ([]frame.Frame, error)

	// Recorded calls for verification
	OpenCalls      int
	DecodeAllCalls int
	Streams        []*FrameStream
}

// NewDecoder creates a new mock Decoder.
func NewDecoder() *Decoder {
	return &Decoder{sources: make(map[string][]frame.Frame)}
}

// AddSource registers the frames that data decodes to.
func (m *Decoder) AddSource(data []byte, frames []frame.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[string(data)] = frames
}

func (m *Decoder) lookup(data []byte) ([]frame.Frame, error) {
	frames, ok := m.sources[string(data)]
	if !ok {
		return nil, fmt.Errorf("mock decoder: unknown source of %d bytes", len(data))
	}
	return frames, nil
}

func (m *Decoder) Open(ctx context.Context, data []byte) (ports.FrameStream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OpenCalls++
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, data)
	}
	frames, err := m.lookup(data)
	if err != nil {
		return nil, err
	}
	s := &FrameStream{Frames: frames}
	m.Streams = append(m.Streams, s)
	return s, nil
}

func (m *Decoder) DecodeAll(ctx context.Context, data []byte) ([]frame.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DecodeAllCalls++
	if m.DecodeAllFunc != nil {
		return m.DecodeAllFunc(ctx, data)
	}
	frames, err := m.lookup(data)
	if err != nil {
		return nil, err
	}
	return append([]frame.Frame(nil), frames...), nil
}

var (
	_ ports.StreamDecoder = (*Decoder)(nil)
	_ ports.VideoDecoder  = (*Decoder)(nil)
)

// FrameStream is a mock implementation of ports.FrameStream that yields
// Frames in order, then Err (io.EOF when nil). Close returns CloseErr.
type FrameStream struct {
	Frames   []frame.Frame
	Err      error
	CloseErr error

	pos    int
	Closed bool
}

func (m *FrameStream) Next(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}
	if m.pos < len(m.Frames) {
		f := m.Frames[m.pos]
		m.pos++
		return f, nil
	}
	if m.Err != nil {
		return frame.Frame{}, m.Err
	}
	return frame.Frame{}, io.EOF
}

func (m *FrameStream) Close() error {
	m.Closed = true
	return m.CloseErr
}

var _ ports.FrameStream = (*FrameStream)(nil)
