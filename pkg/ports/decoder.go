package ports

import (
	"context"

	"github.com/user/vidseq/pkg/frame"
)

// FrameStream yields decoded frames one at a time.
type FrameStream interface {
	// Next returns the next decoded frame, or io.EOF once the source is exhausted.
	Next(ctx context.Context) (frame.Frame, error)

	// Close releases the stream. It is safe to call more than once.
	Close() error
}

// StreamDecoder opens an encoded buffer for incremental decoding.
type StreamDecoder interface {
	// Open starts decoding data and returns a stream of its frames.
	Open(ctx context.Context, data []byte) (FrameStream, error)
}

// VideoDecoder decodes a whole encoded buffer up front.
type VideoDecoder interface {
	// DecodeAll decodes every frame of data in presentation order.
	DecodeAll(ctx context.Context, data []byte) ([]frame.Frame, error)
}
