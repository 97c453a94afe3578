// Package decode implements the batch decoding stage: a whole source is
// decoded into memory before anything downstream sees a frame.
package decode

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
)

// ErrEmptyInput is returned when a source has no encoded bytes.
var ErrEmptyInput = errors.New("decode: empty input")

// Stage decodes an encoded source into frames.
type Stage struct {
	decoder ports.VideoDecoder
	logger  ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(decoder ports.VideoDecoder, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		logger:  logger.WithComponent("decode"),
	}
}

// Execute decodes every frame of input.Data.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	if len(input.Data) == 0 {
		return result, fmt.Errorf("%w: %s", ErrEmptyInput, input.Name)
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Debug("Decoding %d bytes", len(input.Data))

	frames, err := s.decoder.DecodeAll(ctx, input.Data)
	if err != nil {
		return result, fmt.Errorf("decode %s: %w", input.Name, err)
	}

	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return result, fmt.Errorf("decode %s: frame %d: %w", input.Name, i, err)
		}
	}

	s.logger.Debug("Decoded %d frames", len(frames))

	result.Frames = frames
	return result, nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult] = (*Stage)(nil)
