package videoinput

import (
	"context"
	"fmt"
	"io"

	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/windower"
)

// Stage streams one source through an Operator and collects its windows.
type Stage struct {
	decoder ports.StreamDecoder
	logger  ports.Logger
}

// NewStage creates a new video input stage.
func NewStage(decoder ports.StreamDecoder, logger ports.Logger) *Stage {
	return &Stage{
		decoder: decoder,
		logger:  logger,
	}
}

// Execute drains up to input.MaxSequences windows from the source.
func (s *Stage) Execute(ctx context.Context, input pipeline.VideoInputInput) (pipeline.SequencesResult, error) {
	result := pipeline.SequencesResult{}

	op, err := NewOperator(s.decoder, input.FramesPerSequence, s.logger)
	if err != nil {
		return result, err
	}
	defer op.Close()

	if err := op.Feed(input.Name, input.Data); err != nil {
		return result, err
	}

	var seqs []windower.Sequence
	for input.MaxSequences <= 0 || len(seqs) < input.MaxSequences {
		seq, err := op.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("sequence %d: %w", len(seqs), err)
		}
		seqs = append(seqs, seq)
	}

	result.Sequences = seqs
	result.DroppedFrames = op.Stats().DroppedFrames
	return result, nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.VideoInputInput, pipeline.SequencesResult] = (*Stage)(nil)
