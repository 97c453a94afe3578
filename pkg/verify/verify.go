// Package verify holds the batch reference model for windowing and the
// comparison between reference windows and streamed windows.
package verify

import (
	"context"
	"fmt"

	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/windower"
)

// Slice splits frames into consecutive chunks of n, dropping the remainder.
// It is the in-memory model the streaming windower must agree with.
func Slice(frames []frame.Frame, n int) ([]windower.Sequence, int, error) {
	if n <= 0 {
		return nil, 0, fmt.Errorf("%w: frames per sequence must be positive, got %d",
			windower.ErrInvalidConfig, n)
	}

	full := len(frames) / n
	seqs := make([]windower.Sequence, 0, full)
	for i := 0; i < full; i++ {
		seq := make(windower.Sequence, n)
		copy(seq, frames[i*n:(i+1)*n])
		seqs = append(seqs, seq)
	}
	return seqs, len(frames) - full*n, nil
}

// Compare checks reference and streamed windows frame by frame.
// Only the windows present in both lists are compared; a count difference
// alone fails the result.
func Compare(reference, streamed []windower.Sequence) pipeline.CompareResult {
	result := pipeline.CompareResult{
		ReferenceCount: len(reference),
		StreamedCount:  len(streamed),
	}

	for i := 0; i < len(reference) && i < len(streamed); i++ {
		ref, got := reference[i], streamed[i]
		for j := 0; j < len(ref) || j < len(got); j++ {
			if j >= len(ref) || j >= len(got) {
				result.MismatchedFrames++
				if result.FirstMismatch == nil {
					result.FirstMismatch = &pipeline.Mismatch{
						Sequence:       i,
						Frame:          j,
						ReferenceShape: shapeAt(ref, j),
						StreamedShape:  shapeAt(got, j),
						DiffSamples:    -1,
					}
				}
				continue
			}

			result.FramesCompared++
			diff := ref[j].DiffCount(got[j])
			if diff == 0 {
				continue
			}
			result.MismatchedFrames++
			if result.FirstMismatch == nil {
				result.FirstMismatch = &pipeline.Mismatch{
					Sequence:       i,
					Frame:          j,
					ReferenceShape: ref[j].Shape().String(),
					StreamedShape:  got[j].Shape().String(),
					DiffSamples:    diff,
				}
			}
		}
	}
	return result
}

func shapeAt(seq windower.Sequence, i int) string {
	if i >= len(seq) {
		return "missing"
	}
	return seq[i].Shape().String()
}

// Stage runs Compare as a pipeline stage.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new compare stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("verify")}
}

// Execute compares input.Reference against input.Streamed.
func (s *Stage) Execute(ctx context.Context, input pipeline.CompareInput) (pipeline.CompareResult, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.CompareResult{}, err
	}

	s.logger.Debug("Comparing %d sequences against %d", len(input.Streamed), len(input.Reference))

	result := Compare(input.Reference, input.Streamed)
	result.Name = input.Name
	return result, nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.CompareInput, pipeline.CompareResult] = (*Stage)(nil)
