// Package orchestrator runs the batch and streaming paths over a set of
// sources and compares their windows.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/user/vidseq/pkg/adapters/codecdetect"
	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/juxtapose"
	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/verify"
	"github.com/user/vidseq/pkg/windower"
)

// ErrNoSources is returned when a run has nothing to verify.
var ErrNoSources = errors.New("orchestrator: no sources")

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	Sources []string

	// Windowing
	FramesPerSequence int
	MaxSequences      int // 0 means every full window

	// Resize applies a nearest-neighbour resize to both paths before
	// comparison. The zero value keeps decoded frames as they are.
	Resize pipeline.Dimension

	// Debug output
	SaveSequences bool // save a contact sheet of every streamed window
	FailFast      bool // stop at the first failing source
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FramesPerSequence: 5,
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	decodeStage     pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	videoInputStage pipeline.Stage[pipeline.VideoInputInput, pipeline.SequencesResult]
	compareStage    pipeline.Stage[pipeline.CompareInput, pipeline.CompareResult]
	fs              ports.FileSystem
	sink            ports.DebugSink
	logger          ports.Logger
}

// New creates a new Orchestrator.
func New(
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	videoInputStage pipeline.Stage[pipeline.VideoInputInput, pipeline.SequencesResult],
	compareStage pipeline.Stage[pipeline.CompareInput, pipeline.CompareResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		decodeStage:     decodeStage,
		videoInputStage: videoInputStage,
		compareStage:    compareStage,
		fs:              fs,
		sink:            sink,
		logger:          logger,
	}
}

// Run verifies every source in config. A failing source is recorded in
// the result and does not stop the run unless FailFast is set; the
// returned error is reserved for invalid configuration and cancellation.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	if config.FramesPerSequence <= 0 {
		return RunResult{}, fmt.Errorf("%w: frames per sequence must be positive, got %d",
			windower.ErrInvalidConfig, config.FramesPerSequence)
	}
	if len(config.Sources) == 0 {
		return RunResult{}, ErrNoSources
	}

	result := RunResult{FramesPerSequence: config.FramesPerSequence}
	for _, path := range config.Sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		o.logger.Info("Verifying %s", path)
		fr, err := o.runSource(ctx, config, path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			o.logger.Error("Failed to verify %s: %s", path, err.Error())
			fr.Error = err.Error()
		}
		result.Files = append(result.Files, fr)

		if config.FailFast && !fr.Passed {
			break
		}
	}

	passed, failed := result.Counts()
	o.logger.Info("Verification completed: %d passed, %d failed", passed, failed)
	return result, nil
}

func (o *Orchestrator) runSource(ctx context.Context, config Config, path string) (FileResult, error) {
	fr := FileResult{Path: path, Name: filepath.Base(path)}

	data, err := o.fs.ReadFile(path)
	if err != nil {
		return fr, fmt.Errorf("read source: %w", err)
	}
	fr.Bytes = len(data)

	if info, err := codecdetect.ProbeBytes(data); err == nil {
		fr.Codec = string(info.Codec)
		fr.Samples = info.SampleCount
	}

	// 1. Batch decode, then slice in memory
	decoded, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{Name: fr.Name, Data: data})
	if err != nil {
		return fr, fmt.Errorf("decode stage: %w", err)
	}
	frames := decoded.Frames
	if !config.Resize.IsZero() {
		o.logger.Debug("Resizing frames to %dx%d", config.Resize.Width, config.Resize.Height)
		if frames, err = resizeFrames(frames, config.Resize); err != nil {
			return fr, fmt.Errorf("resize reference: %w", err)
		}
	}
	fr.Frames = len(frames)
	if len(frames) > 0 {
		fr.Shape = frames[0].Shape().String()
	}

	o.logger.Debug("Slicing %d frames into windows of %d", len(frames), config.FramesPerSequence)
	reference, dropped, err := verify.Slice(frames, config.FramesPerSequence)
	if err != nil {
		return fr, err
	}
	if config.MaxSequences > 0 && len(reference) > config.MaxSequences {
		reference = reference[:config.MaxSequences]
	}
	fr.DroppedFrames = dropped

	// 2. Stream through the video input operator
	streamed, err := o.videoInputStage.Execute(ctx, pipeline.VideoInputInput{
		Name:              fr.Name,
		Data:              data,
		FramesPerSequence: config.FramesPerSequence,
		MaxSequences:      config.MaxSequences,
	})
	if err != nil {
		return fr, fmt.Errorf("video input stage: %w", err)
	}
	sequences := streamed.Sequences
	if !config.Resize.IsZero() {
		if sequences, err = resizeSequences(sequences, config.Resize); err != nil {
			return fr, fmt.Errorf("resize streamed: %w", err)
		}
	}

	o.logger.Info("%s: %d sequences of %d frames, %d dropped",
		fr.Name, len(sequences), config.FramesPerSequence, dropped)

	// 3. Compare
	cmp, err := o.compareStage.Execute(ctx, pipeline.CompareInput{
		Name:      fr.Name,
		Reference: reference,
		Streamed:  sequences,
	})
	if err != nil {
		return fr, fmt.Errorf("compare stage: %w", err)
	}
	fr.Compare = cmp
	fr.Passed = cmp.Passed()

	if fr.Passed {
		o.logger.Info("%s: passed", fr.Name)
	} else if m := cmp.FirstMismatch; m != nil {
		o.logger.Warn("%s: mismatch at sequence %d frame %d", fr.Name, m.Sequence, m.Frame)
	} else {
		o.logger.Warn("%s: expected %d sequences, streamed %d", fr.Name, cmp.ReferenceCount, cmp.StreamedCount)
	}

	if o.sink.Enabled() {
		o.saveDebug(config, fr, reference, sequences)
	}

	return fr, nil
}

func (o *Orchestrator) saveDebug(config Config, fr FileResult, reference, streamed []windower.Sequence) {
	if config.SaveSequences {
		for i, seq := range streamed {
			if err := o.sink.SaveSequence(fr.Name, i, seq); err != nil {
				o.logger.Warn("Failed to write output: %s", err.Error())
			}
		}
	}

	if m := fr.Compare.FirstMismatch; m != nil {
		ref, got := reference[m.Sequence], streamed[m.Sequence]
		if !config.SaveSequences {
			if err := o.sink.SaveSequence(fr.Name, m.Sequence, got); err != nil {
				o.logger.Warn("Failed to write output: %s", err.Error())
			}
		}
		if m.Frame < len(ref) && m.Frame < len(got) {
			img := juxtapose.Frames(ref[m.Frame].Image(), got[m.Frame].Image(), juxtapose.DefaultOptions())
			if err := o.sink.SaveMismatch(fr.Name, m.Sequence, m.Frame, img); err != nil {
				o.logger.Warn("Failed to write output: %s", err.Error())
			}
		}
	}

	if data, err := json.MarshalIndent(fr, "", "  "); err == nil {
		if err := o.sink.SaveResultJSON(fr.Name, data); err != nil {
			o.logger.Warn("Failed to write output: %s", err.Error())
		}
	}
}

func resizeFrames(frames []frame.Frame, size pipeline.Dimension) ([]frame.Frame, error) {
	out := make([]frame.Frame, len(frames))
	for i, f := range frames {
		r, err := frame.Resize(f, size.Width, size.Height)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

func resizeSequences(seqs []windower.Sequence, size pipeline.Dimension) ([]windower.Sequence, error) {
	out := make([]windower.Sequence, len(seqs))
	for i, seq := range seqs {
		frames, err := resizeFrames(seq, size)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		out[i] = frames
	}
	return out, nil
}

// FileResult contains the outcome for one source.
type FileResult struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Bytes   int    `json:"bytes"`
	Codec   string `json:"codec,omitempty"`
	Samples int    `json:"samples,omitempty"`

	Frames        int    `json:"frames"`
	Shape         string `json:"shape,omitempty"`
	DroppedFrames int    `json:"droppedFrames"`

	Compare pipeline.CompareResult `json:"compare"`
	Passed  bool                   `json:"passed"`
	Error   string                 `json:"error,omitempty"`
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	FramesPerSequence int
	Files             []FileResult
}

// Counts returns the number of passing and failing sources.
func (r RunResult) Counts() (passed, failed int) {
	for _, f := range r.Files {
		if f.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// Passed reports whether every source passed.
func (r RunResult) Passed() bool {
	_, failed := r.Counts()
	return failed == 0 && len(r.Files) > 0
}
