package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/user/vidseq/pkg/adapters/logger"
	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/mocks"
	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/stages/decode"
	"github.com/user/vidseq/pkg/stages/videoinput"
	"github.com/user/vidseq/pkg/verify"
	"github.com/user/vidseq/pkg/windower"
)

var testShape = frame.Shape{Height: 2, Width: 2, Channels: 3}

func numbered(count int) []frame.Frame {
	frames := make([]frame.Frame, count)
	for i := range frames {
		data := make([]uint8, testShape.Elements())
		data[0] = uint8(i)
		f, err := frame.Wrap(testShape, data)
		if err != nil {
			panic(err)
		}
		frames[i] = f
	}
	return frames
}

// mockVideoInputStage returns a fixed result.
type mockVideoInputStage struct {
	result pipeline.SequencesResult
	err    error
	calls  []pipeline.VideoInputInput
}

func (m *mockVideoInputStage) Execute(ctx context.Context, input pipeline.VideoInputInput) (pipeline.SequencesResult, error) {
	m.calls = append(m.calls, input)
	if m.err != nil {
		return pipeline.SequencesResult{}, m.err
	}
	return m.result, nil
}

type fixture struct {
	fs      *mocks.FileSystem
	decoder *mocks.Decoder
	sink    *mocks.DebugSink
}

func newFixture(t *testing.T, sources map[string]int) fixture {
	t.Helper()
	f := fixture{
		fs:      mocks.NewFileSystem(),
		decoder: mocks.NewDecoder(),
		sink:    mocks.NewDebugSink(true),
	}
	for path, count := range sources {
		data := []byte("encoded:" + path)
		if err := f.fs.WriteFile(path, data); err != nil {
			t.Fatal(err)
		}
		f.decoder.AddSource(data, numbered(count))
	}
	return f
}

func (f fixture) orchestrator() *Orchestrator {
	return f.orchestratorWithLogger(logger.NewNoop())
}

func (f fixture) orchestratorWithLogger(log ports.Logger) *Orchestrator {
	return New(
		decode.NewStage(f.decoder, log),
		videoinput.NewStage(f.decoder, log),
		verify.NewStage(log),
		f.fs,
		f.sink,
		log,
	)
}

func TestOrchestrator_Run(t *testing.T) {
	f := newFixture(t, map[string]int{"cfr/a.mp4": 13, "vfr/b.mp4": 40})

	config := DefaultConfig()
	config.Sources = []string{"cfr/a.mp4", "vfr/b.mp4"}

	result, err := f.orchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Passed() {
		t.Fatalf("expected run to pass: %+v", result)
	}
	if len(result.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(result.Files))
	}

	a := result.Files[0]
	if a.Name != "a.mp4" || a.Frames != 13 || a.DroppedFrames != 3 {
		t.Errorf("unexpected result for a.mp4: %+v", a)
	}
	if a.Compare.ReferenceCount != 2 || a.Compare.StreamedCount != 2 {
		t.Errorf("expected 2 windows on both paths, got %+v", a.Compare)
	}
	if a.Shape != "2x2x3" {
		t.Errorf("unexpected shape %q", a.Shape)
	}

	b := result.Files[1]
	if b.Compare.ReferenceCount != 8 || b.DroppedFrames != 0 {
		t.Errorf("unexpected result for b.mp4: %+v", b)
	}

	if _, ok := f.sink.Results["a.mp4"]; !ok {
		t.Error("expected result JSON to be saved")
	}
	if len(f.sink.Mismatches) != 0 {
		t.Error("no mismatch images expected for a passing run")
	}
}

func TestOrchestrator_Run_SaveSequences(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 10})

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}
	config.SaveSequences = true

	if _, err := f.orchestrator().Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(f.sink.Sequences) != 2 {
		t.Errorf("expected 2 saved sequences, got %d", len(f.sink.Sequences))
	}
}

func TestOrchestrator_Run_Mismatch(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 10})

	// Streamed windows with frames 5 and 6 swapped.
	frames := numbered(10)
	frames[5], frames[6] = frames[6], frames[5]
	streamed, _, _ := verify.Slice(frames, 5)

	log := logger.NewNoop()
	o := New(
		decode.NewStage(f.decoder, log),
		&mockVideoInputStage{result: pipeline.SequencesResult{Sequences: streamed}},
		verify.NewStage(log),
		f.fs,
		f.sink,
		log,
	)

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}

	result, err := o.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Passed() {
		t.Fatal("expected run to fail")
	}

	m := result.Files[0].Compare.FirstMismatch
	if m == nil || m.Sequence != 1 || m.Frame != 0 {
		t.Fatalf("unexpected first mismatch %+v", m)
	}
	if _, ok := f.sink.Mismatches["a.mp4/1/0"]; !ok {
		t.Errorf("expected mismatch image, got %v", f.sink.Mismatches)
	}
	if _, ok := f.sink.Sequences["a.mp4/1"]; !ok {
		t.Error("expected the mismatching sequence to be saved")
	}

	var saved FileResult
	if err := json.Unmarshal(f.sink.Results["a.mp4"], &saved); err != nil {
		t.Fatalf("result JSON invalid: %v", err)
	}
	if saved.Passed || saved.Compare.MismatchedFrames != 2 {
		t.Errorf("unexpected saved result %+v", saved)
	}
}

func TestOrchestrator_Run_SourceErrorContinues(t *testing.T) {
	f := newFixture(t, map[string]int{"b.mp4": 5})
	if err := f.fs.WriteFile("a.mp4", []byte("unknown to decoder")); err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.Sources = []string{"a.mp4", "missing.mp4", "b.mp4"}

	result, err := f.orchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	passed, failed := result.Counts()
	if passed != 1 || failed != 2 {
		t.Errorf("expected 1 passed and 2 failed, got %d and %d", passed, failed)
	}
	if result.Files[0].Error == "" || result.Files[1].Error == "" {
		t.Error("expected errors to be recorded")
	}
}

func TestOrchestrator_Run_FailFast(t *testing.T) {
	f := newFixture(t, map[string]int{"b.mp4": 5})

	config := DefaultConfig()
	config.Sources = []string{"missing.mp4", "b.mp4"}
	config.FailFast = true

	result, err := f.orchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Files) != 1 {
		t.Errorf("expected run to stop after first failure, got %d results", len(result.Files))
	}
}

func TestOrchestrator_Run_MaxSequences(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 40})

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}
	config.MaxSequences = 3

	result, err := f.orchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	cmp := result.Files[0].Compare
	if !cmp.Passed() || cmp.ReferenceCount != 3 || cmp.StreamedCount != 3 {
		t.Errorf("expected 3 matching windows, got %+v", cmp)
	}
}

func TestOrchestrator_Run_Resize(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 6})

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}
	config.FramesPerSequence = 3
	config.Resize = pipeline.Dimension{Width: 20, Height: 15}

	result, err := f.orchestrator().Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := result.Files[0]; !got.Passed || got.Shape != "15x20x3" {
		t.Errorf("expected resized passing result, got %+v", got)
	}
}

func TestOrchestrator_Run_LogsResizeAndSlice(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 7})
	log := mocks.NewLogger()

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}
	config.FramesPerSequence = 3
	config.Resize = pipeline.Dimension{Width: 20, Height: 15}

	if _, err := f.orchestratorWithLogger(log).Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	resized := log.Find("Resizing frames to %dx%d")
	if len(resized) != 1 || resized[0].Args[0] != 20 || resized[0].Args[1] != 15 {
		t.Errorf("expected one resize message for 20x15, got %+v", resized)
	}
	sliced := log.Find("Slicing %d frames into windows of %d")
	if len(sliced) != 1 || sliced[0].Args[0] != 7 || sliced[0].Args[1] != 3 {
		t.Errorf("expected one slice message for 7 frames of 3, got %+v", sliced)
	}
}

func TestOrchestrator_Run_NoResizeMessageByDefault(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 5})
	log := mocks.NewLogger()

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}

	if _, err := f.orchestratorWithLogger(log).Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := log.Find("Resizing frames to %dx%d"); len(got) != 0 {
		t.Errorf("unexpected resize message: %+v", got)
	}
}

func TestOrchestrator_Run_LogsSourceFailure(t *testing.T) {
	f := newFixture(t, map[string]int{"b.mp4": 5})
	log := mocks.NewLogger()

	config := DefaultConfig()
	config.Sources = []string{"missing.mp4", "b.mp4"}

	if _, err := f.orchestratorWithLogger(log).Run(context.Background(), config); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	failures := log.Find("Failed to verify %s: %s")
	if len(failures) != 1 {
		t.Fatalf("expected one failure message, got %+v", failures)
	}
	if failures[0].Level != ports.LevelError || failures[0].Args[0] != "missing.mp4" {
		t.Errorf("unexpected failure entry %+v", failures[0])
	}
}

func TestOrchestrator_Run_InvalidConfig(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.orchestrator().Run(context.Background(), Config{Sources: []string{"a.mp4"}})
	if !errors.Is(err, windower.ErrInvalidConfig) {
		t.Errorf("expected windower.ErrInvalidConfig, got %v", err)
	}

	_, err = f.orchestrator().Run(context.Background(), DefaultConfig())
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("expected ErrNoSources, got %v", err)
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	f := newFixture(t, map[string]int{"a.mp4": 5})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := DefaultConfig()
	config.Sources = []string{"a.mp4"}

	_, err := f.orchestrator().Run(ctx, config)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunResult_Passed(t *testing.T) {
	if (RunResult{}).Passed() {
		t.Error("an empty run should not pass")
	}
	r := RunResult{Files: []FileResult{{Passed: true}, {Passed: false}}}
	if r.Passed() {
		t.Error("a run with a failing file should not pass")
	}
}
