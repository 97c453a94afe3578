package main

import (
	"bytes"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/user/vidseq/pkg/adapters/logger"
	"github.com/user/vidseq/pkg/config"
	"github.com/user/vidseq/pkg/orchestrator"
	"github.com/user/vidseq/pkg/pipeline"
	"github.com/user/vidseq/pkg/ports"
)

func TestApp_Commands(t *testing.T) {
	app := newApp()

	for _, name := range []string{"verify", "window", "probe", "generate", "version"} {
		if app.Command(name) == nil {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestApp_Version(t *testing.T) {
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out

	if err := app.Run([]string{"vidseq", "version"}); err != nil {
		t.Fatalf("version: %v", err)
	}

	if !strings.Contains(out.String(), "vidseq") || !strings.Contains(out.String(), version) {
		t.Errorf("unexpected version output: %q", out.String())
	}
}

func TestBuildSummary(t *testing.T) {
	cfg := config.Defaults()
	cfg.MaxSequences = 3
	cfg.Resize = config.SizeConfig{Width: 20, Height: 15}

	result := orchestrator.RunResult{
		FramesPerSequence: 5,
		Files: []orchestrator.FileResult{
			{
				Name:   "ok.mp4",
				Bytes:  2048,
				Codec:  "h264",
				Frames: 40,
				Compare: pipeline.CompareResult{
					ReferenceCount: 3,
					StreamedCount:  3,
				},
				Passed: true,
			},
			{
				Name:          "bad.mp4",
				Frames:        13,
				DroppedFrames: 3,
				Compare: pipeline.CompareResult{
					ReferenceCount:   2,
					StreamedCount:    2,
					MismatchedFrames: 2,
					FirstMismatch:    &pipeline.Mismatch{Sequence: 1, Frame: 0},
				},
			},
		},
	}

	summary := buildSummary(cfg, result)

	if summary.Settings.FramesPerSequence != 5 || summary.Settings.MaxSequences != 3 {
		t.Errorf("settings = %+v", summary.Settings)
	}
	if summary.Settings.Resize != "20x15" {
		t.Errorf("resize = %q", summary.Settings.Resize)
	}
	if len(summary.Files) != 2 {
		t.Fatalf("files = %d", len(summary.Files))
	}
	if summary.Files[0].Bytes != 2048 || !summary.Files[0].Passed {
		t.Errorf("first file = %+v", summary.Files[0])
	}
	bad := summary.Files[1]
	if bad.FirstMismatch != "sequence 1 frame 0" || bad.Mismatched != 2 || bad.Dropped != 3 {
		t.Errorf("second file = %+v", bad)
	}
	if summary.Totals.Passed != 1 || summary.Totals.Failed != 1 {
		t.Errorf("totals = %+v", summary.Totals)
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		level ports.LogLevel
		want  ports.LogLevel
		quiet bool
	}{
		{"fallback", nil, ports.LevelDebug, ports.LevelDebug, false},
		{"flag overrides fallback", []string{"--log-level", "error"}, ports.LevelDebug, ports.LevelError, false},
		{"quiet", []string{"--quiet"}, ports.LevelInfo, ports.LevelQuiet, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := flag.NewFlagSet("test", flag.ContinueOnError)
			set.Bool("quiet", false, "")
			set.String("log-level", "", "")
			if err := set.Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			c := cli.NewContext(newApp(), set, nil)

			log := newLogger(c, tt.level)
			if tt.quiet {
				if _, ok := log.(*logger.NoopLogger); !ok {
					t.Errorf("expected NoopLogger, got %T", log)
				}
				return
			}
			console, ok := log.(*logger.ConsoleLogger)
			if !ok {
				t.Fatalf("expected ConsoleLogger, got %T", log)
			}
			if console.Level() != tt.want {
				t.Errorf("level = %s, want %s", console.Level(), tt.want)
			}
		})
	}
}
