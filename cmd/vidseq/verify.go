package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidseq/pkg/adapters/ffmpegdecoder"
	"github.com/user/vidseq/pkg/adapters/filesink"
	"github.com/user/vidseq/pkg/adapters/ggrenderer"
	"github.com/user/vidseq/pkg/adapters/nullsink"
	"github.com/user/vidseq/pkg/adapters/osfilesystem"
	"github.com/user/vidseq/pkg/config"
	"github.com/user/vidseq/pkg/fixtures"
	"github.com/user/vidseq/pkg/orchestrator"
	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/stages/decode"
	"github.com/user/vidseq/pkg/stages/videoinput"
	"github.com/user/vidseq/pkg/summarizer"
	"github.com/user/vidseq/pkg/verify"
)

// Exit codes.
const (
	exitMismatch = 1
	exitUsage    = 2
)

func verifyCommand() *cli.Command {
	input := l10n.T("Input")
	windowing := l10n.T("Windowing")
	decoder := l10n.T("Decoder")
	output := l10n.T("Output")
	debug := l10n.T("Debug")

	flags := []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: input},
		&cli.StringFlag{Name: "root", Aliases: []string{"r"}, Usage: l10n.T("Fixtures root directory (default: .)"), Category: input},
		&cli.StringSliceFlag{Name: "pattern", Usage: l10n.T("Glob pattern under the root, repeatable (default: [cv]fr/*.mp4)"), Category: input},
		&cli.StringSliceFlag{Name: "exclude", Usage: l10n.T("Skip files whose name contains this text, repeatable"), Category: input},
		&cli.StringSliceFlag{Name: "codec", Usage: l10n.T("Only verify files using this codec, repeatable"), Category: input},

		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Usage: l10n.T("Frames per sequence (default: 5)"), Category: windowing},
		&cli.IntFlag{Name: "max-sequences", Aliases: []string{"m"}, Usage: l10n.T("Sequences compared per source (0 = all)"), Category: windowing},
		&cli.StringFlag{Name: "resize", Usage: l10n.T("Resize frames before comparison (WIDTHxHEIGHT)"), Category: windowing},

		&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to ffmpeg executable"), Category: decoder},
		&cli.StringFlag{Name: "temp-dir", Usage: l10n.T("Directory for staged input files"), Category: decoder},

		&cli.StringFlag{Name: "summary", Aliases: []string{"o"}, Usage: l10n.T("Write the run summary to this file (- for stdout)"), Category: output},
		&cli.StringFlag{Name: "summary-format", Usage: l10n.T("Summary format (markdown, json)"), Category: output},
		&cli.BoolFlag{Name: "fail-fast", Usage: l10n.T("Stop at the first failing source"), Category: output},

		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: debug},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: debug},
		&cli.BoolFlag{Name: "save-sequences", Usage: l10n.T("Save a contact sheet of every streamed sequence"), Category: debug},
	}

	return &cli.Command{
		Name:        "verify",
		Usage:       l10n.T("Verify streamed sequences against batch decoding"),
		Description: l10n.T("Decode every fixture twice, once in batch and once through the streaming windower, and compare the sequences frame by frame."),
		ArgsUsage:   "[FILE...]",
		Flags:       append(flags, loggingFlags()...),
		Action:      runVerify,
	}
}

// loadConfig reads --config, if any, and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("root") {
		cfg.FixturesRoot = c.String("root")
	}
	if c.IsSet("pattern") {
		cfg.Patterns = c.StringSlice("pattern")
	}
	if c.IsSet("exclude") {
		cfg.Exclude = c.StringSlice("exclude")
	}
	if c.IsSet("codec") {
		cfg.Codecs = c.StringSlice("codec")
	}
	if c.IsSet("frames") {
		cfg.FramesPerSequence = c.Int("frames")
	}
	if c.IsSet("max-sequences") {
		cfg.MaxSequences = c.Int("max-sequences")
	}
	if c.IsSet("resize") {
		size, err := config.ParseSize(c.String("resize"))
		if err != nil {
			return cfg, err
		}
		cfg.Resize = size
	}
	if c.IsSet("ffmpeg") {
		cfg.FFmpegPath = c.String("ffmpeg")
	}
	if c.IsSet("temp-dir") {
		cfg.TempDir = c.String("temp-dir")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}
	if c.IsSet("summary-format") {
		cfg.SummaryFormat = c.String("summary-format")
	}
	if c.IsSet("fail-fast") {
		cfg.FailFast = c.Bool("fail-fast")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("save-sequences") {
		cfg.SaveSequences = c.Bool("save-sequences")
	}

	return cfg, cfg.Validate()
}

func runVerify(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	log := newLogger(c, cfg.Level())
	ctx, stop := withSignals(c.Context, log)
	defer stop()

	fs := osfilesystem.New()

	sources := c.Args().Slice()
	if len(sources) == 0 {
		sources, err = fixtures.Discover(fs, cfg.FixturesRoot, cfg.Patterns, cfg.Exclude)
		if err != nil {
			return cli.Exit(err.Error(), exitUsage)
		}
		log.Info("Discovered %d sources in %s", len(sources), cfg.FixturesRoot)
		if len(sources) == 0 {
			log.Warn("No sources matched %s", strings.Join(cfg.Patterns, ", "))
		}
	}

	codecs, err := fixtures.ParseCodecs(cfg.Codecs)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	sources, skipped := fixtures.FilterCodecs(fs, sources, codecs)
	for _, s := range skipped {
		log.Warn("Skipping %s: %s", s.Path, s.Reason)
	}

	ffmpegPath, err := ffmpegdecoder.FindFFmpeg(cfg.FFmpegPath)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	dec := ffmpegdecoder.New(ffmpegdecoder.Options{FFmpegPath: ffmpegPath, TempDir: cfg.TempDir}, log)

	orch := orchestrator.New(
		decode.NewStage(dec, log),
		videoinput.NewStage(dec, log),
		verify.NewStage(log),
		fs,
		newSink(cfg, fs),
		log,
	)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig(sources))
	if err != nil {
		if errors.Is(err, orchestrator.ErrNoSources) {
			return cli.Exit(err.Error(), exitUsage)
		}
		return err
	}

	summary := buildSummary(cfg, result)
	formatter := summarizer.ForName(cfg.SummaryFormat, summarizer.WithVersion(version))
	switch cfg.Summary {
	case "":
	case "-":
		fmt.Fprint(os.Stdout, formatter.Format(summary))
	default:
		if err := summarizer.NewWriter(formatter, fs).Write(cfg.Summary, summary); err != nil {
			log.Error("Failed to write output: %s", err)
		} else {
			log.Info("Summary saved to %s", cfg.Summary)
		}
	}

	if !result.Passed() {
		return cli.Exit("", exitMismatch)
	}
	return nil
}

func newSink(cfg config.Config, fs ports.FileSystem) ports.DebugSink {
	if !cfg.Debug {
		return nullsink.New()
	}
	return filesink.New(cfg.DebugDir, fs, ggrenderer.New()).WithSheetOptions(cfg.SheetOptions())
}

// buildSummary converts a run result into a report.
func buildSummary(cfg config.Config, result orchestrator.RunResult) *summarizer.Summary {
	settings := summarizer.Settings{
		FramesPerSequence: result.FramesPerSequence,
		MaxSequences:      cfg.MaxSequences,
		Root:              cfg.FixturesRoot,
		Patterns:          cfg.Patterns,
		Exclude:           cfg.Exclude,
		Decoder:           "ffmpeg",
	}
	if cfg.Resize.Width > 0 {
		settings.Resize = fmt.Sprintf("%dx%d", cfg.Resize.Width, cfg.Resize.Height)
	}

	b := summarizer.NewBuilder().WithSettings(settings)
	for _, f := range result.Files {
		fs := summarizer.FileSummary{
			Name:       f.Name,
			Codec:      f.Codec,
			Shape:      f.Shape,
			Bytes:      int64(f.Bytes),
			Frames:     f.Frames,
			Reference:  f.Compare.ReferenceCount,
			Streamed:   f.Compare.StreamedCount,
			Dropped:    f.DroppedFrames,
			Mismatched: f.Compare.MismatchedFrames,
			Passed:     f.Passed,
			Error:      f.Error,
		}
		if m := f.Compare.FirstMismatch; m != nil {
			fs.FirstMismatch = fmt.Sprintf("sequence %d frame %d", m.Sequence, m.Frame)
		}
		b.AddFile(fs)
	}
	return b.Build()
}
