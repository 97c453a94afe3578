package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidseq/pkg/adapters/ffmpegdecoder"
	"github.com/user/vidseq/pkg/adapters/ggrenderer"
	"github.com/user/vidseq/pkg/adapters/osfilesystem"
	"github.com/user/vidseq/pkg/adapters/rawvideo"
	"github.com/user/vidseq/pkg/config"
	"github.com/user/vidseq/pkg/contactsheet"
	"github.com/user/vidseq/pkg/ports"
	"github.com/user/vidseq/pkg/stages/videoinput"
	"github.com/user/vidseq/pkg/windower"
)

func windowCommand() *cli.Command {
	windowing := l10n.T("Windowing")
	output := l10n.T("Output")

	flags := []cli.Flag{
		&cli.IntFlag{Name: "frames", Aliases: []string{"n"}, Value: 5, Usage: l10n.T("Frames per sequence"), Category: windowing},
		&cli.IntFlag{Name: "max-sequences", Aliases: []string{"m"}, Usage: l10n.T("Stop after this many sequences (0 = all)"), Category: windowing},
		&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to ffmpeg executable"), Category: windowing},

		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output directory (required)"), Category: output},
		&cli.BoolFlag{Name: "raw", Usage: l10n.T("Write packed rgb24 frames instead of PNG contact sheets"), Category: output},
		&cli.IntFlag{Name: "scale", Value: 1, Usage: l10n.T("Contact sheet magnification"), Category: output},
		&cli.StringFlag{Name: "background", Value: "#202020", Usage: l10n.T("Contact sheet background color (hex)"), Category: output},
	}

	return &cli.Command{
		Name:        "window",
		Usage:       l10n.T("Write the sequences of one video to a directory"),
		Description: l10n.T("Stream FILE through the windower and save each full sequence. Trailing frames that do not fill a sequence are dropped."),
		ArgsUsage:   "FILE",
		Flags:       append(flags, loggingFlags()...),
		Action:      runWindow,
	}
}

func runWindow(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(l10n.T("Exactly one video file is required"), exitUsage)
	}
	path := c.Args().First()
	name := filepath.Base(path)
	outDir := c.String("output")

	log := newLogger(c, ports.LevelInfo)
	ctx, stop := withSignals(c.Context, log)
	defer stop()

	fs := osfilesystem.New()
	data, err := fs.ReadFile(path)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	ffmpegPath, err := ffmpegdecoder.FindFFmpeg(c.String("ffmpeg"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	dec := ffmpegdecoder.New(ffmpegdecoder.Options{FFmpegPath: ffmpegPath}, log)

	op, err := videoinput.NewOperator(dec, c.Int("frames"), log)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}
	defer op.Close()

	if err := op.Feed(name, data); err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	sheet := contactsheet.DefaultOptions()
	sheet.Columns = op.FramesPerSequence()
	sheet.Scale = c.Int("scale")
	sheet.Background = config.ParseColor(c.String("background"))
	renderer := ggrenderer.New()

	max := c.Int("max-sequences")
	for i := 0; max <= 0 || i < max; i++ {
		seq, err := op.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if c.Bool("raw") {
			err = writeRaw(fs, outDir, i, seq)
		} else {
			err = writeSheet(fs, renderer, filepath.Join(outDir, fmt.Sprintf("seq-%04d.png", i)), seq, sheet)
		}
		if err != nil {
			log.Error("Failed to write output: %s", err)
			return err
		}
	}

	stats := op.Stats()
	log.Info("%s: %d sequences of %d frames, %d dropped",
		name, stats.Sequences, op.FramesPerSequence(), stats.DroppedFrames)
	return nil
}

// writeRaw stores seq as consecutive packed frames in
// seq-NNNN_FxHxWxC.rgb.
func writeRaw(fs ports.FileSystem, dir string, index int, seq windower.Sequence) error {
	shape := seq.Shape()
	path := filepath.Join(dir, fmt.Sprintf("seq-%04d_%dx%dx%dx%d.rgb", index, shape[0], shape[1], shape[2], shape[3]))

	var buf bytes.Buffer
	w := rawvideo.NewWriter(&buf, seq[0].Shape())
	for _, f := range seq {
		if err := w.Write(f); err != nil {
			return err
		}
	}
	return fs.WriteFile(path, buf.Bytes())
}

func writeSheet(fs ports.FileSystem, r ports.Renderer, path string, seq windower.Sequence, opts contactsheet.Options) error {
	img, err := contactsheet.Render(r, seq, opts)
	if err != nil {
		return err
	}
	data, err := r.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return err
	}
	return fs.WriteFile(path, data)
}
