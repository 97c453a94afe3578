package main

import (
	"fmt"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidseq/pkg/adapters/ffmpegdecoder"
	"github.com/user/vidseq/pkg/config"
	"github.com/user/vidseq/pkg/ports"
)

func generateCommand() *cli.Command {
	defaults := ffmpegdecoder.DefaultPatternOptions()

	return &cli.Command{
		Name:        "generate",
		Usage:       l10n.T("Generate synthetic fixture videos"),
		Description: l10n.T("Render ffmpeg test patterns into DIR/cfr/CODEC-FRAMES.mp4 for use with verify."),
		ArgsUsage:   "DIR",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{Name: "codec", Value: cli.NewStringSlice(defaults.Codec), Usage: l10n.T("ffmpeg encoder, repeatable")},
			&cli.IntSliceFlag{Name: "frames", Value: cli.NewIntSlice(defaults.Frames, 13), Usage: l10n.T("Frame count, repeatable")},
			&cli.StringFlag{Name: "size", Value: fmt.Sprintf("%dx%d", defaults.Width, defaults.Height), Usage: l10n.T("Frame size (WIDTHxHEIGHT)")},
			&cli.IntFlag{Name: "fps", Value: defaults.FPS, Usage: l10n.T("Frame rate")},
			&cli.StringFlag{Name: "ffmpeg", Usage: l10n.T("Path to ffmpeg executable")},
		}, loggingFlags()...),
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit(l10n.T("An output directory is required"), exitUsage)
	}
	root := c.Args().First()

	size, err := config.ParseSize(c.String("size"))
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	log := newLogger(c, ports.LevelInfo)
	ctx, stop := withSignals(c.Context, log)
	defer stop()

	for _, codec := range c.StringSlice("codec") {
		for _, frames := range c.IntSlice("frames") {
			out := filepath.Join(root, "cfr", fmt.Sprintf("%s-%d.mp4", codec, frames))
			opts := ffmpegdecoder.PatternOptions{
				Frames: frames,
				Width:  size.Width,
				Height: size.Height,
				FPS:    c.Int("fps"),
				Codec:  codec,
			}
			if err := ffmpegdecoder.GeneratePattern(ctx, c.String("ffmpeg"), out, opts); err != nil {
				return err
			}
			log.Info("Generated %s", out)
		}
	}
	return nil
}
