package main

import (
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidseq/pkg/adapters/codecdetect"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:        "probe",
		Usage:       l10n.T("Print the video track of MP4 files"),
		Description: l10n.T("Print codec, dimensions and sample count of the first video track of each FILE."),
		ArgsUsage:   "FILE...",
		Action:      runProbe,
	}
}

func runProbe(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit(l10n.T("At least one video file is required"), exitUsage)
	}

	failed := false
	for _, path := range c.Args().Slice() {
		info, err := probeFile(path)
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", path, err)
			failed = true
			continue
		}
		layout := "progressive"
		if info.Fragmented {
			layout = "fragmented"
		}
		fmt.Fprintf(c.App.Writer, "%s: %s %dx%d, %d samples, timescale %d, track %d, %s\n",
			path, info.Codec, info.Width, info.Height, info.SampleCount, info.Timescale, info.TrackID, layout)
	}

	if failed {
		return cli.Exit("", exitUsage)
	}
	return nil
}

func probeFile(path string) (codecdetect.TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return codecdetect.TrackInfo{}, err
	}
	defer f.Close()
	return codecdetect.ProbeReader(f)
}
