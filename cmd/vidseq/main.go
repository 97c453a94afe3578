// Package main provides the CLI entry point for vidseq.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/vidseq/pkg/adapters/logger"
	"github.com/user/vidseq/pkg/ports"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, l10n.F("vidseq version %s", c.App.Version))
	}

	return &cli.App{
		Name:        "vidseq",
		Usage:       l10n.T("Slice decoded video into fixed-size frame sequences"),
		Description: l10n.T("vidseq streams decoded frames into non-overlapping windows and verifies them against batch decoding."),
		Version:     version,
		Commands: []*cli.Command{
			verifyCommand(),
			windowCommand(),
			probeCommand(),
			generateCommand(),
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					cli.VersionPrinter(c)
					return nil
				},
			},
		},
	}
}

// loggingFlags are shared by every command that runs a pipeline.
func loggingFlags() []cli.Flag {
	category := l10n.T("Logging")
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: category,
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: category,
		},
	}
}

// newLogger builds the console logger from the logging flags, falling
// back to level when --log-level is not given.
func newLogger(c *cli.Context, level ports.LogLevel) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	if c.IsSet("log-level") {
		level = ports.ParseLogLevel(c.String("log-level"))
	}
	return logger.New(level)
}

// withSignals returns a context cancelled on SIGINT or SIGTERM.
func withSignals(parent context.Context, log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
