package ffmpegdecoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

// PatternOptions describes a synthetic clip rendered from ffmpeg's testsrc2
// source.
type PatternOptions struct {
	Frames int
	Width  int
	Height int
	FPS    int
	// Codec is an ffmpeg encoder name such as libx264 or mpeg4.
	Codec string
}

// DefaultPatternOptions returns a short 64x48 H.264 clip at 25 fps.
func DefaultPatternOptions() PatternOptions {
	return PatternOptions{
		Frames: 40,
		Width:  64,
		Height: 48,
		FPS:    25,
		Codec:  "libx264",
	}
}

// GeneratePattern renders a synthetic clip into an MP4 file at out.
func GeneratePattern(ctx context.Context, ffmpegPath, out string, opts PatternOptions) error {
	if opts.Frames <= 0 || opts.Width <= 0 || opts.Height <= 0 || opts.FPS <= 0 {
		return fmt.Errorf("ffmpegdecoder: invalid pattern options %+v", opts)
	}
	if opts.Codec == "" {
		opts.Codec = "libx264"
	}

	path, err := FindFFmpeg(ffmpegPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc2=size=%dx%d:rate=%d", opts.Width, opts.Height, opts.FPS),
		"-frames:v", strconv.Itoa(opts.Frames),
		"-c:v", opts.Codec,
		"-pix_fmt", "yuv420p",
		out,
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg encode failed: %w\noutput: %s", err, output)
	}
	return nil
}

// GeneratePatternBytes renders a synthetic clip and returns the MP4 bytes.
func GeneratePatternBytes(ctx context.Context, ffmpegPath string, opts PatternOptions) ([]byte, error) {
	dir, err := os.MkdirTemp("", "vidseq_pattern_*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "pattern.mp4")
	if err := GeneratePattern(ctx, ffmpegPath, out, opts); err != nil {
		return nil, err
	}
	return os.ReadFile(out)
}
