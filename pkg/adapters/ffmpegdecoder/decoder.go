// Package ffmpegdecoder decodes MP4 buffers into rgb24 frames by streaming
// the raw output of an external ffmpeg process.
package ffmpegdecoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/user/vidseq/pkg/adapters/codecdetect"
	"github.com/user/vidseq/pkg/adapters/rawvideo"
	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/ports"
)

var (
	// ErrFFmpegNotFound is returned when ffmpeg cannot be located.
	ErrFFmpegNotFound = errors.New("ffmpegdecoder: ffmpeg not found in PATH")

	// ErrEmptyInput is returned when asked to decode an empty buffer.
	ErrEmptyInput = errors.New("ffmpegdecoder: empty input")

	// ErrUnknownGeometry is returned when the video track has no dimensions.
	ErrUnknownGeometry = errors.New("ffmpegdecoder: unknown frame geometry")
)

// Options configures the decoder.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// TempDir is where encoded buffers are staged; empty uses os.TempDir.
	TempDir string
}

// Decoder implements ports.StreamDecoder and ports.VideoDecoder.
type Decoder struct {
	opts Options
	log  ports.Logger
}

// New creates a new Decoder.
func New(opts Options, log ports.Logger) *Decoder {
	return &Decoder{
		opts: opts,
		log:  log.WithComponent("ffmpeg"),
	}
}

// Open stages data in a temporary file and starts ffmpeg on it.
// MP4 files are not generally decodable from a pipe, since the moov box
// may follow the media data.
func (d *Decoder) Open(ctx context.Context, data []byte) (ports.FrameStream, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	info, err := codecdetect.ProbeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrUnknownGeometry, info.Width, info.Height)
	}

	ffmpegPath, err := FindFFmpeg(d.opts.FFmpegPath)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(d.opts.TempDir, "vidseq_*.mp4")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	shape := frame.Shape{Height: info.Height, Width: info.Width, Channels: 3}
	d.log.Debug("Decoding %s video %dx%d (%d samples)", info.Codec, info.Width, info.Height, info.SampleCount)

	cmd := exec.CommandContext(ctx, ffmpegPath, decodeArgs(tmpPath, info.Width, info.Height)...)
	s := &stream{cmd: cmd, tmpPath: tmpPath}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	// rawvideo.NewReader only fails on an invalid shape, checked above.
	s.reader, _ = rawvideo.NewReader(bufio.NewReaderSize(stdout, shape.Elements()), shape)
	return s, nil
}

// DecodeAll decodes every frame of data.
func (d *Decoder) DecodeAll(ctx context.Context, data []byte) ([]frame.Frame, error) {
	s, err := d.Open(ctx, data)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var frames []frame.Frame
	for {
		f, err := s.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}

	d.log.Debug("Decoded %d frames", len(frames))
	return frames, nil
}

// stream reads frames from a running ffmpeg process.
type stream struct {
	cmd     *exec.Cmd
	reader  *rawvideo.Reader
	tmpPath string
	stderr  bytes.Buffer

	done     bool
	waitErr  error
	once     sync.Once
	closeErr error
}

// Next returns the next frame, or io.EOF once ffmpeg has exited cleanly.
func (s *stream) Next(ctx context.Context) (frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return frame.Frame{}, err
	}
	if s.done {
		if s.waitErr != nil {
			return frame.Frame{}, s.waitErr
		}
		return frame.Frame{}, io.EOF
	}

	f, err := s.reader.Next()
	if err == nil {
		return f, nil
	}

	s.finish()
	if err == io.EOF {
		if s.waitErr != nil {
			return frame.Frame{}, s.waitErr
		}
		return frame.Frame{}, io.EOF
	}
	if s.waitErr != nil {
		return frame.Frame{}, fmt.Errorf("%w (%v)", err, s.waitErr)
	}
	return frame.Frame{}, err
}

// finish waits for ffmpeg to exit and records its status.
func (s *stream) finish() {
	if s.done {
		return
	}
	s.done = true
	if err := s.cmd.Wait(); err != nil {
		s.waitErr = fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, s.stderr.String())
	}
}

// Close stops ffmpeg if it is still running and removes the staged input.
// The exit status of a killed process is not reported.
func (s *stream) Close() error {
	s.once.Do(func() {
		if !s.done {
			if s.cmd.Process != nil {
				s.cmd.Process.Kill()
			}
			s.done = true
			s.cmd.Wait()
		}
		if err := os.Remove(s.tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.closeErr = fmt.Errorf("remove staged input: %w", err)
		}
	})
	return s.closeErr
}

// Ensure Decoder implements the decoder ports
var (
	_ ports.StreamDecoder = (*Decoder)(nil)
	_ ports.VideoDecoder  = (*Decoder)(nil)
)
