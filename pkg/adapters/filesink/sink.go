// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/user/vidseq/pkg/contactsheet"
	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/ports"
)

// Sink saves debug output under baseDir, one directory per source:
//
//	<baseDir>/<key>/sequences/seq-0000.png
//	<baseDir>/<key>/mismatch/seq-0001-frame-03.png
//	<baseDir>/<key>/result.json
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
	sheet    contactsheet.Options
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
		sheet:    contactsheet.DefaultOptions(),
	}
}

// WithSheetOptions returns a copy of the sink that renders contact sheets
// with opts.
func (s *Sink) WithSheetOptions(opts contactsheet.Options) *Sink {
	c := *s
	c.sheet = opts
	return &c
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveSequence saves a contact sheet of one window.
func (s *Sink) SaveSequence(key string, index int, frames []frame.Frame) error {
	img, err := contactsheet.Render(s.renderer, frames, s.sheet)
	if err != nil {
		return fmt.Errorf("render sequence %d: %w", index, err)
	}
	return s.savePNG(filepath.Join(s.dir(key), "sequences"), fmt.Sprintf("seq-%04d.png", index), img)
}

// SaveMismatch saves a side-by-side image of a differing frame.
func (s *Sink) SaveMismatch(key string, sequence, frameIndex int, img image.Image) error {
	name := fmt.Sprintf("seq-%04d-frame-%02d.png", sequence, frameIndex)
	return s.savePNG(filepath.Join(s.dir(key), "mismatch"), name, img)
}

// SaveResultJSON saves the comparison result for one source.
func (s *Sink) SaveResultJSON(key string, data []byte) error {
	dir := s.dir(key)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, "result.json"), data)
}

func (s *Sink) savePNG(dir, name string, img image.Image) error {
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.fs.WriteFile(filepath.Join(dir, name), data)
}

// dir maps a source key to a directory name safe on every platform.
func (s *Sink) dir(key string) string {
	key = strings.TrimSuffix(filepath.Base(key), filepath.Ext(key))
	key = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, key)
	if key == "" || key == "." {
		key = "source"
	}
	return filepath.Join(s.baseDir, key)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
