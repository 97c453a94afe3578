// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveSequence does nothing.
func (s *Sink) SaveSequence(key string, index int, frames []frame.Frame) error {
	return nil
}

// SaveMismatch does nothing.
func (s *Sink) SaveMismatch(key string, sequence, frameIndex int, img image.Image) error {
	return nil
}

// SaveResultJSON does nothing.
func (s *Sink) SaveResultJSON(key string, data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
