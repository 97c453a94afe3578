package mocks

import (
	"fmt"
	"image"
	"sync"

	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	// Keyed by "<key>/<index>" and "<key>/<sequence>/<frame>".
	Sequences  map[string][]frame.Frame
	Mismatches map[string]image.Image
	Results    map[string][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:    enabled,
		Sequences:  make(map[string][]frame.Frame),
		Mismatches: make(map[string]image.Image),
		Results:    make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveSequence(key string, index int, frames []frame.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sequences[fmt.Sprintf("%s/%d", key, index)] = frames
	return nil
}

func (m *DebugSink) SaveMismatch(key string, sequence, frameIndex int, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Mismatches[fmt.Sprintf("%s/%d/%d", key, sequence, frameIndex)] = img
	return nil
}

func (m *DebugSink) SaveResultJSON(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results[key] = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
