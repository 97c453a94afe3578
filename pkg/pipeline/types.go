package pipeline

import (
	"github.com/user/vidseq/pkg/frame"
	"github.com/user/vidseq/pkg/windower"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// IsZero reports whether no dimension is set.
func (d Dimension) IsZero() bool {
	return d.Width == 0 && d.Height == 0
}

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput is one encoded source to decode in full.
type DecodeInput struct {
	Name string // Source name used in logs and errors
	Data []byte // Encoded MP4 bytes
}

// DecodeResult contains every decoded frame of a source.
type DecodeResult struct {
	Frames []frame.Frame
}

// =============================================================================
// Video Input Stage Types
// =============================================================================

// VideoInputInput is one encoded source to stream into windows.
type VideoInputInput struct {
	Name              string
	Data              []byte
	FramesPerSequence int
	MaxSequences      int // 0 means unlimited
}

// SequencesResult contains the windows produced from one source.
type SequencesResult struct {
	Sequences     []windower.Sequence
	DroppedFrames int // Trailing frames that did not fill a window
}

// =============================================================================
// Compare Stage Types
// =============================================================================

// CompareInput pairs the reference windows with the streamed windows.
type CompareInput struct {
	Name      string
	Reference []windower.Sequence
	Streamed  []windower.Sequence
}

// Mismatch describes the first frame where two sequence lists disagree.
type Mismatch struct {
	Sequence       int    `json:"sequence"`
	Frame          int    `json:"frame"`
	ReferenceShape string `json:"referenceShape"`
	StreamedShape  string `json:"streamedShape"`
	DiffSamples    int    `json:"diffSamples"` // -1 when shapes differ
}

// CompareResult summarizes a comparison.
type CompareResult struct {
	Name             string    `json:"name"`
	ReferenceCount   int       `json:"referenceCount"`
	StreamedCount    int       `json:"streamedCount"`
	FramesCompared   int       `json:"framesCompared"`
	MismatchedFrames int       `json:"mismatchedFrames"`
	FirstMismatch    *Mismatch `json:"firstMismatch,omitempty"`
}

// Passed reports whether both lists hold the same windows.
func (r CompareResult) Passed() bool {
	return r.ReferenceCount == r.StreamedCount && r.MismatchedFrames == 0
}
