package ports

import (
	"image"

	"github.com/user/vidseq/pkg/frame"
)

// DebugSink abstracts debug output for intermediate results of a
// verification run. Keys identify the source video, typically its base name.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveSequence saves one emitted window as a contact sheet.
	SaveSequence(key string, index int, frames []frame.Frame) error

	// SaveMismatch saves a side-by-side image of a reference frame and the
	// streamed frame that differs from it.
	SaveMismatch(key string, sequence, frameIndex int, img image.Image) error

	// SaveResultJSON saves the comparison result for one source.
	SaveResultJSON(key string, data []byte) error
}
