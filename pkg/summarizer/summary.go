// Package summarizer builds and formats the report of a verification run.
package summarizer

import (
	"time"

	"github.com/google/uuid"
)

// Summary contains everything reported about one verification run.
type Summary struct {
	// Metadata
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`

	// Run settings
	Settings Settings `json:"settings"`

	// Per-source outcomes, in run order
	Files []FileSummary `json:"files"`

	// Totals over Files
	Totals Totals `json:"totals"`
}

// Settings contains the run configuration.
type Settings struct {
	FramesPerSequence int      `json:"framesPerSequence"`
	MaxSequences      int      `json:"maxSequences,omitempty"`
	Resize            string   `json:"resize,omitempty"`
	Root              string   `json:"root,omitempty"`
	Patterns          []string `json:"patterns,omitempty"`
	Exclude           []string `json:"exclude,omitempty"`
	Decoder           string   `json:"decoder,omitempty"`
}

// FileSummary is the outcome for one source.
type FileSummary struct {
	Name          string `json:"name"`
	Codec         string `json:"codec,omitempty"`
	Shape         string `json:"shape,omitempty"`
	Bytes         int64  `json:"bytes"`
	Frames        int    `json:"frames"`
	Reference     int    `json:"referenceSequences"`
	Streamed      int    `json:"streamedSequences"`
	Dropped       int    `json:"droppedFrames"`
	Mismatched    int    `json:"mismatchedFrames"`
	FirstMismatch string `json:"firstMismatch,omitempty"`
	Passed        bool   `json:"passed"`
	Error         string `json:"error,omitempty"`
}

// Totals aggregates the file summaries.
type Totals struct {
	Files     int   `json:"files"`
	Passed    int   `json:"passed"`
	Failed    int   `json:"failed"`
	Frames    int   `json:"frames"`
	Sequences int   `json:"sequences"`
	Bytes     int64 `json:"bytes"`
}

// NewSummary creates a new Summary with a fresh run ID and the current
// timestamp.
func NewSummary() *Summary {
	return &Summary{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Passed reports whether at least one source ran and none failed.
func (s *Summary) Passed() bool {
	return s.Totals.Files > 0 && s.Totals.Failed == 0
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRunID overrides the generated run ID.
func (b *Builder) WithRunID(id string) *Builder {
	b.summary.RunID = id
	return b
}

// WithGeneratedAt overrides the generation timestamp.
func (b *Builder) WithGeneratedAt(t time.Time) *Builder {
	b.summary.GeneratedAt = t
	return b
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// AddFile appends a source outcome.
func (b *Builder) AddFile(f FileSummary) *Builder {
	b.summary.Files = append(b.summary.Files, f)
	return b
}

// Build computes the totals and returns the constructed Summary.
func (b *Builder) Build() *Summary {
	t := Totals{Files: len(b.summary.Files)}
	for _, f := range b.summary.Files {
		if f.Passed {
			t.Passed++
		} else {
			t.Failed++
		}
		t.Frames += f.Frames
		t.Sequences += f.Streamed
		t.Bytes += f.Bytes
	}
	b.summary.Totals = t
	return b.summary
}
