// Package fixtures finds the encoded videos a verification run walks over.
package fixtures

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user/vidseq/pkg/adapters/codecdetect"
	"github.com/user/vidseq/pkg/ports"
)

// ErrRootNotFound is returned when the fixtures root does not exist.
var ErrRootNotFound = errors.New("fixtures: root not found")

// DefaultPatterns matches constant and variable frame rate clips.
var DefaultPatterns = []string{"[cv]fr/*.mp4"}

// DefaultExclude skips codecs the reference decoder does not handle.
var DefaultExclude = []string{"hevc", "mpeg4"}

// Discover expands patterns relative to root and removes every path whose
// base name contains one of the exclude substrings. The result is sorted
// and free of duplicates.
func Discover(fs ports.FileSystem, root string, patterns, exclude []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	ok, err := fs.Exists(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}
		matches, err := fs.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] || excluded(m, exclude) {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func excluded(path string, exclude []string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, e := range exclude {
		if e != "" && strings.Contains(name, strings.ToLower(e)) {
			return true
		}
	}
	return false
}

// Skipped records a source removed by FilterCodecs.
type Skipped struct {
	Path   string
	Reason string
}

// FilterCodecs keeps the paths whose first video track uses one of the
// allowed codecs. Paths that cannot be read or probed are skipped too.
func FilterCodecs(fs ports.FileSystem, paths []string, allowed []codecdetect.Codec) ([]string, []Skipped) {
	if len(allowed) == 0 {
		return paths, nil
	}

	ok := make(map[codecdetect.Codec]bool, len(allowed))
	for _, c := range allowed {
		ok[c] = true
	}

	var kept []string
	var skipped []Skipped
	for _, p := range paths {
		data, err := fs.ReadFile(p)
		if err != nil {
			skipped = append(skipped, Skipped{Path: p, Reason: err.Error()})
			continue
		}
		codec, err := codecdetect.DetectFromBytes(data)
		if err != nil {
			skipped = append(skipped, Skipped{Path: p, Reason: err.Error()})
			continue
		}
		if !ok[codec] {
			skipped = append(skipped, Skipped{Path: p, Reason: fmt.Sprintf("codec %s", codec)})
			continue
		}
		kept = append(kept, p)
	}
	return kept, skipped
}

// ParseCodecs converts codec names into codecdetect values, rejecting
// unknown names.
func ParseCodecs(names []string) ([]codecdetect.Codec, error) {
	var codecs []codecdetect.Codec
	for _, n := range names {
		c := codecdetect.Codec(strings.ToLower(strings.TrimSpace(n)))
		switch c {
		case codecdetect.CodecH264, codecdetect.CodecHEVC, codecdetect.CodecAV1,
			codecdetect.CodecVP9, codecdetect.CodecMPEG4:
			codecs = append(codecs, c)
		default:
			return nil, fmt.Errorf("unknown codec %q", n)
		}
	}
	return codecs, nil
}
