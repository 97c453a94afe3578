package codecdetect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCodecFromSampleEntry(t *testing.T) {
	tests := []struct {
		box  string
		want Codec
	}{
		{"avc1", CodecH264},
		{"avc3", CodecH264},
		{"hvc1", CodecHEVC},
		{"hev1", CodecHEVC},
		{"av01", CodecAV1},
		{"vp09", CodecVP9},
		{"mp4v", CodecMPEG4},
		{"mp4a", CodecUnknown},
		{"", CodecUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.box, func(t *testing.T) {
			if got := codecFromSampleEntry(tt.box); got != tt.want {
				t.Errorf("codecFromSampleEntry(%q) = %s, want %s", tt.box, got, tt.want)
			}
		})
	}
}

func TestDetectFromBytes_Garbage(t *testing.T) {
	codec, err := DetectFromBytes([]byte("definitely not an mp4 file"))
	if err == nil {
		t.Fatal("expected error for non-MP4 data")
	}
	if codec != CodecUnknown {
		t.Errorf("expected CodecUnknown, got %s", codec)
	}
}

func TestProbeBytes_Empty(t *testing.T) {
	info, err := ProbeBytes(nil)
	if err == nil {
		t.Fatal("expected error for empty data")
	}
	if info.Codec != CodecUnknown {
		t.Errorf("expected CodecUnknown, got %s", info.Codec)
	}
}

func TestDetectFromFile_Missing(t *testing.T) {
	_, err := DetectFromFile(filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
