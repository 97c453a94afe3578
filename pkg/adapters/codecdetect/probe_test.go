package codecdetect

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
)

// newInit returns an init segment with one video track using the given
// sample entry.
func newInit(t *testing.T, entry string, width, height uint16) *mp4.InitSegment {
	t.Helper()
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(90000, "video", "und")

	trak := init.Moov.Trak
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox(entry, width, height, nil))
	trak.Tkhd.Width = mp4.Fixed32(uint32(width) << 16)
	trak.Tkhd.Height = mp4.Fixed32(uint32(height) << 16)
	return init
}

// progressiveMP4 builds a progressive file header carrying samples entries
// in its sample tables.
func progressiveMP4(t *testing.T, entry string, samples int) []byte {
	t.Helper()
	init := newInit(t, entry, 64, 48)

	stbl := init.Moov.Trak.Mdia.Minf.Stbl
	stbl.Stts.SampleCount = []uint32{uint32(samples)}
	stbl.Stts.SampleTimeDelta = []uint32{3000}
	stbl.Stsz.SampleUniformSize = 100
	stbl.Stsz.SampleNumber = uint32(samples)

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		t.Fatalf("encode init: %v", err)
	}
	return buf.Bytes()
}

// fragmentedMP4 builds an init segment followed by fragments, each holding
// perFragment samples.
func fragmentedMP4(t *testing.T, fragments, perFragment int) []byte {
	t.Helper()
	init := newInit(t, "avc1", 64, 48)
	trackID := init.Moov.Trak.Tkhd.TrackID

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		t.Fatalf("encode init: %v", err)
	}

	decodeTime := uint64(0)
	for i := 0; i < fragments; i++ {
		frag, err := mp4.CreateFragment(uint32(i+1), trackID)
		if err != nil {
			t.Fatalf("create fragment: %v", err)
		}
		for j := 0; j < perFragment; j++ {
			flags := mp4.NonSyncSampleFlags
			if j == 0 {
				flags = mp4.SyncSampleFlags
			}
			data := []byte{0, 0, 0, 1, byte(i), byte(j)}
			frag.AddFullSample(mp4.FullSample{
				Sample: mp4.Sample{
					Flags: flags,
					Size:  uint32(len(data)),
					Dur:   3000,
				},
				DecodeTime: decodeTime,
				Data:       data,
			})
			decodeTime += 3000
		}
		if err := frag.Encode(&buf); err != nil {
			t.Fatalf("encode fragment: %v", err)
		}
	}
	return buf.Bytes()
}

func TestProbeBytes_Progressive(t *testing.T) {
	info, err := ProbeBytes(progressiveMP4(t, "avc1", 40))
	if err != nil {
		t.Fatalf("ProbeBytes failed: %v", err)
	}

	want := TrackInfo{
		Codec:       CodecH264,
		TrackID:     1,
		Width:       64,
		Height:      48,
		Timescale:   90000,
		SampleCount: 40,
		Fragmented:  false,
	}
	if info != want {
		t.Errorf("ProbeBytes = %+v, want %+v", info, want)
	}
}

func TestProbeBytes_ProgressiveCodecs(t *testing.T) {
	tests := []struct {
		entry string
		want  Codec
	}{
		{"avc1", CodecH264},
		{"hvc1", CodecHEVC},
		{"mp4v", CodecMPEG4},
		{"vp09", CodecVP9},
	}

	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			codec, err := DetectFromBytes(progressiveMP4(t, tt.entry, 3))
			if err != nil {
				t.Fatalf("DetectFromBytes failed: %v", err)
			}
			if codec != tt.want {
				t.Errorf("DetectFromBytes = %s, want %s", codec, tt.want)
			}
		})
	}
}

func TestProbeBytes_Fragmented(t *testing.T) {
	info, err := ProbeBytes(fragmentedMP4(t, 2, 7))
	if err != nil {
		t.Fatalf("ProbeBytes failed: %v", err)
	}

	want := TrackInfo{
		Codec:       CodecH264,
		TrackID:     1,
		Width:       64,
		Height:      48,
		Timescale:   90000,
		SampleCount: 14,
		Fragmented:  true,
	}
	if info != want {
		t.Errorf("ProbeBytes = %+v, want %+v", info, want)
	}
}

func TestProbeBytes_FragmentedInitOnly(t *testing.T) {
	info, err := ProbeBytes(fragmentedMP4(t, 0, 0))
	if err != nil {
		t.Fatalf("ProbeBytes failed: %v", err)
	}
	if !info.Fragmented || info.SampleCount != 0 {
		t.Errorf("expected an empty fragmented track, got %+v", info)
	}
}

func TestProbeReader_Rewinds(t *testing.T) {
	r := bytes.NewReader(progressiveMP4(t, "avc1", 5))
	if _, err := ProbeReader(r); err != nil {
		t.Fatalf("ProbeReader failed: %v", err)
	}
	if pos := r.Size() - int64(r.Len()); pos != 0 {
		t.Errorf("expected reader at offset 0, got %d", pos)
	}
}

func TestProbeBytes_NoVideoTrack(t *testing.T) {
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(48000, "audio", "und")
	stbl := init.Moov.Trak.Mdia.Minf.Stbl
	stbl.Stts.SampleCount = []uint32{1}
	stbl.Stts.SampleTimeDelta = []uint32{1024}

	var buf bytes.Buffer
	if err := init.Encode(&buf); err != nil {
		t.Fatalf("encode init: %v", err)
	}

	info, err := ProbeBytes(buf.Bytes())
	if !errors.Is(err, ErrNoVideoTrack) {
		t.Errorf("expected ErrNoVideoTrack, got %v", err)
	}
	if info.Codec != CodecUnknown {
		t.Errorf("expected CodecUnknown, got %s", info.Codec)
	}
}
