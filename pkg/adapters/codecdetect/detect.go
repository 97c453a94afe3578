// Package codecdetect provides utilities for detecting the video codec and
// track geometry of MP4 files.
package codecdetect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecVP9     Codec = "vp9"
	CodecMPEG4   Codec = "mpeg4"
	CodecUnknown Codec = "unknown"
)

// ErrNoVideoTrack is returned when the file has no video track.
var ErrNoVideoTrack = errors.New("codecdetect: no video track found")

// TrackInfo describes the first video track of an MP4 file.
type TrackInfo struct {
	Codec       Codec
	TrackID     uint32
	Width       int
	Height      int
	Timescale   uint32
	SampleCount int
	Fragmented  bool
}

// DetectFromFile detects the video codec used in an MP4 file.
func DetectFromFile(path string) (Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return CodecUnknown, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return DetectFromReader(f)
}

// DetectFromReader detects the video codec from an io.ReadSeeker.
func DetectFromReader(reader io.ReadSeeker) (Codec, error) {
	info, err := ProbeReader(reader)
	if err != nil {
		return CodecUnknown, err
	}
	return info.Codec, nil
}

// DetectFromBytes detects the video codec from MP4 data bytes.
func DetectFromBytes(data []byte) (Codec, error) {
	return DetectFromReader(bytes.NewReader(data))
}

// ProbeBytes describes the first video track of MP4 data.
func ProbeBytes(data []byte) (TrackInfo, error) {
	return ProbeReader(bytes.NewReader(data))
}

// ProbeReader describes the first video track read from reader.
// The reader is rewound to the start on success.
func ProbeReader(reader io.ReadSeeker) (TrackInfo, error) {
	mp4File, err := mp4.DecodeFile(reader)
	if err != nil {
		return TrackInfo{Codec: CodecUnknown}, fmt.Errorf("decode mp4: %w", err)
	}

	// Reset reader position for subsequent reads
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return TrackInfo{Codec: CodecUnknown}, fmt.Errorf("seek: %w", err)
	}

	return probeMP4File(mp4File)
}

func probeMP4File(mp4File *mp4.File) (TrackInfo, error) {
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		moov := mp4File.Init.Moov
		for _, trak := range moov.Traks {
			info, ok := probeTrack(trak)
			if !ok {
				continue
			}
			info.Fragmented = true
			n, err := countFragmentedSamples(mp4File, moov, info.TrackID)
			if err != nil {
				return info, err
			}
			info.SampleCount = n
			return info, nil
		}
	}

	if mp4File.Moov != nil {
		for _, trak := range mp4File.Moov.Traks {
			info, ok := probeTrack(trak)
			if !ok {
				continue
			}
			if stbl := trak.Mdia.Minf.Stbl; stbl.Stsz != nil {
				info.SampleCount = int(stbl.Stsz.SampleNumber)
			}
			return info, nil
		}
	}

	return TrackInfo{Codec: CodecUnknown}, ErrNoVideoTrack
}

// probeTrack returns the track description when trak is a video track with
// a sample description.
func probeTrack(trak *mp4.TrakBox) (TrackInfo, bool) {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return TrackInfo{}, false
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return TrackInfo{}, false
	}

	info := TrackInfo{Codec: CodecUnknown, Timescale: 1000}
	if trak.Tkhd != nil {
		info.TrackID = trak.Tkhd.TrackID
		info.Width = int(trak.Tkhd.Width >> 16)
		info.Height = int(trak.Tkhd.Height >> 16)
	}
	if trak.Mdia.Mdhd != nil {
		info.Timescale = trak.Mdia.Mdhd.Timescale
	}

	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		codec := codecFromSampleEntry(child.Type())
		if codec == CodecUnknown {
			continue
		}
		info.Codec = codec
		// Sample entry dimensions are the coded picture size; prefer them.
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 && vse.Height > 0 {
			info.Width = int(vse.Width)
			info.Height = int(vse.Height)
		}
		break
	}

	return info, true
}

func codecFromSampleEntry(boxType string) Codec {
	switch boxType {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	case "mp4v":
		return CodecMPEG4
	default:
		return CodecUnknown
	}
}

func countFragmentedSamples(mp4File *mp4.File, moov *mp4.MoovBox, trackID uint32) (int, error) {
	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	count := 0
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trackID {
					continue
				}
				samples, err := frag.GetFullSamples(trex)
				if err != nil {
					return 0, fmt.Errorf("get samples: %w", err)
				}
				count += len(samples)
			}
		}
	}
	return count, nil
}
