// Package mp4probe inspects encoded MP4 files with mp4ff.
package mp4probe

import (
	"errors"
	"fmt"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framerec/pkg/pipeline"
	"github.com/user/framerec/pkg/ports"
)

// ErrNoVideoTrack is returned when a file has no video track.
var ErrNoVideoTrack = errors.New("mp4probe: no video track found")

// Codec names reported in ArtifactInfo.
const (
	CodecH264    = "h264"
	CodecHEVC    = "hevc"
	CodecAV1     = "av1"
	CodecVP9     = "vp9"
	CodecUnknown = "unknown"
)

// Probe implements ports.ArtifactProbe.
type Probe struct{}

// New creates a probe.
func New() *Probe {
	return &Probe{}
}

// Probe reads the first video track of the MP4 file at path.
func (p *Probe) Probe(path string) (*pipeline.ArtifactInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := mp4.DecodeFile(f)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	info, err := infoFromFile(file)
	if err != nil {
		return nil, err
	}
	info.FileSize = st.Size()
	return info, nil
}

func infoFromFile(file *mp4.File) (*pipeline.ArtifactInfo, error) {
	var traks []*mp4.TrakBox
	if file.Moov != nil {
		traks = append(traks, file.Moov.Traks...)
	}
	if file.IsFragmented() && file.Init != nil && file.Init.Moov != nil {
		traks = append(traks, file.Init.Moov.Traks...)
	}
	for _, trak := range traks {
		if info, ok := infoFromTrak(trak); ok {
			return info, nil
		}
	}
	return nil, ErrNoVideoTrack
}

func infoFromTrak(trak *mp4.TrakBox) (*pipeline.ArtifactInfo, bool) {
	if trak == nil || trak.Mdia == nil || trak.Mdia.Hdlr == nil {
		return nil, false
	}
	if trak.Mdia.Hdlr.HandlerType != "vide" {
		return nil, false
	}

	info := &pipeline.ArtifactInfo{Codec: CodecUnknown}
	if trak.Tkhd != nil {
		// tkhd dimensions are 16.16 fixed point
		info.Width = int(uint32(trak.Tkhd.Width) >> 16)
		info.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}
	if mdhd := trak.Mdia.Mdhd; mdhd != nil {
		info.DurationMs = durationMs(mdhd.Duration, mdhd.Timescale)
	}
	if minf := trak.Mdia.Minf; minf != nil && minf.Stbl != nil {
		if stsd := minf.Stbl.Stsd; stsd != nil {
			for _, child := range stsd.Children {
				if c := codecName(child.Type()); c != CodecUnknown {
					info.Codec = c
					break
				}
			}
		}
		if stsz := minf.Stbl.Stsz; stsz != nil {
			info.SampleCount = int(stsz.SampleNumber)
		}
	}
	return info, true
}

func codecName(sampleEntry string) string {
	switch sampleEntry {
	case "avc1", "avc3":
		return CodecH264
	case "hvc1", "hev1":
		return CodecHEVC
	case "av01":
		return CodecAV1
	case "vp09":
		return CodecVP9
	default:
		return CodecUnknown
	}
}

func durationMs(duration uint64, timescale uint32) int {
	if timescale == 0 {
		return 0
	}
	return int(duration * 1000 / uint64(timescale))
}

var _ ports.ArtifactProbe = (*Probe)(nil)
