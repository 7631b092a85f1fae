package media

import (
	"context"
	"fmt"
)

const highBitrateKbps = 15000

// Recommendations summarizes whether a file will stream well and what to do
// about it when it will not.
type Recommendations struct {
	Container   string
	Codec       string
	BitrateKbps int
	Optimal     bool
	Suggestions []string
}

// Recommend probes path and flags the container/codec/bitrate combinations
// known to trip up renderers.
func Recommend(ctx context.Context, path string) (Recommendations, error) {
	info, err := Probe(ctx, path)
	if err != nil {
		return Recommendations{}, err
	}

	rec := Recommendations{
		Container:   info.Container,
		Codec:       info.VideoCodec,
		BitrateKbps: info.BitrateKbps,
		Optimal:     true,
	}

	if info.Container == "matroska" && info.VideoCodec != "h264" {
		rec.Optimal = false
		rec.Suggestions = append(rec.Suggestions,
			"MKV with non-H.264 codec may cause compatibility issues")
	}
	if info.Container != "mp4" && info.Container != "matroska" {
		rec.Optimal = false
		rec.Suggestions = append(rec.Suggestions,
			fmt.Sprintf("container format %q may not be well supported", info.Container))
	}
	if c := info.VideoCodec; c != "" && c != "h264" && c != "h265" && c != "hevc" {
		rec.Optimal = false
		rec.Suggestions = append(rec.Suggestions,
			fmt.Sprintf("codec %q may not be supported by your TV", c))
	}
	if info.BitrateKbps > highBitrateKbps {
		rec.Suggestions = append(rec.Suggestions,
			fmt.Sprintf("high bitrate (%d kbps) may cause buffering on slower networks", info.BitrateKbps))
	}

	if len(rec.Suggestions) == 0 {
		rec.Suggestions = append(rec.Suggestions, "file appears optimized for streaming")
	}
	return rec, nil
}
