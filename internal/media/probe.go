package media

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// FormatInfo is what ffprobe tells us about a media file, reduced to the
// fields playback decisions need.
type FormatInfo struct {
	Container   string
	VideoCodec  string
	BitrateKbps int
	// Probed is false when ffprobe was unavailable and the info came from
	// the file extension alone.
	Probed bool
}

// runFFprobe is swapped out by tests. The real one shells out to ffprobe
// with JSON output.
var runFFprobe = func(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)
	return cmd.Output()
}

// Probe inspects path with ffprobe. When ffprobe is missing or fails, a
// degraded FormatInfo is synthesized from the extension so callers can still
// make a best-effort decision.
func Probe(ctx context.Context, path string) (FormatInfo, error) {
	out, err := runFFprobe(ctx, path)
	if err != nil {
		return fallbackInfo(path), nil
	}

	info := FormatInfo{Probed: true}

	if name, err := jsonparser.GetString(out, "format", "format_name"); err == nil {
		info.Container = normalizeContainer(name)
	}
	if bitrate, err := jsonparser.GetString(out, "format", "bit_rate"); err == nil {
		if bps, err := strconv.Atoi(bitrate); err == nil {
			info.BitrateKbps = bps / 1000
		}
	}

	_, err = jsonparser.ArrayEach(out, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		codecType, _ := jsonparser.GetString(value, "codec_type")
		if codecType != "video" || info.VideoCodec != "" {
			return
		}
		info.VideoCodec, _ = jsonparser.GetString(value, "codec_name")
		if info.BitrateKbps == 0 {
			if bitrate, err := jsonparser.GetString(value, "bit_rate"); err == nil {
				if bps, err := strconv.Atoi(bitrate); err == nil {
					info.BitrateKbps = bps / 1000
				}
			}
		}
	}, "streams")
	if err != nil {
		return fallbackInfo(path), nil
	}

	if info.Container == "" {
		return FormatInfo{}, fmt.Errorf("probe %s: no format information", path)
	}
	return info, nil
}

// normalizeContainer reduces ffprobe's comma-separated alternatives
// ("mov,mp4,m4a,3gp,3g2,mj2", "matroska,webm") to one canonical name.
func normalizeContainer(name string) string {
	for _, n := range strings.Split(name, ",") {
		if n == "mp4" || n == "matroska" {
			return n
		}
	}
	first, _, _ := strings.Cut(name, ",")
	return first
}

func fallbackInfo(path string) FormatInfo {
	// assume h264 for the common video containers; wrong guesses only cost
	// an unnecessary optimization suggestion
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".m4v":
		return FormatInfo{Container: "mp4", VideoCodec: "h264"}
	case ".mkv":
		return FormatInfo{Container: "matroska", VideoCodec: "h264"}
	case ".avi":
		return FormatInfo{Container: "avi", VideoCodec: "h264"}
	case ".mov":
		return FormatInfo{Container: "mov", VideoCodec: "h264"}
	default:
		return FormatInfo{Container: "unknown"}
	}
}
