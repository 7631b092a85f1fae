package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// OptimizeMode distinguishes a cheap container rewrite from a full
// re-encode.
type OptimizeMode string

const (
	ModeRemux     OptimizeMode = "remux"
	ModeTranscode OptimizeMode = "transcode"
)

const (
	// DefaultTargetBitrateMbps caps transcode output so 100 Mbit networks
	// keep headroom.
	DefaultTargetBitrateMbps = 18.0

	audioBitrate = "128k"
)

type OptimizeOptions struct {
	TargetBitrateMbps float64
	// ForceMP4 builds a command even for files that already look optimal.
	ForceMP4 bool
	// RemuxOnly prefers a stream copy when the video codec allows it.
	RemuxOnly bool
}

// BuildOptimizeCommand returns an ffmpeg argv that rewrites path into an
// MP4 suited for renderer playback, plus the chosen mode. A nil argv means
// the file needs no work. The command is never executed here.
func BuildOptimizeCommand(ctx context.Context, path string, opts OptimizeOptions) ([]string, OptimizeMode, error) {
	target := opts.TargetBitrateMbps
	if target <= 0 {
		target = DefaultTargetBitrateMbps
	}

	info, err := Probe(ctx, path)
	if err != nil {
		return nil, "", err
	}

	copyableCodec := info.VideoCodec == "h264" || info.VideoCodec == "avc1" || info.VideoCodec == ""

	if !opts.ForceMP4 && info.Container == "mp4" && copyableCodec {
		if info.BitrateKbps == 0 || info.BitrateKbps <= int(target*1000) {
			return nil, "", nil
		}
	}

	output := strings.TrimSuffix(path, filepath.Ext(path)) + "_optimized.mp4"

	if opts.RemuxOnly && copyableCodec {
		cmd := []string{
			"ffmpeg", "-y",
			"-i", path,
			"-c:v", "copy",
			"-c:a", "aac",
			"-b:a", audioBitrate,
			"-movflags", "+faststart",
			output,
		}
		return cmd, ModeRemux, nil
	}

	maxrateK := int(target * 1000)
	cmd := []string{
		"ffmpeg", "-y",
		"-i", path,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-maxrate", fmt.Sprintf("%dk", maxrateK),
		"-bufsize", fmt.Sprintf("%dk", maxrateK*2),
		"-c:a", "aac",
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
		output,
	}
	return cmd, ModeTranscode, nil
}
