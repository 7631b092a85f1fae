// Package diagnostics checks for the external tools that probing and
// optimization shell out to. Streaming itself needs neither.
package diagnostics

import "os/exec"

var lookPath = exec.LookPath

type BinaryStatus struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// Report describes which optional binaries are available. Ready means
// format probing and optimization commands will work.
type Report struct {
	FFmpeg  BinaryStatus `json:"ffmpeg"`
	FFprobe BinaryStatus `json:"ffprobe"`
	Ready   bool         `json:"ready"`
}

func Check() Report {
	ffmpeg := detectBinary("ffmpeg")
	ffprobe := detectBinary("ffprobe")

	return Report{
		FFmpeg:  ffmpeg,
		FFprobe: ffprobe,
		Ready:   ffmpeg.Found && ffprobe.Found,
	}
}

func detectBinary(name string) BinaryStatus {
	path, err := lookPath(name)
	if err != nil {
		return BinaryStatus{Found: false}
	}
	return BinaryStatus{Found: true, Path: path}
}
