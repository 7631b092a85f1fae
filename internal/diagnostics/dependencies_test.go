package diagnostics

import (
	"errors"
	"testing"
)

func withFakeLookPath(t *testing.T, paths map[string]string) {
	t.Helper()
	orig := lookPath
	lookPath = func(name string) (string, error) {
		if p, ok := paths[name]; ok {
			return p, nil
		}
		return "", errors.New("executable file not found in $PATH")
	}
	t.Cleanup(func() { lookPath = orig })
}

func TestCheckAllPresent(t *testing.T) {
	withFakeLookPath(t, map[string]string{
		"ffmpeg":  "/usr/bin/ffmpeg",
		"ffprobe": "/usr/bin/ffprobe",
	})

	report := Check()
	if !report.Ready {
		t.Error("Ready = false with both binaries present")
	}
	if report.FFmpeg.Path != "/usr/bin/ffmpeg" {
		t.Errorf("FFmpeg.Path = %q", report.FFmpeg.Path)
	}
}

func TestCheckMissingFFprobe(t *testing.T) {
	withFakeLookPath(t, map[string]string{"ffmpeg": "/usr/bin/ffmpeg"})

	report := Check()
	if report.Ready {
		t.Error("Ready = true with ffprobe missing")
	}
	if report.FFprobe.Found {
		t.Error("FFprobe.Found = true")
	}
	if !report.FFmpeg.Found {
		t.Error("FFmpeg.Found = false")
	}
}
