// Package media inspects local files: MIME detection, ffprobe-based format
// probing, subtitle lookup and ffmpeg command construction for files a
// renderer cannot play directly.
package media

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// extensionMIME covers container formats the platform MIME database often
// misses. Checked after content sniffing and the system table.
var extensionMIME = map[string]string{
	".mkv":  "video/x-matroska",
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".ts":   "video/mp2t",
	".mp3":  "audio/mpeg",
	".flac": "audio/flac",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".m4a":  "audio/mp4",
	".srt":  "text/plain",
	".vtt":  "text/vtt",
}

// DetectMIME identifies a file's MIME type by content sniffing first and
// extension lookup second, never failing: unidentifiable files come back as
// application/octet-stream.
func DetectMIME(path string) string {
	if kind, err := filetype.MatchFile(path); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}

	ext := strings.ToLower(filepath.Ext(path))
	if t := extensionMIME[ext]; t != "" {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		// strip optional parameters like "; charset=utf-8"
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = strings.TrimSpace(t[:i])
		}
		return t
	}
	return "application/octet-stream"
}
