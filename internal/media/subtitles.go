package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/buger/jsonparser"
)

// SubtitleTrack is one subtitle stream embedded in a media container.
type SubtitleTrack struct {
	Index    int
	Codec    string
	Language string
	Title    string
	Forced   bool
	Default  bool
}

// SubtitleFile is an external subtitle file sitting next to the media file.
type SubtitleFile struct {
	Path      string
	Name      string
	Extension string
}

type SubtitleInfo struct {
	EmbeddedTracks []SubtitleTrack
	ExternalFiles  []SubtitleFile
}

var externalSubtitleExtensions = []string{".srt", ".vtt", ".sub", ".ass", ".ssa"}

// Subtitles reports embedded subtitle streams (via ffprobe, best-effort) and
// sibling subtitle files sharing the media file's base name.
func Subtitles(ctx context.Context, path string) SubtitleInfo {
	var info SubtitleInfo

	if out, err := runFFprobe(ctx, path); err == nil {
		jsonparser.ArrayEach(out, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
			codecType, _ := jsonparser.GetString(value, "codec_type")
			if codecType != "subtitle" {
				return
			}
			index, _ := jsonparser.GetInt(value, "index")
			codec, _ := jsonparser.GetString(value, "codec_name")
			language, _ := jsonparser.GetString(value, "tags", "language")
			if language == "" {
				language = "unknown"
			}
			title, _ := jsonparser.GetString(value, "tags", "title")
			forced, _ := jsonparser.GetInt(value, "disposition", "forced")
			def, _ := jsonparser.GetInt(value, "disposition", "default")
			info.EmbeddedTracks = append(info.EmbeddedTracks, SubtitleTrack{
				Index:    int(index),
				Codec:    codec,
				Language: language,
				Title:    title,
				Forced:   forced == 1,
				Default:  def == 1,
			})
		}, "streams")
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, ext := range externalSubtitleExtensions {
		candidate := base + ext
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			info.ExternalFiles = append(info.ExternalFiles, SubtitleFile{
				Path:      candidate,
				Name:      filepath.Base(candidate),
				Extension: ext,
			})
		}
	}
	return info
}
