package httphandlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/seba2390/SymMediaStreamer/internal/logger"
	"github.com/seba2390/SymMediaStreamer/internal/media"
	"github.com/seba2390/SymMediaStreamer/internal/soapcalls"
)

const copyBufferSize = 64 * 1024

// byteRange is a resolved, inclusive byte span within a file.
type byteRange struct {
	start, end int64
}

func (r byteRange) length() int64 { return r.end - r.start + 1 }

func (s *Server) serveMedia(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolvePath(r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if info.IsDir() {
		s.serveListing(w, path)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "unreadable file", http.StatusInternalServerError)
		}
		return
	}
	defer f.Close()

	size := info.Size()
	mimeType := media.DetectMIME(path)

	h := w.Header()
	h.Set("Content-Type", mimeType)
	h.Set("Accept-Ranges", "bytes")
	h.Set("Connection", "keep-alive")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
	h.Set("transferMode.dlna.org", "Streaming")
	h.Set("contentFeatures.dlna.org", soapcalls.DLNAProfile(mimeType))

	rng, ok, satisfiable := parseRange(r.Header.Get("Range"), size)
	if ok && !satisfiable {
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	if ok {
		h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, size))
		h.Set("Content-Length", strconv.FormatInt(rng.length(), 10))
		w.WriteHeader(http.StatusPartialContent)
		if r.Method == http.MethodHead {
			return
		}
		if err := copyRange(w, f, rng); err != nil {
			s.log.Debug("stream aborted", logger.String("path", path), logger.Error(err))
		}
		return
	}

	h.Set("Content-Length", strconv.FormatInt(size, 10))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if err := copyRange(w, f, byteRange{start: 0, end: size - 1}); err != nil {
		s.log.Debug("stream aborted", logger.String("path", path), logger.Error(err))
	}
}

// resolvePath maps a request path onto the served root. A file root only
// answers for its own name; a directory root serves its subtree, with
// traversal outside it rejected.
func (s *Server) resolvePath(requestPath string) (string, error) {
	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		return "", err
	}

	rootInfo, err := os.Stat(s.root)
	if err != nil {
		return "", err
	}
	if !rootInfo.IsDir() {
		if filepath.Base(decoded) != filepath.Base(s.root) {
			return "", os.ErrNotExist
		}
		return s.root, nil
	}

	clean := filepath.Clean("/" + decoded)
	full := filepath.Join(s.root, clean)
	rel, err := filepath.Rel(s.root, full)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", os.ErrNotExist
	}
	return full, nil
}

func (s *Server) serveListing(w http.ResponseWriter, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		http.Error(w, "unreadable directory", http.StatusInternalServerError)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><ul>")
	for _, name := range names {
		fmt.Fprintf(w, `<li><a href="/%s">%s</a></li>`, url.PathEscape(name), name)
	}
	fmt.Fprint(w, "</ul></body></html>")
}

// parseRange handles the single-range form "bytes=start-end" with either
// bound optional. Returns (range, isRange, satisfiable). Malformed headers
// report isRange false so the caller falls back to a full 200 response,
// matching how TVs expect lenient servers to behave.
func parseRange(header string, size int64) (byteRange, bool, bool) {
	if header == "" || size == 0 {
		return byteRange{}, false, false
	}
	value, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return byteRange{}, false, false
	}
	// multiple ranges are not worth supporting for a single media stream
	if strings.Contains(value, ",") {
		return byteRange{}, false, false
	}
	startStr, endStr, ok := strings.Cut(value, "-")
	if !ok {
		return byteRange{}, false, false
	}
	startStr = strings.TrimSpace(startStr)
	endStr = strings.TrimSpace(endStr)

	// omitted bounds default to the file's edges: "bytes=-N" means 0-N
	// here, the lenient reading renderers rely on, not the suffix form
	var start int64
	if startStr != "" {
		var err error
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return byteRange{}, false, false
		}
	}
	if start >= size {
		return byteRange{}, true, false
	}

	end := size - 1
	if endStr != "" {
		parsed, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || parsed < start {
			return byteRange{}, false, false
		}
		if parsed < end {
			end = parsed
		}
	}
	return byteRange{start: start, end: end}, true, true
}

// copyRange streams rng from f to w. When the ResponseWriter implements
// io.ReaderFrom the kernel sendfile path kicks in for plain files;
// otherwise a fixed buffer does the work.
func copyRange(w http.ResponseWriter, f *os.File, rng byteRange) error {
	if _, err := f.Seek(rng.start, io.SeekStart); err != nil {
		return err
	}
	limited := &io.LimitedReader{R: f, N: rng.length()}
	if rf, ok := w.(io.ReaderFrom); ok {
		_, err := rf.ReadFrom(limited)
		return err
	}
	buf := make([]byte, copyBufferSize)
	_, err := io.CopyBuffer(w, limited, buf)
	return err
}
