// Package session owns the lifetime of one playback: the media HTTP server,
// the SOAP clients and the state machine tying them together.
package session

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seba2390/SymMediaStreamer/internal/httphandlers"
	"github.com/seba2390/SymMediaStreamer/internal/logger"
	"github.com/seba2390/SymMediaStreamer/internal/media"
	"github.com/seba2390/SymMediaStreamer/internal/netutil"
	"github.com/seba2390/SymMediaStreamer/internal/soapcalls"
)

type State int

const (
	StateIdle State = iota
	StateStarting
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

type transportClient interface {
	SetURIWithMetadata(ctx context.Context, mediaURL, title, mimeType string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	Seek(ctx context.Context, position time.Duration) error
	GetPositionInfo(ctx context.Context) (string, error)
}

type renderingClient interface {
	SetVolume(ctx context.Context, volume int) error
	GetVolume(ctx context.Context) (string, error)
	SetMute(ctx context.Context, mute bool) error
	GetMute(ctx context.Context) (string, error)
}

type streamServer interface {
	Start(ctx context.Context, port int) (int, error)
	Stop()
}

// StartRequest describes one playback to begin.
type StartRequest struct {
	ControlURL string
	MediaPath  string
	// RenderingControlURL is optional; without it volume and mute degrade
	// to defaults.
	RenderingControlURL string
	// SubtitleFile is an external subtitle served alongside the media.
	SubtitleFile string
	// SubtitleTrack selects an embedded track, informational for callers.
	SubtitleTrack *int
	// Port pins the media server port; 0 takes an ephemeral one.
	Port int
}

// Session is a single-renderer playback controller. All state transitions
// are serialized by one mutex; the slow SOAP half of starting runs in the
// background, fenced by a generation token so a Stop that arrives mid-start
// always wins.
type Session struct {
	log logger.Logger

	mu         sync.Mutex
	state      State
	generation string
	server     streamServer
	transport  transportClient
	rendering  renderingClient
	mediaName  string

	// injection points for tests
	newServer    func(root string, log logger.Logger) streamServer
	newTransport func(controlURL string) (transportClient, error)
	newRendering func(controlURL string) (renderingClient, error)
	outboundIP   func() string
	detectMIME   func(path string) string
}

func New(log logger.Logger) *Session {
	return &Session{
		log: logger.OrNop(log),
		newServer: func(root string, log logger.Logger) streamServer {
			return httphandlers.New(root, log)
		},
		newTransport: func(controlURL string) (transportClient, error) {
			return soapcalls.NewAVTransport(controlURL)
		},
		newRendering: func(controlURL string) (renderingClient, error) {
			return soapcalls.NewRenderingControl(controlURL)
		},
		outboundIP: netutil.OutboundIP,
		detectMIME: media.DetectMIME,
	}
}

// Start brings up the media server and kicks off the SOAP handshake in the
// background. It returns once the server is bound; the stream URL is handed
// back so callers can report it. An active session is stopped first.
func (s *Session) Start(ctx context.Context, req StartRequest) (string, error) {
	s.mu.Lock()
	if s.state != StateIdle {
		s.stopLocked(context.Background())
	}

	name := filepath.Base(req.MediaPath)
	// serving the directory keeps sibling subtitle files reachable
	server := s.newServer(filepath.Dir(req.MediaPath), s.log)

	port, err := server.Start(ctx, req.Port)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}

	transport, err := s.newTransport(req.ControlURL)
	if err != nil {
		server.Stop()
		s.mu.Unlock()
		return "", err
	}
	var rendering renderingClient
	if req.RenderingControlURL != "" {
		if rendering, err = s.newRendering(req.RenderingControlURL); err != nil {
			s.log.Warn("rendering control unavailable", logger.Error(err))
			rendering = nil
		}
	}

	mediaURL := fmt.Sprintf("http://%s:%d/%s", s.outboundIP(), port, url.PathEscape(name))
	mimeType := s.detectMIME(req.MediaPath)
	gen := uuid.NewString()

	s.state = StateStarting
	s.generation = gen
	s.server = server
	s.transport = transport
	s.rendering = rendering
	s.mediaName = name
	s.mu.Unlock()

	s.log.Info("starting playback",
		logger.String("file", name),
		logger.String("url", mediaURL),
		logger.String("mime", mimeType))
	if req.SubtitleFile != "" {
		s.log.Info("external subtitle", logger.String("file", filepath.Base(req.SubtitleFile)))
	}
	if req.SubtitleTrack != nil {
		s.log.Info("embedded subtitle track", logger.Int("track", *req.SubtitleTrack))
	}

	go s.completeStart(gen, transport, server, mediaURL, name, mimeType)
	return mediaURL, nil
}

// completeStart performs the SetAVTransportURI/Play handshake. The result
// only lands if this attempt's generation is still current; a racing Stop
// or restart invalidates it, in which case the renderer gets a best-effort
// Stop to undo whatever the handshake achieved.
func (s *Session) completeStart(gen string, transport transportClient, server streamServer, mediaURL, name, mimeType string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	title := strings.TrimSuffix(name, filepath.Ext(name))
	err := transport.SetURIWithMetadata(ctx, mediaURL, title, mimeType)
	if err == nil {
		err = transport.Play(ctx)
	}

	s.mu.Lock()
	current := s.generation == gen && s.state == StateStarting
	if current {
		if err == nil {
			s.state = StatePlaying
		} else {
			s.state = StateIdle
			s.generation = ""
			s.server = nil
			s.transport = nil
			s.rendering = nil
			s.mediaName = ""
		}
	}
	s.mu.Unlock()

	switch {
	case err != nil && current:
		s.log.Error("playback failed", logger.String("file", name), logger.Error(err))
		server.Stop()
	case err != nil:
		// superseded attempt that also failed, nothing to undo
	case !current:
		// a Stop won the race after the renderer accepted the URI
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		transport.Stop(stopCtx)
		stopCancel()
	default:
		s.log.Info("playback started", logger.String("file", name))
	}
}

// Stop tears the session down: best-effort renderer Stop, media server
// shutdown, state reset. Idempotent.
func (s *Session) Stop(ctx context.Context) {
	s.mu.Lock()
	s.stopLocked(ctx)
	s.mu.Unlock()
}

func (s *Session) stopLocked(ctx context.Context) {
	transport := s.transport
	server := s.server
	name := s.mediaName

	s.state = StateIdle
	s.generation = ""
	s.server = nil
	s.transport = nil
	s.rendering = nil
	s.mediaName = ""

	if transport != nil {
		if err := transport.Stop(ctx); err != nil {
			s.log.Debug("renderer stop failed", logger.Error(err))
		} else if name != "" {
			s.log.Info("stopped playback", logger.String("file", name))
		}
	}
	if server != nil {
		server.Stop()
	}
}

// Pause transitions Playing to Paused. Any other state is a no-op.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePlaying || s.transport == nil {
		return nil
	}
	if err := s.transport.Pause(ctx); err != nil {
		return err
	}
	s.state = StatePaused
	s.log.Info("playback paused")
	return nil
}

// Resume transitions Paused back to Playing.
func (s *Session) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused || s.transport == nil {
		return nil
	}
	if err := s.transport.Play(ctx); err != nil {
		return err
	}
	s.state = StatePlaying
	s.log.Info("playback resumed")
	return nil
}

// Seek jumps to an absolute position while playing or paused.
func (s *Session) Seek(ctx context.Context, position time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if (s.state != StatePlaying && s.state != StatePaused) || s.transport == nil {
		return nil
	}
	return s.transport.Seek(ctx, position)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active reports whether playback is up, matching what a status poller
// wants to know. A session still starting is not yet active.
func (s *Session) Active() bool {
	st := s.State()
	return st == StatePlaying || st == StatePaused
}

// Volume reports the renderer's current volume, 0 when unknown. Control
// failures degrade to the default rather than erroring: the value feeds a
// status display, not a decision.
func (s *Session) Volume(ctx context.Context) int {
	rendering, active := s.renderingIfActive()
	if !active {
		return 0
	}
	resp, err := rendering.GetVolume(ctx)
	if err != nil {
		return 0
	}
	raw := soapcalls.ExtractTag(resp, "CurrentVolume")
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return int(v)
}

// Muted reports the renderer's mute state, false when unknown.
func (s *Session) Muted(ctx context.Context) bool {
	rendering, active := s.renderingIfActive()
	if !active {
		return false
	}
	resp, err := rendering.GetMute(ctx)
	if err != nil {
		return false
	}
	return soapcalls.ExtractTag(resp, "CurrentMute") == "1"
}

func (s *Session) renderingIfActive() (renderingClient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rendering == nil || (s.state != StatePlaying && s.state != StatePaused) {
		return nil, false
	}
	return s.rendering, true
}

// Position returns elapsed time and total duration from GetPositionInfo.
// Renderers without position reporting yield zero values and no error.
func (s *Session) Position(ctx context.Context) (elapsed, total time.Duration, err error) {
	s.mu.Lock()
	transport := s.transport
	active := s.state == StatePlaying || s.state == StatePaused
	s.mu.Unlock()
	if transport == nil || !active {
		return 0, 0, nil
	}

	resp, err := transport.GetPositionInfo(ctx)
	if err != nil {
		return 0, 0, err
	}
	if d, perr := soapcalls.ParseClock(soapcalls.ExtractTag(resp, "RelTime")); perr == nil {
		elapsed = d
	}
	if d, perr := soapcalls.ParseClock(soapcalls.ExtractTag(resp, "TrackDuration")); perr == nil {
		total = d
	}
	return elapsed, total, nil
}
