// Package httphandlers serves local media files to renderers over HTTP with
// range support and the DLNA headers picky devices insist on.
package httphandlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seba2390/SymMediaStreamer/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 3 * time.Second
	keepAlivePeriod   = 30 * time.Second
)

// Server exposes one file (or one directory of files) for the lifetime of a
// playback session. Start binds the listener; Stop tears it down.
type Server struct {
	root string
	log  logger.Logger

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
	stopOnce sync.Once
}

// New creates a server rooted at path. The path may be a single file or a
// directory; either way only content under it is reachable.
func New(root string, log logger.Logger) *Server {
	return &Server{root: root, log: logger.OrNop(log)}
}

// Start binds port (0 for an ephemeral one), begins serving in the
// background and returns the bound port. Startup failures surface here, not
// from the serve loop.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	lc := net.ListenConfig{Control: listenControl}
	ln, err := lc.Listen(ctx, "tcp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return 0, fmt.Errorf("listen on port %d: %w", port, err)
	}
	tcpAddr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		ln.Close()
		return 0, fmt.Errorf("unexpected listener address %T", ln.Addr())
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Get("/*", s.serveMedia)
	r.Head("/*", s.serveMedia)

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.mu.Lock()
	s.httpSrv = srv
	s.listener = ln
	s.mu.Unlock()

	started := make(chan error, 1)
	go func() {
		err := srv.Serve(tunedListener{Listener: ln})
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			started <- err
		}
	}()

	// give an immediate bind-time failure a moment to surface
	select {
	case err := <-started:
		return 0, fmt.Errorf("serve: %w", err)
	case <-time.After(50 * time.Millisecond):
	}

	s.log.Info("media server listening",
		logger.Int("port", tcpAddr.Port),
		logger.String("root", s.root))
	return tcpAddr.Port, nil
}

// Stop shuts the server down, waiting briefly for in-flight responses.
// Safe to call multiple times and before Start.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		srv := s.httpSrv
		s.mu.Unlock()
		if srv == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
		}
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("media request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("range", r.Header.Get("Range")),
			logger.Int("status", ww.Status()),
			logger.Int64("bytes", int64(ww.BytesWritten())),
			logger.Duration("took", time.Since(start)))
	})
}

// tunedListener applies per-connection TCP options on accept. Streaming to a
// TV wants low latency and a live keepalive, not Nagle batching.
type tunedListener struct {
	net.Listener
}

func (l tunedListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		tcp.SetNoDelay(true)
		tcp.SetKeepAlive(true)
		tcp.SetKeepAlivePeriod(keepAlivePeriod)
	}
	return conn, nil
}
