package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/explorer/internal/metrics"
	"github.com/five82/explorer/internal/nasa"
	"github.com/five82/explorer/internal/present"
	"github.com/five82/explorer/internal/state"
)

// Dispatcher runs a cycle begun by the store without waiting for it.
type Dispatcher interface {
	Dispatch(c state.Cycle)
}

// Server serves the explorer page and its JSON API.
type Server struct {
	httpServer *http.Server
	logger     zerolog.Logger
	store      *state.Store
	dispatcher Dispatcher
	archiveURL present.ArchiveURLFunc
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithArchiveURL sets how EPIC image URLs are derived for the page.
func WithArchiveURL(fn present.ArchiveURLFunc) Option {
	return func(s *Server) { s.archiveURL = fn }
}

const maxParamsBody = 4 << 10

// New creates a configured HTTP server listening on addr.
func New(addr string, store *state.Store, dispatcher Dispatcher, opts ...Option) *Server {
	s := &Server{
		logger:     zerolog.Nop(),
		store:      store,
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("POST /api/v1/params", s.handleParams)
	mux.HandleFunc("POST /api/v1/refresh", s.handleRefresh)
	mux.HandleFunc("GET /healthz", healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// Middleware chain: metrics -> logging -> mux.
	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// HTTPServer returns the underlying *http.Server for external control.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("http server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := present.Build(s.store.Snapshot(), s.archiveURL)
	var buf strings.Builder
	if err := pageTemplate.Execute(&buf, page); err != nil {
		s.logger.Error().Err(err).Msg("render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, buf.String())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot().View())
}

type paramsRequest struct {
	Rover string `json:"rover"`
	Sol   *int   `json:"sol"`
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	form := isForm(r)
	req, err := decodeParams(w, r, form)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cycle, err := s.store.Update(func(p *state.Params) error {
		if strings.TrimSpace(req.Rover) != "" {
			rover, err := nasa.ParseRover(req.Rover)
			if err != nil {
				return err
			}
			p.Rover = rover
		}
		if req.Sol != nil {
			p.Sol = *req.Sol
		}
		return nil
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.dispatcher.Dispatch(cycle)

	if form {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, s.store.Snapshot().View())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.dispatcher.Dispatch(s.store.Begin())
	if isForm(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, s.store.Snapshot().View())
}

// decodeParams accepts either a JSON body or an HTML form post.
func decodeParams(w http.ResponseWriter, r *http.Request, form bool) (paramsRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxParamsBody)
	var req paramsRequest
	if form {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("parse form: %w", err)
		}
		req.Rover = r.PostForm.Get("rover")
		if raw := strings.TrimSpace(r.PostForm.Get("sol")); raw != "" {
			sol, err := strconv.Atoi(raw)
			if err != nil {
				return req, fmt.Errorf("sol must be an integer, got %q", raw)
			}
			req.Sol = &sol
		}
		return req, nil
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decode body: %w", err)
	}
	if req.Rover == "" && req.Sol == nil {
		return req, errors.New("body must set rover or sol")
	}
	return req, nil
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// quietPath reports health and metrics paths, which log at debug.
func quietPath(path string) bool {
	return path == "/healthz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			level := zerolog.InfoLevel
			if quietPath(r.URL.Path) {
				level = zerolog.DebugLevel
			}
			logger.WithLevel(level).
				Str("component", "http").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", sr.statusCode).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("remote_ip", r.RemoteAddr).
				Msg("request")
		})
	}
}
