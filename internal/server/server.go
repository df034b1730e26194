// Package server exposes lookups and exports over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/obegron/ipscope/internal/criminalip"
	"github.com/obegron/ipscope/internal/errors"
	"github.com/obegron/ipscope/internal/export"
	"github.com/obegron/ipscope/internal/jsonvalue"
)

const maxBodySize = 8 << 20

// Analyzer runs one lookup. *criminalip.Client satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, apiKey, ip string) (*criminalip.Result, error)
}

// Server is the ipscope REST API server.
type Server struct {
	analyzer Analyzer
	server   *http.Server
	logger   zerolog.Logger
	now      func() time.Time
}

// New creates a server listening on addr.
func New(addr string, analyzer Analyzer, logger zerolog.Logger) *Server {
	s := &Server{
		analyzer: analyzer,
		logger:   logger.With().Str("component", "api_server").Logger(),
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      requestIDMiddleware(loggingMiddleware(mux, s.logger)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("API server starting")

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.NewNetworkError("cannot listen on "+s.server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info().Msg("API server stopping")
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": s.now().UTC(),
	})
}

type analyzeRequest struct {
	APIKey string `json:"apiKey"`
	IP     string `json:"ip"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.APIKey) == "" || strings.TrimSpace(req.IP) == "" {
		writeError(w, http.StatusBadRequest, errors.ErrMissingCredentials.Error())
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), req.APIKey, req.IP)
	if err != nil {
		status := http.StatusBadGateway
		if stderrors.Is(err, errors.ErrMissingCredentials) {
			status = http.StatusBadRequest
		}
		writeError(w, status, errors.UserFriendlyError(err))
		return
	}

	if res.Mock {
		w.Header().Set("X-Ipscope-Mock", "true")
	}
	writeRaw(w, http.StatusOK, "application/json", jsonvalue.Marshal(res.Combined()))
}

type exportRequest struct {
	IP   string          `json:"ip"`
	Data jsonvalue.Value `json:"data"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req exportRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Data.Kind() != jsonvalue.Object {
		writeError(w, http.StatusBadRequest, "data must be an analysis object")
		return
	}
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = criminalip.DefaultTarget
	}

	now := s.now()
	content, err := export.Render(format, ip, req.Data, now)
	if err != nil {
		s.logger.Error().Err(err).Str("format", string(format)).Msg("export failed")
		writeError(w, http.StatusInternalServerError, errors.UserFriendlyError(err))
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(ip, format, now)))
	writeRaw(w, http.StatusOK, format.MIMEType(), content)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeRaw(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestIDMiddleware echoes X-Request-ID or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug().
			Str("request_id", r.Header.Get("X-Request-ID")).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
