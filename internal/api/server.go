// Package api serves the exporter's HTTP surface: Prometheus metrics,
// health and a small JSON API over the collector's snapshot.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wgpeerd/internal/brand"
	"wgpeerd/internal/clock"
	"wgpeerd/internal/collector"
	"wgpeerd/internal/logging"
)

// PeerSource is the collector-facing dependency of the server.
type PeerSource interface {
	Peers() []collector.PeerStatus
	Devices() []collector.DeviceStatus
	LastUpdate() time.Time
	LastError() string
	Healthy() bool
}

// Server handles HTTP requests.
type Server struct {
	listen    string
	source    PeerSource
	logger    *logging.Logger
	startTime time.Time

	httpSrv *http.Server
	mux     *http.ServeMux
}

// NewServer creates the HTTP server for the given listen address.
func NewServer(listen string, source PeerSource, logger *logging.Logger) *Server {
	s := &Server{
		listen:    listen,
		source:    source,
		logger:    logger.WithComponent("api"),
		startTime: clock.Now(),
		mux:       http.NewServeMux(),
	}
	s.routes()

	s.httpSrv = &http.Server{
		Addr:              listen,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	return s
}

func (s *Server) routes() {
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /api/v1/peers", s.handlePeers)
	s.mux.HandleFunc("GET /api/v1/status", s.handleStatus)
}

// Start runs the listener until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.listen)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.source.Healthy() {
		WriteError(w, http.StatusServiceUnavailable, "scrape stale", s.source.LastError())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	peers := s.source.Peers()
	if peers == nil {
		peers = []collector.PeerStatus{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"peers":       peers,
		"last_update": s.source.LastUpdate(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	devices := s.source.Devices()
	if devices == nil {
		devices = []collector.DeviceStatus{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"version":     brand.Version,
		"uptime":      clock.Since(s.startTime).String(),
		"healthy":     s.source.Healthy(),
		"last_update": s.source.LastUpdate(),
		"last_error":  s.source.LastError(),
		"devices":     devices,
		"peer_count":  len(s.source.Peers()),
	})
}

// ErrorResponse is the standard API error shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteError sends a JSON error response.
func WriteError(w http.ResponseWriter, code int, message string, details ...string) {
	resp := ErrorResponse{Error: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}
	WriteJSON(w, code, resp)
}

// WriteJSON sends a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}
