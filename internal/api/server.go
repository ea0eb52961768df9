// Package api assembles the HTTP surface of the Lorikeet server: the REST
// synthesis endpoint, the WebSocket streaming endpoint, language and service
// metadata, health probes and the Prometheus scrape endpoint.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/lorikeet-audio/lorikeet/internal/health"
	"github.com/lorikeet-audio/lorikeet/internal/observe"
	"github.com/lorikeet-audio/lorikeet/pkg/synth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName identifies this service in metadata payloads and telemetry.
const ServiceName = "lorikeet"

// Version is the service version reported by the info and health endpoints.
const Version = "1.0.0"

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	engine        synth.Provider
	ws            http.Handler
	engineTimeout time.Duration
	metrics       *observe.Metrics
	logger        *slog.Logger
}

// New creates a Server. ws is the WebSocket upgrade handler mounted at
// /ws/tts; engineTimeout bounds one REST synthesis call. A nil logger falls
// back to [slog.Default], a nil metrics to [observe.DefaultMetrics].
func New(engine synth.Provider, ws http.Handler, engineTimeout time.Duration, metrics *observe.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &Server{
		engine:        engine,
		ws:            ws,
		engineTimeout: engineTimeout,
		metrics:       metrics,
		logger:        logger,
	}
}

// Handler returns the full route tree:
//
//	POST /api/v1/tts        — synchronous synthesis, returns a complete MP3
//	GET  /api/v1/           — service info
//	GET  /api/v1/languages  — supported language map
//	GET  /ws/tts            — WebSocket streaming sessions
//	GET  /health, /readyz   — probes
//	GET  /metrics           — Prometheus scrape endpoint
func (s *Server) Handler() http.Handler {
	inner := http.NewServeMux()
	inner.HandleFunc("POST /api/v1/tts", s.handleTTS)
	inner.HandleFunc("GET /api/v1/{$}", s.handleInfo)
	inner.HandleFunc("GET /api/v1/languages", s.handleLanguages)
	inner.Handle("GET /metrics", promhttp.Handler())
	health.New(ServiceName, Version).Register(inner)

	outer := http.NewServeMux()
	// The upgrade handler needs the raw ResponseWriter; the metrics
	// middleware wraps it, so the WebSocket route bypasses the middleware.
	if s.ws != nil {
		outer.Handle("GET /ws/tts", s.ws)
	}
	outer.Handle("/", observe.Middleware(s.metrics)(inner))
	return outer
}

// writeJSON serialises v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("api: failed to encode response", "err", err)
	}
}
