// Package api provides the HTTP server for claimplan.
// It exposes the plan endpoints consumed by the web UI plus a whitelisted
// pass-through proxy in front of the third-party game-data API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claimplan/claimplan/internal/infra/store"
)

// Version is the service version reported on /api/version.
const Version = "0.3.0"

// Server is the claimplan HTTP API server.
type Server struct {
	planner        Planner
	fetcher        Fetcher
	history        *store.Store
	historyLimit   int
	metricsEnabled bool
}

// NewServer creates a new API server. history may be nil to disable plan
// history endpoints.
func NewServer(planner Planner, fetcher Fetcher, history *store.Store) *Server {
	return &Server{
		planner:      planner,
		fetcher:      fetcher,
		history:      history,
		historyLimit: 20,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHistoryLimit caps how many history rows /api/history returns.
func (s *Server) SetHistoryLimit(n int) {
	if n > 0 {
		s.historyLimit = n
	}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/plan", s.handlePlan)
		r.Get("/plan/export", s.handlePlanExport)
		r.Get("/history", s.handleHistory)
		r.Get("/proxy/*", s.handleProxy)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware allows the browser UI to call the API from another origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
