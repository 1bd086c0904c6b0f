package api

import (
	"net/http"

	"github.com/vytor/millionaire/internal/logger"
)

// handleHealth is the liveness probe. It answers as long as the process runs.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady is the readiness probe. The database must answer; the score cache only when configured.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if s.DB != nil {
		if err := s.DB.Ping(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable"))
			return
		}
	}
	if s.Cache != nil {
		if err := s.Cache.Ping(ctx); err != nil {
			log.Warn("readiness check failed - cache: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Cache unavailable"))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
