package api

import (
	"context"
	"net/http"
	"time"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string `json:"status"`
	IndexLoaded bool   `json:"index_loaded"`
	Fragments   uint64 `json:"fragments"`
	Timestamp   string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := s.service.Status(ctx)

	response := HealthResponse{
		IndexLoaded: status.IndexLoaded,
		Fragments:   status.Fragments,
		Timestamp:   status.Timestamp.Format(time.RFC3339),
	}

	if !status.IndexLoaded {
		response.Status = "unhealthy"
		writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response.Status = "healthy"
	writeJSON(w, http.StatusOK, response)
}
