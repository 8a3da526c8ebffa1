// Package api serves the document QA HTTP interface: chat, raw retrieval,
// and health.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rs/cors"

	"github.com/bull/docqa-server/internal/rag"
	"github.com/bull/docqa-server/internal/storage"
)

// RAGService is the application core the API exposes.
type RAGService interface {
	Answer(ctx context.Context, question string, k int) (*rag.Answer, error)
	Retrieve(ctx context.Context, query string, k int) ([]*storage.ScoredFragment, error)
	Status(ctx context.Context) *rag.Status
}

// Server handles the HTTP API on top of a RAGService.
type Server struct {
	service RAGService
	logger  *slog.Logger
}

// NewServer creates an API server.
func NewServer(service RAGService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		service: service,
		logger:  logger,
	}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/retrieve", s.handleRetrieve)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleHome)

	return cors.Default().Handler(mux)
}

// writeJSON encodes a response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// errorResponse is the body of every failure response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document QA API running"})
}
