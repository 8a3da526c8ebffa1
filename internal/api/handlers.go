package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/bull/docqa-server/internal/rag"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
}

// ChatResponse is the success body of POST /api/chat.
type ChatResponse struct {
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	ContextSnippets []string `json:"context_snippets"`
	Timestamp       string   `json:"timestamp"`
}

// RetrieveRequest is the body of POST /api/retrieve.
type RetrieveRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// RetrievedDocument is one fragment in a retrieval response.
type RetrievedDocument struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// RetrieveResponse is the success body of POST /api/retrieve.
type RetrieveResponse struct {
	Documents []RetrievedDocument `json:"documents"`
	Count     int                 `json:"count"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	answer, err := s.service.Answer(r.Context(), req.Question, req.TopK)
	if err != nil {
		s.writeError(w, "chat", err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Question:        answer.Question,
		Answer:          answer.Answer,
		ContextSnippets: answer.ContextSnippets,
		Timestamp:       answer.Timestamp.Format(time.RFC3339),
	})
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	results, err := s.service.Retrieve(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.writeError(w, "retrieve", err)
		return
	}

	documents := make([]RetrievedDocument, len(results))
	for i, result := range results {
		documents[i] = RetrievedDocument{
			Content: result.Fragment.Content,
			Metadata: map[string]any{
				"section": result.Fragment.Section,
				"source":  result.Fragment.Source,
				"score":   result.Score,
			},
		}
	}

	writeJSON(w, http.StatusOK, RetrieveResponse{
		Documents: documents,
		Count:     len(documents),
	})
}

// writeError maps invalid input to a client error and everything else to a
// server error, logging the failure with its operation.
func (s *Server) writeError(w http.ResponseWriter, operation string, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, rag.ErrEmptyQuestion) || errors.Is(err, rag.ErrEmptyQuery) || errors.Is(err, rag.ErrInvalidTopK) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("Request failed", "operation", operation, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
