// Package rag retrieves the fragments most relevant to a query and composes
// grounded answers from them.
package rag

import (
	"context"
	"log/slog"
	"time"

	"github.com/bull/docqa-server/internal/storage"
)

// DefaultTopK is the number of fragments retrieved when the caller does not
// specify one.
const DefaultTopK = 3

// Embedder turns query text into an embedding vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Searcher exposes similarity search and index state from the fragment store.
type Searcher interface {
	SearchFragments(ctx context.Context, embedding []float32, limit int) ([]*storage.ScoredFragment, error)
	CountFragments(ctx context.Context) (uint64, error)
	Health(ctx context.Context) error
}

// Generator produces a natural-language answer for a single prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service bundles the embedding, search, and generation capabilities behind
// the retrieval and answering operations. It is explicitly constructed and
// carries no process-wide state.
type Service struct {
	embedder  Embedder
	store     Searcher
	generator Generator
	logger    *slog.Logger
}

// NewService creates a Service from its capabilities.
func NewService(embedder Embedder, store Searcher, generator Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		embedder:  embedder,
		store:     store,
		generator: generator,
		logger:    logger,
	}
}

// Status reports whether the fragment index is reachable and how many
// fragments it holds.
type Status struct {
	IndexLoaded bool
	Fragments   uint64
	Timestamp   time.Time
}

// Status checks store health and fragment count for the health contract.
func (s *Service) Status(ctx context.Context) *Status {
	status := &Status{Timestamp: time.Now().UTC()}

	if err := s.store.Health(ctx); err != nil {
		s.logger.Warn("Fragment store unhealthy", "error", err)
		return status
	}

	count, err := s.store.CountFragments(ctx)
	if err != nil {
		s.logger.Warn("Failed to count fragments", "error", err)
		return status
	}

	status.IndexLoaded = true
	status.Fragments = count
	return status
}
