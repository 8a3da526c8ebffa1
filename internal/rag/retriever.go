package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/bull/docqa-server/internal/storage"
)

// Retrieve returns the top-k fragments most similar to the query, ordered by
// descending similarity. An omitted k (zero) falls back to DefaultTopK; a
// negative k and an empty query are invalid input.
func (s *Service) Retrieve(ctx context.Context, query string, k int) ([]*storage.ScoredFragment, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTopK, k)
	}
	if k == 0 {
		k = DefaultTopK
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.SearchFragments(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("search fragments: %w", err)
	}

	s.logger.Debug("Retrieved fragments", "query", query, "k", k, "results", len(results))
	return results, nil
}
