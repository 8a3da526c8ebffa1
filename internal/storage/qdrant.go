// Package storage persists fragments with their embeddings in Qdrant and
// exposes similarity search over them.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore wraps the Qdrant client with connection management, batched
// writes, and scored similarity search.
type QdrantStore struct {
	client *qdrant.Client
	host   string
	port   int
}

// NewQdrantStore creates a Qdrant client and validates connectivity with a
// retried health check, failing fast if the server stays unreachable.
func NewQdrantStore(host string, port int) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	store := &QdrantStore{
		client: client,
		host:   host,
		port:   port,
	}

	if err := store.healthCheckWithRetry(context.Background()); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return store, nil
}

// healthCheckWithRetry retries the health check with exponential backoff:
// 500ms initial, 10s max interval, 30s max elapsed.
func (s *QdrantStore) healthCheckWithRetry(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, backoff.WithContext(b, ctx))
}

// Health performs a single health check against Qdrant.
func (s *QdrantStore) Health(ctx context.Context) error {
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection creates the fragments collection with cosine-distance
// vectors and payload indexes if it does not already exist. Idempotent.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	for _, name := range collections {
		if name == CollectionName {
			return nil
		}
	}

	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: CollectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     VectorDimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	// Keyword indexes keep section/source filtering fast as the index grows.
	for _, field := range []string{"section", "source"} {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: CollectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("failed to create index for field %s: %w", field, err)
		}
	}

	return nil
}

// ClearCollection drops all stored fragments and recreates the collection.
func (s *QdrantStore) ClearCollection(ctx context.Context) error {
	if err := s.client.DeleteCollection(ctx, CollectionName); err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}
	return s.EnsureCollection(ctx)
}

// Close closes the Qdrant client connection.
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// upsertWithRetry performs one upsert call with exponential backoff.
func (s *QdrantStore) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: CollectionName,
			Points:         points,
		})
		return err
	}, backoff.WithContext(b, ctx))
}

// UpsertFragments stores fragments with their embeddings, batched in groups
// of 100. Every embedding must match the collection dimension.
func (s *QdrantStore) UpsertFragments(ctx context.Context, fragments []*Fragment) error {
	if len(fragments) == 0 {
		return nil
	}

	for i, frag := range fragments {
		if len(frag.Embedding) != VectorDimension {
			return fmt.Errorf("%w: fragment %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(frag.Embedding), VectorDimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(fragments); i += batchSize {
		end := min(i+batchSize, len(fragments))

		batch := fragments[i:end]
		points := make([]*qdrant.PointStruct, len(batch))
		for j, frag := range batch {
			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(frag.ID),
				Vectors: qdrant.NewVectors(frag.Embedding...),
				Payload: qdrant.NewValueMap(map[string]any{
					"section":     frag.Section,
					"content":     frag.Content,
					"source":      frag.Source,
					"chunk_index": frag.ChunkIndex,
					"ingested_at": frag.IngestedAt.Format(time.RFC3339),
				}),
			}
		}

		if err := s.upsertWithRetry(ctx, points); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// SearchFragments performs vector similarity search and returns up to limit
// fragments ordered by descending similarity score. Ordering of equal scores
// follows Qdrant's own stable order for a fixed index.
func (s *QdrantStore) SearchFragments(ctx context.Context, embedding []float32, limit int) ([]*ScoredFragment, error) {
	if len(embedding) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(embedding), VectorDimension)
	}

	results, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search fragments: %w", err)
	}

	scored := make([]*ScoredFragment, 0, len(results))
	for _, result := range results {
		payload := result.Payload

		ingestedAt, err := time.Parse(time.RFC3339, payload["ingested_at"].GetStringValue())
		if err != nil {
			ingestedAt = time.Time{}
		}

		scored = append(scored, &ScoredFragment{
			Fragment: &Fragment{
				ID:         result.Id.GetUuid(),
				Section:    payload["section"].GetStringValue(),
				Content:    payload["content"].GetStringValue(),
				Source:     payload["source"].GetStringValue(),
				ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
				IngestedAt: ingestedAt,
			},
			Score: float64(result.Score),
		})
	}

	return scored, nil
}

// CountFragments returns the total number of stored fragments.
func (s *QdrantStore) CountFragments(ctx context.Context) (uint64, error) {
	collection, err := s.client.GetCollectionInfo(ctx, CollectionName)
	if err != nil {
		return 0, fmt.Errorf("failed to get collection: %w", err)
	}
	return collection.GetPointsCount(), nil
}
