package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bull/docqa-server/internal/storage"
)

type fakeEmbedder struct {
	err     error
	queries []string
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, text)
	return make([]float32, storage.VectorDimension), nil
}

type fakeSearcher struct {
	results   []*storage.ScoredFragment
	err       error
	healthErr error
	count     uint64
	lastLimit int
}

func (f *fakeSearcher) SearchFragments(ctx context.Context, embedding []float32, limit int) ([]*storage.ScoredFragment, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakeSearcher) CountFragments(ctx context.Context) (uint64, error) {
	return f.count, nil
}

func (f *fakeSearcher) Health(ctx context.Context) error {
	return f.healthErr
}

type fakeGenerator struct {
	answer     string
	err        error
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func scoredFragments(scores ...float64) []*storage.ScoredFragment {
	results := make([]*storage.ScoredFragment, len(scores))
	for i, score := range scores {
		results[i] = &storage.ScoredFragment{
			Fragment: &storage.Fragment{
				Section: fmt.Sprintf("%d. Section", i+1),
				Content: fmt.Sprintf("Fragment %d content.", i+1),
			},
			Score: score,
		}
	}
	return results
}

func TestRetrieve_EmptyQuery(t *testing.T) {
	svc := NewService(&fakeEmbedder{}, &fakeSearcher{}, &fakeGenerator{}, nil)

	_, err := svc.Retrieve(context.Background(), "   ", 3)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRetrieve_NegativeTopK(t *testing.T) {
	svc := NewService(&fakeEmbedder{}, &fakeSearcher{}, &fakeGenerator{}, nil)

	_, err := svc.Retrieve(context.Background(), "what is a storage account", -1)
	assert.ErrorIs(t, err, ErrInvalidTopK)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	store := &fakeSearcher{results: scoredFragments(0.9, 0.8, 0.7, 0.6)}
	svc := NewService(&fakeEmbedder{}, store, &fakeGenerator{}, nil)

	results, err := svc.Retrieve(context.Background(), "what is Azure", 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultTopK, store.lastLimit)
	assert.Len(t, results, DefaultTopK)
}

func TestRetrieve_OrderedByScore(t *testing.T) {
	store := &fakeSearcher{results: scoredFragments(0.9, 0.8, 0.7)}
	svc := NewService(&fakeEmbedder{}, store, &fakeGenerator{}, nil)

	results, err := svc.Retrieve(context.Background(), "what is Azure", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetrieve_EmbedderFailure(t *testing.T) {
	embedErr := errors.New("embedding service down")
	svc := NewService(&fakeEmbedder{err: embedErr}, &fakeSearcher{}, &fakeGenerator{}, nil)

	_, err := svc.Retrieve(context.Background(), "what is Azure", 3)
	assert.ErrorIs(t, err, embedErr)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	svc := NewService(&fakeEmbedder{}, &fakeSearcher{}, &fakeGenerator{}, nil)

	_, err := svc.Answer(context.Background(), "", 3)
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestAnswer_ComposesContext(t *testing.T) {
	store := &fakeSearcher{results: scoredFragments(0.9, 0.8)}
	gen := &fakeGenerator{answer: "Azure is Microsoft's cloud platform."}
	svc := NewService(&fakeEmbedder{}, store, gen, nil)

	answer, err := svc.Answer(context.Background(), "what is Azure", 2)
	require.NoError(t, err)

	assert.Equal(t, "what is Azure", answer.Question)
	assert.Equal(t, "Azure is Microsoft's cloud platform.", answer.Answer)
	assert.Len(t, answer.ContextSnippets, 2)
	assert.False(t, answer.Timestamp.IsZero())

	// The prompt embeds every retrieved fragment and the question.
	assert.Contains(t, gen.lastPrompt, "Fragment 1 content.")
	assert.Contains(t, gen.lastPrompt, "Fragment 2 content.")
	assert.Contains(t, gen.lastPrompt, "Question: what is Azure")
	assert.Contains(t, gen.lastPrompt, "ONLY on the context below")
}

func TestAnswer_SnippetTruncation(t *testing.T) {
	long := strings.Repeat("a", SnippetLength+50)
	store := &fakeSearcher{results: []*storage.ScoredFragment{
		{Fragment: &storage.Fragment{Section: "1. Section", Content: long}, Score: 0.9},
	}}
	svc := NewService(&fakeEmbedder{}, store, &fakeGenerator{answer: "ok"}, nil)

	answer, err := svc.Answer(context.Background(), "what is Azure", 1)
	require.NoError(t, err)
	require.Len(t, answer.ContextSnippets, 1)
	assert.Len(t, answer.ContextSnippets[0], SnippetLength)
}

func TestAnswer_NoFragmentsIsNotAnError(t *testing.T) {
	gen := &fakeGenerator{answer: "I don't know."}
	svc := NewService(&fakeEmbedder{}, &fakeSearcher{}, gen, nil)

	answer, err := svc.Answer(context.Background(), "something unrelated", 3)
	require.NoError(t, err)

	assert.Equal(t, "I don't know.", answer.Answer)
	assert.Empty(t, answer.ContextSnippets)
}

func TestAnswer_GenerationFailurePropagates(t *testing.T) {
	genErr := errors.New("model unavailable")
	store := &fakeSearcher{results: scoredFragments(0.9)}
	svc := NewService(&fakeEmbedder{}, store, &fakeGenerator{err: genErr}, nil)

	_, err := svc.Answer(context.Background(), "what is Azure", 1)
	assert.ErrorIs(t, err, genErr)
}

func TestStatus_Healthy(t *testing.T) {
	svc := NewService(&fakeEmbedder{}, &fakeSearcher{count: 42}, &fakeGenerator{}, nil)

	status := svc.Status(context.Background())
	assert.True(t, status.IndexLoaded)
	assert.Equal(t, uint64(42), status.Fragments)
	assert.False(t, status.Timestamp.IsZero())
}

func TestStatus_StoreDown(t *testing.T) {
	store := &fakeSearcher{healthErr: errors.New("connection refused")}
	svc := NewService(&fakeEmbedder{}, store, &fakeGenerator{}, nil)

	status := svc.Status(context.Background())
	assert.False(t, status.IndexLoaded)
	assert.Zero(t, status.Fragments)
}
