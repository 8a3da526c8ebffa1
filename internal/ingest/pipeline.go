// Package ingest turns source documents into embedded fragments in the
// fragment store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bull/docqa-server/internal/segment"
	"github.com/bull/docqa-server/internal/source"
	"github.com/bull/docqa-server/internal/storage"
)

// Default chunking parameters for ingestion.
const (
	DefaultChunkSize = 800
	DefaultOverlap   = 200
)

// Embedder generates embeddings for a batch of fragment texts.
type Embedder interface {
	EmbedAll(ctx context.Context, texts []string) ([][]float32, error)
}

// FragmentStore persists embedded fragments.
type FragmentStore interface {
	UpsertFragments(ctx context.Context, fragments []*storage.Fragment) error
}

// Result contains statistics about an ingestion run.
type Result struct {
	TotalDocs      int
	TotalFragments int
	SuccessfulDocs int
	FailedDocs     []FailedDoc
	Duration       time.Duration
}

// FailedDoc records a document that failed to ingest.
type FailedDoc struct {
	Name   string
	Reason string
}

// Pipeline orchestrates ingestion: fetch, segment, embed, store.
type Pipeline struct {
	source    source.Source
	embedder  Embedder
	store     FragmentStore
	markdown  *segment.MarkdownSegmenter
	chunkSize int
	overlap   int
	logger    *slog.Logger
}

// NewPipeline creates an ingestion pipeline. Zero chunkSize and overlap
// select the defaults (800/200).
func NewPipeline(src source.Source, embedder Embedder, store FragmentStore, chunkSize, overlap int, logger *slog.Logger) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:    src,
		embedder:  embedder,
		store:     store,
		markdown:  segment.NewMarkdownSegmenter(),
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

// Run ingests every document the source lists. A document that fails is
// skipped and recorded; the run continues with the rest.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	names, err := p.source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	result.TotalDocs = len(names)
	p.logger.Info("Starting ingestion", "documents", len(names))

	for _, name := range names {
		count, err := p.processDocument(ctx, name)
		if err != nil {
			// A blown fragment ceiling or a bad chunk configuration poisons
			// the whole run, not just this document.
			if errors.Is(err, segment.ErrTooManyFragments) || errors.Is(err, segment.ErrInvalidChunkConfig) {
				return nil, fmt.Errorf("ingest %s: %w", name, err)
			}
			p.logger.Warn("Failed to ingest document", "name", name, "error", err)
			result.FailedDocs = append(result.FailedDocs, FailedDoc{
				Name:   name,
				Reason: err.Error(),
			})
			continue
		}
		result.SuccessfulDocs++
		result.TotalFragments += count
	}

	result.Duration = time.Since(start)
	p.logger.Info("Ingestion complete",
		"successful", result.SuccessfulDocs,
		"failed", len(result.FailedDocs),
		"fragments", result.TotalFragments,
		"duration", result.Duration,
	)

	return result, nil
}

// processDocument runs the full pipeline for one document and returns the
// number of fragments stored.
func (p *Pipeline) processDocument(ctx context.Context, name string) (int, error) {
	doc, err := p.source.Fetch(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("fetch: %w", err)
	}

	fragments, err := p.Segment(doc)
	if err != nil {
		return 0, fmt.Errorf("segment: %w", err)
	}
	if len(fragments) == 0 {
		p.logger.Debug("Document produced no fragments", "name", name)
		return 0, nil
	}
	p.logger.Debug("Segmented document", "name", name, "fragments", len(fragments))

	texts := make([]string, len(fragments))
	for i, frag := range fragments {
		texts[i] = frag.Content
	}

	embeddings, err := p.embedder.EmbedAll(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embeddings: %w", err)
	}

	now := time.Now().UTC()
	stored := make([]*storage.Fragment, len(fragments))
	for i, frag := range fragments {
		stored[i] = &storage.Fragment{
			ID:         uuid.New().String(),
			Section:    frag.Section,
			Content:    frag.Content,
			Source:     doc.Name,
			ChunkIndex: i,
			IngestedAt: now,
			Embedding:  embeddings[i],
		}
	}

	if err := p.store.UpsertFragments(ctx, stored); err != nil {
		return 0, fmt.Errorf("store fragments: %w", err)
	}

	p.logger.Info("Ingested document", "name", name, "fragments", len(fragments))
	return len(fragments), nil
}

// Segment splits one document using the segmenter matching its type:
// heading-structure detection for markdown, the numbered-heading pattern
// (with paragraph fallback) for everything else.
func (p *Pipeline) Segment(doc *source.Document) ([]segment.Fragment, error) {
	if strings.EqualFold(path.Ext(doc.Name), ".md") {
		return p.markdown.Segment(doc.Text, p.chunkSize, p.overlap)
	}
	return segment.Segment(doc.Text, p.chunkSize, p.overlap)
}
