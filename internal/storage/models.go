package storage

import "time"

// Fragment is a stored retrieval unit: a section-tagged chunk of a source
// document together with its embedding vector.
type Fragment struct {
	ID         string    // UUID
	Section    string    // Owning section title, or the fallback label
	Content    string    // Chunk text content
	Source     string    // Originating document name, e.g. "azure_fundamentals.txt"
	ChunkIndex int       // Position within the source document (0, 1, 2...)
	IngestedAt time.Time // When this fragment was indexed
	Embedding  []float32 // 1536-dim vector (text-embedding-3-small)
}

// ScoredFragment pairs a fragment with its similarity score from a search.
type ScoredFragment struct {
	Fragment *Fragment
	Score    float64
}

// CollectionName is the single Qdrant collection holding all fragments.
const CollectionName = "fragments"

// VectorDimension is the embedding size for text-embedding-3-small.
const VectorDimension = 1536
