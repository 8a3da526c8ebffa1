package rag

import "errors"

var (
	ErrEmptyQuestion = errors.New("question is required")
	ErrEmptyQuery    = errors.New("query is required")
	ErrInvalidTopK   = errors.New("top_k must be a positive integer")
)
