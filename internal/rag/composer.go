package rag

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SnippetLength is the maximum preview length of each context snippet
// returned with an answer.
const SnippetLength = 200

// answerPromptTemplate constrains the model to the retrieved context.
const answerPromptTemplate = `You are a helpful AI assistant.
Answer based ONLY on the context below.
If the answer is not present, say you don't know.

Context:
%s

Question: %s`

// Answer is one composed response: the generated text plus the context
// snippets that grounded it.
type Answer struct {
	Question        string
	Answer          string
	ContextSnippets []string
	Timestamp       time.Time
}

// Answer retrieves the k most relevant fragments, builds the grounding
// prompt, and invokes the generation service once. Thin or empty context is
// not an error; the model is instructed to say it doesn't know. Generation
// failures propagate without retry.
func (s *Service) Answer(ctx context.Context, question string, k int) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	results, err := s.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	contents := make([]string, len(results))
	snippets := make([]string, len(results))
	for i, result := range results {
		contents[i] = result.Fragment.Content
		snippets[i] = truncate(result.Fragment.Content, SnippetLength)
	}

	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(contents, "\n"), question)

	s.logger.Info("Generating answer", "question", question, "fragments", len(results))
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Answer{
		Question:        question,
		Answer:          text,
		ContextSnippets: snippets,
		Timestamp:       time.Now().UTC(),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
