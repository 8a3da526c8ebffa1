package rag

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultGenerationModel answers questions when no model is configured.
const DefaultGenerationModel = openai.ChatModelGPT4oMini

// ChatGenerator implements Generator with a single chat completion call.
type ChatGenerator struct {
	client *openai.Client
	model  string
}

// NewChatGenerator creates a generator using the given model. An empty model
// selects DefaultGenerationModel.
func NewChatGenerator(client *openai.Client, model string) *ChatGenerator {
	if model == "" {
		model = DefaultGenerationModel
	}
	return &ChatGenerator{
		client: client,
		model:  model,
	}
}

// Generate sends the prompt as a single user message and returns the
// completion text.
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: g.model,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
