package embedding

import (
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Client wraps the OpenAI client used for embeddings and answer generation.
type Client struct {
	client *openai.Client
}

// NewClient creates an OpenAI client from the environment. OPENAI_API_KEY is
// required; OPENAI_BASE_URL optionally points at an OpenAI-compatible
// endpoint (e.g. a local model server).
func NewClient() (*Client, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	var opts []option.RequestOption
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &Client{client: &client}, nil
}

// Client returns the underlying OpenAI client for use in other packages
// (e.g. answer generation).
func (c *Client) Client() *openai.Client {
	return c.client
}
