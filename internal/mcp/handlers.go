package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/docqa-server/internal/api"
)

// makeAskHandler creates the ask_docs tool handler. Invalid input and
// upstream failures surface as tool errors.
func makeAskHandler(service api.RAGService) func(
	context.Context, *mcp.CallToolRequest, AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (
		*mcp.CallToolResult, AskOutput, error,
	) {
		answer, err := service.Answer(ctx, input.Question, input.TopK)
		if err != nil {
			return nil, AskOutput{}, err
		}

		return nil, AskOutput{
			Question:        answer.Question,
			Answer:          answer.Answer,
			ContextSnippets: answer.ContextSnippets,
			Timestamp:       answer.Timestamp.Format(time.RFC3339),
		}, nil
	}
}

// makeSearchHandler creates the search_fragments tool handler.
func makeSearchHandler(service api.RAGService) func(
	context.Context, *mcp.CallToolRequest, SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (
		*mcp.CallToolResult, SearchOutput, error,
	) {
		scored, err := service.Retrieve(ctx, input.Query, input.TopK)
		if err != nil {
			return nil, SearchOutput{}, err
		}

		results := make([]SearchResult, len(scored))
		for i, result := range scored {
			results[i] = SearchResult{
				Section: result.Fragment.Section,
				Content: result.Fragment.Content,
				Source:  result.Fragment.Source,
				Score:   result.Score,
			}
		}

		return nil, SearchOutput{
			Results: results,
			Count:   len(results),
		}, nil
	}
}

// makeStatusHandler creates the index_status tool handler.
func makeStatusHandler(service api.RAGService) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		status := service.Status(ctx)

		return nil, StatusOutput{
			IndexLoaded: status.IndexLoaded,
			Fragments:   status.Fragments,
			Timestamp:   status.Timestamp.Format(time.RFC3339),
		}, nil
	}
}
