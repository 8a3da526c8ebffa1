package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/docqa-server/internal/api"
)

// Server wraps the MCP server with its service dependency.
type Server struct {
	server  *mcp.Server
	service api.RAGService
}

// NewServer creates a configured MCP server with the QA tools registered.
func NewServer(service api.RAGService) *Server {
	impl := &mcp.Implementation{
		Name:    "docqa-server",
		Version: "v0.1.0",
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_docs",
		Description: "Answer a question from the indexed documents. The answer is grounded strictly in retrieved fragments.",
	}, makeAskHandler(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_fragments",
		Description: "Semantically search indexed document fragments. Returns fragment content with section and similarity score.",
	}, makeSearchHandler(service))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "index_status",
		Description: "Report whether the fragment index is loaded and how many fragments it holds.",
	}, makeStatusHandler(service))

	return &Server{
		server:  server,
		service: service,
	}
}

// Run starts the server with stdio transport (blocks until the client
// disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance for transport
// handlers that need to wrap it.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
