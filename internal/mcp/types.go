// Package mcp exposes the document QA service over the Model Context
// Protocol.
package mcp

// AskInput defines the input parameters for the ask_docs tool.
type AskInput struct {
	// Question is the natural-language question to answer from the index.
	Question string `json:"question" jsonschema:"required,description=The question to answer from the indexed documents"`
	// TopK is the number of fragments to ground the answer on.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=3,description=Number of fragments used as grounding context"`
}

// AskOutput contains the generated answer and its grounding snippets.
type AskOutput struct {
	Question        string   `json:"question"`
	Answer          string   `json:"answer"`
	ContextSnippets []string `json:"context_snippets"`
	Timestamp       string   `json:"timestamp"`
}

// SearchInput defines the input parameters for the search_fragments tool.
type SearchInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query"`
	// TopK is the maximum number of fragments to return.
	TopK int `json:"top_k,omitempty" jsonschema:"minimum=1,maximum=20,default=3,description=Maximum number of fragments to return"`
}

// SearchResult is a single fragment match.
type SearchResult struct {
	Section string  `json:"section"`
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

// SearchOutput contains the fragment matches.
type SearchOutput struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// StatusInput defines the input for the index_status tool. No parameters.
type StatusInput struct{}

// StatusOutput reports the state of the fragment index.
type StatusOutput struct {
	IndexLoaded bool   `json:"index_loaded"`
	Fragments   uint64 `json:"fragments"`
	Timestamp   string `json:"timestamp"`
}
