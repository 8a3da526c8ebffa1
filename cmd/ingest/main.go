// Package main provides the ingestion CLI: chunk documents to JSON or build
// the full fragment index.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bull/docqa-server/internal/embedding"
	"github.com/bull/docqa-server/internal/ingest"
	"github.com/bull/docqa-server/internal/source"
	"github.com/bull/docqa-server/internal/storage"
)

var (
	flagSource      string
	flagOutput      string
	flagChunkSize   int
	flagOverlap     int
	flagGitHubOwner string
	flagGitHubRepo  string
	flagGitHubPath  string
	flagClear       bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa-ingest",
	Short: "Document QA ingestion tool",
	Long:  "CLI tool for chunking documents and building the fragment index in Qdrant",
}

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Split a document into overlapping, section-tagged chunks",
	Long: `Reads a text or markdown document, splits it into overlapping chunks
aligned to detected section boundaries, and writes them as a JSON array of
{section, content} records.`,
	RunE: runChunk,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Ingest documents into the fragment index",
	Long: `Segments, embeds, and stores all documents from a local path or a
GitHub repository directory.

This command:
1. Connects to Qdrant and verifies health
2. Optionally clears the existing fragment collection
3. Segments every document into section-tagged fragments
4. Generates embeddings for each fragment
5. Stores the fragments in Qdrant

Environment variables:
  QDRANT_HOST     Qdrant hostname (default: localhost)
  QDRANT_PORT     Qdrant gRPC port (default: 6334)
  OPENAI_API_KEY  OpenAI API key for embeddings (required)
  GITHUB_TOKEN    GitHub token for higher rate limits (optional)`,
	RunE: runSync,
}

func init() {
	chunkCmd.Flags().StringVar(&flagSource, "source", "", "path to the document")
	chunkCmd.Flags().StringVar(&flagOutput, "output", "", "output JSON path (default: <source>_chunks.json)")
	chunkCmd.Flags().IntVar(&flagChunkSize, "chunk-size", ingest.DefaultChunkSize, "maximum chunk length in characters")
	chunkCmd.Flags().IntVar(&flagOverlap, "overlap", ingest.DefaultOverlap, "characters shared between adjacent chunks")
	chunkCmd.MarkFlagRequired("source")

	syncCmd.Flags().StringVar(&flagSource, "source", "", "local file or directory to ingest")
	syncCmd.Flags().StringVar(&flagGitHubOwner, "github-owner", "", "GitHub repository owner")
	syncCmd.Flags().StringVar(&flagGitHubRepo, "github-repo", "", "GitHub repository name")
	syncCmd.Flags().StringVar(&flagGitHubPath, "github-path", "", "directory inside the GitHub repository")
	syncCmd.Flags().IntVar(&flagChunkSize, "chunk-size", ingest.DefaultChunkSize, "maximum chunk length in characters")
	syncCmd.Flags().IntVar(&flagOverlap, "overlap", ingest.DefaultOverlap, "characters shared between adjacent chunks")
	syncCmd.Flags().BoolVar(&flagClear, "clear", false, "clear the existing collection before ingesting")

	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(syncCmd)
}

func main() {
	// Load .env file if present (local development), ignore if missing.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runChunk(cmd *cobra.Command, args []string) error {
	src := source.NewFileSource(flagSource)
	ctx := context.Background()

	names, err := src.List(ctx)
	if err != nil {
		return fmt.Errorf("list source: %w", err)
	}
	if len(names) != 1 {
		return fmt.Errorf("chunk expects a single document, found %d under %s", len(names), flagSource)
	}

	doc, err := src.Fetch(ctx, names[0])
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	pipeline := ingest.NewPipeline(src, nil, nil, flagChunkSize, flagOverlap, slog.Default())
	fragments, err := pipeline.Segment(doc)
	if err != nil {
		return fmt.Errorf("segment document: %w", err)
	}

	output := flagOutput
	if output == "" {
		output = ingest.DefaultChunksPath(flagSource)
	}
	if err := ingest.WriteChunks(fragments, output); err != nil {
		return err
	}

	fmt.Printf("Created %d chunks from %s\n", len(fragments), doc.Name)
	fmt.Printf("Chunks saved to: %s\n", output)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	src, err := buildSource()
	if err != nil {
		return err
	}

	qdrantHost := getEnv("QDRANT_HOST", "localhost")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)

	fmt.Printf("Connecting to Qdrant at %s:%d...\n", qdrantHost, qdrantPort)
	store, err := storage.NewQdrantStore(qdrantHost, qdrantPort)
	if err != nil {
		return fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("failed to ensure collection: %w", err)
	}
	fmt.Println("Qdrant healthy")

	if flagClear {
		fmt.Println("Clearing existing collection...")
		if err := store.ClearCollection(ctx); err != nil {
			return fmt.Errorf("failed to clear collection: %w", err)
		}
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		return fmt.Errorf("failed to create embedding client: %w", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, 0)

	fmt.Println()
	fmt.Println("Ingesting documents...")
	pipeline := ingest.NewPipeline(src, embedder, store, flagChunkSize, flagOverlap, slog.Default())

	result, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Sync complete!")
	fmt.Printf("  Documents: %d/%d\n", result.SuccessfulDocs, result.TotalDocs)
	fmt.Printf("  Fragments: %d\n", result.TotalFragments)
	fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Second))

	if len(result.FailedDocs) > 0 {
		fmt.Println()
		fmt.Println("Failed documents:")
		for _, failed := range result.FailedDocs {
			fmt.Printf("  - %s: %s\n", failed.Name, failed.Reason)
		}
	}

	fmt.Println()
	fmt.Printf("Total time: %s\n", time.Since(start).Round(time.Second))
	return nil
}

// buildSource selects the document source from flags: a local path, or a
// GitHub repository directory.
func buildSource() (source.Source, error) {
	switch {
	case flagSource != "":
		return source.NewFileSource(flagSource), nil
	case flagGitHubOwner != "" && flagGitHubRepo != "":
		return source.NewGitHubSource(flagGitHubOwner, flagGitHubRepo, flagGitHubPath)
	default:
		return nil, fmt.Errorf("either --source or --github-owner/--github-repo is required")
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}
