// Package main provides the document QA API server entry point.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/bull/docqa-server/internal/api"
	"github.com/bull/docqa-server/internal/embedding"
	mcpserver "github.com/bull/docqa-server/internal/mcp"
	"github.com/bull/docqa-server/internal/rag"
	"github.com/bull/docqa-server/internal/storage"
)

func main() {
	// Load .env file if present (local development), ignore if missing.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	qdrantHost := getEnv("QDRANT_HOST", "localhost")
	qdrantPort := getEnvInt("QDRANT_PORT", 6334)
	port := getEnv("PORT", "5000")
	generationModel := getEnv("GENERATION_MODEL", "")

	store, err := storage.NewQdrantStore(qdrantHost, qdrantPort)
	if err != nil {
		log.Fatalf("failed to connect to Qdrant: %v", err)
	}
	defer store.Close()

	if err := store.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to ensure collection: %v", err)
	}

	embeddingClient, err := embedding.NewClient()
	if err != nil {
		log.Fatalf("failed to create embedding client: %v", err)
	}
	embedder := embedding.NewEmbedder(embeddingClient, 0)
	generator := rag.NewChatGenerator(embeddingClient.Client(), generationModel)

	logger := slog.Default()
	service := rag.NewService(embedder, store, generator, logger)

	apiServer := api.NewServer(service, logger)
	mcpSrv := mcpserver.NewServer(service)

	mux := http.NewServeMux()
	mux.Handle("/mcp", mcpserver.NewHTTPHandler(mcpSrv, nil))
	mux.Handle("/", apiServer.Handler())

	addr := "0.0.0.0:" + port
	log.Printf("Starting QA API server on %s (API at /api, MCP at /mcp)", addr)

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
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
