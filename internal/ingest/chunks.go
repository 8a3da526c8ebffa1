package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bull/docqa-server/internal/segment"
)

// DefaultChunksPath derives the chunks output path from a source path by
// replacing its extension with a "_chunks.json" suffix.
func DefaultChunksPath(sourcePath string) string {
	return strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath)) + "_chunks.json"
}

// WriteChunks serializes fragments as an ordered JSON array of
// {section, content} records.
func WriteChunks(fragments []segment.Fragment, path string) error {
	data, err := json.MarshalIndent(fragments, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fragments: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
