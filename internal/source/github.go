package source

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v81/github"
)

// GitHubSource fetches documents from a directory inside a GitHub
// repository. Rate limits are handled transparently with automatic retry;
// setting GITHUB_TOKEN raises the limits.
type GitHubSource struct {
	client   *github.Client
	owner    string
	repo     string
	basePath string
}

// NewGitHubSource creates a source over owner/repo limited to basePath.
func NewGitHubSource(owner, repo, basePath string) (*GitHubSource, error) {
	rateLimiter, err := github_ratelimit.NewRateLimitWaiterClient(nil)
	if err != nil {
		return nil, fmt.Errorf("create rate limiter: %w", err)
	}

	client := github.NewClient(rateLimiter)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}

	return &GitHubSource{
		client:   client,
		owner:    owner,
		repo:     repo,
		basePath: basePath,
	}, nil
}

// List recursively collects all .md and .txt files under the base path.
func (g *GitHubSource) List(ctx context.Context) ([]string, error) {
	return g.listRecursive(ctx, g.basePath, "")
}

func (g *GitHubSource) listRecursive(ctx context.Context, fullPath, relativePath string) ([]string, error) {
	_, dirContents, _, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, fullPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get contents of %s: %w", fullPath, err)
	}

	var docs []string
	for _, item := range dirContents {
		if item.Type == nil || item.Name == nil {
			continue
		}

		itemRelPath := path.Join(relativePath, *item.Name)

		switch *item.Type {
		case "file":
			if textExtensions[strings.ToLower(path.Ext(*item.Name))] {
				docs = append(docs, itemRelPath)
			}
		case "dir":
			subDocs, err := g.listRecursive(ctx, path.Join(fullPath, *item.Name), itemRelPath)
			if err != nil {
				return nil, err
			}
			docs = append(docs, subDocs...)
		}
	}

	return docs, nil
}

// Fetch downloads and decodes one document by its relative path.
func (g *GitHubSource) Fetch(ctx context.Context, name string) (*Document, error) {
	fullPath := path.Join(g.basePath, name)

	fileContent, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, fullPath, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 404 {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, fullPath)
		}
		return nil, fmt.Errorf("failed to get content of %s: %w", fullPath, err)
	}
	if fileContent == nil {
		return nil, fmt.Errorf("no file content returned for %s", fullPath)
	}

	content, err := base64.StdEncoding.DecodeString(*fileContent.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode content of %s: %w", fullPath, err)
	}

	return &Document{
		Name: name,
		Text: string(content),
	}, nil
}
