package domain

import (
	"context"
)

//go:generate mockgen -destination=../mocks/domain_mocks.go -package=mocks . Lister,ContentFetcher,Traverser

// Lister lists one directory level of a repository through a contents API
type Lister interface {
	// List returns the items of path in listing order
	List(ctx context.Context, owner, repo, path string) ([]DirEntry, error)
}

// ContentFetcher downloads the raw text of a single file
type ContentFetcher interface {
	// Fetch performs one GET against url and returns the decoded body
	Fetch(ctx context.Context, url string) (string, error)
}

// Traverser walks a repository starting at the entry coordinate
type Traverser interface {
	// Walk returns the aggregated files matching the entry filters
	Walk(ctx context.Context, entry Entry) (*Result, error)
}

// Fetcher defines the interface for HTTP GET requests
type Fetcher interface {
	// Get fetches content from a URL
	Get(ctx context.Context, url string) (*Response, error)
	// GetWithHeaders fetches content with custom headers
	GetWithHeaders(ctx context.Context, url string, headers map[string]string) (*Response, error)
	// Close releases resources
	Close() error
}
