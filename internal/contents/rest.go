package contents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
)

// Ensure RESTLister implements domain.Lister
var _ domain.Lister = (*RESTLister)(nil)

const (
	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"
)

var errNotDirectory = errors.New("expected a directory listing array, got a single object")

// RESTLister lists directories with plain GET requests
type RESTLister struct {
	client  domain.Fetcher
	baseURL string
	token   string
	logger  *utils.Logger
}

// RESTOptions contains options for creating a RESTLister
type RESTOptions struct {
	BaseURL string
	Token   string
	Logger  *utils.Logger
}

// NewRESTLister creates a RESTLister on top of an HTTP client
func NewRESTLister(client domain.Fetcher, opts RESTOptions) *RESTLister {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &RESTLister{
		client:  client,
		baseURL: opts.BaseURL,
		token:   opts.Token,
		logger:  opts.Logger.WithComponent("contents"),
	}
}

// List returns the items of one directory level
func (l *RESTLister) List(ctx context.Context, owner, repo, path string) ([]domain.DirEntry, error) {
	u := ListingURL(l.baseURL, owner, repo, path)

	headers := map[string]string{
		"Accept":               acceptHeader,
		"X-GitHub-Api-Version": apiVersion,
	}
	if l.token != "" {
		headers["Authorization"] = "Bearer " + l.token
	}

	resp, err := l.client.GetWithHeaders(ctx, u, headers)
	if err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("url", u).
		Int("status", resp.StatusCode).
		Msg("Listed directory")

	if !resp.IsSuccess() {
		return nil, domain.NewListingError(u, resp.StatusCode, resp.Message(), string(resp.Body))
	}

	return ParseListing(u, resp.Body)
}

// ParseListing decodes a contents API body. Only a JSON array is a valid
// directory listing; a single object (the shape returned for a file path)
// is a parse error.
func ParseListing(url string, body []byte) ([]domain.DirEntry, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return nil, domain.NewParseError(url, errNotDirectory)
	}

	var items []domain.DirEntry
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, domain.NewParseError(url, err)
	}
	return items, nil
}
