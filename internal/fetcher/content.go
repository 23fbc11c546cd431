package fetcher

import (
	"context"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
)

// Ensure ContentFetcher implements domain.ContentFetcher
var _ domain.ContentFetcher = (*ContentFetcher)(nil)

// ContentFetcher downloads raw file bodies. Requests carry no credentials.
type ContentFetcher struct {
	client domain.Fetcher
}

// NewContentFetcher creates a ContentFetcher on top of an HTTP client
func NewContentFetcher(client domain.Fetcher) *ContentFetcher {
	return &ContentFetcher{client: client}
}

// Fetch performs one GET against url and returns the decoded text body.
// A non-2xx status yields *domain.ContentFetchError.
func (f *ContentFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return "", err
	}

	if !resp.IsSuccess() {
		return "", domain.NewContentFetchError(url, resp.StatusCode, resp.Message())
	}

	return DecodeText(resp.Body, resp.ContentType), nil
}
