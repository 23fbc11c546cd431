package contents

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v75/github"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"golang.org/x/oauth2"
)

// Ensure GitHubLister implements domain.Lister
var _ domain.Lister = (*GitHubLister)(nil)

// GitHubLister lists directories through go-github
type GitHubLister struct {
	gh      *gogithub.Client
	baseURL string
	logger  *utils.Logger
}

// GitHubOptions contains options for creating a GitHubLister
type GitHubOptions struct {
	BaseURL string
	Token   string
	Logger  *utils.Logger
}

// NewGitHubLister creates a GitHubLister. transport is the base
// RoundTripper, usually fetcher.Client.Transport(); nil selects
// http.DefaultTransport.
func NewGitHubLister(transport http.RoundTripper, opts GitHubOptions) (*GitHubLister, error) {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	if opts.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   transport,
		}
	}

	gh := gogithub.NewClient(&http.Client{Transport: transport})
	if opts.BaseURL != "" && opts.BaseURL != DefaultBaseURL {
		u, err := url.Parse(strings.TrimRight(opts.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid api base url %q: %w", opts.BaseURL, err)
		}
		gh.BaseURL = u
	}

	return &GitHubLister{
		gh:      gh,
		baseURL: opts.BaseURL,
		logger:  opts.Logger.WithComponent("contents"),
	}, nil
}

// List returns the items of one directory level
func (l *GitHubLister) List(ctx context.Context, owner, repo, path string) ([]domain.DirEntry, error) {
	u := ListingURL(l.baseURL, owner, repo, path)

	file, dir, resp, err := l.gh.Repositories.GetContents(ctx, owner, repo, strings.Trim(path, "/"), nil)
	if err != nil {
		return nil, l.classify(u, resp, err)
	}
	if file != nil {
		return nil, domain.NewParseError(u, errNotDirectory)
	}

	items := make([]domain.DirEntry, 0, len(dir))
	for _, c := range dir {
		if c == nil {
			continue
		}
		items = append(items, domain.DirEntry{
			Name:        c.GetName(),
			Path:        c.GetPath(),
			Type:        domain.EntryType(c.GetType()),
			DownloadURL: c.GetDownloadURL(),
		})
	}

	l.logger.Debug().
		Str("url", u).
		Int("items", len(items)).
		Msg("Listed directory")

	return items, nil
}

// classify maps go-github failures onto the domain error taxonomy
func (l *GitHubLister) classify(u string, resp *gogithub.Response, err error) error {
	var transportErr *domain.TransportError
	if errors.As(err, &transportErr) {
		return transportErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTransportError(u, err)
	}

	if resp != nil && resp.Response != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		message := http.StatusText(resp.StatusCode)
		if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
			message = reason
		}
		var body string
		var ghErr *gogithub.ErrorResponse
		if errors.As(err, &ghErr) {
			body = ghErr.Message
		}
		return domain.NewListingError(u, resp.StatusCode, message, body)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return domain.NewTransportError(u, urlErr.Err)
	}
	return domain.NewParseError(u, err)
}
