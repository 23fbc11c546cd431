package contents_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/quantmind-br/gtraverse-go/internal/contents"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubLister_List(t *testing.T) {
	server, headers := newContentsServer(t)

	lister, err := contents.NewGitHubLister(newClient(t).Transport(), contents.GitHubOptions{
		BaseURL: server.URL,
		Token:   "secret",
	})
	require.NoError(t, err)

	items, err := lister.List(context.Background(), "o", "r", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.DirEntry{
		Name:        "A.java",
		Path:        "A.java",
		Type:        domain.EntryTypeFile,
		DownloadURL: "https://raw.example/A.java",
	}, items[0])
	assert.True(t, items[1].IsDir())
	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
}

func TestGitHubLister_DefaultTransport(t *testing.T) {
	server, _ := newContentsServer(t)

	lister, err := contents.NewGitHubLister(nil, contents.GitHubOptions{BaseURL: server.URL})
	require.NoError(t, err)

	items, err := lister.List(context.Background(), "o", "r", "")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGitHubLister_Errors(t *testing.T) {
	server, _ := newContentsServer(t)
	lister, err := contents.NewGitHubLister(nil, contents.GitHubOptions{BaseURL: server.URL})
	require.NoError(t, err)

	t.Run("404 is a listing error", func(t *testing.T) {
		_, err := lister.List(context.Background(), "o", "r", "missing")
		var listingErr *domain.ListingError
		require.True(t, errors.As(err, &listingErr))
		assert.Equal(t, http.StatusNotFound, listingErr.StatusCode)
		assert.Equal(t, "Not Found", listingErr.Body)
	})

	t.Run("file path is a parse error", func(t *testing.T) {
		_, err := lister.List(context.Background(), "o", "r", "README.md")
		var parseErr *domain.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})
}

func TestNewGitHubLister_InvalidBaseURL(t *testing.T) {
	_, err := contents.NewGitHubLister(nil, contents.GitHubOptions{BaseURL: "http://[::1"})
	assert.Error(t, err)
}
