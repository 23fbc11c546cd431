package contents_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantmind-br/gtraverse-go/internal/contents"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootListing = `[
	{"name":"A.java","path":"A.java","type":"file","download_url":"https://raw.example/A.java"},
	{"name":"pkg","path":"pkg","type":"dir","download_url":null}
]`

func newContentsServer(t *testing.T) (*httptest.Server, *http.Header) {
	t.Helper()
	var last http.Header
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/contents/", func(w http.ResponseWriter, r *http.Request) {
		last = r.Header.Clone()
		switch r.URL.Path {
		case "/repos/o/r/contents/":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(rootListing))
		case "/repos/o/r/contents/README.md":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"README.md","path":"README.md","type":"file","download_url":"https://raw.example/README.md"}`))
		case "/repos/o/r/contents/garbage":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &last
}

func newClient(t *testing.T) *fetcher.Client {
	t.Helper()
	client, err := fetcher.NewClient(fetcher.DefaultClientOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRESTLister_List(t *testing.T) {
	server, headers := newContentsServer(t)
	lister := contents.NewRESTLister(newClient(t), contents.RESTOptions{BaseURL: server.URL, Token: "secret"})

	items, err := lister.List(context.Background(), "o", "r", "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A.java", items[0].Name)
	assert.True(t, items[0].IsFile())
	assert.Equal(t, "https://raw.example/A.java", items[0].DownloadURL)
	assert.True(t, items[1].IsDir())

	assert.Equal(t, "Bearer secret", headers.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", headers.Get("Accept"))
}

func TestRESTLister_NoTokenNoAuthHeader(t *testing.T) {
	server, headers := newContentsServer(t)
	lister := contents.NewRESTLister(newClient(t), contents.RESTOptions{BaseURL: server.URL})

	_, err := lister.List(context.Background(), "o", "r", "")
	require.NoError(t, err)
	assert.Empty(t, headers.Get("Authorization"))
}

func TestRESTLister_Errors(t *testing.T) {
	server, _ := newContentsServer(t)
	lister := contents.NewRESTLister(newClient(t), contents.RESTOptions{BaseURL: server.URL})

	t.Run("404 is a listing error", func(t *testing.T) {
		_, err := lister.List(context.Background(), "o", "r", "missing")
		var listingErr *domain.ListingError
		require.True(t, errors.As(err, &listingErr))
		assert.Equal(t, http.StatusNotFound, listingErr.StatusCode)
		assert.Equal(t, "Not Found", listingErr.Message)
		assert.Contains(t, listingErr.Body, `"Not Found"`)
	})

	t.Run("single object is a parse error", func(t *testing.T) {
		_, err := lister.List(context.Background(), "o", "r", "README.md")
		var parseErr *domain.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("malformed body is a parse error", func(t *testing.T) {
		_, err := lister.List(context.Background(), "o", "r", "garbage")
		var parseErr *domain.ParseError
		assert.True(t, errors.As(err, &parseErr))
	})
}

func TestParseListing(t *testing.T) {
	items, err := contents.ParseListing("u", []byte(" [] "))
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = contents.ParseListing("u", []byte(""))
	assert.Error(t, err)
}
