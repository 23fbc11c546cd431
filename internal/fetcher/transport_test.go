package fetcher_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/fetcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransport_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		w.Header().Set("X-RateLimit-Remaining", "42")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, fetcher.DefaultClientOptions())
	httpClient := &http.Client{Transport: client.Transport()}

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "42", resp.Header.Get("X-RateLimit-Remaining"))
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestTransport_RejectsNonGet(t *testing.T) {
	client := newTestClient(t, fetcher.DefaultClientOptions())
	transport := fetcher.NewTransport(client)

	req, err := http.NewRequest(http.MethodPost, "http://example.invalid", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = transport.RoundTrip(req)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedMethod))
}
