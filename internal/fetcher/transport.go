package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
)

// Transport is an http.RoundTripper backed by a domain.Fetcher.
// It lets net/http based SDKs such as go-github share the tls-client
// connection pool. Only GET is supported.
type Transport struct {
	client domain.Fetcher
}

// NewTransport creates a new Transport
func NewTransport(client domain.Fetcher) *Transport {
	return &Transport{client: client}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}
	if req.Method != "" && req.Method != http.MethodGet {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMethod, req.Method)
	}

	headers := make(map[string]string, len(req.Header))
	for k, v := range req.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	resp, err := t.client.GetWithHeaders(req.Context(), req.URL.String(), headers)
	if err != nil {
		return nil, err
	}

	// The body is already decompressed
	header := resp.Headers.Clone()
	if header == nil {
		header = make(http.Header)
	}
	header.Del("Content-Encoding")
	header.Del("Content-Length")

	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	return &http.Response{
		Status:        status,
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// Transport returns the client as an http.RoundTripper
func (c *Client) Transport() http.RoundTripper {
	return NewTransport(c)
}
