package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"github.com/quantmind-br/gtraverse-go/pkg/version"
)

// Ensure Client implements domain.Fetcher
var _ domain.Fetcher = (*Client)(nil)

// Client is an HTTP GET client using tls-client. Every status code is
// returned as a response; only transport failures are errors.
type Client struct {
	tlsClient tls_client.HttpClient
	userAgent string
	retrier   *Retrier
	logger    *utils.Logger
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int // 0 disables retries
	UserAgent  string
	ProxyURL   string
	Logger     *utils.Logger
}

// DefaultUserAgent identifies requests made by this module
func DefaultUserAgent() string {
	return version.UserAgent()
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:    30 * time.Second,
		MaxRetries: 0,
		UserAgent:  DefaultUserAgent(),
		ProxyURL:   "",
	}
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent()
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	timeoutSeconds := int(opts.Timeout.Seconds())
	if timeoutSeconds < 1 {
		timeoutSeconds = 1
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	logger := opts.Logger.WithComponent("fetcher")

	var retrier *Retrier
	if opts.MaxRetries > 0 {
		retryOpts := DefaultRetrierOptions()
		retryOpts.MaxRetries = opts.MaxRetries
		retryOpts.Logger = logger
		retrier = NewRetrier(retryOpts)
	}

	return &Client{
		tlsClient: tlsClient,
		userAgent: opts.UserAgent,
		retrier:   retrier,
		logger:    logger,
	}, nil
}

// Get fetches content from a URL
func (c *Client) Get(ctx context.Context, url string) (*domain.Response, error) {
	return c.GetWithHeaders(ctx, url, nil)
}

// GetWithHeaders fetches content with custom headers
func (c *Client) GetWithHeaders(ctx context.Context, url string, extraHeaders map[string]string) (*domain.Response, error) {
	if c.retrier == nil {
		return c.doRequest(ctx, url, extraHeaders)
	}

	var resp *domain.Response
	err := c.retrier.Retry(ctx, func() error {
		var err error
		resp, err = c.doRequest(ctx, url, extraHeaders)
		if err != nil {
			return err
		}
		if ShouldRetryStatus(resp.StatusCode) {
			c.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("Retryable status")
			return &domain.RetryableError{
				Err:        StatusError(resp.StatusCode),
				RetryAfter: int(ParseRetryAfter(resp.Headers.Get("Retry-After")).Seconds()),
			}
		}
		return nil
	})

	// Retries exhausted on a status code: hand the last response back so
	// the caller can classify it.
	if resp != nil {
		return resp, nil
	}
	return nil, err
}

// doRequest performs the actual HTTP request
func (c *Client) doRequest(ctx context.Context, targetURL string, extraHeaders map[string]string) (*domain.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}
		return nil, domain.NewTransportError(targetURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewTransportError(targetURL, fmt.Errorf("failed to read response body: %w", err))
	}

	httpHeaders := make(http.Header)
	for k, v := range resp.Header {
		httpHeaders[k] = v
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		Body:        body,
		Headers:     httpHeaders,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         targetURL,
	}, nil
}

// Close releases client resources
func (c *Client) Close() error {
	c.tlsClient.CloseIdleConnections()
	return nil
}
