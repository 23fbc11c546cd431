package traverse

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/cache"
	"github.com/quantmind-br/gtraverse-go/internal/config"
	"github.com/quantmind-br/gtraverse-go/internal/contents"
	"github.com/quantmind-br/gtraverse-go/internal/fetcher"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
	"github.com/quantmind-br/gtraverse-go/internal/walker"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrNoTraversalMode is returned by Build when neither Recursive, Single,
// MaxDepth nor Traverser was called
var ErrNoTraversalMode = errors.New("traversal mode not set: call Recursive, Single or MaxDepth")

// SessionBuilder configures a Session
type SessionBuilder struct {
	token      string
	baseURL    string
	apiBackend string
	modeSet    bool
	maxDepth   int
	depthLimit int
	ttl        time.Duration
	workers    int
	timeout    time.Duration
	maxRetries int
	userAgent  string
	logger     *utils.Logger
	cache      Cache
	cacheOpts  *cache.Options
	lister     Lister
	fetcher    ContentFetcher
	traverser  Traverser
	onFile     FileObserver
	tracerProv trace.TracerProvider
	meterProv  metric.MeterProvider
}

// NewSessionBuilder returns a builder with default settings
func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		baseURL:    config.DefaultBaseURL,
		apiBackend: config.APIBackendREST,
		depthLimit: config.DefaultDepthLimit,
		ttl:        config.DefaultCacheTTL,
		workers:    config.DefaultWorkers,
		timeout:    config.DefaultTimeout,
		userAgent:  config.DefaultUserAgent(),
	}
}

// AccessToken sets the bearer token sent to the contents API
func (b *SessionBuilder) AccessToken(token string) *SessionBuilder {
	b.token = token
	return b
}

// Recursive follows every subdirectory
func (b *SessionBuilder) Recursive() *SessionBuilder {
	return b.MaxDepth(Unlimited)
}

// Single lists the start directory only
func (b *SessionBuilder) Single() *SessionBuilder {
	return b.MaxDepth(0)
}

// MaxDepth recurses n levels below the start directory
func (b *SessionBuilder) MaxDepth(n int) *SessionBuilder {
	b.modeSet = true
	b.maxDepth = n
	return b
}

// DepthLimit sets the hard recursion ceiling
func (b *SessionBuilder) DepthLimit(n int) *SessionBuilder {
	b.depthLimit = n
	return b
}

// ExpireAfter sets the cache expiry window of the default cache
func (b *SessionBuilder) ExpireAfter(d time.Duration) *SessionBuilder {
	b.ttl = d
	return b
}

// Workers sets how many reads run concurrently
func (b *SessionBuilder) Workers(n int) *SessionBuilder {
	b.workers = n
	return b
}

// BaseURL points the listers at another API endpoint
func (b *SessionBuilder) BaseURL(u string) *SessionBuilder {
	b.baseURL = u
	return b
}

// APIBackend selects the listing client: "rest" or "github"
func (b *SessionBuilder) APIBackend(name string) *SessionBuilder {
	b.apiBackend = name
	return b
}

// Timeout sets the per-request HTTP timeout
func (b *SessionBuilder) Timeout(d time.Duration) *SessionBuilder {
	b.timeout = d
	return b
}

// MaxRetries enables retrying throttled requests. The default is 0.
func (b *SessionBuilder) MaxRetries(n int) *SessionBuilder {
	b.maxRetries = n
	return b
}

// UserAgent overrides the User-Agent header
func (b *SessionBuilder) UserAgent(ua string) *SessionBuilder {
	b.userAgent = ua
	return b
}

// Logger sets the session logger
func (b *SessionBuilder) Logger(l *utils.Logger) *SessionBuilder {
	b.logger = l
	return b
}

// Cache replaces the default in-memory cache. ExpireAfter is ignored.
func (b *SessionBuilder) Cache(c Cache) *SessionBuilder {
	b.cache = c
	b.cacheOpts = nil
	return b
}

// Lister replaces the contents API client
func (b *SessionBuilder) Lister(l Lister) *SessionBuilder {
	b.lister = l
	return b
}

// Fetcher replaces the raw content client
func (b *SessionBuilder) Fetcher(f ContentFetcher) *SessionBuilder {
	b.fetcher = f
	return b
}

// Traverser replaces the walker entirely. It also counts as choosing a
// traversal mode.
func (b *SessionBuilder) Traverser(t Traverser) *SessionBuilder {
	b.traverser = t
	return b
}

// OnFile registers an observer called after each fetched file
func (b *SessionBuilder) OnFile(fn FileObserver) *SessionBuilder {
	b.onFile = fn
	return b
}

// TracerProvider sets where walker spans go. The default is the global provider.
func (b *SessionBuilder) TracerProvider(tp trace.TracerProvider) *SessionBuilder {
	b.tracerProv = tp
	return b
}

// MeterProvider sets where the cache lookup counter is recorded. The
// default is the global provider.
func (b *SessionBuilder) MeterProvider(mp metric.MeterProvider) *SessionBuilder {
	b.meterProv = mp
	return b
}

// Build creates the Session
func (b *SessionBuilder) Build() (*Session, error) {
	if !b.modeSet && b.traverser == nil {
		return nil, ErrNoTraversalMode
	}

	logger := b.logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	var closers []io.Closer
	traverser := b.traverser
	if traverser == nil {
		lister, fetch := b.lister, b.fetcher
		if lister == nil || fetch == nil {
			client, err := fetcher.NewClient(fetcher.ClientOptions{
				Timeout:    b.timeout,
				MaxRetries: b.maxRetries,
				UserAgent:  b.userAgent,
				Logger:     logger,
			})
			if err != nil {
				return nil, fmt.Errorf("create http client: %w", err)
			}
			closers = append(closers, client)

			if lister == nil {
				lister, err = b.newLister(client, logger)
				if err != nil {
					closeAll(closers)
					return nil, err
				}
			}
			if fetch == nil {
				fetch = fetcher.NewContentFetcher(client)
			}
		}

		traverser = walker.New(lister, fetch, walker.Options{
			MaxDepth:       b.maxDepth,
			DepthLimit:     b.depthLimit,
			OnFile:         b.onFile,
			Logger:         logger,
			TracerProvider: b.tracerProv,
		})
	}

	c := b.cache
	switch {
	case c != nil:
	case b.cacheOpts != nil:
		var err error
		if c, err = cache.New(*b.cacheOpts); err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("create cache: %w", err)
		}
	default:
		c = cache.NewMemory(b.ttl)
	}

	return newSession(c, traverser, b.workers, logger, b.meterProv, closers), nil
}

func (b *SessionBuilder) newLister(client *fetcher.Client, logger *utils.Logger) (Lister, error) {
	switch b.apiBackend {
	case "", config.APIBackendREST:
		return contents.NewRESTLister(client, contents.RESTOptions{
			BaseURL: b.baseURL,
			Token:   b.token,
			Logger:  logger,
		}), nil
	case config.APIBackendGitHub:
		return contents.NewGitHubLister(client.Transport(), contents.GitHubOptions{
			BaseURL: b.baseURL,
			Token:   b.token,
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("unknown api backend %q", b.apiBackend)
	}
}

// FromConfig prepares a builder from loaded configuration. The configured
// cache backend is opened by Build, so a failed Build leaves nothing open.
// Callers may keep customising the builder before Build.
func FromConfig(cfg *config.Config, logger *utils.Logger) (*SessionBuilder, error) {
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	if err := cache.ValidateBackend(cfg.Cache.Backend); err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	b := NewSessionBuilder()
	b.cacheOpts = &cache.Options{
		Backend:   cfg.Cache.Backend,
		TTL:       cfg.Cache.TTL,
		Directory: cfg.Cache.Directory,
		RedisAddr: cfg.Cache.RedisAddr,
		Logger:    logger,
	}

	return b.
		AccessToken(cfg.Auth.Token).
		BaseURL(cfg.API.BaseURL).
		APIBackend(cfg.API.Backend).
		MaxDepth(cfg.WalkDepth()).
		DepthLimit(cfg.Traversal.DepthLimit).
		ExpireAfter(cfg.Cache.TTL).
		Workers(cfg.Concurrency.Workers).
		Timeout(cfg.HTTP.Timeout).
		MaxRetries(cfg.HTTP.MaxRetries).
		UserAgent(cfg.HTTP.UserAgent).
		Logger(logger), nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
