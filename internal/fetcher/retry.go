package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
)

// Retrier retries throttled requests with exponential backoff. A
// Retry-After hint carried by domain.RetryableError stretches the next
// wait, bounded by MaxInterval.
type Retrier struct {
	opts   RetrierOptions
	logger *utils.Logger
}

// RetrierOptions contains options for creating a Retrier
type RetrierOptions struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Logger          *utils.Logger
}

// DefaultRetrierOptions returns default retrier options
func DefaultRetrierOptions() RetrierOptions {
	return RetrierOptions{
		MaxRetries:      3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	}
}

// NewRetrier creates a Retrier; zero fields take the defaults
func NewRetrier(opts RetrierOptions) *Retrier {
	def := DefaultRetrierOptions()
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = def.MaxRetries
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = def.InitialInterval
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = def.MaxInterval
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = def.Multiplier
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Retrier{opts: opts, logger: logger}
}

// hintedBackOff waits at least the server requested delay once, then
// falls back to the wrapped policy
type hintedBackOff struct {
	backoff.BackOff
	hint    time.Duration
	ceiling time.Duration
}

func (h *hintedBackOff) NextBackOff() time.Duration {
	next := h.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if h.hint > next {
		next = min(h.hint, h.ceiling)
	}
	h.hint = 0
	return next
}

func (h *hintedBackOff) Reset() {
	h.hint = 0
	h.BackOff.Reset()
}

func (r *Retrier) newBackOff() *hintedBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.opts.InitialInterval
	exp.MaxInterval = r.opts.MaxInterval
	exp.Multiplier = r.opts.Multiplier
	exp.RandomizationFactor = 0.5
	exp.MaxElapsedTime = 0
	exp.Reset()

	return &hintedBackOff{
		BackOff: backoff.WithMaxRetries(exp, uint64(r.opts.MaxRetries)),
		ceiling: r.opts.MaxInterval,
	}
}

// Retry runs operation until it succeeds, returns a non-retryable error,
// exhausts MaxRetries or ctx ends
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := r.newBackOff()
	attempt := 0

	return backoff.RetryNotify(func() error {
		err := operation()
		if err == nil {
			return nil
		}
		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}

		var retryable *domain.RetryableError
		if errors.As(err, &retryable) && retryable.RetryAfter > 0 {
			b.hint = time.Duration(retryable.RetryAfter) * time.Second
		}
		return err
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		attempt++
		r.logger.Debug().
			Err(err).
			Int("attempt", attempt).
			Bool("rate_limited", errors.Is(err, domain.ErrRateLimited)).
			Dur("wait", wait).
			Msg("Retrying request")
	})
}

// StatusError describes a retryable status. 429 wraps domain.ErrRateLimited.
func StatusError(statusCode int) error {
	if statusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: HTTP %d", domain.ErrRateLimited, statusCode)
	}
	return fmt.Errorf("HTTP %d", statusCode)
}

// ShouldRetryStatus returns true if the HTTP status code should be retried
func ShouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ParseRetryAfter parses the Retry-After header value, either delta
// seconds or an HTTP date
func ParseRetryAfter(retryAfter string) time.Duration {
	retryAfter = strings.TrimSpace(retryAfter)
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
