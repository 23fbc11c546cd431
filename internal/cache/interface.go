// Package cache stores the aggregated result of a traversal per
// repository, with a fixed expiry window.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/quantmind-br/gtraverse-go/internal/domain"
	"github.com/quantmind-br/gtraverse-go/internal/utils"
)

// DefaultTTL is the expiry window used when none is configured
const DefaultTTL = 10 * time.Minute

// Backend names
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// RepositoryCache maps a repository key to its last aggregated result.
// Implementations are safe for concurrent use and expire entries lazily.
type RepositoryCache interface {
	// Get returns the stored result if present and not expired
	Get(ctx context.Context, key string) (*domain.Result, bool)
	// Put stores value under key and resets its write time
	Put(ctx context.Context, key string, value *domain.Result) error
	// Delete removes key
	Delete(ctx context.Context, key string) error
	// Close releases resources
	Close() error
}

// Options contains cache configuration options
type Options struct {
	Backend string
	TTL     time.Duration
	// Directory persists badger data on disk; empty keeps it in memory
	Directory string
	RedisAddr string
	Logger    *utils.Logger
}

// DefaultOptions returns default cache options
func DefaultOptions() Options {
	return Options{
		Backend:   BackendMemory,
		TTL:       DefaultTTL,
		RedisAddr: "localhost:6379",
	}
}

// New creates the cache selected by opts.Backend
func New(opts Options) (RepositoryCache, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}

	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(opts.TTL), nil
	case BackendBadger:
		return NewBadgerCache(BadgerOptions{
			Directory: opts.Directory,
			TTL:       opts.TTL,
			Logger:    opts.Logger,
		})
	case BackendRedis:
		return NewRedisCacheFromAddr(opts.RedisAddr, opts.TTL, opts.Logger)
	default:
		return nil, ValidateBackend(opts.Backend)
	}
}

// ValidateBackend rejects backend names New cannot open
func ValidateBackend(name string) error {
	switch name {
	case "", BackendMemory, BackendBadger, BackendRedis:
		return nil
	}
	return fmt.Errorf("unknown cache backend %q", name)
}
