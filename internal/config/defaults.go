package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/quantmind-br/gtraverse-go/pkg/version"
)

// Default values
const (
	// Auth and API defaults
	DefaultBaseURL    = "https://api.github.com"
	DefaultAPIBackend = APIBackendREST

	// Traversal defaults
	DefaultMode       = ModeRecursive
	DefaultMaxDepth   = -1
	DefaultDepthLimit = 64

	// Cache defaults
	DefaultCacheBackend = "memory"
	DefaultCacheTTL     = 10 * time.Minute
	DefaultRedisAddr    = "localhost:6379"

	// HTTP defaults
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 0

	// Concurrency defaults
	DefaultWorkers = 4

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultUserAgent returns the User-Agent sent with every request
func DefaultUserAgent() string {
	return version.UserAgent()
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gtraverse"
	}
	return filepath.Join(home, ".gtraverse")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Backend: DefaultAPIBackend,
		},
		Traversal: TraversalConfig{
			Mode:       DefaultMode,
			MaxDepth:   DefaultMaxDepth,
			DepthLimit: DefaultDepthLimit,
		},
		Cache: CacheConfig{
			Backend:   DefaultCacheBackend,
			TTL:       DefaultCacheTTL,
			RedisAddr: DefaultRedisAddr,
		},
		HTTP: HTTPConfig{
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
			UserAgent:  DefaultUserAgent(),
		},
		Concurrency: ConcurrencyConfig{
			Workers: DefaultWorkers,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
