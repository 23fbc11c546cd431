package config

import (
	"fmt"
	"strings"
	"time"
)

// Traversal modes
const (
	ModeRecursive = "recursive"
	ModeSingle    = "single"
)

// Listing backends
const (
	APIBackendREST   = "rest"
	APIBackendGitHub = "github"
)

// Config represents the application configuration
type Config struct {
	Auth        AuthConfig        `mapstructure:"auth" yaml:"auth"`
	API         APIConfig         `mapstructure:"api" yaml:"api"`
	Traversal   TraversalConfig   `mapstructure:"traversal" yaml:"traversal"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	HTTP        HTTPConfig        `mapstructure:"http" yaml:"http"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Logging     LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// AuthConfig contains credentials
type AuthConfig struct {
	Token string `mapstructure:"token" yaml:"token"`
}

// APIConfig selects the contents API endpoint and client
type APIConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Backend string `mapstructure:"backend" yaml:"backend"`
}

// TraversalConfig contains walk settings
type TraversalConfig struct {
	Mode       string `mapstructure:"mode" yaml:"mode"`
	MaxDepth   int    `mapstructure:"max_depth" yaml:"max_depth"`
	DepthLimit int    `mapstructure:"depth_limit" yaml:"depth_limit"`
}

// CacheConfig contains cache settings
type CacheConfig struct {
	Backend   string        `mapstructure:"backend" yaml:"backend"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Directory string        `mapstructure:"directory" yaml:"directory"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
}

// HTTPConfig contains transport settings
type HTTPConfig struct {
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// ConcurrencyConfig contains concurrency settings
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// WalkDepth returns the walker depth selected by the traversal mode
func (c *Config) WalkDepth() int {
	if c.Traversal.Mode == ModeSingle {
		return 0
	}
	return c.Traversal.MaxDepth
}

// Validate validates the configuration. Out of range numbers are reset
// to their defaults; unknown enum values are errors.
func (c *Config) Validate() error {
	if c.Concurrency.Workers < 1 {
		c.Concurrency.Workers = DefaultWorkers
	}
	if c.Traversal.MaxDepth < -1 {
		c.Traversal.MaxDepth = DefaultMaxDepth
	}
	if c.Traversal.DepthLimit < 1 {
		c.Traversal.DepthLimit = DefaultDepthLimit
	}
	if c.HTTP.Timeout < time.Second {
		c.HTTP.Timeout = DefaultTimeout
	}
	if c.HTTP.MaxRetries < 0 {
		c.HTTP.MaxRetries = DefaultMaxRetries
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	c.Auth.Token = strings.TrimSpace(c.Auth.Token)

	c.Traversal.Mode = strings.ToLower(c.Traversal.Mode)
	switch c.Traversal.Mode {
	case "":
		c.Traversal.Mode = DefaultMode
	case ModeRecursive, ModeSingle:
	default:
		return fmt.Errorf("invalid traversal.mode %q: must be %q or %q", c.Traversal.Mode, ModeRecursive, ModeSingle)
	}

	c.API.Backend = strings.ToLower(c.API.Backend)
	switch c.API.Backend {
	case "":
		c.API.Backend = DefaultAPIBackend
	case APIBackendREST, APIBackendGitHub:
	default:
		return fmt.Errorf("invalid api.backend %q: must be %q or %q", c.API.Backend, APIBackendREST, APIBackendGitHub)
	}

	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = DefaultCacheBackend
	case "memory", "badger", "redis":
	default:
		return fmt.Errorf("invalid cache.backend %q: must be memory, badger or redis", c.Cache.Backend)
	}

	return nil
}
