package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (GTRAVERSE_CACHE_TTL, ...)
const EnvPrefix = "GTRAVERSE"

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	return LoadWithViper(viper.GetViper(), "")
}

// LoadWithViper loads configuration into v. configFile, when set,
// replaces the ~/.gtraverse and working directory search.
func LoadWithViper(v *viper.Viper, configFile string) (*Config, error) {
	// Set defaults
	setDefaults(v)

	// Config file settings
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables (GTRAVERSE_*)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("auth.token", EnvPrefix+"_AUTH_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, err
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Validate and apply defaults for invalid values
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Auth and API defaults
	v.SetDefault("auth.token", "")
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.backend", DefaultAPIBackend)

	// Traversal defaults
	v.SetDefault("traversal.mode", DefaultMode)
	v.SetDefault("traversal.max_depth", DefaultMaxDepth)
	v.SetDefault("traversal.depth_limit", DefaultDepthLimit)

	// Cache defaults
	v.SetDefault("cache.backend", DefaultCacheBackend)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.directory", "")
	v.SetDefault("cache.redis_addr", DefaultRedisAddr)

	// HTTP defaults
	v.SetDefault("http.timeout", DefaultTimeout)
	v.SetDefault("http.max_retries", DefaultMaxRetries)
	v.SetDefault("http.user_agent", DefaultUserAgent())

	// Concurrency defaults
	v.SetDefault("concurrency.workers", DefaultWorkers)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
