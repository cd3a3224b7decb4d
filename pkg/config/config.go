// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for server, cache, search and ranking collaborators

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Cache contains cache configuration
	Cache CacheConfig

	// Search contains aggregator and result configuration
	Search SearchConfig

	// Analyzer contains query analyzer configuration
	Analyzer AnalyzerConfig

	// Reranker contains relevance model configuration
	Reranker RerankerConfig

	// RateLimit contains per-client rate limiting configuration
	RateLimit RateLimitConfig

	// Tracing contains OpenTelemetry export configuration
	Tracing TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `env:"PORT,default=7777"`

	// Environment is development or production
	Environment string `env:"ENVIRONMENT,default=development"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL,default=info"`

	// LogFile, when set, also writes logs to a rotated file
	LogFile string `env:"LOG_FILE"`

	// RequestTimeout bounds a whole search request
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (redis/memory/sqlite)
	Type string `env:"CACHE_TYPE,default=redis"`

	// TTLHours is the lifetime of cached responses
	TTLHours int `env:"CACHE_TTL_HOURS,default=24"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is a redis:// connection URL; it takes precedence over Address
	URL string `env:"REDIS_URL"`

	// Address is the Redis server address
	Address string `env:"REDIS_ADDRESS,default=localhost:6379"`

	// Password is the Redis authentication password
	Password string `env:"REDIS_PASSWORD"`

	// DB is the Redis database number
	DB int `env:"REDIS_DB,default=0"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// CleanupInterval is how often expired entries are purged
	CleanupInterval time.Duration `env:"MEMORY_CLEANUP_INTERVAL,default=10m"`
}

// SQLiteConfig holds SQLite cache configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `env:"SQLITE_PATH,default=ai-search-cache.db"`
}

// SearchConfig holds search aggregator configuration
type SearchConfig struct {
	// SearXNGURL is the base URL of the SearXNG instance
	SearXNGURL string `env:"SEARXNG_URL,default=http://localhost:8888"`

	// MaxResults is the default number of results per response
	MaxResults int `env:"MAX_RESULTS,default=8"`

	// EnginesConfig is an optional YAML routing table path
	EnginesConfig string `env:"ENGINES_CONFIG"`

	// Timeout bounds each aggregator call
	Timeout time.Duration `env:"SEARXNG_TIMEOUT,default=15s"`
}

// AnalyzerConfig holds query analyzer configuration
type AnalyzerConfig struct {
	// Mode is llm, rules or tiered
	Mode string `env:"ANALYZER_MODE,default=tiered"`

	// APIKey is the Anthropic API key used by the llm and tiered modes
	APIKey string `env:"ANTHROPIC_API_KEY"`

	// Model is the Anthropic model used for analysis
	Model string `env:"ANALYZER_MODEL,default=claude-3-5-haiku-20241022"`

	// Timeout bounds each analyzer call
	Timeout time.Duration `env:"ANALYZER_TIMEOUT,default=10s"`

	// CacheSize is the number of analyzed queries kept in memory; 0 disables memoization
	CacheSize int `env:"ANALYZER_CACHE_SIZE,default=1024"`
}

// RerankerConfig holds relevance model configuration
type RerankerConfig struct {
	// Enabled turns on the cross-encoder client
	Enabled bool `env:"ENABLE_CROSS_ENCODER,default=false"`

	// URL is the base URL of the cross-encoder inference server
	URL string `env:"RERANKER_URL,default=http://localhost:8080"`

	// Timeout bounds each relevance model call
	Timeout time.Duration `env:"RERANK_TIMEOUT,default=10s"`

	// Concurrency is the number of relevance model calls allowed in flight
	Concurrency int `env:"RERANK_CONCURRENCY,default=2"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	// Limit is the number of requests allowed per window
	Limit int `env:"RATE_LIMIT,default=60"`

	// Window is the rate limiting window
	Window time.Duration `env:"RATE_WINDOW,default=1m"`

	// TrustedProxies is the number of reverse proxies in front of the
	// service. Client addresses are taken from X-Forwarded-For only when it
	// is positive.
	TrustedProxies int `env:"TRUSTED_PROXIES,default=0"`
}

// TracingConfig holds OpenTelemetry trace export configuration
type TracingConfig struct {
	// Enabled turns on span export
	Enabled bool `env:"OTEL_ENABLED,default=false"`

	// ServiceName is reported as the service.name resource attribute
	ServiceName string `env:"OTEL_SERVICE_NAME,default=ai-search-api"`

	// Endpoint is the OTLP collector endpoint
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT,default=http://localhost:4318"`

	// Protocol is http/protobuf or grpc
	Protocol string `env:"OTEL_EXPORTER_OTLP_PROTOCOL,default=http/protobuf"`

	// Sampler is always_on, always_off, traceidratio or parentbased_always_on
	Sampler string `env:"OTEL_TRACES_SAMPLER,default=always_on"`

	// SamplerArg is the ratio used by traceidratio
	SamplerArg float64 `env:"OTEL_TRACES_SAMPLER_ARG,default=1"`
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	return LoadFromEnvSet(es)
}

// LoadFromEnvSet loads configuration from an explicit variable set
func LoadFromEnvSet(es env.EnvSet) (*Config, error) {
	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.Cache.Type = strings.ToLower(strings.TrimSpace(cfg.Cache.Type))
	cfg.Analyzer.Mode = strings.ToLower(strings.TrimSpace(cfg.Analyzer.Mode))
	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))
	cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(cfg.Tracing.Protocol))
	cfg.Tracing.Sampler = strings.ToLower(strings.TrimSpace(cfg.Tracing.Sampler))

	return &cfg, nil
}

// LoadDotEnv loads variables from .env files into the process environment.
// Missing files are ignored; variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// CacheTTL returns the cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// IsProduction reports whether the service runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	switch c.Cache.Type {
	case "redis":
		if c.Cache.Redis.URL == "" && c.Cache.Redis.Address == "" {
			return errors.New("redis url or address is required when using redis cache")
		}
	case "memory":
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'redis', 'memory' or 'sqlite'")
	}

	if c.Cache.TTLHours < 1 {
		return errors.New("cache TTL must be at least 1 hour")
	}

	if c.Search.MaxResults < 1 || c.Search.MaxResults > 20 {
		return errors.New("max results must be between 1 and 20")
	}

	if err := validateHTTPURL("SEARXNG_URL", c.Search.SearXNGURL); err != nil {
		return err
	}

	switch c.Analyzer.Mode {
	case "llm":
		if c.Analyzer.APIKey == "" {
			return errors.New("ANTHROPIC_API_KEY is required when analyzer mode is 'llm'")
		}
	case "rules", "tiered":
	default:
		return errors.New("analyzer mode must be 'llm', 'rules' or 'tiered'")
	}
	if c.Analyzer.CacheSize < 0 {
		return errors.New("analyzer cache size cannot be negative")
	}

	if c.Reranker.Enabled {
		if err := validateHTTPURL("RERANKER_URL", c.Reranker.URL); err != nil {
			return err
		}
	}
	if c.Reranker.Concurrency < 1 {
		return errors.New("rerank concurrency must be at least 1")
	}
	if c.Reranker.Timeout <= 0 {
		return errors.New("rerank timeout must be positive")
	}

	if c.RateLimit.Limit < 1 {
		return errors.New("rate limit must be at least 1")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("rate window must be positive")
	}
	if c.RateLimit.TrustedProxies < 0 {
		return errors.New("trusted proxies cannot be negative")
	}

	if c.Tracing.Enabled {
		if strings.TrimSpace(c.Tracing.Endpoint) == "" {
			return errors.New("OTEL_EXPORTER_OTLP_ENDPOINT is required when tracing is enabled")
		}
		switch c.Tracing.Protocol {
		case "http/protobuf", "grpc":
		default:
			return errors.New("OTEL_EXPORTER_OTLP_PROTOCOL must be 'http/protobuf' or 'grpc'")
		}
		switch c.Tracing.Sampler {
		case "always_on", "always_off", "traceidratio", "parentbased_always_on":
		default:
			return fmt.Errorf("unsupported OTEL_TRACES_SAMPLER %q", c.Tracing.Sampler)
		}
		if c.Tracing.SamplerArg < 0 || c.Tracing.SamplerArg > 1 {
			return errors.New("OTEL_TRACES_SAMPLER_ARG must be between 0 and 1")
		}
	}

	return nil
}

func validateHTTPURL(name, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}
