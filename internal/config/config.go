// Package config loads the lookup tool's settings from environment variables
// (and a .env file, when main loads one first). Every value has a default
// except where noted, and Validate reports all problems at once so a bad
// deployment fails on startup.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Source    SourceConfig
	Upload    UploadConfig
	Rate      RateLimitConfig
	Security  SecurityConfig
	Logging   LoggingConfig
	Translate TranslateConfig
	Columns   ColumnsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds graceful shutdown, including in-flight merges (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// SourceConfig describes an optional PostgreSQL source for the roll tables.
// When URL is empty the tool only works from uploaded CSV files.
type SourceConfig struct {
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Query1 and Query2 load the two tables to merge at startup.
	Query1 string `env:"SOURCE_QUERY_1"`
	Query2 string `env:"SOURCE_QUERY_2"`

	MaxConns int           `env:"DB_MAX_CONNS" default:"4"`
	Timeout  time.Duration `env:"SOURCE_TIMEOUT" default:"30s"`
}

// Enabled reports whether a database source is configured.
func (c *SourceConfig) Enabled() bool {
	return c.URL != ""
}

// UploadConfig holds CSV upload settings.
type UploadConfig struct {
	// MaxFileSize is the per-file limit in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`

	// MaxConcurrent is the number of merges parsed at once (default: 2)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"2"`

	// MaxWaitTime is how long a merge waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout bounds parsing and merging one pair of files (default: 2m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"2m"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute applies to every route (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`

	// UploadLimit applies to the merge route (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are honoured.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// TranslateConfig selects the translation providers used for name queries.
type TranslateConfig struct {
	Enabled bool `env:"TRANSLATE_ENABLED" default:"true"`

	// GoogleEndpoint overrides the primary provider URL.
	GoogleEndpoint string `env:"TRANSLATE_GOOGLE_ENDPOINT"`

	// LibreURL is the base URL of a LibreTranslate server; empty disables
	// the secondary provider.
	LibreURL    string `env:"TRANSLATE_LIBRE_URL"`
	LibreAPIKey string `env:"TRANSLATE_LIBRE_API_KEY"`

	Timeout time.Duration `env:"TRANSLATE_TIMEOUT" default:"10s"`

	// RPS limits calls per provider; 0 disables limiting (default: 5)
	RPS   float64 `env:"TRANSLATE_RPS" default:"5"`
	Burst int     `env:"TRANSLATE_BURST" default:"10"`
}

// ColumnsConfig points at optional column alias overrides.
type ColumnsConfig struct {
	// AliasesFile is a YAML file overriding role aliases and fallbacks.
	AliasesFile string `env:"COLUMN_ALIASES_FILE"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
