// config.go
// ----------
// This file defines the Config structure, which enumerates every tunable of
// the client: connection pool bounds, timeouts, retry budget and base delay,
// compression and cache switches, streaming thresholds, and batch
// concurrency policy.
//
// Config is validated once, at construction time. There is no open-ended
// option map: a field either exists here or the behavior is not
// configurable.
package cognee

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout bounds one request attempt end to end.
	DefaultTimeout = 300 * time.Second
	// DefaultConnectTimeout bounds connection establishment.
	DefaultConnectTimeout = 10 * time.Second
	// DefaultMaxRetries is the total attempt budget per logical operation.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the base of the exponential backoff.
	DefaultRetryDelay = time.Second
	// DefaultMaxIdleConnections is the keep-alive pool size.
	DefaultMaxIdleConnections = 50
	// DefaultMaxConnections caps connections to the API host.
	DefaultMaxConnections = 100
	// DefaultCacheTTL is how long cached read responses stay valid.
	DefaultCacheTTL = 300 * time.Second
	// DefaultStreamingThreshold is the body size above which uploads are
	// streamed instead of buffered.
	DefaultStreamingThreshold = 1 << 20 // 1 MiB
	// DefaultStreamingWarnThreshold is the body size above which a warning
	// is logged. The upload still proceeds.
	DefaultStreamingWarnThreshold = 50 << 20 // 50 MiB
)

// Config holds all client settings. The zero value is not usable; start from
// DefaultConfig and override what you need.
type Config struct {
	// APIURL is the base URL of the Cognee API server, e.g.
	// "http://localhost:8000". Required.
	APIURL string

	// APIToken is a static bearer token sent on every request. Optional.
	APIToken string

	// TokenSource, when set, supplies the bearer token per request and takes
	// precedence over APIToken.
	TokenSource oauth2.TokenSource

	// Timeout bounds a single request attempt.
	Timeout time.Duration

	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration

	// MaxRetries is the total number of attempts per logical operation.
	MaxRetries int

	// RetryDelay is the base backoff; the delay after failed attempt n
	// (0-based) is RetryDelay * 2^n.
	RetryDelay time.Duration

	// MaxIdleConnections and MaxConnections bound the shared pool.
	MaxIdleConnections int
	MaxConnections     int

	// EnableHTTP2 prefers HTTP/2 with automatic fallback to HTTP/1.1 when
	// the server does not support it.
	EnableHTTP2 bool

	// EnableCompression gzips request bodies larger than 1 KiB when the
	// compressed form is at least 10% smaller. Multipart bodies are never
	// compressed.
	EnableCompression bool

	// EnableCache turns on the read cache for GET and search requests.
	// Cached entries are not invalidated by subsequent writes; a stale read
	// window of up to CacheTTL is possible.
	EnableCache bool

	// CacheTTL is the lifetime of a cached response.
	CacheTTL time.Duration

	// StreamingThreshold and StreamingWarnThreshold control upload framing,
	// see DecideFraming. WarnThreshold must not be below StreamingThreshold.
	StreamingThreshold     int64
	StreamingWarnThreshold int64

	// AdaptiveConcurrency sizes batch concurrency from a sample of item
	// sizes when no explicit limit is given.
	AdaptiveConcurrency bool

	// Logger receives structured debug and warning events. Defaults to a
	// no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns a Config with every tunable at its default.
// APIURL must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		Timeout:                DefaultTimeout,
		ConnectTimeout:         DefaultConnectTimeout,
		MaxRetries:             DefaultMaxRetries,
		RetryDelay:             DefaultRetryDelay,
		MaxIdleConnections:     DefaultMaxIdleConnections,
		MaxConnections:         DefaultMaxConnections,
		EnableHTTP2:            true,
		EnableCompression:      true,
		EnableCache:            true,
		CacheTTL:               DefaultCacheTTL,
		StreamingThreshold:     DefaultStreamingThreshold,
		StreamingWarnThreshold: DefaultStreamingWarnThreshold,
		AdaptiveConcurrency:    true,
		Logger:                 zerolog.Nop(),
	}
}

// Validate reports the first problem with the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("cognee: APIURL is required")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("cognee: APIURL must start with http:// or https://, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return errors.New("cognee: Timeout must be positive")
	}
	if c.ConnectTimeout <= 0 {
		return errors.New("cognee: ConnectTimeout must be positive")
	}
	if c.MaxRetries < 1 {
		return errors.New("cognee: MaxRetries must be at least 1")
	}
	if c.RetryDelay < 0 {
		return errors.New("cognee: RetryDelay must not be negative")
	}
	if c.MaxIdleConnections < 0 || c.MaxConnections < 1 {
		return errors.New("cognee: connection pool bounds must be positive")
	}
	if c.MaxIdleConnections > c.MaxConnections {
		return fmt.Errorf("cognee: MaxIdleConnections (%d) must not exceed MaxConnections (%d)",
			c.MaxIdleConnections, c.MaxConnections)
	}
	if c.EnableCache && c.CacheTTL <= 0 {
		return errors.New("cognee: CacheTTL must be positive when the cache is enabled")
	}
	if c.StreamingThreshold < 1 {
		return errors.New("cognee: StreamingThreshold must be positive")
	}
	if c.StreamingWarnThreshold < c.StreamingThreshold {
		return fmt.Errorf("cognee: StreamingWarnThreshold (%d) must not be below StreamingThreshold (%d)",
			c.StreamingWarnThreshold, c.StreamingThreshold)
	}
	return nil
}
