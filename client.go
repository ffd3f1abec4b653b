// client.go
// ----------
// The client.go file contains the core Client struct and its plumbing.
// This is the main entry point of the SDK for users.
//
// Key functionalities include:
// - Constructing a client with New() from a validated Config
// - Routing every call through one shared pooled transport
// - Cache-aside lookups for idempotent reads before the retry executor
// - Releasing pooled connections with Close()
//
// The Client relies on a requestExecutor for retries and backoff and a
// responseCache for read caching, so behavior is consistent across all API
// methods.
package cognee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Client is a Cognee API client. One instance owns one connection pool and
// one response cache; independently configured clients can coexist in the
// same process.
type Client struct {
	cfg        Config
	baseURL    string
	transport  *http.Transport
	httpClient *http.Client
	executor   *requestExecutor
	cache      *responseCache // nil when caching is disabled
	logger     zerolog.Logger

	mu           sync.Mutex
	apiToken     string
	warnedTokens map[string]struct{}
}

// New validates the configuration and builds a client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:          cfg,
		baseURL:      strings.TrimRight(cfg.APIURL, "/"),
		logger:       cfg.Logger,
		apiToken:     cfg.APIToken,
		warnedTokens: make(map[string]struct{}),
	}
	c.transport = newTransport(&c.cfg)
	c.httpClient = newHTTPClient(&c.cfg, c.transport)
	c.executor = newRequestExecutor(c)
	if cfg.EnableCache {
		c.cache = newResponseCache(cfg.CacheTTL)
	}
	return c, nil
}

// Close releases idle pooled connections. The client must not be used
// afterwards.
func (c *Client) Close() {
	c.transport.CloseIdleConnections()
}

// FlushCache drops every cached response. This is the only explicit
// invalidation the client offers; writes never invalidate reads.
func (c *Client) FlushCache() {
	if c.cache != nil {
		c.cache.flush()
	}
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.apiToken = token
	c.mu.Unlock()
}

// do routes one descriptor through the cache (when eligible) and the retry
// executor. Only successful responses populate the cache.
func (c *Client) do(ctx context.Context, d *requestDescriptor) (*rawResponse, error) {
	key := ""
	if c.cache != nil && d.cacheable {
		key = cacheKey(d.method, d.path, d.query, d.jsonBody)
		if payload, ok := c.cache.get(key); ok {
			c.logger.Debug().Str("endpoint", d.path).Msg("cache hit")
			return &rawResponse{status: http.StatusOK, body: payload, fromCache: true}, nil
		}
	}

	resp, err := c.executor.execute(ctx, d)
	if err != nil {
		return nil, err
	}

	if key != "" && resp.status == http.StatusOK && isJSONResponse(resp.header) {
		c.cache.set(key, resp.body)
	}
	return resp, nil
}

// doJSON executes the descriptor and decodes the response body into out.
// A body that is not the expected JSON yields a DecodeError carrying the
// leading raw bytes.
func (c *Client) doJSON(ctx context.Context, d *requestDescriptor, out any) error {
	resp, err := c.do(ctx, d)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *rawResponse, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		preview := string(resp.body)
		if preview == "" {
			preview = "(empty response)"
		} else if len(preview) > errorPreviewLen {
			preview = preview[:errorPreviewLen]
		}
		return &DecodeError{StatusCode: resp.status, Preview: preview, Err: err}
	}
	return nil
}

func isJSONResponse(header http.Header) bool {
	if header == nil {
		return false
	}
	return strings.Contains(strings.ToLower(header.Get("Content-Type")), "application/json")
}

// validationErr builds a client-side ValidationError without a round trip,
// for arguments the server would reject anyway.
func validationErr(format string, args ...any) error {
	return &ValidationError{APIError{
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf(format, args...),
	}}
}
