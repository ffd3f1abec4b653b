// cache.go
// ---------
// The response cache: a cache-aside layer in front of the request executor
// for idempotent read-like calls (GET, and search-style POSTs whose body is
// a read-only query).
//
// Keys are a hash of method + endpoint + canonicalized parameters. Auth
// material never enters a key. Eviction is lazy: an entry past its TTL is
// treated as absent and removed on lookup. Writes elsewhere do not
// invalidate entries; a stale window of up to the TTL is accepted.
package cognee

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sync"
	"time"
)

type cacheEntry struct {
	payload   []byte
	createdAt time.Time
}

type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration

	// now is swappable so expiry is deterministic in tests.
	now func() time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the cached payload for key, treating expired entries as
// absent and dropping them.
func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.payload, true
}

// set stores a successful response payload under key.
func (c *responseCache) set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{payload: payload, createdAt: c.now()}
}

// flush drops every entry.
func (c *responseCache) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// size reports the number of stored entries, expired or not.
func (c *responseCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey derives the deterministic key for a request: a hash over the
// method, endpoint and canonicalized (sorted-key) parameters. Headers are
// excluded entirely, so tokens can never leak into a key.
func cacheKey(method, endpoint string, query url.Values, jsonBody []byte) string {
	params := map[string]any{}
	for k, vs := range query {
		if len(vs) == 1 {
			params[k] = vs[0]
		} else {
			params[k] = vs
		}
	}

	material := map[string]any{
		"method":   method,
		"endpoint": endpoint,
		"params":   params,
	}
	if len(jsonBody) > 0 {
		// Re-marshal the body so key order is canonical regardless of how
		// the payload was produced.
		var body any
		if err := json.Unmarshal(jsonBody, &body); err == nil {
			material["body"] = body
		} else {
			material["body"] = string(jsonBody)
		}
	}

	// encoding/json writes map keys in sorted order, which makes the
	// serialization canonical.
	serialized, _ := json.Marshal(material)
	sum := sha256.Sum256(serialized)
	return hex.EncodeToString(sum[:])
}
