// transport.go
// -------------
// The connection manager: one pooled transport shared by every request the
// client makes. Pool bounds come from Config (MaxIdleConnections,
// MaxConnections); HTTP/2 is attempted when enabled and net/http falls back
// to HTTP/1.1 on its own when the peer does not negotiate it.
//
// The manager never retries anything. Connection-establishment failures
// surface to the request executor as transport errors, where they are
// classified as retryable.
package cognee

import (
	"net"
	"net/http"
	"time"
)

// newTransport builds the pooled transport for one client instance.
// All requests route through it; nothing in the client creates per-request
// connections.
func newTransport(cfg *Config) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     cfg.EnableHTTP2,
		MaxIdleConns:          cfg.MaxIdleConnections,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnections,
		MaxConnsPerHost:       cfg.MaxConnections,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ExpectContinueTimeout: time.Second,
	}
}

// newHTTPClient wraps the transport with the overall per-attempt timeout.
// Redirects are followed with the default policy.
func newHTTPClient(cfg *Config, transport *http.Transport) *http.Client {
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
