// pipeline.go
// ------------
// The request pipeline assembles and executes exactly one attempt of a
// request descriptor: auth header, optional gzip compression, JSON or
// multipart body framing, then a single round trip through the shared
// transport. Retry decisions live in retry.go, not here.
package cognee

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
)

const (
	// minCompressSize is the body size a payload must exceed to be worth
	// compressing.
	minCompressSize = 1024
	// compressGain is the fraction of the original size the compressed body
	// must stay under to be used: at least a 10% reduction.
	compressGain = 0.9
)

// rawResponse is one buffered HTTP response.
type rawResponse struct {
	status    int
	header    http.Header
	body      []byte
	fromCache bool
}

// executeAttempt runs one attempt of the descriptor through the shared
// transport and buffers the response. Transport errors are returned as-is
// for the executor to classify.
func (c *Client) executeAttempt(ctx context.Context, d *requestDescriptor) (*rawResponse, error) {
	req, err := c.buildHTTPRequest(ctx, d)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// buildHTTPRequest frames a fresh wire request for one attempt.
func (c *Client) buildHTTPRequest(ctx context.Context, d *requestDescriptor) (*http.Request, error) {
	u := c.baseURL + d.path
	if len(d.query) > 0 {
		u += "?" + d.query.Encode()
	}

	var (
		body          io.Reader
		contentType   string
		encoding      string
		contentLength int64
	)

	switch {
	case d.isMultipart():
		decision := DecideFraming(d.bodySize(), c.cfg.StreamingThreshold, c.cfg.StreamingWarnThreshold)
		if decision.Warn {
			c.logger.Warn().
				Int64("size_bytes", d.bodySize()).
				Int64("warn_threshold", c.cfg.StreamingWarnThreshold).
				Msg("upload exceeds recommended size, streaming anyway")
		}
		framed, err := d.frameMultipart(decision.Framing)
		if err != nil {
			return nil, err
		}
		body = framed.reader
		contentType = framed.contentType
		contentLength = framed.contentLength
		c.logger.Debug().
			Str("framing", decision.Framing.String()).
			Int64("size_bytes", d.bodySize()).
			Msg("framed multipart body")

	case len(d.jsonBody) > 0:
		payload := d.jsonBody
		if c.cfg.EnableCompression {
			if compressed, ok := compressPayload(payload); ok {
				payload = compressed
				encoding = "gzip"
			}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
		contentLength = int64(len(payload))
	}

	req, err := http.NewRequestWithContext(ctx, d.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.ContentLength = contentLength
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if encoding != "" {
		req.Header.Set("Content-Encoding", encoding)
	}
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}
	if err := c.setAuthHeader(req); err != nil {
		return nil, err
	}
	return req, nil
}

// compressPayload gzips the payload and reports whether the compressed form
// should replace the original. Bodies below minCompressSize or compressing
// by less than 10% are sent as-is.
func compressPayload(payload []byte) ([]byte, bool) {
	if len(payload) <= minCompressSize {
		return payload, false
	}
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, 6)
	if err != nil {
		return payload, false
	}
	if _, err := w.Write(payload); err != nil {
		return payload, false
	}
	if err := w.Close(); err != nil {
		return payload, false
	}
	if float64(buf.Len()) >= float64(len(payload))*compressGain {
		return payload, false
	}
	return buf.Bytes(), true
}
