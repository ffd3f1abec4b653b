package cognee

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressPayload(t *testing.T) {
	t.Run("small body is left untouched", func(t *testing.T) {
		payload := []byte(`{"query":"short"}`)
		out, compressed := compressPayload(payload)
		assert.False(t, compressed)
		assert.Equal(t, payload, out)
	})

	t.Run("body at exactly 1 KiB is left untouched", func(t *testing.T) {
		payload := bytes.Repeat([]byte("a"), 1024)
		out, compressed := compressPayload(payload)
		assert.False(t, compressed)
		assert.Equal(t, payload, out)
	})

	t.Run("compressible body above 1 KiB is compressed", func(t *testing.T) {
		payload := bytes.Repeat([]byte(`{"key":"value"},`), 1000)
		out, compressed := compressPayload(payload)
		require.True(t, compressed)
		assert.Less(t, len(out), len(payload))
		// At least a 10% reduction was required.
		assert.LessOrEqual(t, float64(len(out)), float64(len(payload))*compressGain)

		// The compressed form must round-trip to the original.
		zr, err := gzip.NewReader(bytes.NewReader(out))
		require.NoError(t, err)
		decoded, err := io.ReadAll(zr)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	})

	t.Run("incompressible body is sent as-is", func(t *testing.T) {
		// A deterministic pseudo-random payload does not gzip by 10%.
		rng := rand.New(rand.NewSource(42))
		payload := make([]byte, 64*1024)
		rng.Read(payload)

		out, compressed := compressPayload(payload)
		assert.False(t, compressed)
		assert.Equal(t, payload, out)
	})
}

func TestSmallJSONBodySentVerbatim(t *testing.T) {
	var gotBody []byte
	var gotEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotEncoding = r.Header.Get("Content-Encoding")
		jsonHandler(200, `[]`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Search(context.Background(), SearchOptions{Query: "hello"})
	require.NoError(t, err)

	assert.Empty(t, gotEncoding)
	assert.Contains(t, string(gotBody), `"query":"hello"`)
}

func TestLargeJSONBodyCompressedOnWire(t *testing.T) {
	var gotEncoding string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
		gotBody, _ = io.ReadAll(r.Body)
		jsonHandler(200, `[]`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	query := strings.Repeat("knowledge graph retrieval ", 500)
	_, err := c.Search(context.Background(), SearchOptions{Query: query})
	require.NoError(t, err)

	require.Equal(t, "gzip", gotEncoding)
	zr, err := gzip.NewReader(bytes.NewReader(gotBody))
	require.NoError(t, err)
	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "knowledge graph retrieval")
}

func TestCompressionDisabledByConfig(t *testing.T) {
	var gotEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
		jsonHandler(200, `[]`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) { cfg.EnableCompression = false })
	query := strings.Repeat("knowledge graph retrieval ", 500)
	_, err := c.Search(context.Background(), SearchOptions{Query: query})
	require.NoError(t, err)
	assert.Empty(t, gotEncoding)
}

func TestMultipartBodyNeverCompressed(t *testing.T) {
	var gotEncoding, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEncoding = r.Header.Get("Content-Encoding")
		gotContentType = r.Header.Get("Content-Type")
		jsonHandler(200, `{"status":"ok"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	// Large enough that a JSON body would have been compressed.
	text := strings.Repeat("the same sentence over and over ", 1000)
	_, err := c.AddText(context.Background(), text, AddOptions{DatasetName: "docs"})
	require.NoError(t, err)

	assert.Empty(t, gotEncoding)
	assert.True(t, strings.HasPrefix(gotContentType, "multipart/form-data; boundary="),
		"got content type %q", gotContentType)
}
