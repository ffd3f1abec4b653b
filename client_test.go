package cognee

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// newTestClient builds a client against a test server with fast retries and
// every mutator applied to the config.
func newTestClient(t *testing.T, serverURL string, mutators ...func(*Config)) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIURL = serverURL
	cfg.RetryDelay = time.Millisecond
	for _, m := range mutators {
		m(&cfg)
	}
	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIURL")
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		jsonHandler(200, `{"status":"healthy"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL+"/")
	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
}

func TestClientSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		jsonHandler(200, `{"status":"healthy"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) { cfg.APIToken = "secret-token" })
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", got)
}

func TestClientNoAuthHeaderWithoutToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		jsonHandler(200, `{"status":"healthy"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenSourceWinsOverStaticToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		jsonHandler(200, `{"status":"healthy"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) {
		cfg.APIToken = "static"
		cfg.TokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "from-source"})
	})
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer from-source", got)
}

func TestSetTokenReplacesToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		jsonHandler(200, `{"status":"healthy"}`)(w, r)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, func(cfg *Config) { cfg.APIToken = "old" })
	c.SetToken("new")
	_, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer new", got)
}

func TestLoginStoresToken(t *testing.T) {
	var authSeen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/login":
			jsonHandler(200, `{"access_token":"tok-123"}`)(w, r)
		case "/api/v1/auth/me":
			authSeen = r.Header.Get("Authorization")
			jsonHandler(200, `{"id":"00000000-0000-0000-0000-000000000001","email":"a@b.c"}`)(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	token, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	user, err := c.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", user.Email)
	assert.Equal(t, "Bearer tok-123", authSeen)
}

func TestLoginFallsBackToTokenField(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(200, `{"token":"tok-alt"}`))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	token, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-alt", token)
}

func TestLoginMissingToken(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(200, `{}`))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	var authErr *AuthenticationError
	require.True(t, errors.As(err, &authErr))
}

func TestDecodeErrorOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>gateway page</html>"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Health(context.Background())

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 200, decErr.StatusCode)
	assert.Contains(t, decErr.Preview, "<html>")
}

func TestDecodeErrorOnEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Health(context.Background())

	var decErr *DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, "(empty response)", decErr.Preview)
}

func TestIndependentClientsDoNotShareState(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(200, `[]`))
	defer srv.Close()

	c1 := newTestClient(t, srv.URL, func(cfg *Config) { cfg.APIToken = "one" })
	c2 := newTestClient(t, srv.URL, func(cfg *Config) { cfg.APIToken = "two" })

	c1.SetToken("changed")
	tok2, err := c2.bearerToken()
	require.NoError(t, err)
	assert.Equal(t, "two", tok2)

	_, err = c1.ListDatasets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, c1.cache.size())
	assert.Equal(t, 0, c2.cache.size())
}
