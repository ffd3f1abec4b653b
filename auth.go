// auth.go
// --------
// Bearer-token handling. Tokens come from either a static Config.APIToken
// (replaced by Login) or an oauth2.TokenSource. Tokens are never written to
// logs and never enter cache keys.
//
// When the token is a JWT, its expiry claim is inspected (unverified) so an
// already-expired token produces a warning before the server rejects it.
// Each distinct token value is warned about at most once.
package cognee

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// setAuthHeader attaches the bearer token, if any, to one wire request.
func (c *Client) setAuthHeader(req *http.Request) error {
	token, err := c.bearerToken()
	if err != nil {
		return fmt.Errorf("resolve auth token: %w", err)
	}
	if token == "" {
		return nil
	}
	c.warnIfExpired(token)
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// bearerToken resolves the current token. A TokenSource wins over the
// static token.
func (c *Client) bearerToken() (string, error) {
	if c.cfg.TokenSource != nil {
		tok, err := c.cfg.TokenSource.Token()
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiToken, nil
}

// warnIfExpired logs once per token value when the token is a JWT whose exp
// claim is in the past. Non-JWT tokens are left alone.
func (c *Client) warnIfExpired(token string) {
	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return
	}
	if claims.ExpiresAt.After(time.Now()) {
		return
	}

	c.mu.Lock()
	_, warned := c.warnedTokens[token]
	if !warned {
		c.warnedTokens[token] = struct{}{}
	}
	c.mu.Unlock()

	if !warned {
		c.logger.Warn().
			Time("expired_at", claims.ExpiresAt.Time).
			Msg("bearer token is expired, server will likely reject it")
	}
}
