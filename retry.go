// retry.go
// ---------
// The requestExecutor wraps one logical operation with retry logic. It owns
// classification of every outcome:
//
//   - 4xx except 429: typed error immediately, no retry
//   - 429: retry with exponential backoff
//   - 5xx: retry with exponential backoff, ServerError when exhausted
//   - transport/timeout errors: retry, TimeoutError/NetworkError when exhausted
//   - anything below 400: success
//
// Backoff after failed attempt n (0-based) is retryDelay * 2^n. Sleeps are
// context-aware so one operation backing off never blocks another. A body
// that cannot be re-framed from its source fails fast instead of retrying.
package cognee

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrBodyNotRewindable is wrapped into the failure returned when a retryable
// error hits a request whose body source cannot be reopened.
var ErrBodyNotRewindable = errors.New("request body cannot be rewound for retry")

// requestExecutor handles retry, backoff and outcome classification for the
// client.
type requestExecutor struct {
	client *Client
}

func newRequestExecutor(client *Client) *requestExecutor {
	return &requestExecutor{client: client}
}

// execute runs the descriptor until success, a non-retryable failure, or
// retry exhaustion.
func (e *requestExecutor) execute(ctx context.Context, d *requestDescriptor) (*rawResponse, error) {
	cfg := &e.client.cfg
	logger := e.client.logger

	var lastErr error
	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		resp, err := e.client.executeAttempt(ctx, d)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			logger.Debug().Err(err).
				Int("attempt", attempt+1).
				Int("max_retries", cfg.MaxRetries).
				Str("endpoint", d.path).
				Msg("transport error")
			if attempt == cfg.MaxRetries-1 {
				break
			}
			if !d.rewindable() {
				return nil, fmt.Errorf("%w: %w", ErrBodyNotRewindable, err)
			}
			if err := e.backoff(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case resp.status == 429:
			lastErr = nil
			logger.Debug().
				Int("attempt", attempt+1).
				Str("endpoint", d.path).
				Msg("rate limited")
			if attempt == cfg.MaxRetries-1 {
				return nil, statusError(resp.status, resp.body)
			}
			if !d.rewindable() {
				return nil, fmt.Errorf("%w: rate limited", ErrBodyNotRewindable)
			}
			if err := e.backoff(ctx, attempt); err != nil {
				return nil, err
			}

		case resp.status >= 500:
			lastErr = nil
			logger.Debug().
				Int("status", resp.status).
				Int("attempt", attempt+1).
				Str("endpoint", d.path).
				Msg("server error")
			if attempt == cfg.MaxRetries-1 {
				return nil, statusError(resp.status, resp.body)
			}
			if !d.rewindable() {
				return nil, fmt.Errorf("%w: server error %d", ErrBodyNotRewindable, resp.status)
			}
			if err := e.backoff(ctx, attempt); err != nil {
				return nil, err
			}

		case resp.status >= 400:
			// Client error: never retried, not even on the first attempt.
			return nil, statusError(resp.status, resp.body)

		default:
			if attempt > 0 {
				logger.Debug().
					Int("attempts", attempt+1).
					Str("endpoint", d.path).
					Msg("request succeeded after retries")
			}
			return resp, nil
		}
	}

	if isTimeout(lastErr) {
		return nil, &TimeoutError{Attempts: cfg.MaxRetries, Err: lastErr}
	}
	return nil, &NetworkError{Attempts: cfg.MaxRetries, Err: lastErr}
}

// backoff sleeps retryDelay * 2^attempt, aborting early when the context is
// canceled.
func (e *requestExecutor) backoff(ctx context.Context, attempt int) error {
	delay := e.client.cfg.RetryDelay * (1 << attempt)
	if delay <= 0 {
		return ctx.Err()
	}
	e.client.logger.Debug().
		Dur("delay", delay).
		Int("attempt", attempt+1).
		Msg("backing off before retry")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTimeout reports whether a transport error was a deadline or connect
// timeout rather than some other network failure.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
