// subscribe.go
// -------------
// The subscription channel: an independent long-lived WebSocket that
// delivers pipeline progress events out of band. It is not composed with
// the cache or retry layers; an abrupt disconnect ends the sequence with
// ErrSubscriptionClosed and reconnection is entirely the caller's call.
package cognee

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrSubscriptionClosed signals that the peer closed the channel before a
// terminal status event was observed.
var ErrSubscriptionClosed = errors.New("subscription channel closed by peer")

// Subscription is a live progress-event stream for one pipeline run.
// Events are delivered until a terminal status arrives, the peer closes
// the connection, or Close is called.
type Subscription struct {
	conn    *websocket.Conn
	events  chan ProgressEvent
	errCh   chan error
	closeCh chan struct{}
	once    sync.Once
}

// Events returns the event sequence. The channel is closed when the
// subscription ends for any reason.
func (s *Subscription) Events() <-chan ProgressEvent {
	return s.events
}

// Err yields the terminating error, if any, after Events is closed. A
// subscription that ended with a terminal status or a caller Close yields
// nothing.
func (s *Subscription) Err() <-chan error {
	return s.errCh
}

// Close terminates the subscription immediately. No further events are
// delivered.
func (s *Subscription) Close() {
	s.once.Do(func() {
		close(s.closeCh)
		s.conn.Close()
	})
}

// SubscribeCognifyProgress opens a WebSocket for the given pipeline run and
// streams its progress events. The sequence ends when a terminal status
// ("completed" or "PipelineRunCompleted") is observed, when the peer
// disconnects (ErrSubscriptionClosed on Err), or when the caller closes the
// subscription or cancels ctx.
func (c *Client) SubscribeCognifyProgress(ctx context.Context, pipelineRunID uuid.UUID) (*Subscription, error) {
	wsURL := strings.Replace(c.baseURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL += "/api/v1/cognify/subscribe/" + pipelineRunID.String()

	header := http.Header{}
	token, err := c.bearerToken()
	if err != nil {
		return nil, fmt.Errorf("resolve auth token: %w", err)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.ConnectTimeout}
	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("dial subscription: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	sub := &Subscription{
		conn:    conn,
		events:  make(chan ProgressEvent),
		errCh:   make(chan error, 1),
		closeCh: make(chan struct{}),
	}

	// Caller cancellation tears the connection down, which unblocks the
	// read loop.
	go func() {
		select {
		case <-ctx.Done():
			sub.Close()
		case <-sub.closeCh:
		}
	}()

	go sub.readLoop()
	return sub, nil
}

func (s *Subscription) readLoop() {
	defer close(s.events)
	defer close(s.errCh)

	for {
		var event ProgressEvent
		if err := s.conn.ReadJSON(&event); err != nil {
			select {
			case <-s.closeCh:
				// Caller-initiated close: end silently.
			default:
				s.errCh <- fmt.Errorf("%w: %v", ErrSubscriptionClosed, err)
			}
			return
		}

		select {
		case s.events <- event:
		case <-s.closeCh:
			return
		}

		if event.terminal() {
			s.Close()
			return
		}
	}
}
