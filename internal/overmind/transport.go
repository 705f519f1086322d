package overmind

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// BatchHandler consumes one payload delivered by a transport.
type BatchHandler func(BatchPayload)

// Transport delivers update batches from the daemon. Implementations
// are constructed explicitly and injected where needed; they carry their
// own lifecycle and no package-level connection state.
type Transport interface {
	// Start begins delivery and returns immediately. Batches arrive on
	// the handler from a transport-owned goroutine, in wire order, until
	// Stop is called or the context is cancelled.
	Start(ctx context.Context, handle BatchHandler) error
	// Stop ends delivery and releases the connection.
	Stop()
}

const (
	defaultPollInterval = 250 * time.Millisecond
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles the base interval per consecutive failure,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Poller is the HTTP long-poll transport.
type Poller struct {
	fetcher  UpdateFetcher
	interval time.Duration
	logf     func(format string, args ...any)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller wraps an UpdateFetcher in a Transport. interval is the pause
// between successful polls; zero selects the default.
func NewPoller(fetcher UpdateFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Poller{fetcher: fetcher, interval: interval, logf: log.Printf}
}

// Start launches the poll loop. It returns immediately.
func (p *Poller) Start(ctx context.Context, handle BatchHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		var since int64
		failures := 0
		for {
			payload, err := p.fetcher.FetchUpdates(ctx, since)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				p.logf("poll failed (attempt %d): %v", failures, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(calculateBackoff(failures, p.interval)):
				}
				continue
			}
			failures = 0
			if payload.Next > since {
				since = payload.Next
			}
			handle(payload)
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.interval):
			}
		}
	}()
	return nil
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Socket is the WebSocket push transport.
type Socket struct {
	endpoint string
	dialer   *websocket.Dialer
	logf     func(format string, args ...any)

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	conn   *websocket.Conn
}

// NewSocket builds a WebSocket transport for the daemon at bind
// (host:port or URL). The stream endpoint is /api/stream.
func NewSocket(bind string) (*Socket, error) {
	base, err := parseBaseURL(bind)
	if err != nil {
		return nil, err
	}
	ws := *base
	switch ws.Scheme {
	case "https":
		ws.Scheme = "wss"
	default:
		ws.Scheme = "ws"
	}
	ws.Path = "/api/stream"
	return &Socket{
		endpoint: ws.String(),
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logf:     log.Printf,
	}, nil
}

// Start connects and launches the read loop, reconnecting with backoff
// on failure. It returns immediately; dial errors surface as logged
// retries, not as a Start error, so a daemon restart does not kill the
// viewer.
func (s *Socket) Start(ctx context.Context, handle BatchHandler) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		failures := 0
		for ctx.Err() == nil {
			conn, _, err := s.dialer.DialContext(ctx, s.endpoint, nil)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				s.logf("websocket dial failed (attempt %d): %v", failures, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(calculateBackoff(failures, time.Second)):
				}
				continue
			}
			failures = 0

			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()

			s.readLoop(ctx, conn, handle)

			s.mu.Lock()
			s.conn = nil
			s.mu.Unlock()
			_ = conn.Close()
		}
	}()
	return nil
}

func (s *Socket) readLoop(ctx context.Context, conn *websocket.Conn, handle BatchHandler) {
	for {
		var payload BatchPayload
		if err := conn.ReadJSON(&payload); err != nil {
			if ctx.Err() == nil && !isCloseError(err) {
				s.logf("websocket read failed: %v", err)
			}
			return
		}
		handle(payload)
	}
}

// Stop closes the connection and waits for the read loop to exit.
func (s *Socket) Stop() {
	s.mu.Lock()
	cancel, done, conn := s.cancel, s.done, s.conn
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	<-done
}

func isCloseError(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
	) || strings.Contains(err.Error(), "use of closed network connection")
}

// NewTransport selects a transport by kind: "websocket" builds a Socket,
// anything else an HTTP Poller over the client.
func NewTransport(kind string, client *Client, pollInterval time.Duration) (Transport, error) {
	if strings.EqualFold(strings.TrimSpace(kind), "websocket") {
		return NewSocket(client.baseURL.Host)
	}
	return NewPoller(client, pollInterval), nil
}
