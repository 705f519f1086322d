// Package worker offloads CPU-bound batch formatting to its own
// goroutine. The main loop talks to it only through typed, order
// preserving request/response messages keyed by batch id, and never
// waits synchronously for a result.
package worker

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
	"github.com/darrenoakey/overmind-gui-sub000/internal/overmind"
)

// ErrInitTimeout is returned when the worker never reported readiness.
// The caller treats it as fatal to the feature, not to the process.
var ErrInitTimeout = errors.New("worker: readiness handshake timed out")

// ErrClosed is returned for submissions after Close.
var ErrClosed = errors.New("worker: closed")

// DefaultReadyTimeout bounds the startup handshake.
const DefaultReadyTimeout = 5 * time.Second

// Result is the processed form of one submitted batch.
type Result struct {
	BatchID string
	Lines   []logstore.Line
}

// Options tune a Worker.
type Options struct {
	ReadyTimeout time.Duration
	// QueueDepth bounds outstanding batches; zero selects 64.
	QueueDepth int
	// Now stamps lines that arrived without a timestamp. Defaults to
	// time.Now.
	Now func() time.Time

	// readyGate, when non-nil, holds the readiness signal back until it
	// is closed. Lets tests exercise the handshake bound.
	readyGate <-chan struct{}
}

type request struct {
	batchID string
	lines   []overmind.RawLine
	reply   chan<- Result
}

// Worker processes batches on a dedicated goroutine in submission order.
type Worker struct {
	requests chan request
	done     chan struct{}
	now      func() time.Time

	closeOnce sync.Once
	closed    chan struct{}
}

// Start launches the worker and performs the readiness handshake. It
// fails with ErrInitTimeout when the goroutine does not come up within
// the bound; no batch may be submitted before Start returns nil.
func Start(ctx context.Context, opts Options) (*Worker, error) {
	depth := opts.QueueDepth
	if depth <= 0 {
		depth = 64
	}
	timeout := opts.ReadyTimeout
	if timeout <= 0 {
		timeout = DefaultReadyTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	w := &Worker{
		requests: make(chan request, depth),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
		now:      now,
	}

	ready := make(chan struct{})
	go w.run(ctx, ready, opts.readyGate)

	select {
	case <-ready:
	case <-time.After(timeout):
		w.Close()
		return nil, ErrInitTimeout
	case <-ctx.Done():
		w.Close()
		return nil, ctx.Err()
	}
	return w, nil
}

// Process submits one batch and returns a single-use channel that will
// receive the result, plus the batch's correlation id. The send is
// asynchronous; responses arrive in submission order.
func (w *Worker) Process(ctx context.Context, lines []overmind.RawLine) (<-chan Result, string, error) {
	reply := make(chan Result, 1)
	id := uuid.NewString()
	req := request{batchID: id, lines: lines, reply: reply}

	select {
	case <-w.closed:
		return nil, "", ErrClosed
	default:
	}

	select {
	case w.requests <- req:
		return reply, id, nil
	case <-w.closed:
		return nil, "", ErrClosed
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

// Close tears the worker down. Outstanding replies are abandoned.
func (w *Worker) Close() {
	w.closeOnce.Do(func() { close(w.closed) })
}

func (w *Worker) run(ctx context.Context, ready chan<- struct{}, gate <-chan struct{}) {
	defer close(w.done)
	if gate != nil {
		select {
		case <-gate:
		case <-w.closed:
			return
		case <-ctx.Done():
			return
		}
	}
	close(ready)

	for {
		select {
		case req := <-w.requests:
			req.reply <- Result{BatchID: req.batchID, Lines: w.process(req.lines)}
		case <-w.closed:
			return
		case <-ctx.Done():
			w.Close()
			return
		}
	}
}

// process turns raw transport lines into store lines: searchable text is
// derived by stripping ANSI sequences when the daemon did not supply it,
// and missing timestamps are stamped on arrival. Content stays opaque.
func (w *Worker) process(raw []overmind.RawLine) []logstore.Line {
	out := make([]logstore.Line, 0, len(raw))
	for _, r := range raw {
		searchable := r.Searchable
		if searchable == "" {
			searchable = StripANSI(r.Content)
		}
		ts := r.Time()
		if ts.IsZero() {
			ts = w.now()
		}
		out = append(out, logstore.Line{
			ID:         r.ID,
			Source:     r.SourceName,
			Content:    r.Content,
			Searchable: searchable,
			Timestamp:  ts,
		})
	}
	return out
}

var ansiRe = regexp.MustCompile(`\x1b(?:\[[0-9;?]*[ -/]*[@-~]|\][^\x07\x1b]*(?:\x07|\x1b\\)?)`)

// StripANSI removes CSI and OSC escape sequences, leaving plain text.
func StripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}
