// Package ingest smooths bursty line batches before they reach the log
// store: oversized batches are chunked so no single hand-off does
// unbounded work, and rapid arrivals coalesce in an accumulation buffer
// that flushes on size or idleness.
package ingest

import (
	"log"
	"sync"
	"time"

	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
)

// Defaults tuned for high-frequency streams: a chunk is one scheduling
// quantum's worth of work, the flush threshold bounds buffer growth, the
// idle window keeps latency low when the stream goes quiet.
const (
	DefaultChunkSize      = 100
	DefaultChunkDelay     = 10 * time.Millisecond
	DefaultFlushThreshold = 200
	DefaultIdleWindow     = 50 * time.Millisecond
)

// FlushFunc receives accumulated lines in arrival order.
type FlushFunc func(lines []logstore.Line)

// Options tune a Batcher. Zero values select the defaults.
type Options struct {
	ChunkSize      int
	ChunkDelay     time.Duration
	FlushThreshold int
	IdleWindow     time.Duration
	Logf           func(format string, args ...any)
}

// chunk is a slice of a submitted batch with its earliest release time.
type chunk struct {
	lines []logstore.Line
	due   time.Time
}

// Batcher accepts raw line batches without blocking and hands them to a
// FlushFunc in arrival order. Chunks of an oversized batch are released
// with small increasing delays; the release queue is strictly FIFO, so a
// later batch never overtakes a still-delayed earlier chunk.
type Batcher struct {
	chunkSize      int
	chunkDelay     time.Duration
	flushThreshold int
	idleWindow     time.Duration
	logf           func(format string, args ...any)
	flush          FlushFunc

	mu            sync.Mutex
	queue         []chunk
	pending       []logstore.Line
	dispatchTimer *time.Timer
	idleTimer     *time.Timer
	closed        bool
}

// New creates a Batcher delivering to flush.
func New(flush FlushFunc, opts Options) *Batcher {
	b := &Batcher{
		chunkSize:      opts.ChunkSize,
		chunkDelay:     opts.ChunkDelay,
		flushThreshold: opts.FlushThreshold,
		idleWindow:     opts.IdleWindow,
		logf:           opts.Logf,
		flush:          flush,
	}
	if b.chunkSize <= 0 {
		b.chunkSize = DefaultChunkSize
	}
	if b.chunkDelay <= 0 {
		b.chunkDelay = DefaultChunkDelay
	}
	if b.flushThreshold <= 0 {
		b.flushThreshold = DefaultFlushThreshold
	}
	if b.idleWindow <= 0 {
		b.idleWindow = DefaultIdleWindow
	}
	if b.logf == nil {
		b.logf = log.Printf
	}
	return b
}

// Submit accepts a batch. It never blocks and never drops well-formed
// lines; oversized batches are only rescheduled, not discarded. Lines
// missing an id or source are dropped individually with a warning and
// the rest of the batch proceeds.
func (b *Batcher) Submit(lines []logstore.Line) {
	valid := lines[:0:0]
	for _, ln := range lines {
		if ln.ID <= 0 || ln.Source == "" {
			b.logf("ingest: dropping malformed line (id=%d source=%q)", ln.ID, ln.Source)
			continue
		}
		valid = append(valid, ln)
	}
	if len(valid) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	now := time.Now()
	for i := 0; i < len(valid); i += b.chunkSize {
		end := i + b.chunkSize
		if end > len(valid) {
			end = len(valid)
		}
		b.queue = append(b.queue, chunk{
			lines: valid[i:end],
			due:   now.Add(time.Duration(i/b.chunkSize) * b.chunkDelay),
		})
	}
	b.dispatchLocked(now)
}

// DiscardSource drops every queued or accumulated line for the source at
// or below the watermark id. Called when the source's output is cleared
// so pre-clear lines cannot resurface from the pipeline.
func (b *Batcher) DiscardSource(name string, watermark int64) {
	stale := func(ln logstore.Line) bool {
		return ln.Source == name && ln.ID <= watermark
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	queue := b.queue[:0]
	for _, c := range b.queue {
		kept := c.lines[:0:0]
		for _, ln := range c.lines {
			if !stale(ln) {
				kept = append(kept, ln)
			}
		}
		if len(kept) > 0 {
			c.lines = kept
			queue = append(queue, c)
		}
	}
	b.queue = queue

	pending := b.pending[:0]
	for _, ln := range b.pending {
		if !stale(ln) {
			pending = append(pending, ln)
		}
	}
	b.pending = pending
}

// Flush forces out everything release-eligible plus the accumulation
// buffer. Flushing an empty buffer is a no-op.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drainQueueLocked()
	b.flushLocked()
}

// Close flushes all remaining lines (including still-delayed chunks) and
// cancels every timer. Submissions after Close are ignored.
func (b *Batcher) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.drainQueueLocked()
	b.flushLocked()
	if b.dispatchTimer != nil {
		b.dispatchTimer.Stop()
	}
	if b.idleTimer != nil {
		b.idleTimer.Stop()
	}
}

// dispatchLocked moves due chunks from the queue head into the
// accumulation buffer, flushes on threshold, and (re)arms timers.
func (b *Batcher) dispatchLocked(now time.Time) {
	for len(b.queue) > 0 && !b.queue[0].due.After(now) {
		b.pending = append(b.pending, b.queue[0].lines...)
		b.queue[0].lines = nil
		b.queue = b.queue[1:]
	}

	if len(b.pending) >= b.flushThreshold {
		b.flushLocked()
	} else if len(b.pending) > 0 {
		// New arrival: restart the idle timer.
		if b.idleTimer != nil {
			b.idleTimer.Stop()
		}
		b.idleTimer = time.AfterFunc(b.idleWindow, b.onIdle)
	}

	if b.dispatchTimer != nil {
		b.dispatchTimer.Stop()
		b.dispatchTimer = nil
	}
	if len(b.queue) > 0 {
		b.dispatchTimer = time.AfterFunc(time.Until(b.queue[0].due), b.onDispatch)
	}
}

func (b *Batcher) onDispatch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.dispatchLocked(time.Now())
}

func (b *Batcher) onIdle() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.flushLocked()
}

// drainQueueLocked releases every queued chunk regardless of due time,
// preserving order.
func (b *Batcher) drainQueueLocked() {
	for _, c := range b.queue {
		b.pending = append(b.pending, c.lines...)
	}
	b.queue = nil
}

// flushLocked hands the buffer to the flush callback. The callback runs
// under the batcher lock, which is what serializes flushes into store
// order; it must not call back into the Batcher.
func (b *Batcher) flushLocked() {
	if len(b.pending) == 0 {
		return
	}
	out := b.pending
	b.pending = nil
	if b.idleTimer != nil {
		b.idleTimer.Stop()
		b.idleTimer = nil
	}
	b.flush(out)
}
