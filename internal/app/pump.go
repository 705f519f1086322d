package app

import (
	"context"
	"log"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darrenoakey/overmind-gui-sub000/internal/ingest"
	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
	"github.com/darrenoakey/overmind-gui-sub000/internal/overmind"
	"github.com/darrenoakey/overmind-gui-sub000/internal/ui"
	"github.com/darrenoakey/overmind-gui-sub000/internal/worker"
)

// pump moves update payloads from the transport through the format
// worker and the batcher into the store, then nudges the UI.
type pump struct {
	ctx     context.Context
	store   *logstore.Store
	worker  *worker.Worker
	batcher *ingest.Batcher

	// replies holds one reply channel per submitted batch, in
	// submission order. A single consumer drains them sequentially so
	// batches can never overtake each other between the worker and the
	// batcher.
	replies chan (<-chan worker.Result)

	mu      sync.Mutex
	program *tea.Program
}

func newPump(ctx context.Context, store *logstore.Store, wk *worker.Worker) *pump {
	return &pump{
		ctx:     ctx,
		store:   store,
		worker:  wk,
		replies: make(chan (<-chan worker.Result), 128),
	}
}

// start launches the reply consumer. Call after the batcher is set.
func (p *pump) start() {
	go p.drainReplies()
}

func (p *pump) drainReplies() {
	for {
		select {
		case reply := <-p.replies:
			select {
			case result, ok := <-reply:
				if ok {
					p.batcher.Submit(result.Lines)
				}
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// bind attaches the running Bubble Tea program. Until then refresh
// nudges are dropped; the UI projects the full store on its first
// resize anyway.
func (p *pump) bind(program *tea.Program) {
	p.mu.Lock()
	p.program = program
	p.mu.Unlock()
}

func (p *pump) send(msg tea.Msg) {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()
	if program != nil {
		program.Send(msg)
	}
}

// notify tells the UI the store changed outside the ingest path (for
// example a local clear).
func (p *pump) notify() {
	p.send(ui.RefreshMsg{})
}

// handle consumes one transport payload. Status updates apply
// immediately; lines take the worker detour so formatting stays off
// the transport goroutine.
func (p *pump) handle(payload overmind.BatchPayload) {
	if len(payload.StatusUpdates) > 0 {
		p.store.ApplyStatusUpdates(payload.StatusUpdates)
		p.send(ui.RefreshMsg{})
	}
	if payload.Stats != (overmind.Stats{}) {
		p.send(ui.StatsMsg(payload.Stats))
	}
	if len(payload.Lines) == 0 {
		return
	}

	reply, batchID, err := p.worker.Process(p.ctx, payload.Lines)
	if err != nil {
		log.Printf("process batch %s failed: %v", batchID, err)
		return
	}
	select {
	case p.replies <- reply:
	case <-p.ctx.Done():
	}
}

// flush is the batcher's callback: store the accumulated lines and
// wake the UI once per flush rather than once per line.
func (p *pump) flush(lines []logstore.Line) {
	if p.store.Append(lines) > 0 {
		p.send(ui.RefreshMsg{})
	}
}
