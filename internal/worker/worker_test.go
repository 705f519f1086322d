package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/darrenoakey/overmind-gui-sub000/internal/overmind"
)

func TestWorker_ProcessBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w, err := Start(ctx, Options{Now: func() time.Time { return fixed }})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Close()

	raw := []overmind.RawLine{
		{ID: 1, SourceName: "api", Content: "\x1b[31merror\x1b[0m boom", Timestamp: 1717200000000},
		{ID: 2, SourceName: "api", Content: "plain", Searchable: "already set"},
	}
	reply, id, err := w.Process(ctx, raw)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if id == "" {
		t.Fatalf("Process() returned empty batch id")
	}

	select {
	case res := <-reply:
		if res.BatchID != id {
			t.Fatalf("result batch id = %q, want %q", res.BatchID, id)
		}
		if len(res.Lines) != 2 {
			t.Fatalf("processed %d lines, want 2", len(res.Lines))
		}
		if res.Lines[0].Searchable != "error boom" {
			t.Fatalf("derived searchable = %q, want ANSI stripped", res.Lines[0].Searchable)
		}
		if res.Lines[0].Content != "\x1b[31merror\x1b[0m boom" {
			t.Fatalf("content was not kept opaque: %q", res.Lines[0].Content)
		}
		if res.Lines[0].Timestamp != time.UnixMilli(1717200000000) {
			t.Fatalf("timestamp = %v, want wire value", res.Lines[0].Timestamp)
		}
		if res.Lines[1].Searchable != "already set" {
			t.Fatalf("provided searchable overwritten: %q", res.Lines[1].Searchable)
		}
		if !res.Lines[1].Timestamp.Equal(fixed) {
			t.Fatalf("missing timestamp not stamped: %v", res.Lines[1].Timestamp)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no result within deadline")
	}
}

func TestWorker_ResponsesPreserveSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	w, err := Start(ctx, Options{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Close()

	const batches = 20
	replies := make([]<-chan Result, batches)
	ids := make([]string, batches)
	for i := 0; i < batches; i++ {
		reply, id, err := w.Process(ctx, []overmind.RawLine{{ID: int64(i + 1), SourceName: "api", Content: "x"}})
		if err != nil {
			t.Fatalf("Process(%d) error = %v", i, err)
		}
		replies[i] = reply
		ids[i] = id
	}

	for i, reply := range replies {
		select {
		case res := <-reply:
			if res.BatchID != ids[i] {
				t.Fatalf("batch %d answered with id %q, want %q", i, res.BatchID, ids[i])
			}
			if res.Lines[0].ID != int64(i+1) {
				t.Fatalf("batch %d carries line id %d", i, res.Lines[0].ID)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("batch %d never answered", i)
		}
	}
}

func TestWorker_HandshakeTimeout(t *testing.T) {
	gate := make(chan struct{}) // never closed: readiness never arrives
	_, err := Start(context.Background(), Options{
		ReadyTimeout: 20 * time.Millisecond,
		readyGate:    gate,
	})
	if !errors.Is(err, ErrInitTimeout) {
		t.Fatalf("Start() error = %v, want ErrInitTimeout", err)
	}
}

func TestWorker_HandshakeCompletesWhenGateOpens(t *testing.T) {
	gate := make(chan struct{})
	close(gate)
	w, err := Start(context.Background(), Options{
		ReadyTimeout: 2 * time.Second,
		readyGate:    gate,
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	w.Close()
}

func TestWorker_CloseRejectsSubmissions(t *testing.T) {
	w, err := Start(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	w.Close()

	_, _, err = w.Process(context.Background(), nil)
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Process after Close = %v, want ErrClosed", err)
	}
}

func TestWorker_ContextCancelStopsWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w, err := Start(ctx, Options{})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, _, err := w.Process(context.Background(), nil); errors.Is(err, ErrClosed) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("worker did not shut down after context cancel")
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"\x1b[32mgreen\x1b[0m", "green"},
		{"\x1b[1;38;5;196mbold red\x1b[m tail", "bold red tail"},
		{"pre \x1b]0;title\x07post", "pre post"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripANSI(tt.in); got != tt.want {
			t.Errorf("StripANSI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
