package app

import (
	"context"
	"log"

	"github.com/darrenoakey/overmind-gui-sub000/internal/ingest"
	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
	"github.com/darrenoakey/overmind-gui-sub000/internal/overmind"
)

// controller translates UI intents into local store mutations and
// fire-and-forget daemon calls. Local state changes first so the UI
// never waits on the network.
type controller struct {
	ctx     context.Context
	store   *logstore.Store
	batcher *ingest.Batcher
	remote  overmind.ProcessController
	notify  func()
}

func (c *controller) ToggleSource(name string) {
	c.store.ToggleSelection(name)
	c.fireAndForget("toggle select", name, c.remote.ToggleSelect)
}

// SetAllSelected is a local view concern; the daemon keeps streaming
// every process either way.
func (c *controller) SetAllSelected(selected bool) {
	c.store.SetAllSelected(selected)
}

// ClearSource drops the source's stored lines, discards its in-flight
// queued lines up to the clear watermark, and asks the daemon to do the
// same on its side.
func (c *controller) ClearSource(name string) {
	watermark := c.store.ClearSource(name)
	c.batcher.DiscardSource(name, watermark)
	c.fireAndForget("clear output", name, c.remote.ClearOutput)
	c.notify()
}

func (c *controller) StartProcess(name string) {
	c.fireAndForget("start process", name, c.remote.StartProcess)
}

func (c *controller) StopProcess(name string) {
	c.fireAndForget("stop process", name, c.remote.StopProcess)
}

func (c *controller) RestartProcess(name string) {
	c.fireAndForget("restart process", name, c.remote.RestartProcess)
}

func (c *controller) fireAndForget(what, name string, call func(context.Context, string) error) {
	go func() {
		if err := call(c.ctx, name); err != nil && c.ctx.Err() == nil {
			log.Printf("%s %q failed: %v", what, name, err)
		}
	}()
}
