package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/darrenoakey/overmind-gui-sub000/internal/config"
	"github.com/darrenoakey/overmind-gui-sub000/internal/ingest"
	"github.com/darrenoakey/overmind-gui-sub000/internal/logstore"
	"github.com/darrenoakey/overmind-gui-sub000/internal/overmind"
	"github.com/darrenoakey/overmind-gui-sub000/internal/prefs"
	"github.com/darrenoakey/overmind-gui-sub000/internal/ui"
	"github.com/darrenoakey/overmind-gui-sub000/internal/worker"
)

// Options configure the application. Non-zero fields override the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/overmind-gui/prefs.toml

	ServerBind   string
	Transport    string
	PollInterval time.Duration
}

// Run boots the viewer until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerBind != "" {
		cfg.ServerBind = opts.ServerBind
	}
	if opts.Transport != "" {
		cfg.Transport = opts.Transport
	}
	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := overmind.NewClient(cfg.ServerBind)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	store := logstore.New(cfg.MaxLinesPerProcess)

	wk, err := worker.Start(ctx, worker.Options{})
	if err != nil {
		return fmt.Errorf("start format worker: %w", err)
	}
	defer wk.Close()

	p := newPump(ctx, store, wk)

	batcher := ingest.New(p.flush, ingest.Options{})
	defer batcher.Close()
	p.batcher = batcher
	p.start()

	transport, err := overmind.NewTransport(cfg.Transport, client, cfg.PollInterval)
	if err != nil {
		return fmt.Errorf("init transport: %w", err)
	}

	ctrl := &controller{
		ctx:     ctx,
		store:   store,
		batcher: batcher,
		remote:  client,
		notify:  p.notify,
	}

	model := ui.New(ui.Options{
		Store:           store,
		Controller:      ctrl,
		MaxDisplayLines: cfg.MaxDisplayLines,
		ThemeName:       userPrefs.Theme,
		PrefsPath:       opts.PrefsPath,
		ShowTimestamps:  userPrefs.ShowTimestamps,
	})
	program := tea.NewProgram(model, tea.WithContext(ctx))
	p.bind(program)

	if err := transport.Start(ctx, p.handle); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}
	defer transport.Stop()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
