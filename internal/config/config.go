package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the viewer needs at startup.
type Config struct {
	// ServerBind is the daemon's HTTP endpoint, host:port or URL.
	ServerBind string
	// Transport selects the update channel: "poll" or "websocket".
	Transport string
	// PollInterval is the pause between successful long-polls.
	PollInterval time.Duration
	// MaxLinesPerProcess bounds retained lines per source.
	MaxLinesPerProcess int
	// MaxDisplayLines caps the lines handed to the renderer.
	MaxDisplayLines int
}

const (
	defaultConfigPath   = "~/.config/overmind-gui/config.toml"
	defaultServerBind   = "127.0.0.1:4300"
	defaultTransport    = "poll"
	defaultPollInterval = 250 * time.Millisecond

	// Raising these trades memory for scrollback; the renderer stays
	// responsive either way because it only materializes the visible
	// window.
	defaultMaxLinesPerProcess = 5000
	defaultMaxDisplayLines    = 5000
)

// Load locates and parses the config file. A missing file yields
// defaults; a present but malformed file is an error, so a typo never
// silently runs with surprising limits.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerBind         string `toml:"server_bind"`
		Transport          string `toml:"transport"`
		PollIntervalMS     int    `toml:"poll_interval_ms"`
		MaxLinesPerProcess int    `toml:"max_lines_per_process"`
		MaxDisplayLines    int    `toml:"max_display_lines"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if bind := strings.TrimSpace(raw.ServerBind); bind != "" {
		cfg.ServerBind = bind
	}
	if transport := strings.ToLower(strings.TrimSpace(raw.Transport)); transport != "" {
		if transport != "poll" && transport != "websocket" {
			return Config{}, fmt.Errorf("unknown transport %q (want poll or websocket)", raw.Transport)
		}
		cfg.Transport = transport
	}
	if raw.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
	}
	if raw.MaxLinesPerProcess > 0 {
		cfg.MaxLinesPerProcess = raw.MaxLinesPerProcess
	}
	if raw.MaxDisplayLines > 0 {
		cfg.MaxDisplayLines = raw.MaxDisplayLines
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		ServerBind:         defaultServerBind,
		Transport:          defaultTransport,
		PollInterval:       defaultPollInterval,
		MaxLinesPerProcess: defaultMaxLinesPerProcess,
		MaxDisplayLines:    defaultMaxDisplayLines,
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
