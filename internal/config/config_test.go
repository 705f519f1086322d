package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != defaults() {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, defaults())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
server_bind = "  remote:9000  "
transport = "WebSocket"
poll_interval_ms = 500
max_lines_per_process = 1000
max_display_lines = 2000
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerBind != "remote:9000" {
		t.Fatalf("ServerBind = %q, want remote:9000", cfg.ServerBind)
	}
	if cfg.Transport != "websocket" {
		t.Fatalf("Transport = %q, want websocket", cfg.Transport)
	}
	if cfg.PollInterval != 500*time.Millisecond {
		t.Fatalf("PollInterval = %v, want 500ms", cfg.PollInterval)
	}
	if cfg.MaxLinesPerProcess != 1000 || cfg.MaxDisplayLines != 2000 {
		t.Fatalf("limits = %d/%d, want 1000/2000", cfg.MaxLinesPerProcess, cfg.MaxDisplayLines)
	}
}

func TestLoad_PartialConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`server_bind = "remote:9000"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerBind != "remote:9000" {
		t.Fatalf("ServerBind = %q, want remote:9000", cfg.ServerBind)
	}
	if cfg.Transport != defaultTransport {
		t.Fatalf("Transport = %q, want default %q", cfg.Transport, defaultTransport)
	}
	if cfg.MaxLinesPerProcess != defaultMaxLinesPerProcess {
		t.Fatalf("MaxLinesPerProcess = %d, want default %d", cfg.MaxLinesPerProcess, defaultMaxLinesPerProcess)
	}
}

func TestLoad_UnknownTransportFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`transport = "carrier-pigeon"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error, want unknown transport error")
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`server_bind = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
