package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Channel.Endpoint != "ws://localhost:8000/ws" {
		t.Errorf("unexpected endpoint %q", cfg.Channel.Endpoint)
	}
	if cfg.Backend.Kind != BackendExec || cfg.Backend.Timeout != 0 {
		t.Errorf("unexpected backend defaults %+v", cfg.Backend)
	}
	if !cfg.History.Enabled {
		t.Error("history should default to enabled")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()

	input := Default()
	input.Channel.Endpoint = "wss://review.example.com/ws"
	input.Backend.Kind = BackendPlugin
	input.Backend.PluginPath = "/opt/tabcrusher/reviewer"
	input.Backend.Timeout = 90 * time.Second
	input.Inbox.Dir = "/home/me/Inbox"

	if err := Save(tempDir, input); err != nil {
		t.Fatalf("save config: %v", err)
	}

	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Channel.Endpoint != input.Channel.Endpoint || cfg.Backend.PluginPath != input.Backend.PluginPath {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Backend.Timeout != 90*time.Second {
		t.Errorf("timeout not preserved: %v", cfg.Backend.Timeout)
	}
	if cfg.Inbox.Dir != "/home/me/Inbox" {
		t.Errorf("inbox not preserved: %q", cfg.Inbox.Dir)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, ".tabcrusher")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	body := "log:\n  level: debug\nbackend:\n  timeout: 2m\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %q", cfg.Log.Level)
	}
	if cfg.Backend.Timeout != 2*time.Minute {
		t.Errorf("expected 2m timeout, got %v", cfg.Backend.Timeout)
	}
	if cfg.Channel.Endpoint != "ws://localhost:8000/ws" || len(cfg.Backend.Command) == 0 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tempDir := t.TempDir()
	dir := filepath.Join(tempDir, ".tabcrusher")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("::bad"), 0600); err != nil {
		t.Fatalf("write bad config: %v", err)
	}
	if _, err := Load(tempDir); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"http endpoint", func(c *Config) { c.Channel.Endpoint = "http://localhost:8000/ws" }},
		{"no host", func(c *Config) { c.Channel.Endpoint = "ws://" }},
		{"zero attempts", func(c *Config) { c.Channel.Reconnect.MaxAttempts = 0 }},
		{"unknown kind", func(c *Config) { c.Backend.Kind = "grpc" }},
		{"exec without command", func(c *Config) { c.Backend.Command = nil }},
		{"plugin without path", func(c *Config) { c.Backend.Kind = BackendPlugin }},
		{"negative timeout", func(c *Config) { c.Backend.Timeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestWorkspacePath(t *testing.T) {
	if got := WorkspacePath("/home/me", "history.db"); got != filepath.Join("/home/me", ".tabcrusher", "history.db") {
		t.Errorf("unexpected relative resolution %s", got)
	}
	if got := WorkspacePath("/home/me", "/var/log/tc.log"); got != "/var/log/tc.log" {
		t.Errorf("absolute path changed: %s", got)
	}
}
