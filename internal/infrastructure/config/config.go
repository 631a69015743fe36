// Package config loads the client configuration from .tabcrusher/config.yaml.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/felixgeelhaar/tabcrusher/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	BackendExec   = "exec"
	BackendPlugin = "plugin"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Channel ChannelConfig `yaml:"channel"`
	Backend BackendConfig `yaml:"backend"`
	Inbox   InboxConfig   `yaml:"inbox"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

type ChannelConfig struct {
	Endpoint  string          `yaml:"endpoint"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
}

// ReconnectConfig controls dialing: MaxAttempts dials per round with exponential
// backoff from InitialDelay, then RoundDelay before the next round.
type ReconnectConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	RoundDelay   time.Duration `yaml:"round_delay"`
}

type BackendConfig struct {
	Kind         string            `yaml:"kind"`
	Command      []string          `yaml:"command,omitempty"`
	PluginPath   string            `yaml:"plugin_path,omitempty"`
	PluginConfig map[string]string `yaml:"plugin_config,omitempty"`
	Timeout      time.Duration     `yaml:"timeout"`
}

type InboxConfig struct {
	Dir      string        `yaml:"dir,omitempty"`
	Debounce time.Duration `yaml:"debounce"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	File    string `yaml:"file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{
			Endpoint: "ws://localhost:8000/ws",
			Reconnect: ReconnectConfig{
				MaxAttempts:  5,
				InitialDelay: 500 * time.Millisecond,
				RoundDelay:   5 * time.Second,
			},
		},
		Backend: BackendConfig{
			Kind:    BackendExec,
			Command: []string{"python", "worker/review.py"},
		},
		Inbox: InboxConfig{Debounce: 300 * time.Millisecond},
		Log:   LogConfig{Level: "info", File: storage.LogFile},
		History: HistoryConfig{
			Enabled: true,
			File:    storage.HistoryFile,
		},
	}
}

// Validate checks the settings the client cannot start without.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Channel.Endpoint)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("%w: channel.endpoint must be a ws:// or wss:// URL, got %q", ErrInvalidConfig, c.Channel.Endpoint)
	}
	if c.Channel.Reconnect.MaxAttempts < 1 {
		return fmt.Errorf("%w: channel.reconnect.max_attempts must be at least 1", ErrInvalidConfig)
	}
	switch c.Backend.Kind {
	case BackendExec:
		if len(c.Backend.Command) == 0 {
			return fmt.Errorf("%w: backend.command is required for the exec backend", ErrInvalidConfig)
		}
	case BackendPlugin:
		if c.Backend.PluginPath == "" {
			return fmt.Errorf("%w: backend.plugin_path is required for the plugin backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend.kind %q", ErrInvalidConfig, c.Backend.Kind)
	}
	if c.Backend.Timeout < 0 || c.Inbox.Debounce < 0 {
		return fmt.Errorf("%w: durations cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// WorkspacePath resolves a configured file name against the workspace directory.
// Absolute names are returned unchanged.
func WorkspacePath(root, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(root, storage.WorkspaceDir, name)
}

// Load reads config.yaml under root. A missing file yields Default().
func Load(root string) (*Config, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to config.yaml under root.
func Save(root string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.ConfigFile)
	if err != nil {
		return err
	}
	if err := repo.Initialize(); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
