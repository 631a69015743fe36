package wiring

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/config"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/felixgeelhaar/tabcrusher/pkg/plugin"
	"github.com/felixgeelhaar/tabcrusher/pkg/worker"
)

// BuildBackend creates the configured review backend. The returned cleanup stops any
// plugin process and is never nil.
func BuildBackend(cfg config.BackendConfig, root string, logger *slog.Logger) (review.Backend, func(), error) {
	noop := func() {}

	var backend review.Backend
	cleanup := noop

	switch cfg.Kind {
	case config.BackendExec, "":
		exec, err := worker.NewExecBackend(cfg.Command, root, logger)
		if err != nil {
			return nil, noop, err
		}
		backend = exec
		logger.Debug("review backend ready", "backend", exec.String())

	case config.BackendPlugin:
		loader := plugin.NewLoader()
		reviewer, err := loader.Load(cfg.PluginPath)
		if err != nil {
			return nil, noop, fmt.Errorf("load reviewer plugin: %w", err)
		}
		if err := reviewer.Init(cfg.PluginConfig); err != nil {
			loader.Cleanup()
			return nil, noop, fmt.Errorf("init reviewer plugin: %w", err)
		}
		backend = plugin.NewBackend(reviewer)
		cleanup = loader.Cleanup
		logger.Debug("review backend ready", "backend", "plugin", "path", cfg.PluginPath)

	default:
		return nil, noop, fmt.Errorf("%w: unknown backend.kind %q", config.ErrInvalidConfig, cfg.Kind)
	}

	return worker.WithTimeout(backend, cfg.Timeout), cleanup, nil
}
