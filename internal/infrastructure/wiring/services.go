package wiring

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/live"
	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/logging"
	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/watch"
	"github.com/felixgeelhaar/tabcrusher/pkg/application"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/aimodel"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/felixgeelhaar/tabcrusher/pkg/storage"
)

// Options selects which long-lived parts BuildApp starts.
type Options struct {
	// LogToFile sends logs to the workspace log file instead of LogWriter.
	LogToFile bool
	LogWriter io.Writer
	// Live connects the profile update channel.
	Live bool
	// Inbox watches the configured inbox directory, if any.
	Inbox bool
	// Backend overrides the configured review backend.
	Backend review.Backend
}

// App is the composition root: every long-lived dependency is built here and handed
// to its consumers explicitly.
type App struct {
	Workspace *Workspace
	Logger    *slog.Logger
	Registry  *aimodel.Registry
	Hub       *application.HubService
	Review    *application.ReviewService
	History   *storage.HistoryStore
	Live      *live.Client
	Inbox     *watch.InboxWatcher

	drops   chan string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	closers []func() error
	once    sync.Once
}

// BuildApp wires the client for root.
func BuildApp(root string, opts Options) (_ *App, err error) {
	ws, err := NewWorkspace(root)
	if err != nil {
		return nil, err
	}
	cfg := ws.Config

	app := &App{Workspace: ws, Registry: aimodel.DefaultRegistry(), drops: make(chan string, 8)}
	defer func() {
		if err != nil {
			_ = app.Close()
		}
	}()

	if opts.LogToFile {
		logger, closer, logErr := logging.OpenFile(ws.Path(cfg.Log.File), cfg.Log.Level)
		if logErr != nil {
			return nil, logErr
		}
		app.Logger = logger
		app.closers = append(app.closers, closer.Close)
	} else {
		w := opts.LogWriter
		if w == nil {
			w = os.Stderr
		}
		app.Logger = logging.New(w, cfg.Log.Level)
	}

	var recorder application.RunRecorder
	if cfg.History.Enabled {
		if err := ws.Repo.Initialize(); err != nil {
			return nil, err
		}
		history, histErr := storage.OpenHistory(ws.Path(cfg.History.File))
		if histErr != nil {
			// History is optional; reviews still work without it.
			app.Logger.Error("run history unavailable", "error", histErr)
		} else {
			app.History = history
			recorder = history
			app.closers = append(app.closers, history.Close)
		}
	}

	backend := opts.Backend
	if backend == nil {
		built, cleanup, buildErr := BuildBackend(cfg.Backend, root, app.Logger)
		if buildErr != nil {
			return nil, buildErr
		}
		backend = built
		app.closers = append(app.closers, func() error { cleanup(); return nil })
	}

	app.Hub = application.NewHubService(app.Registry, ws.Settings, app.Logger)
	app.Review = application.NewReviewService(backend, recorder, app.Logger)

	if opts.Live {
		client, liveErr := live.NewClient(live.Options{
			Endpoint:     cfg.Channel.Endpoint,
			MaxAttempts:  cfg.Channel.Reconnect.MaxAttempts,
			InitialDelay: cfg.Channel.Reconnect.InitialDelay,
			RoundDelay:   cfg.Channel.Reconnect.RoundDelay,
			Logger:       app.Logger,
		})
		if liveErr != nil {
			return nil, liveErr
		}
		app.Live = client
	}

	if opts.Inbox && cfg.Inbox.Dir != "" {
		inbox, inboxErr := watch.NewInboxWatcher(cfg.Inbox.Dir, cfg.Inbox.Debounce, nil, app.enqueueDrop, app.Logger)
		if inboxErr != nil {
			return nil, fmt.Errorf("start inbox: %w", inboxErr)
		}
		app.Inbox = inbox
	}

	return app, nil
}

// Drops streams files delivered by the inbox watcher.
func (a *App) Drops() <-chan string {
	return a.drops
}

func (a *App) enqueueDrop(path string) {
	select {
	case a.drops <- path:
	default:
		a.Logger.Warn("inbox drop discarded, queue full", "path", path)
	}
}

// Start launches the live channel and inbox watcher.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.Live != nil {
		a.Live.Start()
	}
	if a.Inbox != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.Inbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.Logger.Error("inbox watcher stopped", "error", err)
			}
		}()
	}
}

// Close releases the channel, watcher, plugin process, history database and log file.
func (a *App) Close() error {
	var errs []error
	a.once.Do(func() {
		if a.cancel != nil {
			a.cancel()
		}
		if a.Live != nil {
			errs = append(errs, a.Live.Close())
		}
		a.wg.Wait()
		if a.Inbox != nil {
			errs = append(errs, a.Inbox.Close())
		}
		for i := len(a.closers) - 1; i >= 0; i-- {
			errs = append(errs, a.closers[i]())
		}
	})
	return errors.Join(errs...)
}
