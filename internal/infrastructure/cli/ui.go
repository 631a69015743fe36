package cli

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/tui"
	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/live"
	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive review screen",
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	app, err := loadApp(wiring.Options{LogToFile: true, Live: true, Inbox: true})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	st, err := mountSession(app)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	app.Start(ctx)

	var events <-chan live.Event
	if app.Live != nil {
		events = app.Live.Events()
	}
	var drops <-chan string
	if app.Inbox != nil {
		drops = app.Drops()
	}

	model := tui.New(tui.Deps{
		Context: ctx,
		Hub:     app.Hub,
		Review:  app.Review,
		Events:  events,
		Drops:   drops,
		Logger:  app.Logger,
		Now:     time.Now,
	}, st)

	// Allow tests to skip the blocking program run.
	if os.Getenv("TABCRUSHER_SKIP_UI_RUN") == "true" {
		return nil
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func init() {
	RootCmd.AddCommand(uiCmd)
}
