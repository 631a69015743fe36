package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded review runs, or show one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(wiring.Options{LogWriter: cmd.ErrOrStderr()})
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		if app.History == nil {
			return fmt.Errorf("run history is disabled; set history.enabled in .tabcrusher/config.yaml")
		}

		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		if len(args) == 1 {
			run, err := app.History.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		}

		runs, err := app.History.RecentRuns(ctx, historyLimit)
		if err != nil {
			return err
		}
		if historyJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}
		if len(runs) == 0 {
			fmt.Fprintln(w, "No review runs recorded.")
			return nil
		}
		fmt.Fprintln(w, renderRuns(runs))
		return nil
	},
}

func renderRuns(runs []review.Run) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "WHEN", "FILE", "MODEL", "STATUS")
	for _, r := range runs {
		status := string(r.Status)
		if r.Superseded {
			status += " (superseded)"
		}
		t.Row(r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.FilePath, r.ModelID, status)
	}
	return t.String()
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print runs as JSON")
	RootCmd.AddCommand(historyCmd)
}
