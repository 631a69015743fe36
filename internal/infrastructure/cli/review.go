package cli

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/tabcrusher/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/tabcrusher/pkg/domain/review"
	"github.com/spf13/cobra"
)

var (
	reviewModel string
	reviewJSON  bool
)

type reviewOutput struct {
	File     string           `json:"file"`
	Model    string           `json:"model"`
	Profile  string           `json:"profile"`
	Status   review.RunStatus `json:"status"`
	Findings []review.Finding `json:"findings,omitempty"`
	Error    string           `json:"error,omitempty"`
}

var reviewCmd = &cobra.Command{
	Use:   "review <file>",
	Short: "Review a single report without the interactive screen",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(wiring.Options{LogWriter: cmd.ErrOrStderr()})
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		st, err := mountSession(app)
		if err != nil {
			return err
		}
		if reviewModel != "" && !app.Hub.SelectModel(st, reviewModel) {
			return fmt.Errorf("%w: %s", ErrUnknownModel, reviewModel)
		}

		c, err := app.Review.Submit(cmd.Context(), st, args)
		if err != nil {
			return err
		}

		out := reviewOutput{
			File:    c.Ticket.File.Path,
			Model:   c.Ticket.Request.ModelName,
			Profile: st.Profile.Name,
			Status:  review.RunSucceeded,
		}
		if c.Outcome.IsOk() {
			out.Findings = c.Outcome.Result().Findings
		} else {
			out.Status = review.RunFailed
			out.Error = c.Outcome.Reason()
		}

		if reviewJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
		} else {
			printReview(cmd, out)
		}

		if !c.Outcome.IsOk() {
			return c.Outcome.Error()
		}
		return nil
	},
}

func printReview(cmd *cobra.Command, out reviewOutput) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "File:    %s\n", out.File)
	fmt.Fprintf(w, "Model:   %s\n", out.Model)
	fmt.Fprintf(w, "Profile: %s\n\n", out.Profile)
	if out.Status == review.RunFailed {
		// The failure itself is reported by Execute.
		return
	}
	if len(out.Findings) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}
	fmt.Fprintln(w, "Review Findings:")
	for _, f := range out.Findings {
		fmt.Fprintf(w, "  - %s\n", f)
	}
}

func init() {
	reviewCmd.Flags().StringVar(&reviewModel, "model", "", "model ID to review with (default: first registered model)")
	reviewCmd.Flags().BoolVar(&reviewJSON, "json", false, "print the result as JSON")
	RootCmd.AddCommand(reviewCmd)
}
