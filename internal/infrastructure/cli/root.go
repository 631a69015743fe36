package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// rootPath overrides the workspace root (default: the user's home directory).
var rootPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "tabcrusher",
	Version: Version,
	Short:   "Review TAB reports against tolerance profiles",
	Long: `TAB Report Crusher sends test-and-balance reports to a review backend and
shows the findings against the active tolerance profile.

Run without a subcommand to open the interactive UI. Drop a PDF or Excel
report onto the terminal (or into the configured inbox directory) to review it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := MapError(RootCmd.Execute())
	if err != nil {
		printError(err)
	}
	return err
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "workspace root holding .tabcrusher (default: home directory)")
}
