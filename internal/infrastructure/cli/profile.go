package cli

import (
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/tolerance"
	"github.com/spf13/cobra"
)

var profileJSON bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect the tolerance profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the startup tolerance profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tolerance.Default()
		w := cmd.OutOrStdout()
		if profileJSON {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		}
		fmt.Fprintf(w, "Active Tolerance Profile: %s\n", p.Name)
		for _, c := range tolerance.Cards(p) {
			fmt.Fprintf(w, "  %-8s %s\n", c.Title, c.Label)
		}
		return nil
	},
}

func init() {
	profileShowCmd.Flags().BoolVar(&profileJSON, "json", false, "print the profile as JSON")
	profileCmd.AddCommand(profileShowCmd)
	RootCmd.AddCommand(profileCmd)
}
