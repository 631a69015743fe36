package cli

import (
	"fmt"

	"github.com/felixgeelhaar/tabcrusher/pkg/domain/aimodel"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the AI models a review can run against",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := aimodel.DefaultRegistry()
		def := registry.Default()
		for _, m := range registry.All() {
			marker := " "
			if m.ID == def.ID {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-26s %s\n", marker, m.ID, m.Name)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(modelsCmd)
}
