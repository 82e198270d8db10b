package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/resources"
)

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the resource types this tool can import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range resources.DefaultRegistry().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
