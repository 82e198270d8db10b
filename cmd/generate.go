package cmd

import (
	"github.com/spf13/cobra"
)

// newGenerateCommand is import without the pipeline, for stacks that were
// already imported and only need their values file regenerated.
func newGenerateCommand() *cobra.Command {
	var output string
	var commonEnv string

	cmd := &cobra.Command{
		Use:   "generate TYPE NAME",
		Short: "Write the Sceptre values file for an already-imported resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runConfig{
				resourceType: args[0],
				name:         args[1],
				generateOnly: true,
				commonEnv:    commonEnv,
				output:       output,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory to write the values file to (default: <env dir>/<type dir>)")
	cmd.Flags().StringVarP(&commonEnv, "common-env", "c", "", "Account-level common env YAML file")

	return cmd
}
