package cmd

import (
	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	var generateOnly bool
	var output string
	var commonEnv string

	cmd := &cobra.Command{
		Use:   "import TYPE NAME",
		Short: "Import a pre-existing resource into a Sceptre-managed stack",
		Long: `Import builds an intermediate CloudFormation template for the named
resource, runs an IMPORT change set to bring the resource under a new
stack, and writes the Sceptre values file that manages it from then on.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runConfig{
				resourceType: args[0],
				name:         args[1],
				generateOnly: generateOnly,
				commonEnv:    commonEnv,
				output:       output,
			})
		},
	}

	cmd.Flags().BoolVarP(&generateOnly, "generate-only", "g", false, "Skip the import and only write the values file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Directory to write the values file to (default: <env dir>/<type dir>)")
	cmd.Flags().StringVarP(&commonEnv, "common-env", "c", "", "Account-level common env YAML file")

	return cmd
}
