package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	devMode bool
)

// Execute runs the CLI.
func Execute() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", formatCLIError(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sceptre-importer",
		Short:         "Import pre-existing AWS resources into Sceptre-managed CloudFormation stacks",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Skip the template repository sync check")
	cmd.AddCommand(newImportCommand(), newGenerateCommand(), newListCommand(), newTypesCommand())

	return cmd
}
