package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sceptre-tools/sceptre-resource-importer/internal/resources"
)

func newListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list TYPE",
		Short: "Dump the live resources of a type in this account and region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			awsCfg, err := loadAWSConfig(ctx)
			if err != nil {
				return errors.Wrap(err, "loading AWS configuration")
			}
			plugin, err := resources.DefaultRegistry().Get(args[0], awsCfg)
			if err != nil {
				return err
			}
			report, err := plugin.ListResources(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(report.Raw))
			return nil
		},
	}
	return cmd
}
