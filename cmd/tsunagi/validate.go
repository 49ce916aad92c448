package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <manifest>",
		Short: "Check a manifest for invalid or duplicate relationships",
		Long: `Load the manifest into an empty registry and report every declaration
that is invalid or duplicates an earlier one (in either type order).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, result, err := a.loadRegistry(args[0])
			if metricsErr := a.printMetrics(cmd); metricsErr != nil {
				return metricsErr
			}
			if err != nil {
				return fmt.Errorf("manifest %s is not valid: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d entity and %d principal relationships\n",
				result.EntityDefined, result.PrincipalDefined)
			return nil
		},
	}
}
