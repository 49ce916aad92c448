package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <manifest>",
		Short: "List relationship keys defined by a manifest",
		Long: `List every relationship the manifest defines.
Rejected declarations (invalid or duplicate) are skipped: the accepted ones
are still listed and the command then exits with the rejection errors.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, applyErr := a.loadRegistry(args[0])
			if reg == nil {
				return applyErr
			}

			out := cmd.OutOrStdout()
			for _, rel := range reg.EntityRelationships() {
				fmt.Fprintf(out, "%s\t%s\t%s\n", rel.Category(), rel.Key(), rel)
			}
			for _, rel := range reg.PrincipalRelationships() {
				fmt.Fprintf(out, "%s\t%s\t%s\n", rel.Category(), rel.Key(), rel)
			}
			return rejectedErr(args[0], applyErr)
		},
	}
}
