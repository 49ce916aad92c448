package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/asakaida/tsunagi/pkg/relationship"
)

// errNotFound is returned when a lookup finds no relationship
var errNotFound = errors.New("relationship not found")

func newLookupCmd(a *app) *cobra.Command {
	var principal bool

	cmd := &cobra.Command{
		Use:   "lookup <manifest> <typeA> <typeB> <kind>",
		Short: "Resolve a relationship from a manifest",
		Long: `Resolve an entity-to-entity relationship in either type order.
With --principal, resolve an entity-to-principal relationship instead:
  lookup --principal <manifest> <type> <kind>
Rejected declarations do not stop the lookup: the relationship is resolved
against the accepted ones and the rejection errors are returned afterwards.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if principal {
				return cobra.ExactArgs(3)(cmd, args)
			}
			return cobra.ExactArgs(4)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, _, applyErr := a.loadRegistry(args[0])
			if reg == nil {
				return applyErr
			}

			var desc relationship.Descriptor
			if principal {
				rel, ok := reg.LookupPrincipalRelationship(args[1], args[2])
				if !ok {
					err := fmt.Errorf("%w: %s", errNotFound, reg.KeyOf(args[1], reg.PrincipalType(), args[2]))
					return multierror.Append(err, rejectedErr(args[0], applyErr)).ErrorOrNil()
				}
				desc = rel
			} else {
				rel, ok := reg.LookupEntityRelationship(args[1], args[2], args[3])
				if !ok {
					err := fmt.Errorf("%w: %s", errNotFound, reg.KeyOf(args[1], args[2], args[3]))
					return multierror.Append(err, rejectedErr(args[0], applyErr)).ErrorOrNil()
				}
				desc = rel
			}

			printDescriptor(cmd, desc)
			if err := a.printMetrics(cmd); err != nil {
				return err
			}
			return rejectedErr(args[0], applyErr)
		},
	}

	cmd.Flags().BoolVar(&principal, "principal", false, "Resolve an entity-to-principal relationship")
	return cmd
}

func printDescriptor(cmd *cobra.Command, desc relationship.Descriptor) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "key: %s\n", desc.Key())
	fmt.Fprintf(out, "category: %s\n", desc.Category())
	fmt.Fprintf(out, "kind: %s\n", desc.Kind())

	opts := desc.Options()
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "option %s: %v\n", name, opts[name])
	}
}
