package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSearchCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "search <term>",
		Short:   "Search customers by number, first name or surname",
		Example: "  statementctl search 012\n  statementctl search gómez",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := e.load(cmd)
			if err != nil {
				return err
			}
			results, err := services.Customers.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No se encontraron clientes")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "N°\tCLIENTE\tZONA")
			for _, c := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.DisplayNumber(), c.FullName(), c.Zone)
			}
			return tw.Flush()
		},
	}
}
