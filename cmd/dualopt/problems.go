package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/dualopt/internal/optimization/catalog"
)

func newProblemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "problems",
		Short: "List catalogued problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDIM\tSTART\tOBJECTIVE")
			for _, e := range catalog.All() {
				dim := "any"
				if e.Dim > 0 {
					dim = fmt.Sprint(e.Dim)
				}
				fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", e.Name, dim, e.Start, e.Description)
			}
			return tw.Flush()
		},
	}
}
