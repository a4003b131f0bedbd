package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sunil-gumatimath/react-router/internal/route"
)

func newRoutesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.tree()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tKIND\tPAGE\tLOADER\tERROR PAGE")
			err = tree.Walk(func(n *route.Node) error {
				loader := "-"
				if n.Loader != nil {
					loader = "yes"
				}
				errorPage := "-"
				if n.HasErrorBoundary() {
					errorPage = n.ErrorPage
				}
				_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", n.Pattern(), n.Kind(), n.Page, loader, errorPage)
				return err
			})
			if err != nil {
				return err
			}
			return w.Flush()
		},
	}
}
