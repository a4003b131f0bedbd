package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newResolveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Print the chain a path matches, without running loaders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.tree()
			if err != nil {
				return err
			}

			match, err := tree.Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path: %s\n", match.Path)
			for i, n := range match.Chain {
				fmt.Fprintf(out, "%d. %s (%s) page=%s\n", i, n.Pattern(), n.Kind(), n.Page)
			}

			names := make([]string, 0, len(match.Params))
			for name := range match.Params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "param %s=%s\n", name, match.Params[name])
			}
			return nil
		},
	}
}
