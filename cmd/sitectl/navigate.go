package main

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/sunil-gumatimath/react-router/internal/http/handler"
	"github.com/sunil-gumatimath/react-router/internal/loader"
	"github.com/sunil-gumatimath/react-router/internal/navigation"
	"github.com/sunil-gumatimath/react-router/internal/render"
)

func newNavigateCmd(opts *options) *cobra.Command {
	var printHTML bool

	cmd := &cobra.Command{
		Use:   "navigate <path>",
		Short: "Run a full navigation against the jobs API and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := opts.tree()
			if err != nil {
				return err
			}
			renderer, err := render.New()
			if err != nil {
				return err
			}

			out, err := navigation.New(tree).Navigate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			status := handler.StatusFor(out)
			fmt.Fprintf(w, "status: %d %s\n", status, http.StatusText(status))
			fmt.Fprintf(w, "navigation: %d\n", out.ID)
			for _, f := range out.Frames {
				fmt.Fprintf(w, "frame: %s page=%s\n", f.Node.Pattern(), f.Page)
			}
			if out.Boundary() {
				fmt.Fprintf(w, "failure: %s (%s)\n", loader.UserMessage(out.Failure), out.FailedRoute)
			}

			if printHTML {
				var buf bytes.Buffer
				if err := renderer.Outcome(&buf, out); err != nil {
					return err
				}
				_, err = w.Write(buf.Bytes())
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printHTML, "html", false, "print the rendered page")
	return cmd
}
