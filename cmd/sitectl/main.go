package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sunil-gumatimath/react-router/common/logger"
	"github.com/sunil-gumatimath/react-router/core/config"
	"github.com/sunil-gumatimath/react-router/internal/jobs"
	"github.com/sunil-gumatimath/react-router/internal/route"
	"github.com/sunil-gumatimath/react-router/internal/site"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options are shared by every subcommand.
type options struct {
	apiURL  string
	verbose bool
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "sitectl",
		Short:        "Inspect and exercise the jobs site route table",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.ServiceTypeCLI)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if opts.apiURL != "" {
				cfg.JobsAPI.BaseURL = opts.apiURL
			}
			opts.cfg = cfg

			// logs go to stderr so command output stays clean
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(logger.NewTraceHandler(handler)))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api", "", "jobs API base URL (defaults to JOBS_API_URL)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log navigation details to stderr")

	root.AddCommand(
		newRoutesCmd(opts),
		newResolveCmd(opts),
		newNavigateCmd(opts),
	)
	return root
}

func (o *options) client() (*jobs.Client, error) {
	return jobs.NewClient(jobs.ClientConfig{
		BaseURL:           o.cfg.JobsAPI.BaseURL,
		RequestsPerSecond: o.cfg.JobsAPI.RequestsPerSecond,
		Burst:             o.cfg.JobsAPI.Burst,
	})
}

func (o *options) tree() (*route.Tree, error) {
	client, err := o.client()
	if err != nil {
		return nil, err
	}
	return site.Routes(client)
}
