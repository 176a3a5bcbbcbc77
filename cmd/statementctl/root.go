package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lamdaser/statements/internal/app"
)

var version = "1.0.0"

// env is resolved once per invocation by the root command.
type env struct {
	cfg      *app.Config
	logger   *slog.Logger
	services *app.Services
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "statementctl",
		Short: "Customer account statements from the command line",
		Long: `statementctl reads the same configuration as the statements server
(environment variables or a .env file) and talks to the upstream API directly.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.services.Close()
		},
	}
	root.AddCommand(newSearchCmd(e), newExportCmd(e), newJobsCmd(e))
	return root
}

func (e *env) load(cmd *cobra.Command) (*app.Services, error) {
	if e.services != nil {
		return e.services, nil
	}
	services, err := app.NewServices(cmd.Context(), e.cfg, e.logger)
	if err != nil {
		return nil, err
	}
	e.services = services
	return services, nil
}
