package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/copyleftdev/dualopt/internal/config"
	"github.com/copyleftdev/dualopt/internal/logging"
)

type rootOptions struct {
	logLevel string
	cfg      *config.Config
	logger   *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "dualopt",
		Short: "Unconstrained minimization with automatic derivatives",
		Long: `dualopt minimizes catalogued test problems with steepest descent,
nonlinear conjugate gradients, BFGS or trust-region Newton-CG. Gradients and
Hessians come from dual and hyperdual number arithmetic.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := opts.logLevel
			if _, set := os.LookupEnv("LOG_LEVEL"); set && !cmd.Flags().Changed("log-level") {
				level = cfg.Logging.Level
			}
			opts.logger = logging.New(logging.ParseLevel(level), cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error); LOG_LEVEL applies when unset")
	cmd.AddCommand(newRunCmd(opts), newProblemsCmd())
	return cmd
}
