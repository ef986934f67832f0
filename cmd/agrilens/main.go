package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FrenchMajesty/agrilens/internal/config"
	"github.com/FrenchMajesty/agrilens/internal/logging"
)

// app carries state shared by every subcommand of one invocation
type app struct {
	// Global flags
	configPath string
	verbose    bool
	jsonLog    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call returns an independent tree.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "agrilens",
		Short: "AgriLens farm telemetry toolkit",
		Long: `agrilens formats, classifies and exports farm sensor telemetry, and talks
to the AgriLens backend for farm dashboards.

Configuration is read from --config (YAML), then .env, then AGRILENS_* variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := cfg.Logging.Level
			if a.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, a.jsonLog || cfg.Logging.JSON)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.jsonLog, "json-log", false, "emit logs as JSON")

	rootCmd.AddCommand(
		a.statusCmd(),
		a.formatCmd(),
		a.validateCmd(),
		a.distanceCmd(),
		a.exportCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.overviewCmd(),
	)
	return rootCmd
}

func (a *app) printf(cmd *cobra.Command, template string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), template, args...)
}
