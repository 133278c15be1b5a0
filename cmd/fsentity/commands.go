package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/fsentity/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsentity/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsentity/internal/logging"
	"github.com/GriffinCanCode/fsentity/pkg/entity"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	configPath string
	logLevel   string

	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fsentity",
		Short: "Copy, move and inspect files and directories as entities",
		Long: `fsentity treats files and directories alike. Exact-path copies and
moves that hit an existing destination are replaced by default; use
--on-conflict=fail to stop instead.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (environment variables still override it)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		a.newCopyCmd(),
		a.newMoveCmd(),
		a.newRenameCmd(),
		a.newDeleteCmd(),
		a.newStatCmd(),
		a.newSizeCmd(),
		a.newLsCmd(),
		a.newServeCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.logger, err = logging.New(logging.Config{
		Level:       a.cfg.Logging.Level,
		Development: a.cfg.Logging.Development,
	})
	if err != nil {
		return err
	}

	// CLI runs are short-lived; counters feed the debug summary only.
	a.metrics = monitoring.NewMetrics(prometheus.NewRegistry())
	return nil
}

func (a *app) options() []entity.Option {
	return []entity.Option{
		entity.WithLogger(a.logger.Logger),
		entity.WithObserver(a.metrics),
	}
}
