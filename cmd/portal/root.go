// cmd/portal/root.go
package main

import (
	"github.com/spf13/cobra"

	"interview-portal/internal/common/config"
	"interview-portal/internal/common/logger"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func NewRoot() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "portal",
		Short:         "Candidate portal backend: application wizard, interview sessions and toasts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a config file (default: configs/config.yaml)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Force debug logging")

	root.AddCommand(
		ServeCmd(opts),
		MigrateCmd(opts),
		JobsCmd(opts),
	)
	return root
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

// newLogger returns the structured logger and a flush func for deferred use.
func (o *rootOptions) newLogger(cfg *config.Config) (logger.Logger, func()) {
	level := cfg.Logging.Level
	if o.debug {
		level = "debug"
	}
	zl := logger.New(level, cfg.Logging.Format)
	return logger.NewZapAdapter(zl), func() { _ = zl.Sync() }
}
