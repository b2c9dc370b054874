// Package main is the gramconnect binary: the matching engine HTTP service
// plus offline training, one-shot recommendation and mock data commands.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Anurag9000/Gram-Connect/internal/config"
	"github.com/Anurag9000/Gram-Connect/pkg/logger"
)

const appName = "gramconnect"

func main() {
	if err := rootCmd().Execute(); err != nil {
		// Use fmt since the logger may not be initialised yet.
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Volunteer team matching engine",
		Long: `gramconnect recommends volunteer teams for village problem reports.

Without a subcommand it runs the HTTP service (same as "gramconnect serve").
Configuration is layered: defaults, then the YAML file named by --config or
GRAM_CONFIG, then GRAM_* environment variables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g)
		},
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML config file (overrides GRAM_CONFIG)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(g), trainCmd(g), recommendCmd(g), mockdataCmd(g))
	return cmd
}

// setup loads configuration and initialises logging to logs from it.
func (g *globalFlags) setup(ctx context.Context, logs io.Writer) (*config.Config, error) {
	if g.configPath != "" {
		if err := os.Setenv(config.EnvConfigFile, g.configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if err := logger.Init(
		logger.WithLevel(cfg.LogLevel),
		logger.WithFormat(cfg.LogFormat),
		logger.WithWriter(logs),
	); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	return cfg, nil
}
