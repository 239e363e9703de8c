package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kyaoi/paperview/internal/app"
	"github.com/kyaoi/paperview/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "paperview [file]",
	Short: "Terminal reader for paper analyses",
	Long: `paperview shows a paper analysis in the terminal with a sidebar that
jumps between its sections. Without arguments it opens the bundled analysis
of "Nonlinear Time Series Momentum".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closeLog, err := setup()
		if err != nil {
			return err
		}
		defer closeLog()

		return app.Run(cfg, targetArg(args), logger)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".paperview.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to the log file")
}

// setup loads and validates the configuration and prepares the logger.
func setup() (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if verbose && cfg.Log.Level == "none" {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger, closeLog, err := cfg.Log.Prepare(verbose)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Debug("config loaded", zap.String("path", cfgFile), zap.String("style", cfg.Style))
	return cfg, logger, closeLog, nil
}

func targetArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return filepath.Clean(args[0])
}
