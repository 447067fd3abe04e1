package main

import (
	"fmt"
	"os"

	"github.com/gissleh/predpatt"
	"github.com/gissleh/predpatt/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose    bool
	configPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "predpatt",
	Short: "Predicate-argument extraction from Universal Dependencies parses",
	Long: `predpatt finds predicates and their arguments in dependency parsed sentences.

Input is CoNLL-U. Output is the classic pretty print, JSON, a semantic graph or
the linearized form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a yaml config file")

	rootCmd.AddCommand(extractCmd, serveCmd, importCmd)
}

// loadConfig reads the config file if one was given. Flags set on the command line take precedence.
func loadConfig(cmd *cobra.Command) (*service.Config, error) {
	conf := &service.Config{Options: predpatt.DefaultOptions()}
	if configPath != "" {
		var err error
		conf, err = service.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}

	if err := applyOptionFlags(cmd, &conf.Options); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("workers") {
		conf.Workers, _ = cmd.Flags().GetInt("workers")
	}

	return conf, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
