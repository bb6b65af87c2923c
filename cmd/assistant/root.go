package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aretw0/assistant/internal/config"
	"github.com/aretw0/assistant/internal/logging"
	"github.com/aretw0/assistant/internal/platform"
)

var (
	cfgFile  string
	cfg      config.Config
	logger   *zap.Logger
	closeLog = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "assistant",
	Short: "State core of the Erika and Marvin assistant dashboards",
	Long: `assistant manages the client-side state of an assistant product.
It validates backend payloads against contract schemas, applies actions to
the persisted state snapshot, and watches drop folders for files to ingest.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		path := cfgFile
		if path == "" {
			if wd, err := os.Getwd(); err == nil {
				if found, err := platform.FindConfig(wd); err == nil {
					path = found
				}
			}
		}

		var err error
		cfg, err = config.Load(path, cmd.Flags())
		if err != nil {
			fatal("Error loading config", err)
		}
		logger, closeLog = logging.New(cfg.Log, os.Stderr)
		logger.Debug("config loaded", zap.String("path", path), zap.String("product", cfg.Product))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: assistant.yaml in this or a parent directory)")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("product", "", "Product to operate on (erika, marvin)")
	flags.String("data-mode", "", "Data mode for a fresh state (mock, live)")
	flags.String("state", "", "Path of the state snapshot")
	flags.String("format", "", "Snapshot format (json, yaml); derived from the path when empty")
	flags.String("log-file", "", "Also write JSON logs to this file, rotated")
}

// openInstance opens the configured product or exits.
func openInstance(ctx context.Context, readOnly bool) *platform.Instance {
	inst, err := platform.Open(ctx, cfg,
		platform.WithLogger(logger),
		platform.WithReadOnly(readOnly),
		platform.WithErrorHandler(func(err error) {
			logger.Error("background error", zap.Error(err))
		}),
	)
	if err != nil {
		fatal("Error opening state", err)
	}
	return inst
}

// readInput reads the named file, or stdin for "-" or no name.
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(args[0])
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no such file: %s", args[0])
	}
	return data, err
}
