// Package cli exposes the staffhive command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"staffhive/internal/app/server"
	"staffhive/internal/platform/config"
	"staffhive/internal/platform/logger"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "staffhive",
	Short:         "Staff Hive Central HR backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", ".", "directory holding an optional config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(importCmd)
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return config.Config{}, err
	}
	logger.Init(cfg.Environment)
	return cfg, nil
}

// openApp builds the application without serving HTTP, for one-shot commands.
func openApp(ctx context.Context) (*server.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return server.New(ctx, cfg)
}
