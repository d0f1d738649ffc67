package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/config"
	"github.com/zeit-online/contentapi/internal/db/sqlite"
	"github.com/zeit-online/contentapi/internal/domain"
	logpkg "github.com/zeit-online/contentapi/internal/logger"
	"github.com/zeit-online/contentapi/internal/version"
)

var (
	envFlag = config.GetEnv()

	rootCmd = &cobra.Command{
		Use:           "contentapi",
		Short:         "REST gateway to the content archive search index",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", envFlag, "config environment (local, dev, prod)")

	rootCmd.AddCommand(serveCmd, clientCmd, ingestCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app bundles what every command needs.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
	store  *sqlite.Store
}

// setup loads configuration, builds the logger and opens the row store.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFlag)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(envFlag, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	store, err := sqlite.Open(ctx, sqlite.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: time.Duration(cfg.Database.BusyTimeoutSec) * time.Second,
	})
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	return &app{env: envFlag, cfg: cfg, logger: logger, store: store}, nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}

// tiers converts the configured quotas to domain tiers.
func (a *app) tiers() domain.Tiers {
	out := make(domain.Tiers, len(a.cfg.Access.Tiers))
	for name, quota := range a.cfg.Access.Tiers {
		out[domain.Tier(name)] = quota
	}
	return out
}
