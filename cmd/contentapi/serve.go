package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dbRedis "github.com/zeit-online/contentapi/internal/db/redis"
	"github.com/zeit-online/contentapi/internal/metrics"
	usagerepo "github.com/zeit-online/contentapi/internal/repository/usage"
	"github.com/zeit-online/contentapi/internal/transport/captcha"
	chiTransport "github.com/zeit-online/contentapi/internal/transport/chi"
	"github.com/zeit-online/contentapi/internal/usecase/access"
	healthuc "github.com/zeit-online/contentapi/internal/usecase/health"
	"github.com/zeit-online/contentapi/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		return a.serve(cmd.Context())
	},
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("Starting content API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("database", cfg.Database.Path),
		zap.String("search", cfg.Search.URL),
		zap.String("counters", cfg.Access.Counters),
	)

	metrics.RegisterDomainMetrics()

	search := a.searchClient()
	ingester := a.ingester(search)

	deps := chiTransport.Deps{
		Store:  a.store,
		Engine: search,
		Captcha: captcha.New(captcha.Config{
			VerifyURL:  cfg.Captcha.VerifyURL,
			PrivateKey: cfg.Captcha.PrivateKey,
			TestMode:   cfg.Captcha.TestMode,
			Timeout:    time.Duration(cfg.Captcha.TimeoutSec) * time.Second,
		}),
		Ingest: ingester,
		Health: healthuc.New(a.store, search),
	}

	if cfg.Access.Counters == "redis" {
		counters, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Redis.Addrs,
			Password: cfg.Redis.Password,
		})
		if err != nil {
			return fmt.Errorf("create counter store: %w", err)
		}
		defer counters.Close()

		timeout := time.Duration(cfg.Redis.ReadinessTimeout) * time.Second
		if err := counters.WaitForReady(ctx, timeout); err != nil {
			return fmt.Errorf("counter store not ready: %w", err)
		}
		logger.Info("Connected to counter store", zap.Strings("addrs", cfg.Redis.Addrs))
		deps.Usage = usagerepo.New(counters, cfg.Redis.KeyPrefix)
	}

	if cfg.Ingest.Schedule != "" {
		sched, err := ingester.Schedule(cfg.Ingest.Schedule)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("Metadata ingestion scheduled", zap.String("schedule", cfg.Ingest.Schedule))
	}

	server := chiTransport.NewServer(deps, chiTransport.Config{
		APIURL:     cfg.HTTP.APIURL,
		ServerName: cfg.HTTP.ServerName,
		Access: access.Config{
			Timeframe: time.Duration(cfg.Access.TimeframeSec) * time.Second,
			Tiers:     a.tiers(),
		},
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-quit:
		logger.Info("Received shutdown signal")
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
