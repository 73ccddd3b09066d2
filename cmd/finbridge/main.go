package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"finbridge/internal/refresher"
	"finbridge/internal/remote"
	"finbridge/internal/repository"
	"finbridge/internal/shared/config"
	"finbridge/internal/shared/telemetry"
	"finbridge/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "finbridge: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Environment:  cfg.Telemetry.Environment,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("telemetry shutdown", zap.Error(err))
			}
		}()
	}

	httpClient := transport.DefaultClient(transport.Options{
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout,
	})
	api := remote.NewClient(httpClient, cfg.API.BaseURL)
	repo := repository.New(api, logger)

	logger.Info("finbridge started",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Bool("refresher_enabled", cfg.Refresher.Enabled))

	var ref *refresher.Refresher
	if cfg.Refresher.Enabled {
		ref = refresher.New(refresher.Config{
			Interval:     cfg.Refresher.Interval,
			WorkerCount:  cfg.Refresher.WorkerCount,
			QueueSize:    cfg.Refresher.QueueSize,
			RunOnStartup: cfg.Refresher.RunOnStartup,
		}, []refresher.Job{
			refresher.NewAccountRefreshJob(repo, logger),
			refresher.NewMonthlySummaryJob(repo, logger),
		}, logger)
		ref.Start()
	} else {
		logger.Info("refresher is disabled")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if ref != nil {
		ref.Shutdown()
	}
	return nil
}
