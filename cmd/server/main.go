// CyclingDB - Pro Cycling Manager Rider Database Browser
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cyclingdb

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cyclingdb/internal/api"
	"github.com/tomtom215/cyclingdb/internal/config"
	"github.com/tomtom215/cyclingdb/internal/loader"
	"github.com/tomtom215/cyclingdb/internal/logging"
	"github.com/tomtom215/cyclingdb/internal/middleware"
	"github.com/tomtom215/cyclingdb/internal/supervisor"
	"github.com/tomtom215/cyclingdb/internal/supervisor/services"
)

// performanceWindow is how many recent requests the performance report keeps.
const performanceWindow = 1000

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Str("riders_path", cfg.Data.Path).
		Bool("remote_source", cfg.Data.SourceURL != "").
		Bool("admin_token", cfg.Security.AdminToken != "").
		Msg("Starting CyclingDB")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l := loader.New(loader.Options{
		Path:            cfg.Data.Path,
		SourceURL:       cfg.Data.SourceURL,
		FetchTimeout:    cfg.Data.FetchTimeout,
		BreakerFailures: cfg.Data.BreakerFailures,
		BreakerTimeout:  cfg.Data.BreakerTimeout,
	})
	memo := loader.NewMemo(l, cfg.Data.ReloadInterval)
	perfMon := middleware.NewPerformanceMonitor(performanceWindow, cfg.Server.SlowRequest)

	handler := api.NewHandler(cfg, memo, perfMon)
	handler.SetBreakerReporter(l)
	defer handler.Close()

	// Nothing can be served without a dataset, so a failed first load is fatal.
	if err := handler.Load(ctx); err != nil {
		handler.Close()
		logging.Fatal().Err(err).Msg("Failed to load rider dataset")
	}

	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)), perfMon)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		handler.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Data.RefreshInterval > 0 {
		tree.AddDataService(services.NewRefreshService(handler, cfg.Data.RefreshInterval))
		logging.Info().Dur("interval", cfg.Data.RefreshInterval).Msg("Scheduled dataset refresh enabled")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("CyclingDB stopped")
}
