package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vanshika/osintportal/internal/config"
	"github.com/vanshika/osintportal/internal/generator"
	"github.com/vanshika/osintportal/internal/logging"
	"github.com/vanshika/osintportal/internal/server"
	"github.com/vanshika/osintportal/internal/service"
	"github.com/vanshika/osintportal/internal/store"
)

func main() {
	configPath := flag.String("config", os.Getenv("OSINT_CONFIG"), "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	defer func() { _ = logger.Sync() }()

	lookupStore := store.New(store.Options{
		TTL:             cfg.Store.TTL,
		CleanupInterval: cfg.Store.CleanupInterval,
	}, logger)
	defer func() {
		if err := lookupStore.Close(); err != nil {
			logger.Warn("closing lookup store failed", zap.Error(err))
		}
	}()

	lookupService := service.NewLookupService(
		lookupStore,
		generator.New(generator.Config{Seed: cfg.Lookup.Seed}),
		service.Options{
			UsernameDelay: cfg.Lookup.UsernameDelay,
			AnalysisDelay: cfg.Lookup.AnalysisDelay,
		},
		logger,
	)
	defer lookupService.Close()

	pages, err := server.NewPageHandlers(logger, lookupService)
	if err != nil {
		logger.Error("failed to build page handlers", zap.Error(err))
		os.Exit(1)
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: lookupStore},
		API:              server.NewAPIHandlers(logger, lookupService),
		Pages:            pages,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: cfg.HTTP.AllowCredentials,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
