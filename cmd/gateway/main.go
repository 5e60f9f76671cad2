package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitos/faucet_gateway/internal/config"
	"github.com/vitos/faucet_gateway/internal/infrastructure/coingecko"
	"github.com/vitos/faucet_gateway/internal/infrastructure/logger"
	"github.com/vitos/faucet_gateway/internal/infrastructure/metrics"
	"github.com/vitos/faucet_gateway/internal/infrastructure/storage"
	"github.com/vitos/faucet_gateway/internal/usecase"
	"github.com/vitos/faucet_gateway/internal/web"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Init Logger
	var log *zap.Logger
	if cfg.Logging.File != "" {
		log, err = logger.NewFileLogger(cfg.Logging.File, cfg.Logging.Level)
	} else {
		log, err = logger.NewLogger(cfg.Logging.Level)
	}
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	priceOpts := []usecase.PriceStoreOption{usecase.WithPriceMetrics(m), usecase.WithBaseContext(ctx)}
	forwarderOpts := []usecase.ForwarderOption{usecase.WithRelayMetrics(m)}

	// 3. Init Storage (optional)
	if cfg.Storage.Path != "" {
		store, err := storage.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			log.Fatal("Failed to init sqlite", zap.Error(err))
		}
		defer store.Close()
		priceOpts = append(priceOpts, usecase.WithSnapshotRepository(store))
		forwarderOpts = append(forwarderOpts, usecase.WithClaimRepository(store))
	}

	// 4. Init Price Store
	source := coingecko.NewClient(cfg.Prices.APIKey, cfg.Prices.BaseURL, time.Duration(cfg.Prices.TimeoutMs)*time.Millisecond)
	prices := usecase.NewPriceStore(source, cfg.Tokens, log, priceOpts...)
	if cfg.Prices.WarmOnBoot {
		prices.Init()
	}

	// 5. Init Forwarder
	forwarder := usecase.NewForwarder(cfg.Forwarder.BackendURL, cfg.Forwarder.ClaimBackendURL, log, forwarderOpts...)
	log.Info("Relay configured",
		zap.String("backend", cfg.Forwarder.BackendURL),
		zap.String("claim_backend", cfg.Forwarder.ClaimBackendURL),
		zap.String("price_api", source.BaseURL()),
		zap.Int("tokens", len(cfg.Tokens)))

	// 6. Init Web Server
	server := web.NewServer(cfg.Server.Port, forwarder, prices, m, log)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// 7. Wait for Shutdown
	<-stop

	log.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown failed", zap.Error(err))
	}
}
