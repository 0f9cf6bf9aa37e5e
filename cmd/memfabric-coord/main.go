// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/luxfi/memfabric-coord/internal/config"
	"github.com/luxfi/memfabric-coord/internal/httpapi"
	"github.com/luxfi/memfabric-coord/internal/logging"
	"github.com/luxfi/memfabric-coord/internal/store"
	"github.com/luxfi/memfabric-coord/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "memfabric-coord:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()

	flag.StringVar(&cfg.Host, "host", cfg.Host, "address to bind")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "port to bind")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	tel, err := telemetry.New()
	if err != nil {
		return fmt.Errorf("build telemetry: %w", err)
	}

	st := store.New(logger)
	server := httpapi.New(st, logger, tel)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("starting memfabric-coord",
		zap.String("addr", cfg.Addr()),
	)
	logger.Info("endpoints:")
	logger.Info("  GET  /healthz")
	logger.Info("  GET  /metrics")
	logger.Info("  POST /v1/registry/assign")
	logger.Info("  POST /v1/registry/register")
	logger.Info("  POST /v1/registry/ready")
	logger.Info("  POST /v1/registry/poll")
	logger.Info("  POST /v1/registry/complete")
	logger.Info("  POST /v1/registry/wait")

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
