// Casavia - Interior Design Studio Media & Inquiry API
// Copyright 2026 Casavia Studio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/casavia/casavia

// Command server runs the Casavia HTTP API.
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

	"github.com/casavia/casavia/internal/api"
	"github.com/casavia/casavia/internal/auth"
	"github.com/casavia/casavia/internal/config"
	"github.com/casavia/casavia/internal/database"
	"github.com/casavia/casavia/internal/logging"
	"github.com/casavia/casavia/internal/media"
	"github.com/casavia/casavia/internal/ratelimit"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Casavia server")

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var codec *auth.TokenCodec
	if cfg.Security.JWTSecret != "" {
		codec, err = auth.NewTokenCodec(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
		if err != nil {
			return fmt.Errorf("failed to build token codec: %w", err)
		}
	} else {
		logging.Warn().Msg("JWT secret not configured, admin login disabled")
	}

	mediaClient := media.NewClient(cfg.Media)
	if !mediaClient.Configured() {
		logging.Warn().Msg("Media CDN not configured, uploads disabled")
	}

	rl := cfg.Security.RateLimit
	limiter := ratelimit.New(ratelimit.Config{
		PublicMax:     rl.PublicMax,
		AdminMax:      rl.AdminMax,
		Window:        rl.Window,
		BlockDuration: rl.BlockDuration,
		CacheCapacity: rl.CacheCapacity,
	})
	limit := ratelimit.NewMiddleware(limiter, rl.Disabled, cfg.Security.TrustedProxies)
	if rl.Disabled {
		logging.Warn().Msg("Rate limiting is disabled")
	}

	handler := api.NewHandler(cfg, db, mediaClient, codec)
	gate := auth.NewGate(codec, cfg.Security.AdminAPIKey)
	router := api.NewRouter(handler, gate, limit, cfg.Security.CORSOrigins)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}
