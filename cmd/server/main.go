// Package main initializes and starts the LinkHub API server, setting up
// configuration, logging, database connections, repositories, services,
// handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/LinkHub/internal/auth"
	"github.com/atinyakov/LinkHub/internal/config"
	"github.com/atinyakov/LinkHub/internal/db"
	"github.com/atinyakov/LinkHub/internal/logger"
	"github.com/atinyakov/LinkHub/internal/middleware"
	"github.com/atinyakov/LinkHub/internal/models"
	"github.com/atinyakov/LinkHub/internal/repository"
	"github.com/atinyakov/LinkHub/internal/server/handler/http"
	"github.com/atinyakov/LinkHub/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse YAML, command-line and environment configuration.
	options, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer func() { _ = postgresDB.Close() }()

	// Initialize repositories for accounts and pages.
	accountRepo := &repository.PostgresAccountRepository{DB: postgresDB}
	pageRepo := &repository.PostgresPageRepository{DB: postgresDB}

	// Initialize credential primitives.
	hasher := auth.NewBcryptHasher(options.Password.Cost)
	tokens := auth.NewTokenService([]byte(options.Token.Secret), options.Token.TTLHours)

	// Initialize business-logic services.
	defaults := service.PageDefaults{
		Photo:           options.Page.DefaultPhoto,
		FontColor:       options.Page.DefaultFontColor,
		BackgroundType:  string(models.BackgroundColor),
		BackgroundValue: options.Page.DefaultBackgroundValue,
	}
	if err := defaults.Validate(); err != nil {
		zapLogger.Fatal("invalid page defaults", zap.Error(err))
	}
	accountService := service.NewAccountService(accountRepo, hasher)
	pageService := service.NewPageService(pageRepo, accountService, defaults)

	// Create HTTP handlers for account and page endpoints.
	accountHandler := &http.AccountHandler{Accounts: accountService, Tokens: tokens, Log: zapLogger}
	pageHandler := &http.PageHandler{Pages: pageService, Log: zapLogger}
	gate := middleware.NewAuthenticator(tokens, accountService, zapLogger)

	// Build the router with middleware and routes.
	router := http.NewRouter(accountHandler, pageHandler, gate, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if options.TLS.Cert != "" {
			zapLogger.Info("starting HTTPS server", zap.String("addr", options.Address))
			errCh <- server.ListenAndServeTLS(options.TLS.Cert, options.TLS.Key)
			return
		}
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
