// Package main initializes and starts the noteshare HTTP server,
// setting up configuration, logging, database connections, the blob
// store, repositories, services and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"noteshare/internal/config"
	"noteshare/internal/db"
	"noteshare/internal/logger"
	"noteshare/internal/metrics"
	"noteshare/internal/middleware"
	"noteshare/internal/repository"
	"noteshare/internal/security"
	"noteshare/internal/server/handler/http"
	"noteshare/internal/service"
	"noteshare/internal/storage"
)

// tokenTTL bounds the lifetime of issued bearer tokens.
const tokenTTL = 30 * 24 * time.Hour

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and run migrations.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Reap expired sessions in the background.
	db.StartSessionCleaner(context.Background(), postgresDB,
		time.Hour, // interval
		zapLogger,
	)

	// Initialize the blob store for uploaded files.
	blobs, err := storage.NewDiskBlobStore(options.UploadDir)
	if err != nil {
		zapLogger.Fatal("cannot init blob store", zap.Error(err))
	}

	// Initialize repositories for users, sessions and notes.
	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	sessionRepo := repository.NewPostgresSessionRepository(postgresDB)
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(authRepo, sessionRepo, tokenTTL)
	noteService := service.NewNoteService(noteRepo, blobs, security.NewTextSanitizer(), zapLogger)

	// Initialize metrics and rate limiting.
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())

	// Create HTTP handlers for auth and note endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	noteHandler := &http.NoteHandler{NoteService: noteService, Metrics: collector}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, noteHandler, authService, limiter, collector, registry, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
