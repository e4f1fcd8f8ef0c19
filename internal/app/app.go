// Package app wires configuration, storage, adapters, services, and the HTTP
// transport into a running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/postgres"
	entrypg "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/entry"
	examplepg "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/example"
	taxonomypg "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/taxonomy"
	userpg "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/user"
	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/assistant"
	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/auth"
	"github.com/jyutlore/jyutlore-backend/internal/config"
	"github.com/jyutlore/jyutlore-backend/internal/metrics"
	"github.com/jyutlore/jyutlore-backend/internal/service/catalog"
	"github.com/jyutlore/jyutlore-backend/internal/service/duplicates"
	"github.com/jyutlore/jyutlore-backend/internal/service/moderation"
	"github.com/jyutlore/jyutlore-backend/internal/service/stats"
	"github.com/jyutlore/jyutlore-backend/internal/service/submission"
	"github.com/jyutlore/jyutlore-backend/internal/service/suggestion"
	"github.com/jyutlore/jyutlore-backend/internal/taxonomy"
	"github.com/jyutlore/jyutlore-backend/internal/transport/middleware"
	"github.com/jyutlore/jyutlore-backend/internal/transport/rest"
)

// Run builds the application from configuration and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting jyutlore backend",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	entries := entrypg.New(pool)
	examples := examplepg.New(pool)
	taxonomyRepo := taxonomypg.New(pool)
	users := userpg.New(pool)
	txManager := postgres.NewTxManager(pool)

	index := taxonomy.NewIndex(taxonomyRepo, cfg.Taxonomy.CacheTTL, cfg.Taxonomy.CacheCleanup, logger)
	norm := normalizer.NewClient(cfg.Normalizer.BaseURL, cfg.Normalizer.Timeout, logger)

	var m *metrics.Metrics
	var registry *prometheus.Registry
	if cfg.Server.MetricsEnabled {
		registry = prometheus.NewRegistry()
		m, err = metrics.New(registry)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	submissionSvc := submission.NewService(logger, entries, examples, users, index, norm, txManager, m,
		submission.Limits{
			MaxTextLength:       cfg.Submission.MaxTextLength,
			MaxDefinitionLength: cfg.Submission.MaxDefinitionLength,
			MaxExamplesPerEntry: cfg.Submission.MaxExamplesPerEntry,
		})
	moderationSvc := moderation.NewService(logger, entries, examples, users, norm, txManager, m)
	duplicatesSvc := duplicates.NewService(logger, entries, norm, cfg.Submission.DuplicateLimit)

	var suggestionSvc *suggestion.Service
	if cfg.Assistant.Enabled() {
		client := assistant.NewClient(cfg.Assistant.APIKey, cfg.Assistant.Model, cfg.Assistant.Timeout, logger)
		suggestionSvc = suggestion.NewService(logger, client, index, m)
	} else {
		logger.Warn("assistant disabled: no API key configured")
		suggestionSvc = suggestion.NewService(logger, assistant.Disabled{}, index, m)
	}

	catalogSvc := catalog.NewService(logger, entries, examples)
	statsSvc := stats.NewService(logger, users)

	validator := auth.NewJWTValidator(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	mux := rest.NewRouter(rest.Handlers{
		Health:          rest.NewHealthHandler(pool, BuildVersion()),
		Submission:      rest.NewSubmissionHandler(submissionSvc, logger),
		Moderation:      rest.NewModerationHandler(moderationSvc, logger),
		Duplicates:      rest.NewDuplicatesHandler(duplicatesSvc, logger),
		Assist:          rest.NewAssistHandler(suggestionSvc, logger),
		Catalog:         rest.NewCatalogHandler(catalogSvc, index, logger),
		Stats:           rest.NewStatsHandler(statsSvc, logger),
		MetricsRegistry: registry,
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(validator),
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(time.Minute)
		defer limiter.Stop()
		mws = append(mws, limiter.Limit(cfg.Server.RateLimitPerMinute))
	}

	handler := middleware.Chain(mws...)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
