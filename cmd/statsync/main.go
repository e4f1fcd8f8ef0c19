// Command statsync recomputes denormalized user contribution counters from
// the entries table. It is intended to run periodically (cron) to repair any
// drift in the incrementally maintained counts.
//
// Flags:
//
//	--user  sync a single user by UUID instead of all users
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/postgres"
	userpg "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/user"
	"github.com/jyutlore/jyutlore-backend/internal/app"
	"github.com/jyutlore/jyutlore-backend/internal/config"
	"github.com/jyutlore/jyutlore-backend/internal/service/stats"
)

func main() {
	userFlag := flag.String("user", "", "sync a single user by UUID")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := stats.NewService(logger, userpg.New(pool))

	if *userFlag != "" {
		userID, err := uuid.Parse(*userFlag)
		if err != nil {
			logger.Error("invalid user id", slog.String("user", *userFlag))
			os.Exit(1)
		}
		if err := svc.Sync(ctx, userID); err != nil {
			logger.Error("sync user", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("user stats synced", slog.String("user_id", userID.String()))
		return
	}

	synced, err := svc.SyncAll(ctx)
	if err != nil {
		logger.Error("sync finished with errors",
			slog.Int("synced", synced),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	logger.Info("all user stats synced", slog.Int("synced", synced))
}
