// Package stats reconciles the per-user counters with the entry table. The
// moderation path increments counters atomically as decisions land; this
// synchronizer recomputes them from scratch so any drift (crashed requests,
// manual data fixes) heals on the next run. Running it twice in a row is a
// no-op.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

type userRepo interface {
	ComputeStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)
	UpdateStats(ctx context.Context, stats *domain.UserStats) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Service recomputes derived user counters.
type Service struct {
	users userRepo
	log   *slog.Logger
}

// NewService creates a new stats service.
func NewService(log *slog.Logger, users userRepo) *Service {
	return &Service{
		users: users,
		log:   log.With("service", "stats"),
	}
}

// Sync recomputes one user's counters from the entry table and stores them.
func (s *Service) Sync(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.NewValidationError("user_id", "required")
	}

	stats, err := s.users.ComputeStats(ctx, userID)
	if err != nil {
		return fmt.Errorf("compute stats for %s: %w", userID, err)
	}
	if err := s.users.UpdateStats(ctx, stats); err != nil {
		return fmt.Errorf("update stats for %s: %w", userID, err)
	}

	s.log.InfoContext(ctx, "user stats synced",
		slog.String("user_id", userID.String()),
		slog.Int("contribution_count", stats.ContributionCount),
		slog.Int("review_count", stats.ReviewCount),
	)
	return nil
}

// SyncAll reconciles every user. A failing user is logged and skipped so one
// bad row cannot stall the whole run; the first error is reported after the
// sweep completes.
func (s *Service) SyncAll(ctx context.Context) (int, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var synced int
	var firstErr error
	for _, id := range ids {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if err := s.Sync(ctx, id); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return synced, err
			}
			s.log.ErrorContext(ctx, "user sync failed",
				slog.String("user_id", id.String()),
				slog.Any("error", err),
			)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		synced++
	}

	return synced, firstErr
}
