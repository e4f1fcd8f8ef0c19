// Package moderation implements the human review workflow: the queue of
// pending submissions and the decision that settles each one. Decisions are
// written with a status guard so two moderators racing on the same entry
// cannot both win.
package moderation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/metrics"
)

const (
	DefaultQueueLimit = 50
	MaxQueueLimit     = 200
)

type entryRepo interface {
	ApplyDecision(ctx context.Context, upd domain.DecisionUpdate) (*domain.Entry, error)
	ListByStatus(ctx context.Context, status domain.EntryStatus, limit, offset int) ([]domain.Entry, int, error)
}

type exampleRepo interface {
	ReplaceAll(ctx context.Context, expressionID uuid.UUID, examples []domain.ExampleSentence) error
	ListByExpressionID(ctx context.Context, expressionID uuid.UUID) ([]domain.ExampleSentence, error)
}

type userRepo interface {
	IncrementContributionCount(ctx context.Context, userID uuid.UUID) error
	IncrementReviewCount(ctx context.Context, userID uuid.UUID) error
}

type textNormalizer interface {
	Normalize(ctx context.Context, text string) normalizer.Result
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides moderation operations.
type Service struct {
	entries    entryRepo
	examples   exampleRepo
	users      userRepo
	normalizer textNormalizer
	tx         txManager
	metrics    *metrics.Metrics
	now        func() time.Time
	log        *slog.Logger
}

// NewService creates a new moderation service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	examples exampleRepo,
	users userRepo,
	norm textNormalizer,
	tx txManager,
	m *metrics.Metrics,
) *Service {
	return &Service{
		entries:    entries,
		examples:   examples,
		users:      users,
		normalizer: norm,
		tx:         tx,
		metrics:    m,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.With("service", "moderation"),
	}
}
