// Package submission implements the contributor-facing submission workflow:
// new canonical expressions and regional variants of approved ones. All
// submissions land in the moderation queue as PENDING.
package submission

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/metrics"
)

type entryRepo interface {
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	GetByID(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error)
}

type exampleRepo interface {
	CreateBatch(ctx context.Context, examples []domain.ExampleSentence) error
}

type userRepo interface {
	EnsureExists(ctx context.Context, userID uuid.UUID) error
}

type chainValidator interface {
	ValidateChain(ctx context.Context, chain domain.TaxonomyChain) error
	ChainForLeaf(ctx context.Context, leafID uuid.UUID) (domain.TaxonomyChain, error)
}

type textNormalizer interface {
	Normalize(ctx context.Context, text string) normalizer.Result
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Limits bounds the size of a submission. Zero values fall back to defaults.
type Limits struct {
	MaxTextLength       int
	MaxDefinitionLength int
	MaxExamplesPerEntry int
}

// DefaultLimits returns the limits used when the config leaves them unset.
func DefaultLimits() Limits {
	return Limits{
		MaxTextLength:       200,
		MaxDefinitionLength: 2000,
		MaxExamplesPerEntry: 10,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxTextLength <= 0 {
		l.MaxTextLength = d.MaxTextLength
	}
	if l.MaxDefinitionLength <= 0 {
		l.MaxDefinitionLength = d.MaxDefinitionLength
	}
	if l.MaxExamplesPerEntry <= 0 {
		l.MaxExamplesPerEntry = d.MaxExamplesPerEntry
	}
	return l
}

// Service provides submission operations.
type Service struct {
	entries    entryRepo
	examples   exampleRepo
	users      userRepo
	taxonomy   chainValidator
	normalizer textNormalizer
	tx         txManager
	metrics    *metrics.Metrics
	limits     Limits
	log        *slog.Logger
}

// NewService creates a new submission service.
func NewService(
	log *slog.Logger,
	entries entryRepo,
	examples exampleRepo,
	users userRepo,
	taxonomy chainValidator,
	norm textNormalizer,
	tx txManager,
	m *metrics.Metrics,
	limits Limits,
) *Service {
	return &Service{
		entries:    entries,
		examples:   examples,
		users:      users,
		taxonomy:   taxonomy,
		normalizer: norm,
		tx:         tx,
		metrics:    m,
		limits:     limits.withDefaults(),
		log:        log.With("service", "submission"),
	}
}

// trimOrNil trims whitespace. Returns nil if result is empty.
func trimOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
