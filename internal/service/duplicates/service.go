// Package duplicates finds approved canonical entries that may describe the
// same expression as a new submission. Results are advisory: they let the
// contributor pick between creating a new entry and attaching a variant, and
// never block a submission on their own.
package duplicates

import (
	"context"
	"log/slog"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

const (
	DefaultLimit = 10
	MaxLimit     = 25
)

type entryRepo interface {
	FindCandidates(ctx context.Context, canonicalText string, limit int) ([]domain.Entry, error)
}

type textNormalizer interface {
	Normalize(ctx context.Context, text string) normalizer.Result
}

// Service provides duplicate candidate lookup.
type Service struct {
	entries      entryRepo
	normalizer   textNormalizer
	defaultLimit int
	log          *slog.Logger
}

// NewService creates a new duplicates service. defaultLimit applies when a
// lookup does not specify one; zero falls back to DefaultLimit.
func NewService(log *slog.Logger, entries entryRepo, norm textNormalizer, defaultLimit int) *Service {
	if defaultLimit <= 0 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}
	return &Service{
		entries:      entries,
		normalizer:   norm,
		defaultLimit: defaultLimit,
		log:          log.With("service", "duplicates"),
	}
}
