// Package catalog serves the published side of the repository: reading an
// entry with its examples and variants, and recording engagement counters.
// Unpublished entries are visible only to their contributor and to staff.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

type entryRepo interface {
	GetByID(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error)
	ListVariants(ctx context.Context, parentEntryID uuid.UUID) ([]domain.Entry, error)
	IncrementViewCount(ctx context.Context, entryID uuid.UUID) error
	IncrementLikeCount(ctx context.Context, entryID uuid.UUID) error
}

type exampleRepo interface {
	ListByExpressionID(ctx context.Context, expressionID uuid.UUID) ([]domain.ExampleSentence, error)
}

// Service provides entry read operations.
type Service struct {
	entries  entryRepo
	examples exampleRepo
	log      *slog.Logger
}

// NewService creates a new catalog service.
func NewService(log *slog.Logger, entries entryRepo, examples exampleRepo) *Service {
	return &Service{
		entries:  entries,
		examples: examples,
		log:      log.With("service", "catalog"),
	}
}

// EntryView is an entry with its examples and, for canonical entries, its
// approved variants.
type EntryView struct {
	Entry    *domain.Entry
	Variants []domain.Entry
}

// GetEntry loads an entry with examples and variants and bumps the view
// counter. A failed counter bump is logged and swallowed: losing one view
// is better than failing the read.
func (s *Service) GetEntry(ctx context.Context, entryID uuid.UUID) (*EntryView, error) {
	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, e); err != nil {
		return nil, err
	}

	examples, err := s.examples.ListByExpressionID(ctx, e.ID)
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}
	e.Examples = examples

	view := &EntryView{Entry: e, Variants: []domain.Entry{}}
	if e.IsCanonical() {
		variants, err := s.entries.ListVariants(ctx, e.ID)
		if err != nil {
			return nil, fmt.Errorf("load variants: %w", err)
		}
		view.Variants = approvedOnly(variants)
	}

	if e.Status == domain.EntryStatusApproved {
		if err := s.entries.IncrementViewCount(ctx, e.ID); err != nil {
			s.log.WarnContext(ctx, "view count bump failed",
				slog.String("entry_id", e.ID.String()),
				slog.Any("error", err),
			)
		} else {
			e.ViewCount++
		}
	}

	return view, nil
}

// Like records one like on a published entry. Requires an authenticated
// caller.
func (s *Service) Like(ctx context.Context, entryID uuid.UUID) error {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return domain.ErrUnauthorized
	}

	e, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}
	if e.Status != domain.EntryStatusApproved {
		return fmt.Errorf("entry %s is not published: %w", entryID, domain.ErrConflict)
	}

	return s.entries.IncrementLikeCount(ctx, entryID)
}

// authorizeRead hides unpublished entries from everyone except the
// contributor and moderation staff.
func (s *Service) authorizeRead(ctx context.Context, e *domain.Entry) error {
	if e.Status == domain.EntryStatusApproved {
		return nil
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if ok && userID == e.ContributorID {
		return nil
	}
	if role, ok := ctxutil.UserRoleFromCtx(ctx); ok && role.CanModerate() {
		return nil
	}

	// Present as absent so probing cannot distinguish hidden from missing.
	return fmt.Errorf("entry %s: %w", e.ID, domain.ErrNotFound)
}

func approvedOnly(entries []domain.Entry) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status == domain.EntryStatusApproved {
			out = append(out, e)
		}
	}
	return out
}
