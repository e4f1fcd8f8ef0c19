package submission

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

// SubmitVariant submits a regional pronunciation or wording variant of an
// approved canonical expression. The variant copies the parent's theme chain
// and, when no raw text is given, the parent's text. Definitions and
// examples belong to the canonical entry and are not accepted here.
func (s *Service) SubmitVariant(ctx context.Context, input SubmitVariantInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.limits); err != nil {
		s.metrics.RecordSubmission("variant", "invalid")
		return nil, err
	}

	parent, err := s.entries.GetByID(ctx, input.ParentEntryID)
	if err != nil {
		return nil, fmt.Errorf("load parent entry: %w", err)
	}
	if !parent.EligibleVariantParent() {
		s.metrics.RecordSubmission("variant", "invalid")
		return nil, fmt.Errorf("parent %s: %w", parent.ID, domain.ErrParentNotEligible)
	}

	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	rawText := parent.RawText
	canonicalText := parent.CanonicalText
	normalized := parent.Normalized
	if input.RawText != nil {
		rawText = strings.TrimSpace(*input.RawText)
		norm := s.normalizer.Normalize(ctx, rawText)
		if !norm.Normalized {
			s.metrics.RecordNormalizerFallback()
		}
		canonicalText = norm.Text
		normalized = norm.Normalized
	}

	phonetic := strings.TrimSpace(input.PhoneticNotation)
	entry := &domain.Entry{
		ID:               uuid.New(),
		RawText:          rawText,
		CanonicalText:    canonicalText,
		Normalized:       normalized,
		Region:           input.Region,
		Theme:            parent.Theme,
		ParentEntryID:    &parent.ID,
		UsageNotes:       trimOrNil(input.UsageNotes),
		PhoneticNotation: &phonetic,
		NotationSystem:   input.NotationSystem,
		AudioURL:         trimOrNil(input.AudioURL),
		Status:           domain.EntryStatusPending,
		ContributorID:    userID,
		SubmittedAt:      time.Now().UTC(),
	}

	if _, err := s.entries.Create(ctx, entry); err != nil {
		s.metrics.RecordSubmission("variant", "error")
		return nil, fmt.Errorf("create variant: %w", err)
	}

	s.metrics.RecordSubmission("variant", "accepted")

	s.log.InfoContext(ctx, "variant submitted",
		slog.String("entry_id", entry.ID.String()),
		slog.String("parent_id", parent.ID.String()),
		slog.String("contributor_id", userID.String()),
		slog.String("region", entry.Region.String()),
	)

	return entry, nil
}
