package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

// SubmitNew submits a new canonical expression. The entry enters the
// moderation queue as PENDING; nothing is publicly visible until a moderator
// approves it.
func (s *Service) SubmitNew(ctx context.Context, input SubmitNewInput) (*domain.Entry, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.limits); err != nil {
		s.metrics.RecordSubmission("new", "invalid")
		return nil, err
	}

	if err := s.users.EnsureExists(ctx, userID); err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}

	rawText := strings.TrimSpace(input.RawText)

	// Normalization is best-effort: a degraded normalizer stores the raw
	// text flagged as unnormalized instead of blocking the submission.
	norm := s.normalizer.Normalize(ctx, rawText)
	if !norm.Normalized {
		s.metrics.RecordNormalizerFallback()
	}

	// Assistant suggestions name a leaf; contributors may pass just that
	// through. A leaf-only theme is expanded to its full ancestor chain
	// before validation.
	theme := input.Theme
	if theme.L3 != nil && theme.L1 == nil && theme.L2 == nil {
		resolved, err := s.taxonomy.ChainForLeaf(ctx, *theme.L3)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
				s.metrics.RecordSubmission("new", "invalid")
				return nil, domain.NewValidationError("theme.l3", "unknown leaf node")
			}
			return nil, fmt.Errorf("resolve theme leaf: %w", err)
		}
		theme = resolved
	}

	if err := s.taxonomy.ValidateChain(ctx, theme); err != nil {
		s.metrics.RecordSubmission("new", "invalid")
		return nil, err
	}

	entry := &domain.Entry{
		ID:               uuid.New(),
		RawText:          rawText,
		CanonicalText:    norm.Text,
		Normalized:       norm.Normalized,
		Region:           input.Region,
		Theme:            theme,
		Definition:       trimOrNil(input.Definition),
		UsageNotes:       trimOrNil(input.UsageNotes),
		FormalityLevel:   input.FormalityLevel,
		Frequency:        input.Frequency,
		PhoneticNotation: trimOrNil(input.PhoneticNotation),
		NotationSystem:   input.NotationSystem,
		AudioURL:         trimOrNil(input.AudioURL),
		Status:           domain.EntryStatusPending,
		ContributorID:    userID,
		SubmittedAt:      time.Now().UTC(),
	}

	examples := make([]domain.ExampleSentence, 0, len(input.Examples))
	for _, ex := range input.Examples {
		examples = append(examples, domain.ExampleSentence{
			ID:           uuid.New(),
			ExpressionID: entry.ID,
			Text:         strings.TrimSpace(ex.Text),
			Translation:  trimOrNil(ex.Translation),
			Context:      trimOrNil(ex.Context),
			Source:       domain.ExampleSourceUserGenerated,
		})
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.entries.Create(ctx, entry); err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		if err := s.examples.CreateBatch(ctx, examples); err != nil {
			return fmt.Errorf("create examples: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordSubmission("new", "error")
		return nil, err
	}

	entry.Examples = examples
	s.metrics.RecordSubmission("new", "accepted")

	s.log.InfoContext(ctx, "entry submitted",
		slog.String("entry_id", entry.ID.String()),
		slog.String("contributor_id", userID.String()),
		slog.String("region", entry.Region.String()),
		slog.Bool("normalized", entry.Normalized),
		slog.Int("examples", len(examples)),
	)

	return entry, nil
}
