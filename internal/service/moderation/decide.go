package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

// DecideInput holds the parameters for a moderation decision.
type DecideInput struct {
	EntryID uuid.UUID
	Action  domain.ModerationAction
	Notes   *string
	Revised *domain.RevisedContent
}

// Validate checks all fields and collects all errors.
func (i DecideInput) Validate() error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "entry_id", Message: "required"})
	}
	if !i.Action.IsValid() {
		errs = append(errs, domain.FieldError{Field: "action", Message: "unknown action"})
	}
	if i.Action == domain.ModerationActionRevisedAndApproved && i.Revised == nil {
		errs = append(errs, domain.FieldError{Field: "revised_content", Message: "required for revised_and_approved"})
	}
	if i.Action != domain.ModerationActionRevisedAndApproved && i.Revised != nil {
		errs = append(errs, domain.FieldError{Field: "revised_content", Message: "only allowed with revised_and_approved"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Decide settles one queue entry. Only entries still under review (PENDING
// or NEEDS_REVISION) can be decided; a second decision on the same entry
// fails with ErrAlreadyDecided. The status write, example replacement, and
// counter updates commit atomically.
func (s *Service) Decide(ctx context.Context, input DecideInput) (*domain.Entry, error) {
	reviewerID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok || !role.CanModerate() {
		return nil, domain.ErrForbidden
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	upd := domain.DecisionUpdate{
		EntryID:     input.EntryID,
		ReviewerID:  reviewerID,
		ReviewedAt:  s.now(),
		ReviewNotes: input.Notes,
	}

	switch input.Action {
	case domain.ModerationActionApprove:
		status := domain.EntryStatusApproved
		upd.Status = &status
	case domain.ModerationActionReject:
		status := domain.EntryStatusRejected
		upd.Status = &status
	case domain.ModerationActionRevisedAndApproved:
		status := domain.EntryStatusApproved
		upd.Status = &status
		s.applyRevision(ctx, &upd, input.Revised)
	case domain.ModerationActionPending:
		// Keep under review: reviewer fields are recorded, status stays.
	}

	var decided *domain.Entry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		decided, err = s.entries.ApplyDecision(ctx, upd)
		if err != nil {
			return err
		}

		// A nil revised example set means the moderator left the examples
		// alone; only a non-nil set replaces them.
		if input.Action == domain.ModerationActionRevisedAndApproved && input.Revised.Examples != nil {
			if err := s.examples.ReplaceAll(ctx, decided.ID, revisedExamples(decided.ID, input.Revised)); err != nil {
				return fmt.Errorf("replace examples: %w", err)
			}
		}

		if err := s.users.IncrementReviewCount(ctx, reviewerID); err != nil {
			return fmt.Errorf("increment review count: %w", err)
		}
		if input.Action.IsApproval() {
			if err := s.users.IncrementContributionCount(ctx, decided.ContributorID); err != nil {
				return fmt.Errorf("increment contribution count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, domain.ErrAlreadyDecided) {
			outcome = "conflict"
		}
		s.metrics.RecordModeration(input.Action.String(), outcome)
		return nil, err
	}

	s.metrics.RecordModeration(input.Action.String(), "applied")

	s.log.InfoContext(ctx, "entry decided",
		slog.String("entry_id", decided.ID.String()),
		slog.String("reviewer_id", reviewerID.String()),
		slog.String("action", input.Action.String()),
		slog.String("status", decided.Status.String()),
	)

	return decided, nil
}

// applyRevision maps moderator-supplied content onto the decision update.
// Revised raw text is re-normalized so the canonical form stays consistent.
func (s *Service) applyRevision(ctx context.Context, upd *domain.DecisionUpdate, revised *domain.RevisedContent) {
	if revised.RawText != nil {
		text := strings.TrimSpace(*revised.RawText)
		norm := s.normalizer.Normalize(ctx, text)
		if !norm.Normalized {
			s.metrics.RecordNormalizerFallback()
		}
		upd.RawText = &text
		upd.CanonicalText = &norm.Text
		upd.Normalized = &norm.Normalized
	}
	upd.PhoneticNotation = revised.PhoneticNotation
	upd.Definition = revised.Definition
	upd.UsageNotes = revised.UsageNotes
}

// revisedExamples stamps ids and ownership onto the moderator's example set.
func revisedExamples(entryID uuid.UUID, revised *domain.RevisedContent) []domain.ExampleSentence {
	examples := make([]domain.ExampleSentence, 0, len(revised.Examples))
	for _, ex := range revised.Examples {
		if ex.ID == uuid.Nil {
			ex.ID = uuid.New()
		}
		ex.ExpressionID = entryID
		if ex.Source == "" {
			ex.Source = domain.ExampleSourceUserGenerated
		}
		examples = append(examples, ex)
	}
	return examples
}
