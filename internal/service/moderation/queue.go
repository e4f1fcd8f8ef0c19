package moderation

import (
	"context"
	"fmt"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

// QueueInput holds the parameters for listing the moderation queue.
type QueueInput struct {
	Status domain.EntryStatus
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i QueueInput) Validate() error {
	var errs []domain.FieldError
	if i.Status != "" && !i.Status.IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "unknown status"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > MaxQueueLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("max %d", MaxQueueLimit)})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Queue lists entries awaiting review, oldest first. Defaults to the
// PENDING status. Requires moderator or admin role.
func (s *Service) Queue(ctx context.Context, input QueueInput) ([]domain.Entry, int, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, 0, domain.ErrUnauthorized
	}
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok || !role.CanModerate() {
		return nil, 0, domain.ErrForbidden
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	status := input.Status
	if status == "" {
		status = domain.EntryStatusPending
	}
	limit := input.Limit
	if limit == 0 {
		limit = DefaultQueueLimit
	}

	entries, total, err := s.entries.ListByStatus(ctx, status, limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list queue: %w", err)
	}

	if status == domain.EntryStatusPending && s.metrics != nil {
		s.metrics.ModerationQueueSize.Set(float64(total))
	}

	return entries, total, nil
}
