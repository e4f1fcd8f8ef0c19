package duplicates

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// CheckInput holds the parameters for a duplicate lookup.
type CheckInput struct {
	Text   string
	Region domain.Region
	Limit  int
}

// Validate checks all fields and collects all errors.
func (i CheckInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if i.Region != "" && !i.Region.IsValid() {
		errs = append(errs, domain.FieldError{Field: "region", Message: "unknown region"})
	}
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if i.Limit > MaxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("max %d", MaxLimit)})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Check normalizes the given text and returns approved canonical entries that
// may describe the same expression. Ranking: exact canonical-text matches
// first, then entries from the requested region, then the rest, with
// like_count breaking ties.
func (s *Service) Check(ctx context.Context, input CheckInput) ([]domain.Entry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}

	text := strings.TrimSpace(input.Text)
	norm := s.normalizer.Normalize(ctx, text)

	// Overfetch so region re-ranking has something to promote.
	candidates, err := s.entries.FindCandidates(ctx, norm.Text, limit*2)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	rank(candidates, norm.Text, input.Region)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.log.DebugContext(ctx, "duplicate check",
		slog.String("canonical_text", norm.Text),
		slog.Int("candidates", len(candidates)),
	)

	return candidates, nil
}

// rank orders candidates in place: exact match, then requested region, then
// everything else, with like_count as the final tiebreak.
func rank(entries []domain.Entry, canonicalText string, region domain.Region) {
	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]

		exactA := ea.CanonicalText == canonicalText
		exactB := eb.CanonicalText == canonicalText
		if exactA != exactB {
			return exactA
		}

		if region != "" {
			regionA := ea.Region == region
			regionB := eb.Region == region
			if regionA != regionB {
				return regionA
			}
		}

		return ea.LikeCount > eb.LikeCount
	})
}
