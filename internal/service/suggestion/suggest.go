package suggestion

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// SuggestInput holds the parameters for a suggestion request.
type SuggestInput struct {
	Text   string
	Region domain.Region
}

// Validate checks all fields and collects all errors.
func (i SuggestInput) Validate() error {
	var errs []domain.FieldError
	if strings.TrimSpace(i.Text) == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	}
	if i.Region != "" && !i.Region.IsValid() {
		errs = append(errs, domain.FieldError{Field: "region", Message: "unknown region"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Bundle is a suggestion ready to pre-fill a submission form. Theme is nil
// when the assistant had no guess or the guess did not resolve to a known
// leaf. A completely empty bundle means the assistant was unavailable.
type Bundle struct {
	Theme         *domain.TaxonomyChain
	ThemeLeafName string
	Definition    string
	UsageNotes    string
	Formality     *domain.FormalityLevel
	Frequency     *domain.Frequency
}

// Suggest asks the assistant for draft metadata and resolves its leaf-level
// theme guess into a full taxonomy chain. Assistant failures degrade to an
// empty bundle: a submission never depends on the assistant being reachable.
func (s *Service) Suggest(ctx context.Context, input SuggestInput) (*Bundle, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	leaves, err := s.leafNames(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "taxonomy unavailable for suggestion", slog.Any("error", err))
		leaves = nil
	}

	start := time.Now()
	raw, err := s.assistant.Suggest(ctx, strings.TrimSpace(input.Text), input.Region, leaves)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.RecordAssistant("suggest", "degraded", elapsed)
		s.log.WarnContext(ctx, "assistant unavailable, returning empty suggestion",
			slog.Any("error", err),
		)
		return &Bundle{}, nil
	}
	s.metrics.RecordAssistant("suggest", "ok", elapsed)

	bundle := &Bundle{
		Definition: raw.Definition,
		UsageNotes: raw.UsageNotes,
		Formality:  raw.Formality,
		Frequency:  raw.Frequency,
	}

	if raw.ThemeLeafName != "" {
		chain, leafName := s.resolveThemeGuess(ctx, raw.ThemeLeafName)
		bundle.Theme = chain
		bundle.ThemeLeafName = leafName
	}

	return bundle, nil
}

// resolveThemeGuess maps a leaf name from the assistant to a full chain.
// An unknown or broken leaf drops the theme guess but keeps the rest of
// the suggestion.
func (s *Service) resolveThemeGuess(ctx context.Context, leafName string) (*domain.TaxonomyChain, string) {
	leaf, err := s.taxonomy.FindLeafByName(ctx, leafName)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WarnContext(ctx, "leaf lookup failed", slog.Any("error", err))
		}
		return nil, ""
	}

	chain, err := s.taxonomy.ChainForLeaf(ctx, leaf.ID)
	if err != nil {
		s.log.WarnContext(ctx, "chain resolution failed",
			slog.String("leaf", leafName),
			slog.Any("error", err),
		)
		return nil, ""
	}

	return &chain, leaf.Name
}
