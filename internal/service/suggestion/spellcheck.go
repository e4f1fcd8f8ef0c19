package suggestion

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/assistant"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// SpellCheck asks the assistant to flag orthography problems in the raw
// text. An unreachable assistant yields a "looks fine" result rather than
// an error, matching the advisory nature of the check.
func (s *Service) SpellCheck(ctx context.Context, text string) (*assistant.SpellCheckResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("text", "required")
	}

	start := time.Now()
	result, err := s.assistant.SpellCheck(ctx, text)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.RecordAssistant("spellcheck", "degraded", elapsed)
		s.log.WarnContext(ctx, "assistant unavailable, skipping spellcheck",
			slog.Any("error", err),
		)
		return &assistant.SpellCheckResult{CorrectedText: text, Issues: []string{}}, nil
	}
	s.metrics.RecordAssistant("spellcheck", "ok", elapsed)

	if result.CorrectedText == "" {
		result.CorrectedText = text
	}
	return result, nil
}
