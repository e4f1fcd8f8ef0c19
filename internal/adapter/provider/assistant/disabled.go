package assistant

import (
	"context"
	"errors"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// ErrDisabled is returned by Disabled for every call.
var ErrDisabled = errors.New("assistant disabled")

// Disabled is a stand-in client for deployments without an API key. Callers
// that absorb assistant failures keep working; the submission flow just runs
// without AI pre-fill.
type Disabled struct{}

func (Disabled) Suggest(context.Context, string, domain.Region, []string) (*Suggestion, error) {
	return nil, ErrDisabled
}

func (Disabled) SpellCheck(context.Context, string) (*SpellCheckResult, error) {
	return nil, ErrDisabled
}
