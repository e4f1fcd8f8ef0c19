package middleware

import (
	"context"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

// RequireModerator returns domain.ErrForbidden if the context user cannot
// moderate. Use in REST handlers, not as HTTP middleware: the services also
// check, this just lets handlers reject early with a clean status.
func RequireModerator(ctx context.Context) error {
	role, ok := ctxutil.UserRoleFromCtx(ctx)
	if !ok || !role.CanModerate() {
		return domain.ErrForbidden
	}
	return nil
}
