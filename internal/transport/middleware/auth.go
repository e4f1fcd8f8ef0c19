package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

type tokenValidator interface {
	ValidateAccessToken(token string) (userID uuid.UUID, role string, err error)
}

// Auth returns middleware that validates a bearer token when one is present
// and stores the user id and role in the request context. Requests without a
// token pass through anonymous; per-operation authorization happens in the
// services.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r) // Anonymous
				return
			}
			userID, role, err := validator.ValidateAccessToken(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			ctx := ctxutil.WithUserID(r.Context(), userID)
			if userRole := domain.UserRole(role); userRole.IsValid() {
				ctx = ctxutil.WithUserRole(ctx, userRole)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
