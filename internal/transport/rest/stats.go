package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/transport/middleware"
)

// statsService defines the minimal interface needed by StatsHandler.
type statsService interface {
	Sync(ctx context.Context, userID uuid.UUID) error
}

// StatsHandler serves the counter reconciliation endpoint.
type StatsHandler struct {
	svc statsService
	log *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(svc statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, log: logger.With("handler", "stats")}
}

type syncResponse struct {
	Success bool `json:"success"`
}

// Sync handles POST /v1/users/{id}/stats/sync. Restricted to moderation
// staff: reconciliation reveals nothing sensitive but writes counters.
func (h *StatsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireModerator(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.Sync(r.Context(), userID); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{Success: true})
}
