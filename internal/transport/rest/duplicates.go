package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/service/duplicates"
)

// duplicatesService defines the minimal interface needed by DuplicatesHandler.
type duplicatesService interface {
	Check(ctx context.Context, input duplicates.CheckInput) ([]domain.Entry, error)
}

// DuplicatesHandler serves the duplicate lookup endpoint.
type DuplicatesHandler struct {
	svc duplicatesService
	log *slog.Logger
}

// NewDuplicatesHandler creates a DuplicatesHandler.
func NewDuplicatesHandler(svc duplicatesService, logger *slog.Logger) *DuplicatesHandler {
	return &DuplicatesHandler{svc: svc, log: logger.With("handler", "duplicates")}
}

type duplicatesResponse struct {
	Candidates []entryResponse `json:"candidates"`
}

// Check handles GET /v1/duplicates?text=&region=&limit=.
func (h *DuplicatesHandler) Check(w http.ResponseWriter, r *http.Request) {
	input := duplicates.CheckInput{
		Text:   r.URL.Query().Get("text"),
		Region: domain.Region(r.URL.Query().Get("region")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		input.Limit = n
	}

	candidates, err := h.svc.Check(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, duplicatesResponse{
		Candidates: toEntryResponses(candidates),
	})
}
