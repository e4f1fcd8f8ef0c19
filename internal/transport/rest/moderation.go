package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/service/moderation"
)

// moderationService defines the minimal interface needed by ModerationHandler.
type moderationService interface {
	Queue(ctx context.Context, input moderation.QueueInput) ([]domain.Entry, int, error)
	Decide(ctx context.Context, input moderation.DecideInput) (*domain.Entry, error)
}

// ModerationHandler serves the moderation REST endpoints.
type ModerationHandler struct {
	svc moderationService
	log *slog.Logger
}

// NewModerationHandler creates a ModerationHandler.
func NewModerationHandler(svc moderationService, logger *slog.Logger) *ModerationHandler {
	return &ModerationHandler{svc: svc, log: logger.With("handler", "moderation")}
}

type queueResponse struct {
	Entries []entryResponse `json:"entries"`
	Total   int             `json:"total"`
}

type revisedContentRequest struct {
	RawText          *string          `json:"raw_text"`
	PhoneticNotation *string          `json:"phonetic_notation"`
	Definition       *string          `json:"definition"`
	UsageNotes       *string          `json:"usage_notes"`
	Examples         []exampleRequest `json:"examples"`
}

type decideRequest struct {
	Action         string                 `json:"action"`
	Notes          *string                `json:"notes"`
	RevisedContent *revisedContentRequest `json:"revised_content"`
}

type decideResponse struct {
	EntryID uuid.UUID `json:"entry_id"`
	Status  string    `json:"status"`
	Action  string    `json:"action"`
}

// Queue handles GET /v1/moderation/queue?status=&limit=&offset=.
func (h *ModerationHandler) Queue(w http.ResponseWriter, r *http.Request) {
	input := moderation.QueueInput{
		Status: domain.EntryStatus(r.URL.Query().Get("status")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		input.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		input.Offset = n
	}

	entries, total, err := h.svc.Queue(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, queueResponse{
		Entries: toEntryResponses(entries),
		Total:   total,
	})
}

// Decide handles POST /v1/moderation/entries/{id}/decision.
func (h *ModerationHandler) Decide(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := moderation.DecideInput{
		EntryID: entryID,
		Action:  domain.ModerationAction(req.Action),
		Notes:   req.Notes,
	}
	if req.RevisedContent != nil {
		revised := &domain.RevisedContent{
			RawText:          req.RevisedContent.RawText,
			PhoneticNotation: req.RevisedContent.PhoneticNotation,
			Definition:       req.RevisedContent.Definition,
			UsageNotes:       req.RevisedContent.UsageNotes,
		}
		for _, ex := range req.RevisedContent.Examples {
			revised.Examples = append(revised.Examples, domain.ExampleSentence{
				Text:        ex.Text,
				Translation: ex.Translation,
				Context:     ex.Context,
			})
		}
		input.Revised = revised
	}

	entry, err := h.svc.Decide(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, decideResponse{
		EntryID: entry.ID,
		Status:  entry.Status.String(),
		Action:  req.Action,
	})
}
