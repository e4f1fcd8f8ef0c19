package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/assistant"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/service/suggestion"
)

// suggestionService defines the minimal interface needed by AssistHandler.
type suggestionService interface {
	Suggest(ctx context.Context, input suggestion.SuggestInput) (*suggestion.Bundle, error)
	SpellCheck(ctx context.Context, text string) (*assistant.SpellCheckResult, error)
}

// AssistHandler serves the assistant-backed suggestion endpoints.
type AssistHandler struct {
	svc suggestionService
	log *slog.Logger
}

// NewAssistHandler creates an AssistHandler.
func NewAssistHandler(svc suggestionService, logger *slog.Logger) *AssistHandler {
	return &AssistHandler{svc: svc, log: logger.With("handler", "assist")}
}

type suggestRequest struct {
	Text   string `json:"text"`
	Region string `json:"region"`
}

type suggestResponse struct {
	Theme         *themeResponse `json:"theme,omitempty"`
	ThemeLeafName string         `json:"theme_leaf_name,omitempty"`
	Definition    string         `json:"definition,omitempty"`
	UsageNotes    string         `json:"usage_notes,omitempty"`
	Formality     *string        `json:"formality,omitempty"`
	Frequency     *string        `json:"frequency,omitempty"`
}

type spellCheckRequest struct {
	Text string `json:"text"`
}

type spellCheckResponse struct {
	CorrectedText string   `json:"corrected_text"`
	Issues        []string `json:"issues"`
}

// Suggest handles POST /v1/assist/suggestion.
func (h *AssistHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bundle, err := h.svc.Suggest(r.Context(), suggestion.SuggestInput{
		Text:   req.Text,
		Region: domain.Region(req.Region),
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := suggestResponse{
		ThemeLeafName: bundle.ThemeLeafName,
		Definition:    bundle.Definition,
		UsageNotes:    bundle.UsageNotes,
	}
	if bundle.Theme != nil {
		resp.Theme = &themeResponse{L1: bundle.Theme.L1, L2: bundle.Theme.L2, L3: bundle.Theme.L3}
	}
	if bundle.Formality != nil {
		s := string(*bundle.Formality)
		resp.Formality = &s
	}
	if bundle.Frequency != nil {
		s := string(*bundle.Frequency)
		resp.Frequency = &s
	}

	writeJSON(w, http.StatusOK, resp)
}

// SpellCheck handles POST /v1/assist/spellcheck.
func (h *AssistHandler) SpellCheck(w http.ResponseWriter, r *http.Request) {
	var req spellCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SpellCheck(r.Context(), req.Text)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, spellCheckResponse{
		CorrectedText: result.CorrectedText,
		Issues:        result.Issues,
	})
}
