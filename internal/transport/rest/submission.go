package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/service/submission"
)

// submissionService defines the minimal interface needed by SubmissionHandler.
type submissionService interface {
	SubmitNew(ctx context.Context, input submission.SubmitNewInput) (*domain.Entry, error)
	SubmitVariant(ctx context.Context, input submission.SubmitVariantInput) (*domain.Entry, error)
}

// SubmissionHandler serves the submission REST endpoints.
type SubmissionHandler struct {
	svc submissionService
	log *slog.Logger
}

// NewSubmissionHandler creates a SubmissionHandler.
func NewSubmissionHandler(svc submissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{svc: svc, log: logger.With("handler", "submission")}
}

type exampleRequest struct {
	Text        string  `json:"text"`
	Translation *string `json:"translation"`
	Context     *string `json:"context"`
}

type submitNewRequest struct {
	RawText          string           `json:"raw_text"`
	Region           string           `json:"region"`
	ThemeL1          *uuid.UUID       `json:"theme_l1"`
	ThemeL2          *uuid.UUID       `json:"theme_l2"`
	ThemeL3          *uuid.UUID       `json:"theme_l3"`
	Definition       *string          `json:"definition"`
	UsageNotes       *string          `json:"usage_notes"`
	FormalityLevel   *string          `json:"formality_level"`
	Frequency        *string          `json:"frequency"`
	PhoneticNotation *string          `json:"phonetic_notation"`
	NotationSystem   *string          `json:"notation_system"`
	AudioURL         *string          `json:"audio_url"`
	Examples         []exampleRequest `json:"examples"`
}

type submitVariantRequest struct {
	RawText          *string `json:"raw_text"`
	Region           string  `json:"region"`
	PhoneticNotation string  `json:"phonetic_notation"`
	NotationSystem   *string `json:"notation_system"`
	AudioURL         *string `json:"audio_url"`
	UsageNotes       *string `json:"usage_notes"`
}

type submitResponse struct {
	EntryID uuid.UUID `json:"entry_id"`
	Status  string    `json:"status"`
}

// SubmitNew handles POST /v1/entries.
func (h *SubmissionHandler) SubmitNew(w http.ResponseWriter, r *http.Request) {
	var req submitNewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := submission.SubmitNewInput{
		RawText:          req.RawText,
		Region:           domain.Region(req.Region),
		Theme:            domain.TaxonomyChain{L1: req.ThemeL1, L2: req.ThemeL2, L3: req.ThemeL3},
		Definition:       req.Definition,
		UsageNotes:       req.UsageNotes,
		FormalityLevel:   formalityPtr(req.FormalityLevel),
		Frequency:        frequencyPtr(req.Frequency),
		PhoneticNotation: req.PhoneticNotation,
		NotationSystem:   notationPtr(req.NotationSystem),
		AudioURL:         req.AudioURL,
	}
	for _, ex := range req.Examples {
		input.Examples = append(input.Examples, submission.ExampleInput{
			Text:        ex.Text,
			Translation: ex.Translation,
			Context:     ex.Context,
		})
	}

	entry, err := h.svc.SubmitNew(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		EntryID: entry.ID,
		Status:  entry.Status.String(),
	})
}

// SubmitVariant handles POST /v1/entries/{id}/variants.
func (h *SubmissionHandler) SubmitVariant(w http.ResponseWriter, r *http.Request) {
	parentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	var req submitVariantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.SubmitVariant(r.Context(), submission.SubmitVariantInput{
		ParentEntryID:    parentID,
		Region:           domain.Region(req.Region),
		RawText:          req.RawText,
		PhoneticNotation: req.PhoneticNotation,
		NotationSystem:   notationPtr(req.NotationSystem),
		AudioURL:         req.AudioURL,
		UsageNotes:       req.UsageNotes,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitResponse{
		EntryID: entry.ID,
		Status:  entry.Status.String(),
	})
}

func formalityPtr(s *string) *domain.FormalityLevel {
	if s == nil {
		return nil
	}
	f := domain.FormalityLevel(*s)
	return &f
}

func frequencyPtr(s *string) *domain.Frequency {
	if s == nil {
		return nil
	}
	f := domain.Frequency(*s)
	return &f
}

func notationPtr(s *string) *domain.NotationSystem {
	if s == nil {
		return nil
	}
	n := domain.NotationSystem(*s)
	return &n
}
