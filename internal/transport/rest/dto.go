package rest

import (
	"time"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// themeResponse is the wire form of a taxonomy chain.
type themeResponse struct {
	L1 *uuid.UUID `json:"l1,omitempty"`
	L2 *uuid.UUID `json:"l2,omitempty"`
	L3 *uuid.UUID `json:"l3,omitempty"`
}

type exampleResponse struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	Translation *string   `json:"translation,omitempty"`
	Context     *string   `json:"context,omitempty"`
	Source      string    `json:"source"`
	Featured    bool      `json:"featured"`
}

type entryResponse struct {
	ID               uuid.UUID         `json:"id"`
	RawText          string            `json:"raw_text"`
	CanonicalText    string            `json:"canonical_text"`
	Normalized       bool              `json:"normalized"`
	Region           string            `json:"region"`
	Theme            *themeResponse    `json:"theme,omitempty"`
	ParentEntryID    *uuid.UUID        `json:"parent_entry_id,omitempty"`
	Definition       *string           `json:"definition,omitempty"`
	UsageNotes       *string           `json:"usage_notes,omitempty"`
	FormalityLevel   *string           `json:"formality_level,omitempty"`
	Frequency        *string           `json:"frequency,omitempty"`
	PhoneticNotation *string           `json:"phonetic_notation,omitempty"`
	NotationSystem   *string           `json:"notation_system,omitempty"`
	AudioURL         *string           `json:"audio_url,omitempty"`
	Status           string            `json:"status"`
	ContributorID    uuid.UUID         `json:"contributor_id"`
	ReviewedAt       *time.Time        `json:"reviewed_at,omitempty"`
	ReviewNotes      *string           `json:"review_notes,omitempty"`
	SubmittedAt      time.Time         `json:"submitted_at"`
	ViewCount        int               `json:"view_count"`
	LikeCount        int               `json:"like_count"`
	Examples         []exampleResponse `json:"examples,omitempty"`
}

func toEntryResponse(e *domain.Entry) entryResponse {
	resp := entryResponse{
		ID:               e.ID,
		RawText:          e.RawText,
		CanonicalText:    e.CanonicalText,
		Normalized:       e.Normalized,
		Region:           string(e.Region),
		ParentEntryID:    e.ParentEntryID,
		Definition:       e.Definition,
		UsageNotes:       e.UsageNotes,
		PhoneticNotation: e.PhoneticNotation,
		AudioURL:         e.AudioURL,
		Status:           e.Status.String(),
		ContributorID:    e.ContributorID,
		ReviewedAt:       e.ReviewedAt,
		ReviewNotes:      e.ReviewNotes,
		SubmittedAt:      e.SubmittedAt,
		ViewCount:        e.ViewCount,
		LikeCount:        e.LikeCount,
	}

	if !e.Theme.IsEmpty() {
		resp.Theme = &themeResponse{L1: e.Theme.L1, L2: e.Theme.L2, L3: e.Theme.L3}
	}
	if e.FormalityLevel != nil {
		s := string(*e.FormalityLevel)
		resp.FormalityLevel = &s
	}
	if e.Frequency != nil {
		s := string(*e.Frequency)
		resp.Frequency = &s
	}
	if e.NotationSystem != nil {
		s := string(*e.NotationSystem)
		resp.NotationSystem = &s
	}
	for _, ex := range e.Examples {
		resp.Examples = append(resp.Examples, toExampleResponse(ex))
	}

	return resp
}

func toExampleResponse(ex domain.ExampleSentence) exampleResponse {
	return exampleResponse{
		ID:          ex.ID,
		Text:        ex.Text,
		Translation: ex.Translation,
		Context:     ex.Context,
		Source:      string(ex.Source),
		Featured:    ex.Featured,
	}
}

func toEntryResponses(entries []domain.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}
	return out
}

type nodeResponse struct {
	ID       uuid.UUID  `json:"id"`
	Name     string     `json:"name"`
	Level    int        `json:"level"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
}

func toNodeResponses(nodes []domain.TaxonomyNode) []nodeResponse {
	out := make([]nodeResponse, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, nodeResponse{ID: n.ID, Name: n.Name, Level: n.Level, ParentID: n.ParentID})
	}
	return out
}
