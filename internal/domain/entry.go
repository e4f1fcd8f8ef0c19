package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a regional expression in the shared repository. An entry is either
// canonical (full descriptive content plus a taxonomy assignment) or a variant
// (alternate regional pronunciation attached to exactly one canonical entry).
// The two kinds share a table; ParentEntryID is the tag that separates them.
// Validation switches on the kind, never on individual nullable fields.
type Entry struct {
	ID uuid.UUID

	// RawText is the expression as typed; CanonicalText is the normalizer
	// output. CanonicalText is recomputed whenever RawText changes.
	// Normalized is false when the external normalizer was unavailable and
	// CanonicalText is a passthrough of RawText.
	RawText       string
	CanonicalText string
	Normalized    bool

	Region Region

	// Theme is the taxonomy chain. Canonical entries carry at least one
	// level from submission on; variants carry a copy of their parent's
	// chain and never set their own.
	Theme TaxonomyChain

	// ParentEntryID is nil for canonical entries, non-nil for variants.
	ParentEntryID *uuid.UUID

	// Descriptive fields. Definition, FormalityLevel and Frequency are
	// canonical-only; UsageNotes is allowed on variants to record what
	// differs in that dialect point.
	Definition     *string
	UsageNotes     *string
	FormalityLevel *FormalityLevel
	Frequency      *Frequency

	// Phonetic fields, valid for both kinds.
	PhoneticNotation      *string
	NotationSystem        *NotationSystem
	AudioURL              *string
	PronunciationVerified bool

	// Workflow fields.
	Status        EntryStatus
	ContributorID uuid.UUID
	ReviewerID    *uuid.UUID
	ReviewedAt    *time.Time
	ReviewNotes   *string
	SubmittedAt   time.Time

	// Counters, mutated only by dedicated increment operations.
	ViewCount int
	LikeCount int

	Examples []ExampleSentence
}

// IsVariant reports whether the entry is a dialect variant of another entry.
func (e *Entry) IsVariant() bool {
	return e.ParentEntryID != nil
}

// IsCanonical reports whether the entry is a primary expression entry.
func (e *Entry) IsCanonical() bool {
	return e.ParentEntryID == nil
}

// EligibleVariantParent reports whether a variant may attach to this entry:
// it must be canonical and already published.
func (e *Entry) EligibleVariantParent() bool {
	return e.IsCanonical() && e.Status == EntryStatusApproved
}

// ExampleSentence is a usage example owned exclusively by one entry. The set
// is replaced wholesale when a moderator edits examples during approval.
type ExampleSentence struct {
	ID           uuid.UUID
	ExpressionID uuid.UUID
	Text         string
	Translation  *string
	Context      *string
	Source       ExampleSource
	Featured     bool
}

// DecisionUpdate carries the fields a moderation decision writes to an
// entry. Status nil means "keep under review": reviewer fields are recorded
// without a status change. Non-nil content pointers overwrite the
// corresponding fields (used by revise-and-approve).
type DecisionUpdate struct {
	EntryID     uuid.UUID
	Status      *EntryStatus
	ReviewerID  uuid.UUID
	ReviewedAt  time.Time
	ReviewNotes *string

	RawText          *string
	CanonicalText    *string
	Normalized       *bool
	PhoneticNotation *string
	Definition       *string
	UsageNotes       *string
}

// RevisedContent carries moderator-supplied overrides applied during a
// REVISED_AND_APPROVED decision. Nil pointers leave the field untouched;
// a non-nil Examples slice replaces the example set wholesale.
type RevisedContent struct {
	RawText          *string
	PhoneticNotation *string
	Definition       *string
	UsageNotes       *string
	Examples         []ExampleSentence
}
