package submission

import (
	"strings"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// ExampleInput is one example sentence attached to a new submission.
type ExampleInput struct {
	Text        string
	Translation *string
	Context     *string
}

// SubmitNewInput holds the parameters for submitting a new canonical
// expression.
type SubmitNewInput struct {
	RawText          string
	Region           domain.Region
	Theme            domain.TaxonomyChain
	Definition       *string
	UsageNotes       *string
	FormalityLevel   *domain.FormalityLevel
	Frequency        *domain.Frequency
	PhoneticNotation *string
	NotationSystem   *domain.NotationSystem
	AudioURL         *string
	Examples         []ExampleInput
}

// Validate checks all fields against the limits and collects all errors.
func (i SubmitNewInput) Validate(limits Limits) error {
	var errs []domain.FieldError

	text := strings.TrimSpace(i.RawText)
	if text == "" {
		errs = append(errs, domain.FieldError{Field: "raw_text", Message: "required"})
	}
	if len([]rune(text)) > limits.MaxTextLength {
		errs = append(errs, domain.FieldError{Field: "raw_text", Message: "too long"})
	}

	if !i.Region.IsValid() {
		errs = append(errs, domain.FieldError{Field: "region", Message: "unknown region"})
	}

	if i.Theme.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "theme", Message: "at least one taxonomy level required"})
	}

	if trimOrNil(i.Definition) == nil {
		errs = append(errs, domain.FieldError{Field: "definition", Message: "required"})
	} else if len([]rune(*i.Definition)) > limits.MaxDefinitionLength {
		errs = append(errs, domain.FieldError{Field: "definition", Message: "too long"})
	}
	if i.UsageNotes != nil && len([]rune(*i.UsageNotes)) > limits.MaxDefinitionLength {
		errs = append(errs, domain.FieldError{Field: "usage_notes", Message: "too long"})
	}

	if i.FormalityLevel != nil && !i.FormalityLevel.IsValid() {
		errs = append(errs, domain.FieldError{Field: "formality_level", Message: "unknown value"})
	}
	if i.Frequency != nil && !i.Frequency.IsValid() {
		errs = append(errs, domain.FieldError{Field: "frequency", Message: "unknown value"})
	}

	if i.NotationSystem != nil && !i.NotationSystem.IsValid() {
		errs = append(errs, domain.FieldError{Field: "notation_system", Message: "unknown value"})
	}
	if i.NotationSystem != nil && trimOrNil(i.PhoneticNotation) == nil {
		errs = append(errs, domain.FieldError{Field: "phonetic_notation", Message: "required when notation_system is set"})
	}

	if len(i.Examples) > limits.MaxExamplesPerEntry {
		errs = append(errs, domain.FieldError{Field: "examples", Message: "too many examples"})
	}
	for _, ex := range i.Examples {
		if strings.TrimSpace(ex.Text) == "" {
			errs = append(errs, domain.FieldError{Field: "examples", Message: "example text required"})
			break
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// SubmitVariantInput holds the parameters for submitting a regional variant
// of an approved canonical expression. The theme chain is inherited from the
// parent; supplying one is an error.
type SubmitVariantInput struct {
	ParentEntryID    uuid.UUID
	Region           domain.Region
	RawText          *string
	PhoneticNotation string
	NotationSystem   *domain.NotationSystem
	AudioURL         *string
	UsageNotes       *string
	Theme            domain.TaxonomyChain
}

// Validate checks all fields and collects all errors.
func (i SubmitVariantInput) Validate(limits Limits) error {
	var errs []domain.FieldError

	if i.ParentEntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "parent_entry_id", Message: "required"})
	}

	if !i.Region.IsValid() {
		errs = append(errs, domain.FieldError{Field: "region", Message: "unknown region"})
	}

	if strings.TrimSpace(i.PhoneticNotation) == "" {
		errs = append(errs, domain.FieldError{Field: "phonetic_notation", Message: "required for variants"})
	}

	if i.NotationSystem != nil && !i.NotationSystem.IsValid() {
		errs = append(errs, domain.FieldError{Field: "notation_system", Message: "unknown value"})
	}

	if i.RawText != nil {
		text := strings.TrimSpace(*i.RawText)
		if text == "" {
			errs = append(errs, domain.FieldError{Field: "raw_text", Message: "must not be blank when provided"})
		}
		if len([]rune(text)) > limits.MaxTextLength {
			errs = append(errs, domain.FieldError{Field: "raw_text", Message: "too long"})
		}
	}

	if i.UsageNotes != nil && len([]rune(*i.UsageNotes)) > limits.MaxDefinitionLength {
		errs = append(errs, domain.FieldError{Field: "usage_notes", Message: "too long"})
	}

	if !i.Theme.IsEmpty() {
		errs = append(errs, domain.FieldError{Field: "theme", Message: "variants inherit the parent theme"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
