package submission

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/pkg/ctxutil"
)

type testDeps struct {
	entries   *entryRepoMock
	examples  *exampleRepoMock
	users     *userRepoMock
	taxonomy  *chainValidatorMock
	normalize *normalizerMock
}

func newTestService(t *testing.T, deps testDeps) *Service {
	t.Helper()
	if deps.entries == nil {
		deps.entries = &entryRepoMock{}
	}
	if deps.examples == nil {
		deps.examples = &exampleRepoMock{}
	}
	if deps.users == nil {
		deps.users = &userRepoMock{}
	}
	if deps.taxonomy == nil {
		deps.taxonomy = &chainValidatorMock{}
	}
	if deps.normalize == nil {
		deps.normalize = &normalizerMock{}
	}
	return NewService(
		slog.Default(),
		deps.entries, deps.examples, deps.users, deps.taxonomy, deps.normalize,
		&txManagerMock{}, nil, Limits{},
	)
}

func authedCtx(userID uuid.UUID) context.Context {
	return ctxutil.WithUserID(context.Background(), userID)
}

func ptr(s string) *string {
	return &s
}

func validNewInput() SubmitNewInput {
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()
	definition := "a greeting used between close friends"
	return SubmitNewInput{
		RawText:    "食咗飯未",
		Region:     domain.RegionGuangzhou,
		Theme:      domain.TaxonomyChain{L1: &l1, L2: &l2, L3: &l3},
		Definition: &definition,
		Examples: []ExampleInput{
			{Text: "食咗飯未呀？"},
		},
	}
}

// ---------------------------------------------------------------------------
// SubmitNew tests
// ---------------------------------------------------------------------------

func TestSubmitNew_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	deps := testDeps{
		entries:  &entryRepoMock{},
		examples: &exampleRepoMock{},
		normalize: &normalizerMock{
			NormalizeFunc: func(ctx context.Context, text string) normalizer.Result {
				return normalizer.Result{Text: "食咗飯未(canonical)", Normalized: true}
			},
		},
	}
	svc := newTestService(t, deps)

	got, err := svc.SubmitNew(authedCtx(userID), validNewInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Status != domain.EntryStatusPending {
		t.Errorf("status: got %s, want PENDING", got.Status)
	}
	if got.RawText != "食咗飯未" {
		t.Errorf("raw text: got %q", got.RawText)
	}
	if got.CanonicalText != "食咗飯未(canonical)" {
		t.Errorf("canonical text: got %q", got.CanonicalText)
	}
	if !got.Normalized {
		t.Error("entry should be marked normalized")
	}
	if got.ContributorID != userID {
		t.Errorf("contributor: got %s, want %s", got.ContributorID, userID)
	}
	if got.SubmittedAt.IsZero() {
		t.Error("SubmittedAt should be set")
	}
	if len(got.Examples) != 1 {
		t.Fatalf("examples: got %d, want 1", len(got.Examples))
	}
	if got.Examples[0].ExpressionID != got.ID {
		t.Error("example should reference the new entry")
	}
	if got.Examples[0].Source != domain.ExampleSourceUserGenerated {
		t.Errorf("example source: got %s", got.Examples[0].Source)
	}
	if len(deps.entries.createCalls) != 1 {
		t.Errorf("entry Create calls: got %d, want 1", len(deps.entries.createCalls))
	}
	if len(deps.examples.createBatchCalls) != 1 {
		t.Errorf("example CreateBatch calls: got %d, want 1", len(deps.examples.createBatchCalls))
	}
}

func TestSubmitNew_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.SubmitNew(context.Background(), validNewInput())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got: %v", err)
	}
}

func TestSubmitNew_ValidationErrors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	input := validNewInput()
	input.RawText = "   "
	input.Region = domain.Region("atlantis")

	_, err := svc.SubmitNew(authedCtx(uuid.New()), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	if len(vErr.Errors) != 2 {
		t.Errorf("field errors: got %d, want 2 (%v)", len(vErr.Errors), vErr.Errors)
	}
}

func TestSubmitNew_NormalizerDegraded(t *testing.T) {
	t.Parallel()

	deps := testDeps{
		normalize: &normalizerMock{
			NormalizeFunc: func(ctx context.Context, text string) normalizer.Result {
				return normalizer.Result{Text: text, Normalized: false}
			},
		},
	}
	svc := newTestService(t, deps)

	got, err := svc.SubmitNew(authedCtx(uuid.New()), validNewInput())
	if err != nil {
		t.Fatalf("degraded normalizer must not fail the submission: %v", err)
	}

	if got.Normalized {
		t.Error("entry should be flagged unnormalized")
	}
	if got.CanonicalText != got.RawText {
		t.Errorf("canonical should fall back to raw text: got %q", got.CanonicalText)
	}
}

func TestSubmitNew_InvalidThemeChain(t *testing.T) {
	t.Parallel()

	deps := testDeps{
		taxonomy: &chainValidatorMock{
			ValidateChainFunc: func(ctx context.Context, chain domain.TaxonomyChain) error {
				return domain.NewValidationError("theme.l3", "unknown taxonomy node")
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitNew(authedCtx(uuid.New()), validNewInput())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

func TestSubmitNew_TaxonomyStoreDown(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("taxonomy store down")
	deps := testDeps{
		entries: &entryRepoMock{},
		taxonomy: &chainValidatorMock{
			ValidateChainFunc: func(ctx context.Context, chain domain.TaxonomyChain) error {
				return storeErr
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitNew(authedCtx(uuid.New()), validNewInput())
	if !errors.Is(err, storeErr) {
		t.Fatalf("chain validation must fail closed, got: %v", err)
	}
	if len(deps.entries.createCalls) != 0 {
		t.Error("no entry should be created when the chain cannot be verified")
	}
}

func TestSubmitNew_StoreErrorRollsBack(t *testing.T) {
	t.Parallel()

	deps := testDeps{
		examples: &exampleRepoMock{
			CreateBatchFunc: func(ctx context.Context, examples []domain.ExampleSentence) error {
				return errors.New("insert failed")
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitNew(authedCtx(uuid.New()), validNewInput())
	if err == nil {
		t.Fatal("expected error from failed example insert")
	}
}

func TestSubmitNew_NoThemeRejected(t *testing.T) {
	t.Parallel()

	deps := testDeps{entries: &entryRepoMock{}}
	svc := newTestService(t, deps)

	input := validNewInput()
	input.Theme = domain.TaxonomyChain{}

	_, err := svc.SubmitNew(authedCtx(uuid.New()), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}
	found := false
	for _, fe := range vErr.Errors {
		if fe.Field == "theme" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a field error on theme, got %v", vErr.Errors)
	}
	if len(deps.entries.createCalls) != 0 {
		t.Error("no entry should be created without a theme")
	}
}

func TestSubmitNew_MissingDefinition(t *testing.T) {
	t.Parallel()

	deps := testDeps{entries: &entryRepoMock{}}
	svc := newTestService(t, deps)

	for _, definition := range []*string{nil, ptr("   ")} {
		input := validNewInput()
		input.Definition = definition

		_, err := svc.SubmitNew(authedCtx(uuid.New()), input)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got: %v", err)
		}

		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected *domain.ValidationError, got %T", err)
		}
		found := false
		for _, fe := range vErr.Errors {
			if fe.Field == "definition" {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a field error on definition, got %v", vErr.Errors)
		}
	}
	if len(deps.entries.createCalls) != 0 {
		t.Error("no entry should be created without a definition")
	}
}

func TestSubmitNew_LeafOnlyThemeResolved(t *testing.T) {
	t.Parallel()

	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()
	full := domain.TaxonomyChain{L1: &l1, L2: &l2, L3: &l3}

	var validatedChain domain.TaxonomyChain
	deps := testDeps{
		entries: &entryRepoMock{},
		taxonomy: &chainValidatorMock{
			ChainForLeafFunc: func(ctx context.Context, leafID uuid.UUID) (domain.TaxonomyChain, error) {
				if leafID != l3 {
					t.Errorf("leaf id: got %s, want %s", leafID, l3)
				}
				return full, nil
			},
			ValidateChainFunc: func(ctx context.Context, chain domain.TaxonomyChain) error {
				validatedChain = chain
				return nil
			},
		},
	}
	svc := newTestService(t, deps)

	input := validNewInput()
	input.Theme = domain.TaxonomyChain{L3: &l3}

	got, err := svc.SubmitNew(authedCtx(uuid.New()), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !validatedChain.Equal(full) {
		t.Errorf("validator should see the resolved chain, got %+v", validatedChain)
	}
	if !got.Theme.Equal(full) {
		t.Errorf("stored theme should be the full chain, got %+v", got.Theme)
	}
	if got.Status != domain.EntryStatusPending {
		t.Errorf("status: got %s, want PENDING", got.Status)
	}
}

func TestSubmitNew_UnknownLeafTheme(t *testing.T) {
	t.Parallel()

	deps := testDeps{entries: &entryRepoMock{}}
	svc := newTestService(t, deps)

	l3 := uuid.New()
	input := validNewInput()
	input.Theme = domain.TaxonomyChain{L3: &l3}

	_, err := svc.SubmitNew(authedCtx(uuid.New()), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown leaf, got: %v", err)
	}
	if len(deps.entries.createCalls) != 0 {
		t.Error("no entry should be created for an unresolvable leaf")
	}
}

// ---------------------------------------------------------------------------
// SubmitVariant tests
// ---------------------------------------------------------------------------

func approvedParent() *domain.Entry {
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()
	return &domain.Entry{
		ID:            uuid.New(),
		RawText:       "唔該",
		CanonicalText: "唔該",
		Normalized:    true,
		Region:        domain.RegionGuangzhou,
		Theme:         domain.TaxonomyChain{L1: &l1, L2: &l2, L3: &l3},
		Status:        domain.EntryStatusApproved,
		ContributorID: uuid.New(),
	}
}

func validVariantInput(parentID uuid.UUID) SubmitVariantInput {
	notation := domain.NotationSystemJyutping
	return SubmitVariantInput{
		ParentEntryID:    parentID,
		Region:           domain.RegionTaishan,
		PhoneticNotation: "m4 goi1",
		NotationSystem:   &notation,
	}
}

func TestSubmitVariant_Success(t *testing.T) {
	t.Parallel()

	parent := approvedParent()
	deps := testDeps{
		entries: &entryRepoMock{
			GetByIDFunc: func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
				if entryID != parent.ID {
					return nil, domain.ErrNotFound
				}
				return parent, nil
			},
		},
	}
	svc := newTestService(t, deps)

	got, err := svc.SubmitVariant(authedCtx(uuid.New()), validVariantInput(parent.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.ParentEntryID == nil || *got.ParentEntryID != parent.ID {
		t.Errorf("parent: got %v, want %s", got.ParentEntryID, parent.ID)
	}
	if !got.IsVariant() {
		t.Error("entry should be a variant")
	}
	if got.RawText != parent.RawText {
		t.Errorf("raw text should default to parent's: got %q", got.RawText)
	}
	if !got.Theme.Equal(parent.Theme) {
		t.Errorf("theme should be copied from parent: got %+v", got.Theme)
	}
	if got.Status != domain.EntryStatusPending {
		t.Errorf("status: got %s, want PENDING", got.Status)
	}
	if got.PhoneticNotation == nil || *got.PhoneticNotation != "m4 goi1" {
		t.Errorf("phonetic notation: got %v", got.PhoneticNotation)
	}
	if got.Definition != nil {
		t.Error("variants must not carry a definition")
	}
}

func TestSubmitVariant_OwnRawText(t *testing.T) {
	t.Parallel()

	parent := approvedParent()
	deps := testDeps{
		entries: &entryRepoMock{
			GetByIDFunc: func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
				return parent, nil
			},
		},
		normalize: &normalizerMock{
			NormalizeFunc: func(ctx context.Context, text string) normalizer.Result {
				return normalizer.Result{Text: text + "(canonical)", Normalized: true}
			},
		},
	}
	svc := newTestService(t, deps)

	input := validVariantInput(parent.ID)
	own := "唔該晒"
	input.RawText = &own

	got, err := svc.SubmitVariant(authedCtx(uuid.New()), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RawText != own {
		t.Errorf("raw text: got %q, want %q", got.RawText, own)
	}
	if got.CanonicalText != own+"(canonical)" {
		t.Errorf("canonical text: got %q", got.CanonicalText)
	}
}

func TestSubmitVariant_ParentNotApproved(t *testing.T) {
	t.Parallel()

	parent := approvedParent()
	parent.Status = domain.EntryStatusPending
	deps := testDeps{
		entries: &entryRepoMock{
			GetByIDFunc: func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
				return parent, nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitVariant(authedCtx(uuid.New()), validVariantInput(parent.ID))
	if !errors.Is(err, domain.ErrParentNotEligible) {
		t.Fatalf("expected ErrParentNotEligible, got: %v", err)
	}
}

func TestSubmitVariant_ParentIsVariant(t *testing.T) {
	t.Parallel()

	grandparent := uuid.New()
	parent := approvedParent()
	parent.ParentEntryID = &grandparent
	deps := testDeps{
		entries: &entryRepoMock{
			GetByIDFunc: func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
				return parent, nil
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitVariant(authedCtx(uuid.New()), validVariantInput(parent.ID))
	if !errors.Is(err, domain.ErrParentNotEligible) {
		t.Fatalf("variants must not chain, expected ErrParentNotEligible, got: %v", err)
	}
}

func TestSubmitVariant_ParentNotFound(t *testing.T) {
	t.Parallel()

	deps := testDeps{
		entries: &entryRepoMock{
			GetByIDFunc: func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
				return nil, domain.ErrNotFound
			},
		},
	}
	svc := newTestService(t, deps)

	_, err := svc.SubmitVariant(authedCtx(uuid.New()), validVariantInput(uuid.New()))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestSubmitVariant_MissingPhonetic(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	input := validVariantInput(uuid.New())
	input.PhoneticNotation = "  "

	_, err := svc.SubmitVariant(authedCtx(uuid.New()), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

func TestSubmitVariant_SuppliedThemeRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	input := validVariantInput(uuid.New())
	l1 := uuid.New()
	input.Theme = domain.TaxonomyChain{L1: &l1}

	_, err := svc.SubmitVariant(authedCtx(uuid.New()), input)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for supplied theme, got: %v", err)
	}
}

func TestSubmitVariant_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, testDeps{})

	_, err := svc.SubmitVariant(context.Background(), validVariantInput(uuid.New()))
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got: %v", err)
	}
}
