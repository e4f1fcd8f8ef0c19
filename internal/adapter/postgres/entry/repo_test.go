package entry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/entry"
	"github.com/jyutlore/jyutlore-backend/internal/adapter/postgres/testhelper"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// newRepo sets up a test DB and returns a ready Repo + pool.
func newRepo(t *testing.T) (*entry.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return entry.New(pool), pool
}

// buildEntry creates a pending canonical entry for the given contributor
// using a freshly seeded taxonomy chain.
func buildEntry(t *testing.T, pool *pgxpool.Pool, contributorID uuid.UUID, text string) domain.Entry {
	t.Helper()

	chain := testhelper.SeedTaxonomyChain(t, pool)
	definition := "definition for " + text
	return domain.Entry{
		ID:            uuid.New(),
		RawText:       text,
		CanonicalText: text,
		Normalized:    true,
		Region:        domain.RegionGuangzhou,
		Theme:         chain,
		Definition:    &definition,
		Status:        domain.EntryStatusPending,
		ContributorID: contributorID,
		SubmittedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

// ---------------------------------------------------------------------------
// Create / GetByID tests
// ---------------------------------------------------------------------------

func TestRepo_Create_ThenGetByID_RoundTrip(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)

	input := buildEntry(t, pool, user.ID, "entry-roundtrip-"+uuid.NewString()[:8])
	usageNotes := "informal speech"
	formality := domain.FormalityColloquial
	input.UsageNotes = &usageNotes
	input.FormalityLevel = &formality

	if _, err := repo.Create(ctx, &input); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	got, err := repo.GetByID(ctx, input.ID)
	if err != nil {
		t.Fatalf("GetByID: unexpected error: %v", err)
	}

	if got.ID != input.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, input.ID)
	}
	if got.RawText != input.RawText {
		t.Errorf("RawText mismatch: got %q, want %q", got.RawText, input.RawText)
	}
	if got.CanonicalText != input.CanonicalText {
		t.Errorf("CanonicalText mismatch: got %q, want %q", got.CanonicalText, input.CanonicalText)
	}
	if got.Region != domain.RegionGuangzhou {
		t.Errorf("Region mismatch: got %s, want %s", got.Region, domain.RegionGuangzhou)
	}
	if !got.Theme.Equal(input.Theme) {
		t.Errorf("Theme mismatch: got %+v, want %+v", got.Theme, input.Theme)
	}
	if got.Status != domain.EntryStatusPending {
		t.Errorf("Status mismatch: got %s, want %s", got.Status, domain.EntryStatusPending)
	}
	if got.Definition == nil || *got.Definition != *input.Definition {
		t.Errorf("Definition mismatch: got %v, want %v", got.Definition, input.Definition)
	}
	if got.FormalityLevel == nil || *got.FormalityLevel != domain.FormalityColloquial {
		t.Errorf("FormalityLevel mismatch: got %v", got.FormalityLevel)
	}
	if !got.SubmittedAt.Equal(input.SubmittedAt) {
		t.Errorf("SubmittedAt mismatch: got %s, want %s", got.SubmittedAt, input.SubmittedAt)
	}
	if got.ViewCount != 0 || got.LikeCount != 0 {
		t.Errorf("counters should start at zero, got views=%d likes=%d", got.ViewCount, got.LikeCount)
	}
}

func TestRepo_GetByID_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_Create_UnknownContributor(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()

	input := buildEntry(t, pool, uuid.New(), "entry-orphan-"+uuid.NewString()[:8])

	_, err := repo.Create(ctx, &input)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for FK violation, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListByStatus tests
// ---------------------------------------------------------------------------

func TestRepo_ListByStatus_OrderAndTotal(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)

	base := time.Now().UTC().Truncate(time.Microsecond)
	var created []domain.Entry
	for i := range 3 {
		e := buildEntry(t, pool, user.ID, "queue-"+uuid.NewString()[:8])
		e.SubmittedAt = base.Add(time.Duration(i) * time.Millisecond)
		if _, err := repo.Create(ctx, &e); err != nil {
			t.Fatalf("Create[%d]: %v", i, err)
		}
		created = append(created, e)
	}

	got, total, err := repo.ListByStatus(ctx, domain.EntryStatusPending, 100, 0)
	if err != nil {
		t.Fatalf("ListByStatus: unexpected error: %v", err)
	}

	if total < 3 {
		t.Errorf("total should count at least the 3 created entries, got %d", total)
	}

	// Oldest submissions first.
	for i := 1; i < len(got); i++ {
		if got[i].SubmittedAt.Before(got[i-1].SubmittedAt) {
			t.Errorf("queue not in ASC order: [%d].SubmittedAt=%s < [%d].SubmittedAt=%s",
				i, got[i].SubmittedAt, i-1, got[i-1].SubmittedAt)
		}
	}

	found := map[uuid.UUID]bool{}
	for _, e := range got {
		found[e.ID] = true
	}
	for i, e := range created {
		if !found[e.ID] {
			t.Errorf("created entry %d (%s) missing from queue", i, e.ID)
		}
	}
}

func TestRepo_ListByStatus_EmptyResult(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	got, _, err := repo.ListByStatus(ctx, domain.EntryStatusRejected, 1, 1_000_000)
	if err != nil {
		t.Fatalf("ListByStatus: unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("result should not be nil (empty result should return empty slice)")
	}
}

// ---------------------------------------------------------------------------
// ListVariants tests
// ---------------------------------------------------------------------------

func TestRepo_ListVariants(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)

	parent := testhelper.SeedEntry(t, pool, user.ID, domain.EntryStatusApproved)
	v1 := testhelper.SeedVariant(t, pool, user.ID, parent, domain.EntryStatusApproved)
	v2 := testhelper.SeedVariant(t, pool, user.ID, parent, domain.EntryStatusPending)

	got, err := repo.ListVariants(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ListVariants: unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(got))
	}
	ids := map[uuid.UUID]bool{got[0].ID: true, got[1].ID: true}
	if !ids[v1.ID] || !ids[v2.ID] {
		t.Errorf("variant set mismatch: got %v, want {%s, %s}", ids, v1.ID, v2.ID)
	}
	for _, v := range got {
		if v.ParentEntryID == nil || *v.ParentEntryID != parent.ID {
			t.Errorf("ParentEntryID mismatch: got %v, want %s", v.ParentEntryID, parent.ID)
		}
		if !v.IsVariant() {
			t.Errorf("entry %s should be a variant", v.ID)
		}
	}
}

func TestRepo_ListVariants_NoVariants(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	parent := testhelper.SeedEntry(t, pool, user.ID, domain.EntryStatusApproved)

	got, err := repo.ListVariants(ctx, parent.ID)
	if err != nil {
		t.Fatalf("ListVariants: unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected 0 variants, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// FindCandidates tests
// ---------------------------------------------------------------------------

func TestRepo_FindCandidates_ExactAndContains(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)

	marker := "dup-" + uuid.NewString()[:8]

	exact := buildEntry(t, pool, user.ID, marker)
	exact.Status = domain.EntryStatusApproved
	if _, err := repo.Create(ctx, &exact); err != nil {
		t.Fatalf("Create exact: %v", err)
	}

	superstring := buildEntry(t, pool, user.ID, marker+"-extended")
	superstring.Status = domain.EntryStatusApproved
	if _, err := repo.Create(ctx, &superstring); err != nil {
		t.Fatalf("Create superstring: %v", err)
	}

	unrelated := buildEntry(t, pool, user.ID, "other-"+uuid.NewString()[:8])
	unrelated.Status = domain.EntryStatusApproved
	if _, err := repo.Create(ctx, &unrelated); err != nil {
		t.Fatalf("Create unrelated: %v", err)
	}

	got, err := repo.FindCandidates(ctx, marker, 10)
	if err != nil {
		t.Fatalf("FindCandidates: unexpected error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != exact.ID {
		t.Errorf("exact match should rank first: got %s, want %s", got[0].ID, exact.ID)
	}
	if got[1].ID != superstring.ID {
		t.Errorf("containing match should rank second: got %s, want %s", got[1].ID, superstring.ID)
	}
}

func TestRepo_FindCandidates_SkipsPendingAndVariants(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)

	marker := "dup-" + uuid.NewString()[:8]

	pending := buildEntry(t, pool, user.ID, marker)
	if _, err := repo.Create(ctx, &pending); err != nil {
		t.Fatalf("Create pending: %v", err)
	}

	parent := testhelper.SeedEntry(t, pool, user.ID, domain.EntryStatusApproved)
	testhelper.SeedVariant(t, pool, user.ID, parent, domain.EntryStatusApproved)

	got, err := repo.FindCandidates(ctx, marker, 10)
	if err != nil {
		t.Fatalf("FindCandidates: unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("pending entries and variants should not be candidates, got %d", len(got))
	}
}

// ---------------------------------------------------------------------------
// ApplyDecision tests
// ---------------------------------------------------------------------------

func TestRepo_ApplyDecision_Approve(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	contributor := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	e := testhelper.SeedEntry(t, pool, contributor.ID, domain.EntryStatusPending)

	status := domain.EntryStatusApproved
	notes := "looks good"
	reviewedAt := time.Now().UTC().Truncate(time.Microsecond)

	got, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
		EntryID:     e.ID,
		Status:      &status,
		ReviewerID:  moderator.ID,
		ReviewedAt:  reviewedAt,
		ReviewNotes: &notes,
	})
	if err != nil {
		t.Fatalf("ApplyDecision: unexpected error: %v", err)
	}

	if got.Status != domain.EntryStatusApproved {
		t.Errorf("Status mismatch: got %s, want %s", got.Status, domain.EntryStatusApproved)
	}
	if got.ReviewerID == nil || *got.ReviewerID != moderator.ID {
		t.Errorf("ReviewerID mismatch: got %v, want %s", got.ReviewerID, moderator.ID)
	}
	if got.ReviewedAt == nil || !got.ReviewedAt.Equal(reviewedAt) {
		t.Errorf("ReviewedAt mismatch: got %v, want %s", got.ReviewedAt, reviewedAt)
	}
	if got.ReviewNotes == nil || *got.ReviewNotes != notes {
		t.Errorf("ReviewNotes mismatch: got %v, want %q", got.ReviewNotes, notes)
	}
}

func TestRepo_ApplyDecision_WithRevisedContent(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	contributor := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	e := testhelper.SeedEntry(t, pool, contributor.ID, domain.EntryStatusPending)

	status := domain.EntryStatusApproved
	rawText := "corrected text"
	canonical := "corrected text"
	normalized := true
	definition := "corrected definition"

	got, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
		EntryID:       e.ID,
		Status:        &status,
		ReviewerID:    moderator.ID,
		ReviewedAt:    time.Now().UTC(),
		RawText:       &rawText,
		CanonicalText: &canonical,
		Normalized:    &normalized,
		Definition:    &definition,
	})
	if err != nil {
		t.Fatalf("ApplyDecision: unexpected error: %v", err)
	}

	if got.RawText != rawText {
		t.Errorf("RawText mismatch: got %q, want %q", got.RawText, rawText)
	}
	if got.CanonicalText != canonical {
		t.Errorf("CanonicalText mismatch: got %q, want %q", got.CanonicalText, canonical)
	}
	if got.Definition == nil || *got.Definition != definition {
		t.Errorf("Definition mismatch: got %v, want %q", got.Definition, definition)
	}
}

func TestRepo_ApplyDecision_KeepPending(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	contributor := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	e := testhelper.SeedEntry(t, pool, contributor.ID, domain.EntryStatusPending)
	notes := "needs native speaker confirmation"

	got, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
		EntryID:     e.ID,
		ReviewerID:  moderator.ID,
		ReviewedAt:  time.Now().UTC(),
		ReviewNotes: &notes,
	})
	if err != nil {
		t.Fatalf("ApplyDecision: unexpected error: %v", err)
	}

	if got.Status != domain.EntryStatusPending {
		t.Errorf("Status should stay PENDING, got %s", got.Status)
	}
	if got.ReviewNotes == nil || *got.ReviewNotes != notes {
		t.Errorf("ReviewNotes mismatch: got %v, want %q", got.ReviewNotes, notes)
	}
}

func TestRepo_ApplyDecision_AlreadyDecided(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	contributor := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	e := testhelper.SeedEntry(t, pool, contributor.ID, domain.EntryStatusApproved)

	status := domain.EntryStatusRejected
	_, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
		EntryID:    e.ID,
		Status:     &status,
		ReviewerID: moderator.ID,
		ReviewedAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got: %v", err)
	}
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("ErrAlreadyDecided should wrap ErrConflict, got: %v", err)
	}
}

func TestRepo_ApplyDecision_ConcurrentSecondLoses(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	contributor := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	e := testhelper.SeedEntry(t, pool, contributor.ID, domain.EntryStatusPending)

	results := make(chan error, 2)
	for _, status := range []domain.EntryStatus{domain.EntryStatusApproved, domain.EntryStatusRejected} {
		go func(status domain.EntryStatus) {
			_, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
				EntryID:    e.ID,
				Status:     &status,
				ReviewerID: moderator.ID,
				ReviewedAt: time.Now().UTC(),
			})
			results <- err
		}(status)
	}

	var applied, conflicts int
	for i := 0; i < 2; i++ {
		switch err := <-results; {
		case err == nil:
			applied++
		case errors.Is(err, domain.ErrAlreadyDecided):
			conflicts++
		default:
			t.Fatalf("ApplyDecision: unexpected error: %v", err)
		}
	}
	if applied != 1 || conflicts != 1 {
		t.Errorf("got %d applied and %d conflicts, want exactly one of each", applied, conflicts)
	}
}

func TestRepo_ApplyDecision_NotFound(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	status := domain.EntryStatusApproved
	_, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
		EntryID:    uuid.New(),
		Status:     &status,
		ReviewerID: moderator.ID,
		ReviewedAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_ApplyDecision_FromNeedsRevision(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	contributor := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	moderator := testhelper.SeedUser(t, pool, domain.UserRoleModerator)

	e := testhelper.SeedEntry(t, pool, contributor.ID, domain.EntryStatusNeedsRevision)

	status := domain.EntryStatusApproved
	got, err := repo.ApplyDecision(ctx, domain.DecisionUpdate{
		EntryID:    e.ID,
		Status:     &status,
		ReviewerID: moderator.ID,
		ReviewedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("ApplyDecision: unexpected error: %v", err)
	}
	if got.Status != domain.EntryStatusApproved {
		t.Errorf("Status mismatch: got %s, want %s", got.Status, domain.EntryStatusApproved)
	}
}

// ---------------------------------------------------------------------------
// Counter tests
// ---------------------------------------------------------------------------

func TestRepo_IncrementViewCount(t *testing.T) {
	t.Parallel()
	repo, pool := newRepo(t)
	ctx := context.Background()
	user := testhelper.SeedUser(t, pool, domain.UserRoleContributor)
	e := testhelper.SeedEntry(t, pool, user.ID, domain.EntryStatusApproved)

	for i := range 3 {
		if err := repo.IncrementViewCount(ctx, e.ID); err != nil {
			t.Fatalf("IncrementViewCount[%d]: %v", i, err)
		}
	}

	got, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ViewCount != 3 {
		t.Errorf("ViewCount mismatch: got %d, want 3", got.ViewCount)
	}
	if got.LikeCount != 0 {
		t.Errorf("LikeCount should be untouched, got %d", got.LikeCount)
	}
}

func TestRepo_IncrementLikeCount_NotFound(t *testing.T) {
	t.Parallel()
	repo, _ := newRepo(t)
	ctx := context.Background()

	err := repo.IncrementLikeCount(ctx, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
