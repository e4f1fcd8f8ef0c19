package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user with the given role. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role domain.UserRole) domain.User {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, role, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Role.String(), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedTaxonomyChain creates a full three-level branch (one node per level)
// with unique names. Returns the chain referencing the created nodes.
func SeedTaxonomyChain(t *testing.T, pool *pgxpool.Pool) domain.TaxonomyChain {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()

	l1 := domain.TaxonomyNode{ID: uuid.New(), Name: "theme-" + suffix, Level: domain.TaxonomyLevelTop, Active: true}
	l2 := domain.TaxonomyNode{ID: uuid.New(), Name: "subtheme-" + suffix, Level: domain.TaxonomyLevelMid, ParentID: &l1.ID, Active: true}
	l3 := domain.TaxonomyNode{ID: uuid.New(), Name: "topic-" + suffix, Level: domain.TaxonomyLevelLeaf, ParentID: &l2.ID, Active: true}

	for _, n := range []domain.TaxonomyNode{l1, l2, l3} {
		_, err := pool.Exec(ctx,
			`INSERT INTO taxonomy_nodes (id, name, level, parent_id, active) VALUES ($1, $2, $3, $4, $5)`,
			n.ID, n.Name, n.Level, n.ParentID, n.Active,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedTaxonomyChain insert node level %d: %v", n.Level, err)
		}
	}

	return domain.TaxonomyChain{L1: &l1.ID, L2: &l2.ID, L3: &l3.ID}
}

// SeedEntry creates a canonical entry in the given status. The theme chain
// and a definition are filled so the entry looks like a real submission.
// Returns a filled domain.Entry.
func SeedEntry(t *testing.T, pool *pgxpool.Pool, contributorID uuid.UUID, status domain.EntryStatus) domain.Entry {
	t.Helper()

	suffix := uniqueSuffix()
	chain := SeedTaxonomyChain(t, pool)

	definition := "Definition " + suffix
	entry := domain.Entry{
		ID:            uuid.New(),
		RawText:       "expression-" + suffix,
		CanonicalText: "expression-" + suffix,
		Normalized:    true,
		Region:        domain.RegionGuangzhou,
		Theme:         chain,
		Definition:    &definition,
		Status:        status,
		ContributorID: contributorID,
		SubmittedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	insertEntry(t, pool, entry)
	return entry
}

// SeedVariant creates a variant entry attached to the given canonical parent,
// copying the parent's region and theme chain.
func SeedVariant(t *testing.T, pool *pgxpool.Pool, contributorID uuid.UUID, parent domain.Entry, status domain.EntryStatus) domain.Entry {
	t.Helper()

	suffix := uniqueSuffix()
	phonetic := "pron-" + suffix
	notation := domain.NotationSystemJyutping

	entry := domain.Entry{
		ID:               uuid.New(),
		RawText:          parent.RawText,
		CanonicalText:    parent.CanonicalText,
		Normalized:       true,
		Region:           domain.RegionTaishan,
		Theme:            parent.Theme,
		ParentEntryID:    &parent.ID,
		PhoneticNotation: &phonetic,
		NotationSystem:   &notation,
		Status:           status,
		ContributorID:    contributorID,
		SubmittedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}

	insertEntry(t, pool, entry)
	return entry
}

// SeedExample creates one example sentence attached to an entry.
func SeedExample(t *testing.T, pool *pgxpool.Pool, expressionID uuid.UUID) domain.ExampleSentence {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	translation := "Translation " + suffix
	ex := domain.ExampleSentence{
		ID:           uuid.New(),
		ExpressionID: expressionID,
		Text:         "Example " + suffix,
		Translation:  &translation,
		Source:       domain.ExampleSourceUserGenerated,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO example_sentences (id, expression_id, text, translation, context, source, featured)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ex.ID, ex.ExpressionID, ex.Text, ex.Translation, ex.Context, ex.Source.String(), ex.Featured,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedExample insert example: %v", err)
	}

	return ex
}

func insertEntry(t *testing.T, pool *pgxpool.Pool, e domain.Entry) {
	t.Helper()
	ctx := context.Background()

	var notation *string
	if e.NotationSystem != nil {
		s := e.NotationSystem.String()
		notation = &s
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO entries (
			id, raw_text, canonical_text, normalized, region,
			theme_l1, theme_l2, theme_l3, parent_entry_id,
			definition, usage_notes, phonetic_notation, notation_system,
			status, contributor_id, submitted_at, view_count, like_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		e.ID, e.RawText, e.CanonicalText, e.Normalized, e.Region.String(),
		e.Theme.L1, e.Theme.L2, e.Theme.L3, e.ParentEntryID,
		e.Definition, e.UsageNotes, e.PhoneticNotation, notation,
		e.Status.String(), e.ContributorID, e.SubmittedAt, e.ViewCount, e.LikeCount,
	)
	if err != nil {
		t.Fatalf("testhelper: insert entry: %v", err)
	}
}
