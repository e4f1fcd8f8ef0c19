// Package entry implements the Entry repository using PostgreSQL.
// It persists both canonical expressions and their dialect variants in one
// denormalized table; the domain layer separates the two kinds by tag.
package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// qb builds queries with PostgreSQL placeholders.
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "entries"

var columns = []string{
	"id", "raw_text", "canonical_text", "normalized", "region",
	"theme_l1", "theme_l2", "theme_l3", "parent_entry_id",
	"definition", "usage_notes", "formality_level", "frequency",
	"phonetic_notation", "notation_system", "audio_url", "pronunciation_verified",
	"status", "contributor_id", "reviewer_id", "reviewed_at", "review_notes",
	"submitted_at", "view_count", "like_count",
}

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new entry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an entry by primary key.
// Returns domain.ErrNotFound if the entry does not exist.
func (r *Repo) GetByID(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get entry: %w", err)
	}

	e, err := scanEntry(querier.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "entry", entryID)
	}

	return e, nil
}

// ListByStatus returns entries in the given status ordered by submitted_at
// ascending (oldest submissions first, the moderation queue order), with
// the total count for pagination.
func (r *Repo) ListByStatus(ctx context.Context, status domain.EntryStatus, limit, offset int) ([]domain.Entry, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	countSQL, countArgs, err := qb.Select("count(*)").From(table).
		Where(squirrel.Eq{"status": status.String()}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count entries: %w", err)
	}

	var total int
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"status": status.String()}).
		OrderBy("submitted_at ASC", "id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list entries: %w", err)
	}

	entries, err := r.queryEntries(ctx, querier, sql, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}

	return entries, total, nil
}

// ListVariants returns all variants attached to a canonical entry,
// newest first.
func (r *Repo) ListVariants(ctx context.Context, parentEntryID uuid.UUID) ([]domain.Entry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"parent_entry_id": parentEntryID}).
		OrderBy("submitted_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list variants: %w", err)
	}

	entries, err := r.queryEntries(ctx, querier, sql, args)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}

	return entries, nil
}

// FindCandidates returns approved canonical entries whose canonical text
// exactly matches or contains (either direction) the given text. Exact
// matches sort first, then by like_count. The caller applies the full
// ranking policy; this query only narrows and bounds the set.
func (r *Repo) FindCandidates(ctx context.Context, canonicalText string, limit int) ([]domain.Entry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"status": domain.EntryStatusApproved.String()}).
		Where("parent_entry_id IS NULL").
		Where(
			"(canonical_text = ? OR canonical_text LIKE '%' || ? || '%' OR ? LIKE '%' || canonical_text || '%')",
			canonicalText, canonicalText, canonicalText,
		).
		OrderByClause("(canonical_text = ?) DESC, like_count DESC, submitted_at ASC", canonicalText).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find candidates: %w", err)
	}

	entries, err := r.queryEntries(ctx, querier, sql, args)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	return entries, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new entry.
func (r *Repo) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert(table).
		Columns(columns...).
		Values(
			e.ID, e.RawText, e.CanonicalText, e.Normalized, e.Region.String(),
			e.Theme.L1, e.Theme.L2, e.Theme.L3, e.ParentEntryID,
			e.Definition, e.UsageNotes, formalityPtr(e.FormalityLevel), frequencyPtr(e.Frequency),
			e.PhoneticNotation, notationPtr(e.NotationSystem), e.AudioURL, e.PronunciationVerified,
			e.Status.String(), e.ContributorID, e.ReviewerID, e.ReviewedAt, e.ReviewNotes,
			e.SubmittedAt, e.ViewCount, e.LikeCount,
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build create entry: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapError(err, "entry", e.ID)
	}

	return e, nil
}

// ApplyDecision performs the conditional decision write: the update only
// succeeds while the entry is still decidable (PENDING or NEEDS_REVISION).
// A concurrent decision that got there first leaves zero rows; the loser
// receives domain.ErrAlreadyDecided instead of silently overwriting.
func (r *Repo) ApplyDecision(ctx context.Context, upd domain.DecisionUpdate) (*domain.Entry, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := qb.Update(table).
		Set("reviewer_id", upd.ReviewerID).
		Set("reviewed_at", upd.ReviewedAt).
		Set("review_notes", upd.ReviewNotes)

	if upd.Status != nil {
		b = b.Set("status", upd.Status.String())
	}
	if upd.RawText != nil {
		b = b.Set("raw_text", *upd.RawText)
	}
	if upd.CanonicalText != nil {
		b = b.Set("canonical_text", *upd.CanonicalText)
	}
	if upd.Normalized != nil {
		b = b.Set("normalized", *upd.Normalized)
	}
	if upd.PhoneticNotation != nil {
		b = b.Set("phonetic_notation", *upd.PhoneticNotation)
	}
	if upd.Definition != nil {
		b = b.Set("definition", *upd.Definition)
	}
	if upd.UsageNotes != nil {
		b = b.Set("usage_notes", *upd.UsageNotes)
	}

	sql, args, err := b.
		Where(squirrel.Eq{"id": upd.EntryID}).
		Where(squirrel.Eq{"status": []string{
			domain.EntryStatusPending.String(),
			domain.EntryStatusNeedsRevision.String(),
		}}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build apply decision: %w", err)
	}

	e, err := scanEntry(querier.QueryRow(ctx, sql, args...))
	if err == nil {
		return e, nil
	}
	if mapped := postgres.MapError(err, "entry", upd.EntryID); !errors.Is(mapped, domain.ErrNotFound) {
		return nil, mapped
	}

	// Zero rows: either the entry is gone or it was already decided.
	var status string
	checkSQL, checkArgs, err := qb.Select("status").From(table).
		Where(squirrel.Eq{"id": upd.EntryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build decision check: %w", err)
	}
	if err := querier.QueryRow(ctx, checkSQL, checkArgs...).Scan(&status); err != nil {
		return nil, postgres.MapError(err, "entry", upd.EntryID)
	}

	return nil, fmt.Errorf("entry %s in status %s: %w", upd.EntryID, status, domain.ErrAlreadyDecided)
}

// IncrementViewCount atomically bumps the view counter.
func (r *Repo) IncrementViewCount(ctx context.Context, entryID uuid.UUID) error {
	return r.increment(ctx, entryID, "view_count")
}

// IncrementLikeCount atomically bumps the like counter.
func (r *Repo) IncrementLikeCount(ctx context.Context, entryID uuid.UUID) error {
	return r.increment(ctx, entryID, "like_count")
}

func (r *Repo) increment(ctx context.Context, entryID uuid.UUID, column string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update(table).
		Set(column, squirrel.Expr(column+" + 1")).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build increment %s: %w", column, err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", entryID, domain.ErrNotFound)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func (r *Repo) queryEntries(ctx context.Context, querier postgres.Querier, sql string, args []any) ([]domain.Entry, error) {
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var (
		e                      domain.Entry
		region, status         string
		formality, freq, notat *string
	)

	err := row.Scan(
		&e.ID, &e.RawText, &e.CanonicalText, &e.Normalized, &region,
		&e.Theme.L1, &e.Theme.L2, &e.Theme.L3, &e.ParentEntryID,
		&e.Definition, &e.UsageNotes, &formality, &freq,
		&e.PhoneticNotation, &notat, &e.AudioURL, &e.PronunciationVerified,
		&status, &e.ContributorID, &e.ReviewerID, &e.ReviewedAt, &e.ReviewNotes,
		&e.SubmittedAt, &e.ViewCount, &e.LikeCount,
	)
	if err != nil {
		return nil, err
	}

	e.Region = domain.Region(region)
	e.Status = domain.EntryStatus(status)
	if formality != nil {
		f := domain.FormalityLevel(*formality)
		e.FormalityLevel = &f
	}
	if freq != nil {
		f := domain.Frequency(*freq)
		e.Frequency = &f
	}
	if notat != nil {
		n := domain.NotationSystem(*notat)
		e.NotationSystem = &n
	}

	return &e, nil
}

func columnList() string {
	list := columns[0]
	for _, c := range columns[1:] {
		list += ", " + c
	}
	return list
}

// ---------------------------------------------------------------------------
// Enum pointer helpers
// ---------------------------------------------------------------------------

func formalityPtr(f *domain.FormalityLevel) *string {
	if f == nil {
		return nil
	}
	s := f.String()
	return &s
}

func frequencyPtr(f *domain.Frequency) *string {
	if f == nil {
		return nil
	}
	s := f.String()
	return &s
}

func notationPtr(n *domain.NotationSystem) *string {
	if n == nil {
		return nil
	}
	s := n.String()
	return &s
}
