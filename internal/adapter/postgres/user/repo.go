// Package user implements the user repository using PostgreSQL.
// Besides basic reads it owns the denormalized contribution and review
// counters: incremental bumps for the hot path and full recomputation for
// the reconciliation job.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "users"

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a user by primary key.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("id", "role", "contribution_count", "review_count", "created_at", "updated_at").
		From(table).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}

	var (
		u    domain.User
		role string
	)
	err = querier.QueryRow(ctx, sql, args...).
		Scan(&u.ID, &role, &u.ContributionCount, &u.ReviewCount, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "user", userID)
	}
	u.Role = domain.UserRole(role)

	return &u, nil
}

// EnsureExists creates the user row on first contact with the default
// contributor role. Existing rows are left untouched.
func (r *Repo) EnsureExists(ctx context.Context, userID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert(table).
		Columns("id", "role").
		Values(userID, domain.UserRoleContributor.String()).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build ensure user: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "user", userID)
	}

	return nil
}

// IncrementContributionCount atomically bumps the contribution counter.
func (r *Repo) IncrementContributionCount(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "contribution_count")
}

// IncrementReviewCount atomically bumps the review counter.
func (r *Repo) IncrementReviewCount(ctx context.Context, userID uuid.UUID) error {
	return r.increment(ctx, userID, "review_count")
}

func (r *Repo) increment(ctx context.Context, userID uuid.UUID, column string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update(table).
		Set(column, squirrel.Expr(column+" + 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build increment %s: %w", column, err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}

	return nil
}

// ComputeStats recounts a user's contributions and reviews from the entries
// table. Contributions are approved entries the user submitted; reviews are
// decided entries the user moderated.
func (r *Repo) ComputeStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	const sql = `
		SELECT
			(SELECT count(*) FROM entries WHERE contributor_id = $1 AND status = 'APPROVED'),
			(SELECT count(*) FROM entries WHERE reviewer_id = $1)`

	stats := domain.UserStats{UserID: userID}
	err := querier.QueryRow(ctx, sql, userID).Scan(&stats.ContributionCount, &stats.ReviewCount)
	if err != nil {
		return nil, postgres.MapError(err, "user", userID)
	}

	return &stats, nil
}

// UpdateStats writes recomputed counters back to the user row.
func (r *Repo) UpdateStats(ctx context.Context, stats *domain.UserStats) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update(table).
		Set("contribution_count", stats.ContributionCount).
		Set("review_count", stats.ReviewCount).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": stats.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update stats: %w", err)
	}

	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "user", stats.UserID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", stats.UserID, domain.ErrNotFound)
	}

	return nil
}

// ListIDs returns every user id. Used by the reconciliation job to walk the
// whole user base.
func (r *Repo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select("id").From(table).OrderBy("created_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list user ids: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
