// Package example implements the example sentence repository using PostgreSQL.
package example

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/jyutlore/jyutlore-backend/internal/adapter/postgres"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "example_sentences"

var columns = []string{"id", "expression_id", "text", "translation", "context", "source", "featured"}

// Repo provides example sentence persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new example sentence repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ListByExpressionID returns all examples attached to an entry.
// Featured examples come first.
func (r *Repo) ListByExpressionID(ctx context.Context, expressionID uuid.UUID) ([]domain.ExampleSentence, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"expression_id": expressionID}).
		OrderBy("featured DESC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list examples: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list examples: %w", err)
	}
	defer rows.Close()

	examples := []domain.ExampleSentence{}
	for rows.Next() {
		var (
			e      domain.ExampleSentence
			source string
		)
		if err := rows.Scan(&e.ID, &e.ExpressionID, &e.Text, &e.Translation, &e.Context, &source, &e.Featured); err != nil {
			return nil, fmt.Errorf("scan example: %w", err)
		}
		e.Source = domain.ExampleSource(source)
		examples = append(examples, e)
	}

	return examples, rows.Err()
}

// CreateBatch inserts the given examples. A nil or empty slice is a no-op.
func (r *Repo) CreateBatch(ctx context.Context, examples []domain.ExampleSentence) error {
	if len(examples) == 0 {
		return nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b := qb.Insert(table).Columns(columns...)
	for _, e := range examples {
		b = b.Values(e.ID, e.ExpressionID, e.Text, e.Translation, e.Context, e.Source.String(), e.Featured)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build create examples: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "example", examples[0].ExpressionID)
	}

	return nil
}

// ReplaceAll swaps the full example set of an entry for the given one.
// Must run inside a transaction so readers never observe the empty state.
func (r *Repo) ReplaceAll(ctx context.Context, expressionID uuid.UUID, examples []domain.ExampleSentence) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Delete(table).
		Where(squirrel.Eq{"expression_id": expressionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete examples: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "example", expressionID)
	}

	return r.CreateBatch(ctx, examples)
}
