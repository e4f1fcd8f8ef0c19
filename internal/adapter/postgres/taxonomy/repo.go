// Package taxonomy implements the taxonomy node repository using PostgreSQL.
// The table is small and read-mostly; callers are expected to front it with
// the in-memory index rather than hit it per request.
package taxonomy

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

const table = "taxonomy_nodes"

var columns = []string{"id", "name", "level", "parent_id", "active"}

// Repo provides taxonomy node persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new taxonomy repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a single taxonomy node.
// Returns domain.ErrNotFound if the node does not exist.
func (r *Repo) GetByID(ctx context.Context, nodeID uuid.UUID) (*domain.TaxonomyNode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": nodeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get node: %w", err)
	}

	var n domain.TaxonomyNode
	err = querier.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.Name, &n.Level, &n.ParentID, &n.Active)
	if err != nil {
		return nil, postgres.MapError(err, "taxonomy node", nodeID)
	}

	return &n, nil
}

// ListChildren returns the active children of a node, sorted by name.
func (r *Repo) ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.TaxonomyNode, error) {
	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"parent_id": parentID, "active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list children: %w", err)
	}

	return r.queryNodes(ctx, sql, args)
}

// ListRoots returns the active level-1 nodes, sorted by name.
func (r *Repo) ListRoots(ctx context.Context) ([]domain.TaxonomyNode, error) {
	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"level": domain.TaxonomyLevelTop, "active": true}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list roots: %w", err)
	}

	return r.queryNodes(ctx, sql, args)
}

// ListAll returns every node, active or not. Used to warm the index.
func (r *Repo) ListAll(ctx context.Context) ([]domain.TaxonomyNode, error) {
	sql, args, err := qb.Select(columns...).From(table).
		OrderBy("level ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list nodes: %w", err)
	}

	return r.queryNodes(ctx, sql, args)
}

// FindLeafByName returns the active level-3 node with the given name.
// Returns domain.ErrNotFound when no such leaf exists.
func (r *Repo) FindLeafByName(ctx context.Context, name string) (*domain.TaxonomyNode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"level": domain.TaxonomyLevelLeaf, "name": name, "active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find leaf: %w", err)
	}

	var n domain.TaxonomyNode
	err = querier.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.Name, &n.Level, &n.ParentID, &n.Active)
	if err != nil {
		return nil, postgres.MapError(err, "taxonomy node", uuid.Nil)
	}

	return &n, nil
}

// GetByName returns the node with the given name at the given level,
// active or not. Names are unique per level.
// Returns domain.ErrNotFound when no such node exists.
func (r *Repo) GetByName(ctx context.Context, name string, level int) (*domain.TaxonomyNode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"level": level, "name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get node by name: %w", err)
	}

	var n domain.TaxonomyNode
	err = querier.QueryRow(ctx, sql, args...).Scan(&n.ID, &n.Name, &n.Level, &n.ParentID, &n.Active)
	if err != nil {
		return nil, postgres.MapError(err, "taxonomy node", uuid.Nil)
	}

	return &n, nil
}

// Create inserts a taxonomy node. Used by the seeding tool.
func (r *Repo) Create(ctx context.Context, n *domain.TaxonomyNode) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert(table).
		Columns(columns...).
		Values(n.ID, n.Name, n.Level, n.ParentID, n.Active).
		Suffix("ON CONFLICT (level, name) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create node: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "taxonomy node", n.ID)
	}

	return nil
}

func (r *Repo) queryNodes(ctx context.Context, sql string, args []any) ([]domain.TaxonomyNode, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	nodes := []domain.TaxonomyNode{}
	for rows.Next() {
		var n domain.TaxonomyNode
		if err := rows.Scan(&n.ID, &n.Name, &n.Level, &n.ParentID, &n.Active); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}
