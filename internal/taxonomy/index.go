// Package taxonomy provides a cached, validating view over the three-level
// theme hierarchy. All chain validation in the system goes through the Index
// so the rules live in exactly one place.
package taxonomy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// nodeStore is the subset of the taxonomy repository the index needs.
type nodeStore interface {
	GetByID(ctx context.Context, nodeID uuid.UUID) (*domain.TaxonomyNode, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]domain.TaxonomyNode, error)
	ListRoots(ctx context.Context) ([]domain.TaxonomyNode, error)
	FindLeafByName(ctx context.Context, name string) (*domain.TaxonomyNode, error)
}

const rootsKey = "roots"

// Index caches taxonomy nodes with a TTL and answers chain questions.
// Validation is fail-closed: if the store cannot be reached the chain is
// reported invalid rather than waved through.
type Index struct {
	store  nodeStore
	cache  *gocache.Cache
	logger *slog.Logger
}

// NewIndex creates a taxonomy index with the given cache TTL.
func NewIndex(store nodeStore, ttl, cleanup time.Duration, logger *slog.Logger) *Index {
	return &Index{
		store:  store,
		cache:  gocache.New(ttl, cleanup),
		logger: logger.With("component", "taxonomy_index"),
	}
}

// Resolve returns the node with the given id, from cache when fresh.
func (i *Index) Resolve(ctx context.Context, nodeID uuid.UUID) (*domain.TaxonomyNode, error) {
	key := "node:" + nodeID.String()
	if v, ok := i.cache.Get(key); ok {
		n := v.(domain.TaxonomyNode)
		return &n, nil
	}

	n, err := i.store.GetByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}

	i.cache.SetDefault(key, *n)
	return n, nil
}

// ChildrenOf returns the active children of a node.
func (i *Index) ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]domain.TaxonomyNode, error) {
	key := "children:" + parentID.String()
	if v, ok := i.cache.Get(key); ok {
		return v.([]domain.TaxonomyNode), nil
	}

	children, err := i.store.ListChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}

	i.cache.SetDefault(key, children)
	return children, nil
}

// Roots returns the active level-1 nodes.
func (i *Index) Roots(ctx context.Context) ([]domain.TaxonomyNode, error) {
	if v, ok := i.cache.Get(rootsKey); ok {
		return v.([]domain.TaxonomyNode), nil
	}

	roots, err := i.store.ListRoots(ctx)
	if err != nil {
		return nil, err
	}

	i.cache.SetDefault(rootsKey, roots)
	return roots, nil
}

// ValidateChain checks that the set levels of a theme chain form a
// parent-linked prefix of active nodes at the right levels. Each level is
// individually optional, but a set level requires the one above it: l1,
// l1+l2, and l1+l2+l3 are valid shapes, l3 without l2 or l2 without l1 is
// not, and gaps are rejected rather than silently filled. An empty chain is
// accepted. Store failures surface as errors so callers reject the
// submission instead of storing an unverified chain.
func (i *Index) ValidateChain(ctx context.Context, chain domain.TaxonomyChain) error {
	if chain.IsEmpty() {
		return nil
	}
	if chain.L2 != nil && chain.L1 == nil {
		return domain.NewValidationError("theme.l2", "requires theme.l1")
	}
	if chain.L3 != nil && chain.L2 == nil {
		return domain.NewValidationError("theme.l3", "requires theme.l2")
	}

	levels := []struct {
		field  string
		id     *uuid.UUID
		level  int
		parent *uuid.UUID
	}{
		{"theme.l1", chain.L1, domain.TaxonomyLevelTop, nil},
		{"theme.l2", chain.L2, domain.TaxonomyLevelMid, chain.L1},
		{"theme.l3", chain.L3, domain.TaxonomyLevelLeaf, chain.L2},
	}

	for _, want := range levels {
		if want.id == nil {
			continue
		}

		node, err := i.Resolve(ctx, *want.id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError(want.field, "unknown taxonomy node")
			}
			return fmt.Errorf("resolve taxonomy node %s: %w", want.id, err)
		}

		if !node.Active {
			return domain.NewValidationError(want.field, "taxonomy node is inactive")
		}
		if node.Level != want.level {
			return domain.NewValidationError(want.field,
				fmt.Sprintf("node is level %d, expected level %d", node.Level, want.level))
		}
		if want.parent != nil {
			if node.ParentID == nil || *node.ParentID != *want.parent {
				return domain.NewValidationError(want.field, "node does not belong to the selected parent")
			}
		}
	}

	return nil
}

// ChainForLeaf walks parent links up from a leaf node and returns the full
// chain. Used to expand an assistant's leaf-level theme guess.
func (i *Index) ChainForLeaf(ctx context.Context, leafID uuid.UUID) (domain.TaxonomyChain, error) {
	leaf, err := i.Resolve(ctx, leafID)
	if err != nil {
		return domain.TaxonomyChain{}, err
	}
	if leaf.Level != domain.TaxonomyLevelLeaf || leaf.ParentID == nil {
		return domain.TaxonomyChain{}, fmt.Errorf("node %s is not a leaf: %w", leafID, domain.ErrValidation)
	}

	mid, err := i.Resolve(ctx, *leaf.ParentID)
	if err != nil {
		return domain.TaxonomyChain{}, err
	}
	if mid.ParentID == nil {
		return domain.TaxonomyChain{}, fmt.Errorf("node %s has no parent: %w", mid.ID, domain.ErrValidation)
	}

	top, err := i.Resolve(ctx, *mid.ParentID)
	if err != nil {
		return domain.TaxonomyChain{}, err
	}

	return domain.TaxonomyChain{L1: &top.ID, L2: &mid.ID, L3: &leaf.ID}, nil
}

// FindLeafByName resolves an active leaf node by exact name. The lookup is
// used for assistant suggestions, so a miss is normal and not logged.
func (i *Index) FindLeafByName(ctx context.Context, name string) (*domain.TaxonomyNode, error) {
	key := "leaf:" + name
	if v, ok := i.cache.Get(key); ok {
		n := v.(domain.TaxonomyNode)
		return &n, nil
	}

	n, err := i.store.FindLeafByName(ctx, name)
	if err != nil {
		return nil, err
	}

	i.cache.SetDefault(key, *n)
	i.cache.SetDefault("node:"+n.ID.String(), *n)
	return n, nil
}

// Invalidate drops all cached taxonomy data. Exposed for the seeding tool.
func (i *Index) Invalidate() {
	i.cache.Flush()
	i.logger.Debug("taxonomy cache flushed")
}
