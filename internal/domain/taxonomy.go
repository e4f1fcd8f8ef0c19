package domain

import (
	"github.com/google/uuid"
)

// Taxonomy levels. The theme tree has exactly three fixed levels.
const (
	TaxonomyLevelTop  = 1
	TaxonomyLevelMid  = 2
	TaxonomyLevelLeaf = 3
)

// TaxonomyNode is a classification node in the three-level theme tree.
// Nodes are curated outside the submission workflow and are read-only here.
type TaxonomyNode struct {
	ID       uuid.UUID
	Name     string
	Level    int
	ParentID *uuid.UUID
	Active   bool
}

// IsRoot reports whether the node is a level-1 node (no parent).
func (n *TaxonomyNode) IsRoot() bool {
	return n.Level == TaxonomyLevelTop
}

// IsLeaf reports whether the node is a level-3 node.
func (n *TaxonomyNode) IsLeaf() bool {
	return n.Level == TaxonomyLevelLeaf
}

// TaxonomyChain is the (level-1, level-2, level-3) classification path an
// entry is filed under. Any level may be nil, but set levels must form a
// consistent parent chain, enforced exclusively by taxonomy.Index
// ValidateChain, never ad hoc at call sites.
type TaxonomyChain struct {
	L1 *uuid.UUID
	L2 *uuid.UUID
	L3 *uuid.UUID
}

// IsEmpty reports whether no level is set.
func (c TaxonomyChain) IsEmpty() bool {
	return c.L1 == nil && c.L2 == nil && c.L3 == nil
}

// Equal reports whether two chains reference the same nodes.
func (c TaxonomyChain) Equal(other TaxonomyChain) bool {
	return uuidPtrEqual(c.L1, other.L1) &&
		uuidPtrEqual(c.L2, other.L2) &&
		uuidPtrEqual(c.L3, other.L3)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
