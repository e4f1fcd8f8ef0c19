// Package suggestion turns assistant output into submission drafts. The
// assistant's theme guess is a leaf name; this service constrains the guess
// to real leaves, resolves it back to a full taxonomy chain, and absorbs
// assistant outages so the submission flow keeps working without it.
package suggestion

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/assistant"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
	"github.com/jyutlore/jyutlore-backend/internal/metrics"
)

type assistantClient interface {
	Suggest(ctx context.Context, text string, region domain.Region, themeLeaves []string) (*assistant.Suggestion, error)
	SpellCheck(ctx context.Context, text string) (*assistant.SpellCheckResult, error)
}

type taxonomyIndex interface {
	Roots(ctx context.Context) ([]domain.TaxonomyNode, error)
	ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]domain.TaxonomyNode, error)
	FindLeafByName(ctx context.Context, name string) (*domain.TaxonomyNode, error)
	ChainForLeaf(ctx context.Context, leafID uuid.UUID) (domain.TaxonomyChain, error)
}

// Service provides assistant-backed suggestions.
type Service struct {
	assistant assistantClient
	taxonomy  taxonomyIndex
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewService creates a new suggestion service.
func NewService(log *slog.Logger, client assistantClient, taxonomy taxonomyIndex, m *metrics.Metrics) *Service {
	return &Service{
		assistant: client,
		taxonomy:  taxonomy,
		metrics:   m,
		log:       log.With("service", "suggestion"),
	}
}

// leafNames collects the names of all active leaf-level nodes by walking the
// cached tree. Used to constrain the assistant's theme guess.
func (s *Service) leafNames(ctx context.Context) ([]string, error) {
	roots, err := s.taxonomy.Roots(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, root := range roots {
		mids, err := s.taxonomy.ChildrenOf(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		for _, mid := range mids {
			leaves, err := s.taxonomy.ChildrenOf(ctx, mid.ID)
			if err != nil {
				return nil, err
			}
			for _, leaf := range leaves {
				names = append(names, leaf.Name)
			}
		}
	}
	return names, nil
}
