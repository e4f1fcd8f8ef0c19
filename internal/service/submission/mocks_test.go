package submission

import (
	"context"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

type entryRepoMock struct {
	CreateFunc  func(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	GetByIDFunc func(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error)

	createCalls []*domain.Entry
}

func (m *entryRepoMock) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	m.createCalls = append(m.createCalls, e)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, e)
	}
	return e, nil
}

func (m *entryRepoMock) GetByID(ctx context.Context, entryID uuid.UUID) (*domain.Entry, error) {
	return m.GetByIDFunc(ctx, entryID)
}

type exampleRepoMock struct {
	CreateBatchFunc func(ctx context.Context, examples []domain.ExampleSentence) error

	createBatchCalls [][]domain.ExampleSentence
}

func (m *exampleRepoMock) CreateBatch(ctx context.Context, examples []domain.ExampleSentence) error {
	m.createBatchCalls = append(m.createBatchCalls, examples)
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, examples)
	}
	return nil
}

type userRepoMock struct {
	EnsureExistsFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *userRepoMock) EnsureExists(ctx context.Context, userID uuid.UUID) error {
	if m.EnsureExistsFunc != nil {
		return m.EnsureExistsFunc(ctx, userID)
	}
	return nil
}

type chainValidatorMock struct {
	ValidateChainFunc func(ctx context.Context, chain domain.TaxonomyChain) error
	ChainForLeafFunc  func(ctx context.Context, leafID uuid.UUID) (domain.TaxonomyChain, error)
}

func (m *chainValidatorMock) ValidateChain(ctx context.Context, chain domain.TaxonomyChain) error {
	if m.ValidateChainFunc != nil {
		return m.ValidateChainFunc(ctx, chain)
	}
	return nil
}

func (m *chainValidatorMock) ChainForLeaf(ctx context.Context, leafID uuid.UUID) (domain.TaxonomyChain, error) {
	if m.ChainForLeafFunc != nil {
		return m.ChainForLeafFunc(ctx, leafID)
	}
	return domain.TaxonomyChain{}, domain.ErrNotFound
}

type normalizerMock struct {
	NormalizeFunc func(ctx context.Context, text string) normalizer.Result
}

func (m *normalizerMock) Normalize(ctx context.Context, text string) normalizer.Result {
	if m.NormalizeFunc != nil {
		return m.NormalizeFunc(ctx, text)
	}
	return normalizer.Result{Text: text, Normalized: true}
}

// txManagerMock runs the callback directly, no transaction involved.
type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
