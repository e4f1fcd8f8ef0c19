package moderation

import (
	"context"

	"github.com/google/uuid"

	"github.com/jyutlore/jyutlore-backend/internal/adapter/provider/normalizer"
	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

type entryRepoMock struct {
	ApplyDecisionFunc func(ctx context.Context, upd domain.DecisionUpdate) (*domain.Entry, error)
	ListByStatusFunc  func(ctx context.Context, status domain.EntryStatus, limit, offset int) ([]domain.Entry, int, error)

	applyCalls []domain.DecisionUpdate
}

func (m *entryRepoMock) ApplyDecision(ctx context.Context, upd domain.DecisionUpdate) (*domain.Entry, error) {
	m.applyCalls = append(m.applyCalls, upd)
	return m.ApplyDecisionFunc(ctx, upd)
}

func (m *entryRepoMock) ListByStatus(ctx context.Context, status domain.EntryStatus, limit, offset int) ([]domain.Entry, int, error) {
	return m.ListByStatusFunc(ctx, status, limit, offset)
}

type exampleRepoMock struct {
	ReplaceAllFunc func(ctx context.Context, expressionID uuid.UUID, examples []domain.ExampleSentence) error

	replaceCalls [][]domain.ExampleSentence
}

func (m *exampleRepoMock) ReplaceAll(ctx context.Context, expressionID uuid.UUID, examples []domain.ExampleSentence) error {
	m.replaceCalls = append(m.replaceCalls, examples)
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(ctx, expressionID, examples)
	}
	return nil
}

func (m *exampleRepoMock) ListByExpressionID(ctx context.Context, expressionID uuid.UUID) ([]domain.ExampleSentence, error) {
	return []domain.ExampleSentence{}, nil
}

type userRepoMock struct {
	IncrementContributionCountFunc func(ctx context.Context, userID uuid.UUID) error
	IncrementReviewCountFunc       func(ctx context.Context, userID uuid.UUID) error

	contributionCalls []uuid.UUID
	reviewCalls       []uuid.UUID
}

func (m *userRepoMock) IncrementContributionCount(ctx context.Context, userID uuid.UUID) error {
	m.contributionCalls = append(m.contributionCalls, userID)
	if m.IncrementContributionCountFunc != nil {
		return m.IncrementContributionCountFunc(ctx, userID)
	}
	return nil
}

func (m *userRepoMock) IncrementReviewCount(ctx context.Context, userID uuid.UUID) error {
	m.reviewCalls = append(m.reviewCalls, userID)
	if m.IncrementReviewCountFunc != nil {
		return m.IncrementReviewCountFunc(ctx, userID)
	}
	return nil
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

type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
