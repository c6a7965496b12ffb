package authzmock

import (
	"context"

	domain "procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/workflow"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn             func(ctx context.Context, e *domain.Edge) error
	GetPairFn            func(ctx context.Context, authorizerID, subordinateID string) (*domain.Edge, error)
	DeleteFn             func(ctx context.Context, authorizerID, subordinateID string, gateType workflow.GateType) (int64, error)
	ListByAuthorizerFn   func(ctx context.Context, authorizerID string) ([]domain.Edge, error)
	CountBySubordinateFn func(ctx context.Context, subordinateID string, gateType workflow.GateType) (int64, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Edge) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetPair(ctx context.Context, authorizerID, subordinateID string) (*domain.Edge, error) {
	if m.GetPairFn != nil {
		return m.GetPairFn(ctx, authorizerID, subordinateID)
	}
	return nil, context.Canceled
}

func (m *Repo) Delete(ctx context.Context, authorizerID, subordinateID string, gateType workflow.GateType) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, authorizerID, subordinateID, gateType)
	}
	return 0, nil
}

func (m *Repo) ListByAuthorizer(ctx context.Context, authorizerID string) ([]domain.Edge, error) {
	if m.ListByAuthorizerFn != nil {
		return m.ListByAuthorizerFn(ctx, authorizerID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountBySubordinate(ctx context.Context, subordinateID string, gateType workflow.GateType) (int64, error) {
	if m.CountBySubordinateFn != nil {
		return m.CountBySubordinateFn(ctx, subordinateID, gateType)
	}
	return 0, nil
}
