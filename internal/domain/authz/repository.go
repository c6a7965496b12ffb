package authz

import (
	"context"

	"procurement-approval/internal/domain/workflow"
)

type Repository interface {
	Create(ctx context.Context, e *Edge) error
	// GetPair returns the single edge between authorizer and subordinate.
	GetPair(ctx context.Context, authorizerID, subordinateID string) (*Edge, error)
	Delete(ctx context.Context, authorizerID, subordinateID string, gateType workflow.GateType) (int64, error)
	ListByAuthorizer(ctx context.Context, authorizerID string) ([]Edge, error)
	CountBySubordinate(ctx context.Context, subordinateID string, gateType workflow.GateType) (int64, error)
}
