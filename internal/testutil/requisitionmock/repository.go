package requisitionmock

import (
	"context"

	domain "procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/workflow"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                      func(ctx context.Context, r *domain.Requisition) error
	GetByRequisitionIDFn          func(ctx context.Context, requisitionID string) (*domain.Requisition, error)
	GetByRequisitionIDForUpdateFn func(ctx context.Context, requisitionID string) (*domain.Requisition, error)
	UpdateHeaderFn                func(ctx context.Context, r *domain.Requisition) error
	ReplaceItemsFn                func(ctx context.Context, requisitionNumericID uint64, items []domain.Item) error
	ListByStatusesFn              func(ctx context.Context, statuses []workflow.Status) ([]domain.Requisition, error)
	CountAllFn                    func(ctx context.Context) (int64, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.Requisition) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByRequisitionID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	if m.GetByRequisitionIDFn != nil {
		return m.GetByRequisitionIDFn(ctx, requisitionID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByRequisitionIDForUpdate(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	if m.GetByRequisitionIDForUpdateFn != nil {
		return m.GetByRequisitionIDForUpdateFn(ctx, requisitionID)
	}
	return nil, context.Canceled
}

func (m *Repo) UpdateHeader(ctx context.Context, r *domain.Requisition) error {
	if m.UpdateHeaderFn != nil {
		return m.UpdateHeaderFn(ctx, r)
	}
	r.Version++
	return nil
}

func (m *Repo) ReplaceItems(ctx context.Context, requisitionNumericID uint64, items []domain.Item) error {
	if m.ReplaceItemsFn != nil {
		return m.ReplaceItemsFn(ctx, requisitionNumericID, items)
	}
	return nil
}

func (m *Repo) ListByStatuses(ctx context.Context, statuses []workflow.Status) ([]domain.Requisition, error) {
	if m.ListByStatusesFn != nil {
		return m.ListByStatusesFn(ctx, statuses)
	}
	return nil, context.Canceled
}

func (m *Repo) CountAll(ctx context.Context) (int64, error) {
	if m.CountAllFn != nil {
		return m.CountAllFn(ctx)
	}
	return 0, nil
}
