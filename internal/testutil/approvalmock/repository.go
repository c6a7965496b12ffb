package approvalmock

import (
	"context"

	domain "procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/workflow"
)

var (
	_ domain.ItemApprovalRepository = (*ItemRepo)(nil)
	_ domain.LogRepository          = (*LogRepo)(nil)
)

// ItemRepo is a function-backed mock that satisfies domain.ItemApprovalRepository.
// Writes default to a nil error, reads to context.Canceled.
type ItemRepo struct {
	CreateBatchFn    func(ctx context.Context, rows []domain.ItemApproval) error
	InvalidateGateFn func(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int64, error)
	ListValidFn      func(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) ([]domain.ItemApproval, error)
	ListValidAllFn   func(ctx context.Context, requisitionNumericID uint64) ([]domain.ItemApproval, error)
	MaxGenerationFn  func(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int, error)
}

func (m *ItemRepo) CreateBatch(ctx context.Context, rows []domain.ItemApproval) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, rows)
	}
	return nil
}

func (m *ItemRepo) InvalidateGate(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int64, error) {
	if m.InvalidateGateFn != nil {
		return m.InvalidateGateFn(ctx, requisitionNumericID, gate)
	}
	return 0, nil
}

func (m *ItemRepo) ListValid(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) ([]domain.ItemApproval, error) {
	if m.ListValidFn != nil {
		return m.ListValidFn(ctx, requisitionNumericID, gate)
	}
	return nil, context.Canceled
}

func (m *ItemRepo) ListValidAll(ctx context.Context, requisitionNumericID uint64) ([]domain.ItemApproval, error) {
	if m.ListValidAllFn != nil {
		return m.ListValidAllFn(ctx, requisitionNumericID)
	}
	return nil, context.Canceled
}

func (m *ItemRepo) MaxGeneration(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int, error) {
	if m.MaxGenerationFn != nil {
		return m.MaxGenerationFn(ctx, requisitionNumericID, gate)
	}
	return 0, nil
}

// LogRepo is a function-backed mock that satisfies domain.LogRepository.
type LogRepo struct {
	AppendFn            func(ctx context.Context, e *domain.LogEntry) error
	ListByRequisitionFn func(ctx context.Context, requisitionNumericID uint64) ([]domain.LogEntry, error)
	LastByNewStatusFn   func(ctx context.Context, requisitionNumericID uint64, status workflow.Status) (*domain.LogEntry, error)
}

func (m *LogRepo) Append(ctx context.Context, e *domain.LogEntry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *LogRepo) ListByRequisition(ctx context.Context, requisitionNumericID uint64) ([]domain.LogEntry, error) {
	if m.ListByRequisitionFn != nil {
		return m.ListByRequisitionFn(ctx, requisitionNumericID)
	}
	return nil, context.Canceled
}

func (m *LogRepo) LastByNewStatus(ctx context.Context, requisitionNumericID uint64, status workflow.Status) (*domain.LogEntry, error) {
	if m.LastByNewStatusFn != nil {
		return m.LastByNewStatusFn(ctx, requisitionNumericID, status)
	}
	return nil, context.Canceled
}
