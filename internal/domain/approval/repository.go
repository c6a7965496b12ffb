package approval

import (
	"context"

	"procurement-approval/internal/domain/workflow"
)

type ItemApprovalRepository interface {
	CreateBatch(ctx context.Context, rows []ItemApproval) error
	// InvalidateGate flips every valid row of (requisition, gate) to invalid.
	InvalidateGate(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int64, error)
	ListValid(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) ([]ItemApproval, error)
	ListValidAll(ctx context.Context, requisitionNumericID uint64) ([]ItemApproval, error)
	MaxGeneration(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int, error)
}

type LogRepository interface {
	Append(ctx context.Context, e *LogEntry) error
	ListByRequisition(ctx context.Context, requisitionNumericID uint64) ([]LogEntry, error)
	// LastByNewStatus returns the newest entry that moved the requisition into status.
	LastByNewStatus(ctx context.Context, requisitionNumericID uint64, status workflow.Status) (*LogEntry, error)
}
