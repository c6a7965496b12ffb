package requisition

import (
	"context"

	"procurement-approval/internal/domain/workflow"
)

type Repository interface {
	// Create inserts the header and its items.
	Create(ctx context.Context, r *Requisition) error
	GetByRequisitionID(ctx context.Context, requisitionID string) (*Requisition, error)
	// GetByRequisitionIDForUpdate row-locks the header (items preloaded).
	GetByRequisitionIDForUpdate(ctx context.Context, requisitionID string) (*Requisition, error)
	// UpdateHeader persists header fields only when the stored version still
	// equals r.Version, then bumps r.Version. Returns workflow.ErrConcurrencyConflict otherwise.
	UpdateHeader(ctx context.Context, r *Requisition) error
	// ReplaceItems swaps the item set of a requisition.
	ReplaceItems(ctx context.Context, requisitionNumericID uint64, items []Item) error
	ListByStatuses(ctx context.Context, statuses []workflow.Status) ([]Requisition, error)
	// CountAll includes soft-deleted rows; used to number new requisitions.
	CountAll(ctx context.Context) (int64, error)
}
