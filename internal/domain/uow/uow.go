package uow

import (
	"context"

	"procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/requisition"
)

// Repos are all bound to the same transaction.
type Repos struct {
	Requisitions  requisition.Repository
	ItemApprovals approval.ItemApprovalRepository
	Logs          approval.LogRepository
	Edges         authz.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the requisition row first, then pass it in
	WithinRequisitionTx(ctx context.Context, requisitionID string, fn func(r Repos, req *requisition.Requisition) error) error
}
