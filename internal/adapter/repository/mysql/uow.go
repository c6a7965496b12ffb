package mysql

import (
	"context"
	"errors"
	"fmt"

	"procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/uow"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

var _ uow.UnitOfWork = (*GormUoW)(nil)

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Requisitions:  &RequisitionRepository{db: tx},
		ItemApprovals: &ItemApprovalRepository{db: tx},
		Logs:          &LogRepository{db: tx},
		Edges:         &EdgeRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinRequisitionTx(ctx context.Context, requisitionID string, fn func(r uow.Repos, req *requisition.Requisition) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the requisition row up-front to prevent races
		req, err := r.Requisitions.GetByRequisitionIDForUpdate(ctx, requisitionID)
		if err != nil {
			return err
		}
		return fn(r, req)
	})
}

// duplicateAsConflict reports a unique index violation as a conflict the
// usecases retry with fresh state. The gorm config must set TranslateError.
func duplicateAsConflict(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s already exists", workflow.ErrConcurrencyConflict, what)
	}
	return err
}
