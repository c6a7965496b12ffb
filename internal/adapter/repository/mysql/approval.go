package mysql

import (
	"context"

	approvalDomain "procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/gorm"
)

type ItemApprovalRepository struct{ db *gorm.DB }

func NewItemApprovalRepository(db *gorm.DB) *ItemApprovalRepository {
	return &ItemApprovalRepository{db: db}
}

func (r *ItemApprovalRepository) CreateBatch(ctx context.Context, rows []approvalDomain.ItemApproval) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *ItemApprovalRepository) InvalidateGate(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&approvalDomain.ItemApproval{}).
		Where("requisition_id = ? AND gate = ? AND is_valid = ?", requisitionNumericID, gate, true).
		Update("is_valid", false)
	return res.RowsAffected, res.Error
}

func (r *ItemApprovalRepository) ListValid(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) ([]approvalDomain.ItemApproval, error) {
	var out []approvalDomain.ItemApproval
	res := r.db.WithContext(ctx).
		Where("requisition_id = ? AND gate = ? AND is_valid = ?", requisitionNumericID, gate, true).
		Order("item_number ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ItemApprovalRepository) ListValidAll(ctx context.Context, requisitionNumericID uint64) ([]approvalDomain.ItemApproval, error) {
	var out []approvalDomain.ItemApproval
	res := r.db.WithContext(ctx).
		Where("requisition_id = ? AND is_valid = ?", requisitionNumericID, true).
		Order("gate ASC, item_number ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ItemApprovalRepository) MaxGeneration(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int, error) {
	var max int64
	err := r.db.WithContext(ctx).
		Model(&approvalDomain.ItemApproval{}).
		Where("requisition_id = ? AND gate = ?", requisitionNumericID, gate).
		Select("COALESCE(MAX(generation), 0)").
		Row().
		Scan(&max)
	return int(max), err
}

type LogRepository struct{ db *gorm.DB }

func NewLogRepository(db *gorm.DB) *LogRepository { return &LogRepository{db: db} }

func (r *LogRepository) Append(ctx context.Context, e *approvalDomain.LogEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LogRepository) ListByRequisition(ctx context.Context, requisitionNumericID uint64) ([]approvalDomain.LogEntry, error) {
	var out []approvalDomain.LogEntry
	res := r.db.WithContext(ctx).
		Where("requisition_id = ?", requisitionNumericID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LogRepository) LastByNewStatus(ctx context.Context, requisitionNumericID uint64, status workflow.Status) (*approvalDomain.LogEntry, error) {
	var out approvalDomain.LogEntry
	res := r.db.WithContext(ctx).
		Where("requisition_id = ? AND new_status = ?", requisitionNumericID, status).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}
