package mysql

import (
	"context"

	reqDomain "procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequisitionRepository struct{ db *gorm.DB }

func NewRequisitionRepository(db *gorm.DB) *RequisitionRepository {
	return &RequisitionRepository{db: db}
}

// Create inserts the header and its items. A taken requisition number
// surfaces as workflow.ErrConcurrencyConflict.
func (r *RequisitionRepository) Create(ctx context.Context, req *reqDomain.Requisition) error {
	return duplicateAsConflict(r.db.WithContext(ctx).Create(req).Error, "requisition "+req.RequisitionNumber)
}

func (r *RequisitionRepository) GetByRequisitionID(ctx context.Context, requisitionID string) (*reqDomain.Requisition, error) {
	var out reqDomain.Requisition
	res := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("item_number ASC") }).
		Where("requisition_id = ?", requisitionID).
		First(&out)
	return &out, res.Error
}

func (r *RequisitionRepository) GetByRequisitionIDForUpdate(ctx context.Context, requisitionID string) (*reqDomain.Requisition, error) {
	var out reqDomain.Requisition
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("requisition_id = ?", requisitionID).
		First(&out)
	if res.Error != nil {
		return &out, res.Error
	}
	err := r.db.WithContext(ctx).
		Where("requisition_id = ?", out.ID).
		Order("item_number ASC").
		Find(&out.Items).Error
	return &out, err
}

func (r *RequisitionRepository) UpdateHeader(ctx context.Context, req *reqDomain.Requisition) error {
	res := r.db.WithContext(ctx).
		Model(&reqDomain.Requisition{}).
		Where("id = ? AND version = ?", req.ID, req.Version).
		Updates(map[string]any{
			"priority":          req.Priority,
			"justification":     req.Justification,
			"status":            req.Status,
			"status_updated_at": req.StatusUpdatedAt,
			"submitted_at":      req.SubmittedAt,
			"sla_deadline":      req.SLADeadline,
			"version":           gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return workflow.ErrConcurrencyConflict
	}
	req.Version++
	return nil
}

func (r *RequisitionRepository) ReplaceItems(ctx context.Context, requisitionNumericID uint64, items []reqDomain.Item) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("requisition_id = ?", requisitionNumericID).Delete(&reqDomain.Item{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ID = 0
		items[i].RequisitionID = requisitionNumericID
	}
	return db.Create(&items).Error
}

func (r *RequisitionRepository) ListByStatuses(ctx context.Context, statuses []workflow.Status) ([]reqDomain.Requisition, error) {
	var out []reqDomain.Requisition
	res := r.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("sla_deadline ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *RequisitionRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&reqDomain.Requisition{}).Count(&n).Error
	return n, err
}
