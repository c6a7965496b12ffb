package mysql

import (
	"context"

	authzDomain "procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/gorm"
)

type EdgeRepository struct{ db *gorm.DB }

func NewEdgeRepository(db *gorm.DB) *EdgeRepository { return &EdgeRepository{db: db} }

// Create inserts e. An existing (authorizer, subordinate) pair surfaces as
// workflow.ErrConcurrencyConflict.
func (r *EdgeRepository) Create(ctx context.Context, e *authzDomain.Edge) error {
	return duplicateAsConflict(r.db.WithContext(ctx).Create(e).Error, "edge "+e.AuthorizerID+" -> "+e.SubordinateID)
}

func (r *EdgeRepository) GetPair(ctx context.Context, authorizerID, subordinateID string) (*authzDomain.Edge, error) {
	var out authzDomain.Edge
	res := r.db.WithContext(ctx).
		Where("authorizer_id = ? AND subordinate_id = ?", authorizerID, subordinateID).
		First(&out)
	return &out, res.Error
}

func (r *EdgeRepository) Delete(ctx context.Context, authorizerID, subordinateID string, gateType workflow.GateType) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("authorizer_id = ? AND subordinate_id = ? AND gate_type = ?", authorizerID, subordinateID, gateType).
		Delete(&authzDomain.Edge{})
	return res.RowsAffected, res.Error
}

func (r *EdgeRepository) ListByAuthorizer(ctx context.Context, authorizerID string) ([]authzDomain.Edge, error) {
	var out []authzDomain.Edge
	res := r.db.WithContext(ctx).
		Where("authorizer_id = ?", authorizerID).
		Order("level ASC, subordinate_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *EdgeRepository) CountBySubordinate(ctx context.Context, subordinateID string, gateType workflow.GateType) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&authzDomain.Edge{}).
		Where("subordinate_id = ? AND gate_type = ?", subordinateID, gateType).
		Count(&n).Error
	return n, err
}
