package mysql

import (
	"context"
	"fmt"

	"procurement-approval/internal/domain/masterdata"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/gorm"
)

// Read-only views over master data owned by other systems. The structs only
// exist so tests and local setups can create the tables.
type (
	MaterialRow struct {
		ID   string `gorm:"column:id;primaryKey;size:32"`
		Code string `gorm:"column:code;size:32"`
		Name string `gorm:"column:name;size:255"`
	}
	CompanyRow struct {
		ID   string `gorm:"column:id;primaryKey;size:32"`
		Name string `gorm:"column:name;size:255"`
	}
	ProjectRow struct {
		ID   string `gorm:"column:id;primaryKey;size:32"`
		Name string `gorm:"column:name;size:255"`
	}
	OperationCenterRow struct {
		ID   string `gorm:"column:id;primaryKey;size:32"`
		Name string `gorm:"column:name;size:255"`
	}
	UserRow struct {
		ID   string `gorm:"column:id;primaryKey;size:32"`
		Name string `gorm:"column:name;size:255"`
	}
)

func (MaterialRow) TableName() string        { return "materials" }
func (CompanyRow) TableName() string         { return "companies" }
func (ProjectRow) TableName() string         { return "projects" }
func (OperationCenterRow) TableName() string { return "operation_centers" }
func (UserRow) TableName() string            { return "users" }

// MasterDataModels lists the external tables for local migrations.
func MasterDataModels() []any {
	return []any{&MaterialRow{}, &CompanyRow{}, &ProjectRow{}, &OperationCenterRow{}, &UserRow{}}
}

type MasterDataRepository struct{ db *gorm.DB }

func NewMasterDataRepository(db *gorm.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

var _ masterdata.Resolver = (*MasterDataRepository)(nil)

func (r *MasterDataRepository) ResolveMaterial(ctx context.Context, materialID string) (*masterdata.Material, error) {
	var rows []MaterialRow
	if err := r.db.WithContext(ctx).Where("id = ?", materialID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: material %s", workflow.ErrNotFound, materialID)
	}
	return &masterdata.Material{ID: rows[0].ID, Code: rows[0].Code, Name: rows[0].Name}, nil
}

func (r *MasterDataRepository) ResolveCompany(ctx context.Context, companyID string) error {
	return r.exists(ctx, "companies", "company", companyID)
}

func (r *MasterDataRepository) ResolveProject(ctx context.Context, projectID string) error {
	return r.exists(ctx, "projects", "project", projectID)
}

func (r *MasterDataRepository) ResolveOperationCenter(ctx context.Context, operationCenterID string) error {
	return r.exists(ctx, "operation_centers", "operation center", operationCenterID)
}

func (r *MasterDataRepository) ListUsers(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Table("users").Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}

func (r *MasterDataRepository) exists(ctx context.Context, table, what, id string) error {
	var n int64
	if err := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", workflow.ErrNotFound, what, id)
	}
	return nil
}
