package masterdata

import "context"

// Material is the slice of the external material master the workflow needs.
type Material struct {
	ID   string `gorm:"column:id"`
	Code string `gorm:"column:code"`
	Name string `gorm:"column:name"`
}

// Resolver reads externally-owned master data. A missing reference is a
// data-integrity failure and is returned wrapping workflow.ErrNotFound.
type Resolver interface {
	ResolveMaterial(ctx context.Context, materialID string) (*Material, error)
	ResolveCompany(ctx context.Context, companyID string) error
	ResolveProject(ctx context.Context, projectID string) error
	ResolveOperationCenter(ctx context.Context, operationCenterID string) error
	// ListUsers returns every user id known to the directory.
	ListUsers(ctx context.Context) ([]string, error)
}
