package masterdatamock

import (
	"context"

	"procurement-approval/internal/domain/masterdata"
)

var _ masterdata.Resolver = (*Resolver)(nil)

// Resolver is a function-backed mock of masterdata.Resolver. Unset lookups
// succeed; materials resolve to a code equal to their id.
type Resolver struct {
	ResolveMaterialFn        func(ctx context.Context, materialID string) (*masterdata.Material, error)
	ResolveCompanyFn         func(ctx context.Context, companyID string) error
	ResolveProjectFn         func(ctx context.Context, projectID string) error
	ResolveOperationCenterFn func(ctx context.Context, operationCenterID string) error
	ListUsersFn              func(ctx context.Context) ([]string, error)
}

func (m *Resolver) ResolveMaterial(ctx context.Context, materialID string) (*masterdata.Material, error) {
	if m.ResolveMaterialFn != nil {
		return m.ResolveMaterialFn(ctx, materialID)
	}
	return &masterdata.Material{ID: materialID, Code: materialID}, nil
}

func (m *Resolver) ResolveCompany(ctx context.Context, companyID string) error {
	if m.ResolveCompanyFn != nil {
		return m.ResolveCompanyFn(ctx, companyID)
	}
	return nil
}

func (m *Resolver) ResolveProject(ctx context.Context, projectID string) error {
	if m.ResolveProjectFn != nil {
		return m.ResolveProjectFn(ctx, projectID)
	}
	return nil
}

func (m *Resolver) ResolveOperationCenter(ctx context.Context, operationCenterID string) error {
	if m.ResolveOperationCenterFn != nil {
		return m.ResolveOperationCenterFn(ctx, operationCenterID)
	}
	return nil
}

func (m *Resolver) ListUsers(ctx context.Context) ([]string, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return nil, nil
}
