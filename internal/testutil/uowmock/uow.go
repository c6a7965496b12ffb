package uowmock

import (
	"context"
	"errors"

	"procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn            func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinRequisitionTxFn func(ctx context.Context, requisitionID string, fn func(r uow.Repos, req *requisition.Requisition) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinRequisitionTx(fn func(context.Context, string, func(uow.Repos, *requisition.Requisition) error) error) *UoW {
	m.WithinRequisitionTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough runs callbacks directly against repos, locking nothing.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinRequisitionTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *requisition.Requisition) error) error {
			req, err := repos.Requisitions.GetByRequisitionIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, req)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinRequisitionTx(ctx context.Context, requisitionID string, fn func(r uow.Repos, req *requisition.Requisition) error) error {
	if m.WithinRequisitionTxFn != nil {
		return m.WithinRequisitionTxFn(ctx, requisitionID, fn)
	}
	return errUnimplemented
}
