package mysql

import (
	"context"
	"errors"
	"testing"

	"procurement-approval/internal/domain/workflow"
)

func TestMasterData_Resolve(t *testing.T) {
	db := openTestDB(t)
	repo := NewMasterDataRepository(db)
	ctx := context.Background()

	seed := []any{
		&MaterialRow{ID: "M1", Code: "CEM-01", Name: "Cement"},
		&CompanyRow{ID: "C1", Name: "Acme"},
		&ProjectRow{ID: "P1", Name: "Bridge"},
		&OperationCenterRow{ID: "OC1", Name: "North"},
		&UserRow{ID: "U2", Name: "Bea"},
		&UserRow{ID: "U1", Name: "Ana"},
	}
	for _, r := range seed {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	m, err := repo.ResolveMaterial(ctx, "M1")
	if err != nil || m.Code != "CEM-01" {
		t.Fatalf("ResolveMaterial: %+v, %v", m, err)
	}
	if _, err := repo.ResolveMaterial(ctx, "M404"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("missing material: want ErrNotFound, got %v", err)
	}

	tests := []struct {
		name    string
		fn      func() error
		wantErr error
	}{
		{"company ok", func() error { return repo.ResolveCompany(ctx, "C1") }, nil},
		{"company missing", func() error { return repo.ResolveCompany(ctx, "C9") }, workflow.ErrNotFound},
		{"project ok", func() error { return repo.ResolveProject(ctx, "P1") }, nil},
		{"project missing", func() error { return repo.ResolveProject(ctx, "P9") }, workflow.ErrNotFound},
		{"operation center ok", func() error { return repo.ResolveOperationCenter(ctx, "OC1") }, nil},
		{"operation center missing", func() error { return repo.ResolveOperationCenter(ctx, "OC9") }, workflow.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 || users[0] != "U1" {
		t.Fatalf("ListUsers: %v", users)
	}
}
