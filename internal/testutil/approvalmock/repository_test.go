package approvalmock

import (
	"context"
	"errors"
	"testing"

	domain "procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/workflow"
)

func TestItemRepo_CreateBatch(t *testing.T) {
	ctx := context.Background()
	rows := []domain.ItemApproval{{ItemNumber: 1, MaterialID: "M1"}}

	called := false
	wantErr := errors.New("boom")
	m := &ItemRepo{
		CreateBatchFn: func(gotCtx context.Context, got []domain.ItemApproval) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("ctx mismatch")
			}
			if len(got) != 1 || got[0].MaterialID != "M1" {
				t.Fatalf("arg mismatch: %+v", got)
			}
			return wantErr
		},
	}
	if err := m.CreateBatch(ctx, rows); !errors.Is(err, wantErr) {
		t.Fatalf("CreateBatch: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateBatchFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &ItemRepo{}
	if err := m.CreateBatch(ctx, rows); err != nil {
		t.Fatalf("CreateBatch default: want nil, got %v", err)
	}
}

func TestItemRepo_ListValid(t *testing.T) {
	ctx := context.Background()
	want := []domain.ItemApproval{{ItemNumber: 2, Gate: workflow.GateReview}}

	m := &ItemRepo{
		ListValidFn: func(_ context.Context, id uint64, gate workflow.Gate) ([]domain.ItemApproval, error) {
			if id != 9 || gate != workflow.GateReview {
				t.Fatalf("args mismatch: %d %s", id, gate)
			}
			return want, nil
		},
	}
	got, err := m.ListValid(ctx, 9, workflow.GateReview)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListValid: got %+v, %v", got, err)
	}

	// Default (nil func) → context.Canceled
	m = &ItemRepo{}
	if _, err := m.ListValid(ctx, 9, workflow.GateReview); err != context.Canceled {
		t.Fatalf("ListValid default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListValidAll(ctx, 9); err != context.Canceled {
		t.Fatalf("ListValidAll default: want context.Canceled, got %v", err)
	}
	if n, err := m.MaxGeneration(ctx, 9, workflow.GateReview); n != 0 || err != nil {
		t.Fatalf("MaxGeneration default: want 0,nil got %d,%v", n, err)
	}
}

func TestLogRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &LogRepo{}
	if err := m.Append(ctx, &domain.LogEntry{}); err != nil {
		t.Fatalf("Append default: want nil, got %v", err)
	}
	if _, err := m.LastByNewStatus(ctx, 1, workflow.StatusRechazadaRevisor); err != context.Canceled {
		t.Fatalf("LastByNewStatus default: want context.Canceled, got %v", err)
	}

	var appended *domain.LogEntry
	m.AppendFn = func(_ context.Context, e *domain.LogEntry) error { appended = e; return nil }
	e := &domain.LogEntry{Action: workflow.ActionCrear}
	_ = m.Append(ctx, e)
	if appended != e {
		t.Fatalf("AppendFn not forwarded")
	}
}
