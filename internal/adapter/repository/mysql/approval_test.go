package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	approvalDomain "procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func decisionRows(reqID uint64, gate workflow.Gate, gen int, decided ...workflow.Decision) []approvalDomain.ItemApproval {
	out := make([]approvalDomain.ItemApproval, 0, len(decided))
	for i, d := range decided {
		out = append(out, approvalDomain.ItemApproval{
			RequisitionID: reqID,
			Gate:          gate,
			IsValid:       true,
			Generation:    gen,
			ItemNumber:    i + 1,
			MaterialID:    "M" + string(rune('1'+i)),
			Status:        d,
			DecidedBy:     "R1",
			CreatedAt:     time.Now().UTC(),
		})
	}
	return out
}

func TestItemApprovals_InvalidateAndGenerations(t *testing.T) {
	db := openTestDB(t)
	repo := NewItemApprovalRepository(db)
	ctx := context.Background()

	if gen, err := repo.MaxGeneration(ctx, 1, workflow.GateReview); err != nil || gen != 0 {
		t.Fatalf("MaxGeneration empty: want 0,nil got %d,%v", gen, err)
	}

	if err := repo.CreateBatch(ctx, decisionRows(1, workflow.GateValidate, 1, workflow.DecisionApproved, workflow.DecisionApproved)); err != nil {
		t.Fatalf("CreateBatch validate: %v", err)
	}
	if err := repo.CreateBatch(ctx, decisionRows(1, workflow.GateReview, 1, workflow.DecisionApproved, workflow.DecisionRejected)); err != nil {
		t.Fatalf("CreateBatch review: %v", err)
	}

	n, err := repo.InvalidateGate(ctx, 1, workflow.GateReview)
	if err != nil {
		t.Fatalf("InvalidateGate: %v", err)
	}
	if n != 2 {
		t.Fatalf("InvalidateGate: want 2 rows, got %d", n)
	}

	review, _ := repo.ListValid(ctx, 1, workflow.GateReview)
	if len(review) != 0 {
		t.Fatalf("review rows should be invalid, got %d valid", len(review))
	}
	validate, _ := repo.ListValid(ctx, 1, workflow.GateValidate)
	if len(validate) != 2 {
		t.Fatalf("validate rows must stay valid, got %d", len(validate))
	}

	if gen, _ := repo.MaxGeneration(ctx, 1, workflow.GateReview); gen != 1 {
		t.Fatalf("MaxGeneration counts invalid rows too: want 1, got %d", gen)
	}

	all, err := repo.ListValidAll(ctx, 1)
	if err != nil {
		t.Fatalf("ListValidAll: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("ListValidAll: want 2, got %d", len(all))
	}
}

func TestLog_AppendListAndLast(t *testing.T) {
	db := openTestDB(t)
	repo := NewLogRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	entries := []approvalDomain.LogEntry{
		{LogID: "L1", RequisitionID: 5, Action: workflow.ActionCrear, NewStatus: workflow.StatusPendiente, ActingUser: "U1", CreatedAt: base},
		{LogID: "L2", RequisitionID: 5, Action: workflow.ActionIniciarRevision, PreviousStatus: workflow.StatusPendiente, NewStatus: workflow.StatusEnRevision, ActingUser: "R1", CreatedAt: base.Add(time.Hour)},
		{LogID: "L3", RequisitionID: 5, Action: workflow.ActionRechazarRevisor, PreviousStatus: workflow.StatusEnRevision, NewStatus: workflow.StatusRechazadaRevisor, ActingUser: "R1", Comments: "Item 1 (M1): wrong grade", Metadata: datatypes.JSON(`{"gate":"review"}`), CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range entries {
		if err := repo.Append(ctx, &entries[i]); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := repo.ListByRequisition(ctx, 5)
	if err != nil {
		t.Fatalf("ListByRequisition: %v", err)
	}
	if len(got) != 3 || got[0].LogID != "L1" || got[2].LogID != "L3" {
		t.Fatalf("unexpected order: %+v", got)
	}

	last, err := repo.LastByNewStatus(ctx, 5, workflow.StatusRechazadaRevisor)
	if err != nil {
		t.Fatalf("LastByNewStatus: %v", err)
	}
	if last.PreviousStatus != workflow.StatusEnRevision {
		t.Fatalf("previous status: want en_revision, got %s", last.PreviousStatus)
	}

	if _, err := repo.LastByNewStatus(ctx, 5, workflow.StatusRechazadaGerencia); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
