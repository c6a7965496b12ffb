// Package ledger keeps the per-item decision history of every gate.
//
// Each gate decision writes a generation of rows. Only the newest generation
// of a gate is valid; a resubmission invalidates it without deleting it.
package ledger

import (
	"context"
	"time"

	"procurement-approval/internal/domain/approval"
	"procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/workflow"
)

type Ledger struct {
	rows approval.ItemApprovalRepository
}

func New(rows approval.ItemApprovalRepository) *Ledger {
	return &Ledger{rows: rows}
}

// Verdict is the valid decision currently recorded for one item at one gate.
type Verdict struct {
	Status     workflow.Decision `json:"status"`
	Comments   string            `json:"comments,omitempty"`
	DecidedBy  string            `json:"decided_by"`
	Generation int               `json:"generation"`
	DecidedAt  time.Time         `json:"decided_at"`
}

// RecordDecisions replaces the gate's valid rows with a new generation and
// returns its number.
func (l *Ledger) RecordDecisions(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate, decisions []approval.ItemDecision, actor string, at time.Time) (int, error) {
	if _, err := l.rows.InvalidateGate(ctx, requisitionNumericID, gate); err != nil {
		return 0, err
	}
	gen, err := l.rows.MaxGeneration(ctx, requisitionNumericID, gate)
	if err != nil {
		return 0, err
	}
	gen++

	rows := make([]approval.ItemApproval, 0, len(decisions))
	for _, d := range decisions {
		rows = append(rows, approval.ItemApproval{
			RequisitionID: requisitionNumericID,
			Gate:          gate,
			IsValid:       true,
			Generation:    gen,
			ItemNumber:    d.ItemNumber,
			MaterialID:    d.MaterialID,
			Status:        d.Status,
			Comments:      d.Comments,
			DecidedBy:     actor,
			CreatedAt:     at.UTC(),
		})
	}
	if err := l.rows.CreateBatch(ctx, rows); err != nil {
		return 0, err
	}
	return gen, nil
}

// LatestValid returns the valid verdicts of one gate keyed by item. Readers
// of a single gate go through it; ValidByGate serves whole-document views.
func (l *Ledger) LatestValid(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (map[requisition.ItemKey]Verdict, error) {
	rows, err := l.rows.ListValid(ctx, requisitionNumericID, gate)
	if err != nil {
		return nil, err
	}
	out := make(map[requisition.ItemKey]Verdict, len(rows))
	for _, r := range rows {
		out[requisition.ItemKey{ItemNumber: r.ItemNumber, MaterialID: r.MaterialID}] = verdictOf(r)
	}
	return out, nil
}

func (l *Ledger) Invalidate(ctx context.Context, requisitionNumericID uint64, gate workflow.Gate) (int64, error) {
	return l.rows.InvalidateGate(ctx, requisitionNumericID, gate)
}

// GateItem is a valid ledger row as shown to readers.
type GateItem struct {
	ItemNumber int    `json:"item_number"`
	MaterialID string `json:"material_id"`
	Verdict
}

// ValidByGate groups every valid row of the requisition by gate, items in
// item number order.
func (l *Ledger) ValidByGate(ctx context.Context, requisitionNumericID uint64) (map[workflow.Gate][]GateItem, error) {
	rows, err := l.rows.ListValidAll(ctx, requisitionNumericID)
	if err != nil {
		return nil, err
	}
	out := make(map[workflow.Gate][]GateItem)
	for _, r := range rows {
		out[r.Gate] = append(out[r.Gate], GateItem{ItemNumber: r.ItemNumber, MaterialID: r.MaterialID, Verdict: verdictOf(r)})
	}
	return out, nil
}

func verdictOf(r approval.ItemApproval) Verdict {
	return Verdict{
		Status:     r.Status,
		Comments:   r.Comments,
		DecidedBy:  r.DecidedBy,
		Generation: r.Generation,
		DecidedAt:  r.CreatedAt,
	}
}
