package requisition

import (
	"context"
	"time"
)

// ReadyForQuotation is emitted once management approves a requisition.
type ReadyForQuotation struct {
	EventID           string    `json:"event_id"`
	RequisitionID     string    `json:"requisition_id"`
	RequisitionNumber string    `json:"requisition_number"`
	CreatorID         string    `json:"creator_id"`
	ApprovedBy        string    `json:"approved_by"`
	Priority          Priority  `json:"priority"`
	Items             int       `json:"items"`
	ApprovedAt        time.Time `json:"approved_at"`
}

// Publisher hands approved requisitions to the quotation subsystem.
type Publisher interface {
	PublishReadyForQuotation(ctx context.Context, ev ReadyForQuotation) error
}
