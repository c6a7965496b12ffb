package requisition

import (
	"encoding/json"
	"time"

	"procurement-approval/internal/domain/approval"
	domain "procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/workflow"
	"procurement-approval/internal/usecase/ledger"

	"github.com/shopspring/decimal"
)

// ItemInput describes one line. On edit, ItemNumber 0 appends a new line and
// a known number updates that line in place.
type ItemInput struct {
	ItemNumber  int             `json:"item_number" validate:"gte=0"`
	MaterialID  string          `json:"material_id" validate:"required,max=32"`
	Quantity    decimal.Decimal `json:"quantity" validate:"dgt0"`
	Observation string          `json:"observation" validate:"max=1000"`
}

type CreateInput struct {
	CreatorID         string          `json:"-"`
	CompanyID         string          `json:"company_id" validate:"required,max=32"`
	ProjectID         string          `json:"project_id" validate:"required,max=32"`
	OperationCenterID string          `json:"operation_center_id" validate:"required,max=32"`
	WorkReference     *string         `json:"work_reference" validate:"omitempty,max=64"`
	Priority          domain.Priority `json:"priority" validate:"omitempty,oneof=normal alta"`
	Justification     string          `json:"justification" validate:"max=4000"`
	Items             []ItemInput     `json:"items" validate:"required,min=1,dive"`
}

type GateDecisionInput struct {
	RequisitionID string                  `json:"-"`
	Gate          workflow.Gate           `json:"-"`
	ActorID       string                  `json:"-"`
	Decisions     []approval.ItemDecision `json:"decisions" validate:"required,min=1,dive"`
	// Comments is a general note added ahead of the per-item comments.
	Comments string `json:"comments" validate:"max=4000"`
}

type EditInput struct {
	RequisitionID string           `json:"-"`
	ActorID       string           `json:"-"`
	Priority      *domain.Priority `json:"priority" validate:"omitempty,oneof=normal alta"`
	Justification *string          `json:"justification" validate:"omitempty,max=4000"`
	Items         []ItemInput      `json:"items" validate:"required,min=1,dive"`
	Comments      string           `json:"comments" validate:"max=4000"`
}

type AdvanceInput struct {
	RequisitionID string          `json:"-"`
	ActorID       string          `json:"-"`
	Target        workflow.Status `json:"status" validate:"required"`
	Comments      string          `json:"comments" validate:"max=4000"`
}

type ItemDTO struct {
	ItemNumber  int             `json:"item_number"`
	MaterialID  string          `json:"material_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Observation string          `json:"observation,omitempty"`
}

type RequisitionDTO struct {
	RequisitionID     string          `json:"requisition_id"`
	RequisitionNumber string          `json:"requisition_number"`
	CreatorID         string          `json:"creator_id"`
	CompanyID         string          `json:"company_id"`
	ProjectID         string          `json:"project_id"`
	OperationCenterID string          `json:"operation_center_id"`
	WorkReference     *string         `json:"work_reference,omitempty"`
	Priority          domain.Priority `json:"priority"`
	Justification     string          `json:"justification"`
	Status            workflow.Status `json:"status"`
	PendingGate       workflow.Gate   `json:"pending_gate,omitempty"`
	SubmittedAt       *time.Time      `json:"submitted_at,omitempty"`
	SLADeadline       *time.Time      `json:"sla_deadline,omitempty"`
	IsOverdue         bool            `json:"is_overdue"`
	DaysOverdue       int             `json:"days_overdue"`
	DaysRemaining     int             `json:"days_remaining"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Items             []ItemDTO       `json:"items"`

	Approvals map[workflow.Gate][]ledger.GateItem `json:"approvals,omitempty"`
}

type StatusDTO struct {
	RequisitionID     string          `json:"requisition_id"`
	RequisitionNumber string          `json:"requisition_number"`
	CreatorID         string          `json:"creator_id"`
	Priority          domain.Priority `json:"priority"`
	Status            workflow.Status `json:"status"`
	PendingGate       workflow.Gate   `json:"pending_gate,omitempty"`
	SLADeadline       *time.Time      `json:"sla_deadline,omitempty"`
	IsOverdue         bool            `json:"is_overdue"`
	DaysOverdue       int             `json:"days_overdue"`
	DaysRemaining     int             `json:"days_remaining"`
}

type TransitionDTO struct {
	RequisitionID  string               `json:"requisition_id"`
	PreviousStatus workflow.Status      `json:"previous_status"`
	Status         workflow.Status      `json:"status"`
	Version        int64                `json:"version"`
	SLADeadline    *time.Time           `json:"sla_deadline,omitempty"`
	Generation     int                  `json:"generation,omitempty"`
	RejectedItems  []workflow.ItemIssue `json:"rejected_items,omitempty"`
}

type LogEntryDTO struct {
	LogID          string          `json:"log_id"`
	Action         workflow.Action `json:"action"`
	PreviousStatus workflow.Status `json:"previous_status,omitempty"`
	NewStatus      workflow.Status `json:"new_status"`
	ActingUser     string          `json:"acting_user"`
	Comments       string          `json:"comments,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
