package approval

import (
	"time"

	"procurement-approval/internal/domain/workflow"

	"gorm.io/datatypes"
)

// Table: item_approvals
//
// Rows are never deleted. A resubmission flips IsValid to false on the
// gate's previous generation.
type ItemApproval struct {
	ID uint64 `gorm:"primaryKey;column:id;autoIncrement"`
	// FK to requisitions.id (numeric)
	RequisitionID uint64            `gorm:"column:requisition_id;not null;index:idx_item_approvals_lookup,priority:1"`
	Gate          workflow.Gate     `gorm:"column:gate;size:32;not null;index:idx_item_approvals_lookup,priority:2"`
	IsValid       bool              `gorm:"column:is_valid;not null;index:idx_item_approvals_lookup,priority:3"`
	Generation    int               `gorm:"column:generation;not null"`
	ItemNumber    int               `gorm:"column:item_number;not null"`
	MaterialID    string            `gorm:"column:material_id;size:32;not null"`
	Status        workflow.Decision `gorm:"column:status;size:16;not null"`
	Comments      string            `gorm:"column:comments;type:text"`
	DecidedBy     string            `gorm:"column:decided_by;size:32;not null"`
	CreatedAt     time.Time         `gorm:"column:created_at"`
}

func (ItemApproval) TableName() string { return "item_approvals" }

// Table: approval_log_entries (append-only)
type LogEntry struct {
	ID             uint64          `gorm:"primaryKey;column:id;autoIncrement"`
	LogID          string          `gorm:"column:log_id;size:32;not null;uniqueIndex:ux_approval_log_log_id"`
	RequisitionID  uint64          `gorm:"column:requisition_id;not null;index:idx_approval_log_requisition"`
	Action         workflow.Action `gorm:"column:action;size:32;not null"`
	PreviousStatus workflow.Status `gorm:"column:previous_status;size:32"`
	NewStatus      workflow.Status `gorm:"column:new_status;size:32;not null"`
	ActingUser     string          `gorm:"column:acting_user;size:32;not null"`
	Comments       string          `gorm:"column:comments;type:text"`
	Metadata       datatypes.JSON  `gorm:"column:metadata"`
	CreatedAt      time.Time       `gorm:"column:created_at"`
}

func (LogEntry) TableName() string { return "approval_log_entries" }

// LogMetadata is what gate decisions store in LogEntry.Metadata.
type LogMetadata struct {
	Gate          workflow.Gate        `json:"gate,omitempty"`
	Generation    int                  `json:"generation,omitempty"`
	RejectedItems []workflow.ItemIssue `json:"rejected_items,omitempty"`
	Items         int                  `json:"items,omitempty"`
}

// ItemDecision is one actor's verdict on one requisition line.
type ItemDecision struct {
	ItemNumber int               `json:"item_number" validate:"gte=1"`
	MaterialID string            `json:"material_id" validate:"required,max=32"`
	Status     workflow.Decision `json:"status" validate:"required"`
	Comments   string            `json:"comments,omitempty" validate:"max=1000"`
}
