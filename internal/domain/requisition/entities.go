package requisition

import (
	"time"

	"procurement-approval/internal/domain/workflow"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityAlta   Priority = "alta"
)

func (p Priority) Valid() bool { return p == PriorityNormal || p == PriorityAlta }

// Table: requisitions
type Requisition struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	RequisitionID     string          `gorm:"size:32;not null;uniqueIndex:ux_requisitions_requisition_id" json:"requisition_id"`
	RequisitionNumber string          `gorm:"size:20;not null;uniqueIndex:ux_requisitions_number" json:"requisition_number"`
	CreatorID         string          `gorm:"size:32;not null;index:idx_requisitions_creator" json:"creator_id"`
	CompanyID         string          `gorm:"size:32" json:"company_id"`
	ProjectID         string          `gorm:"size:32" json:"project_id"`
	OperationCenterID string          `gorm:"size:32" json:"operation_center_id"`
	WorkReference     *string         `gorm:"size:64" json:"work_reference,omitempty"`
	Priority          Priority        `gorm:"size:10;not null;default:'normal'" json:"priority"`
	Justification     string          `gorm:"type:text" json:"justification"`
	Status            workflow.Status `gorm:"size:32;not null;index:idx_requisitions_status" json:"status"`
	StatusUpdatedAt   time.Time       `json:"status_updated_at"`
	SubmittedAt       *time.Time      `json:"submitted_at,omitempty"`
	SLADeadline       *time.Time      `gorm:"column:sla_deadline" json:"sla_deadline,omitempty"`
	// Version is bumped on every committed write; updates compare-and-swap on it.
	Version   int64          `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []Item `gorm:"foreignKey:RequisitionID;references:ID" json:"items"`
}

func (Requisition) TableName() string { return "requisitions" }

// Table: requisition_items
type Item struct {
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// FK to requisitions.id (numeric)
	RequisitionID uint64          `gorm:"not null;index:idx_requisition_items_requisition" json:"-"`
	ItemNumber    int             `gorm:"not null" json:"item_number"`
	MaterialID    string          `gorm:"size:32;not null" json:"material_id"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Observation   string          `gorm:"type:text" json:"observation,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"-"`
}

func (Item) TableName() string { return "requisition_items" }

// ItemKey identifies a line across edit rounds; numbers alone may be reused
// once an item is removed and another is added.
type ItemKey struct {
	ItemNumber int
	MaterialID string
}

func (i Item) Key() ItemKey { return ItemKey{ItemNumber: i.ItemNumber, MaterialID: i.MaterialID} }

// NeedsValidation reports whether the requisition carries a work reference
// and therefore starts at the validation gate.
func (r *Requisition) NeedsValidation() bool {
	return r.WorkReference != nil && *r.WorkReference != ""
}

// NextItemNumber returns the number the next appended item receives: one past
// the highest current item. A removed trailing number is handed out again.
func (r *Requisition) NextItemNumber() int {
	max := 0
	for _, it := range r.Items {
		if it.ItemNumber > max {
			max = it.ItemNumber
		}
	}
	return max + 1
}
