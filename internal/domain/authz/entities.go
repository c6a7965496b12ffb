package authz

import (
	"time"

	"procurement-approval/internal/domain/workflow"
)

// Table: authorization_edges
//
// AuthorizerID may act on requisitions created by SubordinateID at GateType.
// The (authorizer, subordinate) pair is unique.
type Edge struct {
	ID            uint64            `gorm:"primaryKey;column:id;autoIncrement" json:"-"`
	AuthorizerID  string            `gorm:"column:authorizer_id;size:32;not null;uniqueIndex:ux_authorization_edges_pair,priority:1" json:"authorizer_id"`
	SubordinateID string            `gorm:"column:subordinate_id;size:32;not null;uniqueIndex:ux_authorization_edges_pair,priority:2;index:idx_authorization_edges_subordinate" json:"subordinate_id"`
	GateType      workflow.GateType `gorm:"column:gate_type;size:16;not null" json:"gate_type"`
	Level         int               `gorm:"column:level;not null;default:1" json:"level"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Edge) TableName() string { return "authorization_edges" }
