package authz

import (
	"fmt"

	"procurement-approval/internal/domain/workflow"
)

type EdgeInput struct {
	AuthorizerID  string            `json:"authorizer_id" validate:"required,max=32"`
	SubordinateID string            `json:"subordinate_id" validate:"required,max=32"`
	GateType      workflow.GateType `json:"gate_type" validate:"required,gatetype"`
	Level         int               `json:"level" validate:"gte=0,lte=10"`
}

func (in EdgeInput) validate() error {
	switch {
	case in.AuthorizerID == "" || in.SubordinateID == "":
		return fmt.Errorf("%w: authorizer and subordinate are required", workflow.ErrValidation)
	case in.AuthorizerID == in.SubordinateID:
		return fmt.Errorf("%w: a user cannot authorize their own requisitions", workflow.ErrValidation)
	case !in.GateType.Valid():
		return fmt.Errorf("%w: unknown gate type %q", workflow.ErrValidation, in.GateType)
	case in.Level < 0:
		return fmt.Errorf("%w: level must not be negative", workflow.ErrValidation)
	}
	return nil
}

type EdgeDTO struct {
	AuthorizerID  string            `json:"authorizer_id"`
	SubordinateID string            `json:"subordinate_id"`
	GateType      workflow.GateType `json:"gate_type"`
	Level         int               `json:"level"`
	Created       bool              `json:"created"`
}
