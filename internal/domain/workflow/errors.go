package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrIncompleteDecision  = errors.New("incomplete decision")
	ErrValidation          = errors.New("validation error")
	ErrIllegalTransition   = errors.New("illegal transition")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrNotFound            = errors.New("not found")
)

// ItemIssue points at one requisition line that made an operation fail.
type ItemIssue struct {
	ItemNumber int    `json:"item_number"`
	MaterialID string `json:"material_id"`
	Reason     string `json:"reason"`
}

// DecisionError carries item-level detail; errors.Is matches its Kind.
type DecisionError struct {
	Kind   error
	Issues []ItemIssue
}

func (e *DecisionError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		if is.ItemNumber > 0 {
			parts = append(parts, fmt.Sprintf("item %d (%s): %s", is.ItemNumber, is.MaterialID, is.Reason))
		} else {
			parts = append(parts, is.Reason)
		}
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *DecisionError) Unwrap() error { return e.Kind }

func Illegal(s Status, what string) error {
	return fmt.Errorf("%w: %s not allowed from %s", ErrIllegalTransition, what, s)
}
