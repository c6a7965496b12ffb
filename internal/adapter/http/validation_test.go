package http

import (
	"errors"
	"strings"
	"testing"

	"procurement-approval/internal/domain/approval"
	"procurement-approval/internal/usecase/authz"
	"procurement-approval/internal/usecase/requisition"

	"github.com/shopspring/decimal"
)

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		RequisitionID string `validate:"hex32"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{RequisitionID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x",
	} {
		err := cv.Validate(P{RequisitionID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "RequisitionID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestDecimalGreaterThanZero(t *testing.T) {
	type P struct {
		Quantity decimal.Decimal `validate:"dgt0"`
	}
	cv := NewValidator()

	for _, s := range []string{"1", "0.0001", "12345.5"} {
		if err := cv.Validate(P{Quantity: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("expected %s to pass, got %v", s, err)
		}
	}
	for _, s := range []string{"0", "-1", "-0.5"} {
		err := cv.Validate(P{Quantity: decimal.RequireFromString(s)})
		if err == nil {
			t.Fatalf("expected %s to fail", s)
		}
		if !containsFieldMsg(ToFieldErrors(err), "Quantity", "greater than zero") {
			t.Fatalf("unexpected mapping for %s: %+v", s, ToFieldErrors(err))
		}
	}
}

func TestGateAndGateTypeValidation(t *testing.T) {
	type P struct {
		Gate     string `validate:"gate"`
		GateType string `validate:"gatetype"`
	}
	cv := NewValidator()

	if err := cv.Validate(P{Gate: "approve_management", GateType: "aprobacion"}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	err := cv.Validate(P{Gate: "invoice", GateType: "review"})
	if err == nil {
		t.Fatal("expected errors")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "Gate", "validate, review") || !containsFieldMsg(fe, "GateType", "revision, autorizacion") {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}

func TestRequestPayloads(t *testing.T) {
	cv := NewValidator()

	create := requisition.CreateInput{
		CompanyID: "C1", ProjectID: "P1", OperationCenterID: "OC1",
		Priority: "urgent",
		Items: []requisition.ItemInput{
			{MaterialID: "M1", Quantity: decimal.NewFromInt(2)},
			{MaterialID: "", Quantity: decimal.Zero},
		},
	}
	fe := ToFieldErrors(cv.Validate(create))
	for _, want := range []struct{ field, msg string }{
		{"Priority", "one of normal alta"},
		{"Items[1].MaterialID", "is required"},
		{"Items[1].Quantity", "greater than zero"},
	} {
		if !containsFieldMsg(fe, want.field, want.msg) {
			t.Fatalf("missing %s/%s in %+v", want.field, want.msg, fe)
		}
	}

	decide := requisition.GateDecisionInput{Decisions: []approval.ItemDecision{{ItemNumber: 0, MaterialID: "M1", Status: "approved"}}}
	if fe := ToFieldErrors(cv.Validate(decide)); !containsFieldMsg(fe, "Decisions[0].ItemNumber", "greater than or equal to 1") {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
	if fe := ToFieldErrors(cv.Validate(requisition.GateDecisionInput{})); !containsFieldMsg(fe, "Decisions", "is required") {
		t.Fatalf("unexpected mapping: %+v", fe)
	}

	edge := authz.EdgeInput{AuthorizerID: "A1", SubordinateID: "U1", GateType: "boss", Level: 11}
	fe = ToFieldErrors(cv.Validate(edge))
	if !containsFieldMsg(fe, "GateType", "revision") || !containsFieldMsg(fe, "Level", "less than or equal to 10") {
		t.Fatalf("unexpected mapping: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
