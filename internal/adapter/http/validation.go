package http

import (
	"reflect"
	"regexp"
	"strings"

	"procurement-approval/internal/domain/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string               `json:"error"`
	Details []FieldError         `json:"details,omitempty"`
	Items   []workflow.ItemIssue `json:"items,omitempty"`
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// decimals are validated through their string form
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// requisition id = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// decimal strictly greater than zero
	_ = v.RegisterValidation("dgt0", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	_ = v.RegisterValidation("gate", func(fl validator.FieldLevel) bool {
		_, ok := workflow.ParseGate(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("gatetype", func(fl validator.FieldLevel) bool {
		return workflow.GateType(fl.Field().String()).Valid()
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		// drop the struct name, keep the path: Items[0].Quantity
		field := e.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "dgt0":
			out = append(out, FieldError{Field: field, Message: "must be a decimal greater than zero"})
		case "gate":
			out = append(out, FieldError{Field: field, Message: "must be one of validate, review, authorize, approve_management"})
		case "gatetype":
			out = append(out, FieldError{Field: field, Message: "must be one of revision, autorizacion, aprobacion"})
		case "oneof":
			out = append(out, FieldError{Field: field, Message: "must be one of " + e.Param()})
		case "min":
			out = append(out, FieldError{Field: field, Message: "must have at least " + e.Param() + " entries"})
		case "max":
			out = append(out, FieldError{Field: field, Message: "must be at most " + e.Param() + " long"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
