package http

import (
	"errors"
	"net/http"

	"procurement-approval/internal/domain/workflow"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// writeError maps workflow errors onto HTTP status codes. Item level detail
// from a DecisionError is returned in "items".
func writeError(c echo.Context, err error) error {
	code, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		code, msg = http.StatusNotFound, "not found"
	case errors.Is(err, workflow.ErrForbidden):
		code, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, workflow.ErrIncompleteDecision):
		code, msg = http.StatusUnprocessableEntity, "incomplete decision"
	case errors.Is(err, workflow.ErrValidation):
		code, msg = http.StatusUnprocessableEntity, "validation failed"
	case errors.Is(err, workflow.ErrIllegalTransition):
		code, msg = http.StatusConflict, "illegal transition"
	case errors.Is(err, workflow.ErrConcurrencyConflict):
		code, msg = http.StatusConflict, "concurrent update, retry"
	}
	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.JSON(code, ErrorResponse{Error: msg})
	}

	resp := ErrorResponse{Error: msg, Details: []FieldError{{Field: "_", Message: err.Error()}}}
	var de *workflow.DecisionError
	if errors.As(err, &de) {
		resp.Details = nil
		resp.Items = de.Issues
	}
	return c.JSON(code, resp)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
