package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{ service string }

func NewHandler() *Handler { return &Handler{service: "procurement-approval"} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": h.service,
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}
