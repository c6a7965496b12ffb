package http

import (
	"strings"

	"github.com/labstack/echo/v4"
)

func requisitionID(c echo.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("requisition_id"))
	return id, reHex32.MatchString(id)
}
