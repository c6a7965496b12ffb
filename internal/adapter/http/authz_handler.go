package http

import (
	"net/http"

	"procurement-approval/internal/adapter/middleware"
	"procurement-approval/internal/usecase/authz"

	"github.com/labstack/echo/v4"
)

type AuthzHandler struct{ uc *authz.Usecase }

func NewAuthzHandler(uc *authz.Usecase) *AuthzHandler { return &AuthzHandler{uc: uc} }

func (h *AuthzHandler) Register(g *echo.Group) {
	g.GET("/authorizations", h.List)
	g.POST("/authorizations", h.Add)
	g.DELETE("/authorizations", h.Remove)
	g.GET("/authorizations/available", h.Available)
}

// List returns the edges held by ?authorizer_id, defaulting to the caller.
func (h *AuthzHandler) List(c echo.Context) error {
	authorizer := c.QueryParam("authorizer_id")
	if authorizer == "" {
		authorizer = middleware.ActorFrom(c)
	}
	out, err := h.uc.ListEdges(c.Request().Context(), authorizer)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Add and Remove take an explicit authorizer_id; only edge administrators
// may call them.
func (h *AuthzHandler) Add(c echo.Context) error {
	var in authz.EdgeInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.AddEdge(c.Request().Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	code := http.StatusOK
	if dto.Created {
		code = http.StatusCreated
	}
	return c.JSON(code, dto)
}

func (h *AuthzHandler) Remove(c echo.Context) error {
	var in authz.EdgeInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return validationFailed(c, err)
	}
	removed, err := h.uc.RemoveEdge(c.Request().Context(), middleware.ActorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"removed": removed})
}

func (h *AuthzHandler) Available(c echo.Context) error {
	out, err := h.uc.AvailableSubordinates(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string][]string{"users": out})
}
