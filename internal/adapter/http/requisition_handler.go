package http

import (
	"net/http"

	"procurement-approval/internal/adapter/middleware"
	"procurement-approval/internal/domain/workflow"
	"procurement-approval/internal/usecase/requisition"

	"github.com/labstack/echo/v4"
)

type RequisitionHandler struct{ uc *requisition.Usecase }

func NewRequisitionHandler(uc *requisition.Usecase) *RequisitionHandler {
	return &RequisitionHandler{uc: uc}
}

// Register mounts the requisition routes on g.
func (h *RequisitionHandler) Register(g *echo.Group) {
	g.POST("/requisitions", h.Create)
	g.GET("/requisitions/:requisition_id", h.Get)
	g.PUT("/requisitions/:requisition_id", h.EditAndResubmit)
	g.GET("/requisitions/:requisition_id/status", h.Status)
	g.GET("/requisitions/:requisition_id/history", h.History)
	g.POST("/requisitions/:requisition_id/submit", h.Submit)
	g.POST("/requisitions/:requisition_id/start-review", h.StartReview)
	g.POST("/requisitions/:requisition_id/gates/:gate", h.Decide)
	g.GET("/requisitions/:requisition_id/gates/:gate/items", h.ItemDecisions)
	g.POST("/requisitions/:requisition_id/downstream", h.Advance)
	g.GET("/inbox/:gate", h.Inbox)
}

func (h *RequisitionHandler) Create(c echo.Context) error {
	var in requisition.CreateInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return validationFailed(c, err)
	}
	in.CreatorID = middleware.ActorFrom(c)
	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RequisitionHandler) Get(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) Status(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	dto, err := h.uc.GetStatus(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) History(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	out, err := h.uc.History(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequisitionHandler) Submit(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	dto, err := h.uc.SubmitForValidation(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) StartReview(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	dto, err := h.uc.StartReview(c.Request().Context(), id, middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) Decide(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	gate, ok := workflow.ParseGate(c.Param("gate"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown gate"})
	}
	var in requisition.GateDecisionInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return validationFailed(c, err)
	}
	in.RequisitionID, in.Gate, in.ActorID = id, gate, middleware.ActorFrom(c)

	dto, err := h.uc.GateDecision(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) ItemDecisions(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	gate, ok := workflow.ParseGate(c.Param("gate"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown gate"})
	}
	out, err := h.uc.ItemDecisions(c.Request().Context(), id, gate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *RequisitionHandler) EditAndResubmit(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	var in requisition.EditInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return validationFailed(c, err)
	}
	in.RequisitionID, in.ActorID = id, middleware.ActorFrom(c)

	dto, err := h.uc.EditAndResubmit(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) Advance(c echo.Context) error {
	id, ok := requisitionID(c)
	if !ok {
		return badRequest(c, "invalid requisition_id path param")
	}
	var in requisition.AdvanceInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&in); err != nil {
		return validationFailed(c, err)
	}
	in.RequisitionID, in.ActorID = id, middleware.ActorFrom(c)

	dto, err := h.uc.AdvanceDownstream(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequisitionHandler) Inbox(c echo.Context) error {
	gate, ok := workflow.ParseGate(c.Param("gate"))
	if !ok {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown gate"})
	}
	out, err := h.uc.Inbox(c.Request().Context(), middleware.ActorFrom(c), gate)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
