package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// ScheduleHandler serves rotation generation and schedule reads.
type ScheduleHandler struct {
	rotationSvc service.RotationService
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(rotationSvc service.RotationService) *ScheduleHandler {
	return &ScheduleHandler{rotationSvc: rotationSvc}
}

// Generate materializes a rotation batch for a unit.
// POST /api/v1/units/:id/rotations
func (h *ScheduleHandler) Generate(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateRotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.rotationSvc.Generate(c.Request.Context(), c.Param("id"), &req, userID)
	if err != nil {
		var collision *service.CollisionError
		switch {
		case errors.Is(err, service.ErrInvalidPeriodCount):
			response.BadRequest(c, 13001, "quantidade de períodos fora do limite")
		case errors.Is(err, service.ErrInvalidStartDate):
			response.BadRequest(c, 13002, "data inicial inválida")
		case errors.As(err, &collision):
			response.ConflictWithDetails(c, 13003, "conflito de escala", collision.Error())
		default:
			writeRosterError(c, err)
		}
		return
	}
	response.Created(c, result)
}

// List returns a unit's duty periods within a date range.
// GET /api/v1/schedule?unit_id=&from=&to=
func (h *ScheduleHandler) List(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	entries, err := h.rotationSvc.ListEntries(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, entries)
}

// ListAssignments returns a unit's duty records within a date range.
// GET /api/v1/schedule/assignments?unit_id=&from=&to=
func (h *ScheduleHandler) ListAssignments(c *gin.Context) {
	var req dto.ScheduleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	assignments, err := h.rotationSvc.ListAssignments(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, assignments)
}

// MySchedule returns the caller's own duty records.
// GET /api/v1/schedule/my?from=&to=
func (h *ScheduleHandler) MySchedule(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	assignments, err := h.rotationSvc.ListMyAssignments(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, assignments)
}
