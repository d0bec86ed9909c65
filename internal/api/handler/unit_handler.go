package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// UnitHandler serves fire-unit reads.
type UnitHandler struct {
	unitSvc service.UnitService
}

// NewUnitHandler creates a UnitHandler.
func NewUnitHandler(unitSvc service.UnitService) *UnitHandler {
	return &UnitHandler{unitSvc: unitSvc}
}

// List returns the active units.
// GET /api/v1/units
func (h *UnitHandler) List(c *gin.Context) {
	units, err := h.unitSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, units)
}

// Get returns one unit.
// GET /api/v1/units/:id
func (h *UnitHandler) Get(c *gin.Context) {
	unit, err := h.unitSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			response.NotFound(c, 12001, "unidade não encontrada")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, unit)
}
