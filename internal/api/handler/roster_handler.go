package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// RosterHandler serves the duty-group partition board.
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListEligible returns a unit's rotation-eligible personnel.
// GET /api/v1/units/:id/roster
func (h *RosterHandler) ListEligible(c *gin.Context) {
	users, err := h.rosterSvc.ListEligible(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeRosterError(c, err)
		return
	}
	response.OK(c, users)
}

// GetPartition reconstructs the current partition from the stored labels.
// GET /api/v1/units/:id/partition
func (h *RosterHandler) GetPartition(c *gin.Context) {
	partition, err := h.rosterSvc.GetPartition(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeRosterError(c, err)
		return
	}
	response.OK(c, partition)
}

// SetPartition validates and persists a full duty-group assignment.
// PUT /api/v1/units/:id/partition
func (h *RosterHandler) SetPartition(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetPartitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	partition, err := h.rosterSvc.SetPartition(c.Request.Context(), c.Param("id"), req.Groups, userID)
	if err != nil {
		writeRosterError(c, err)
		return
	}
	response.OK(c, partition)
}

// writeRosterError maps roster and partition failures onto the envelope.
// The mapping is shared with the rotation endpoints, which re-run the same
// partition validation.
func writeRosterError(c *gin.Context, err error) {
	var unknownGroup *service.UnknownGroupError
	var unknownPerson *service.UnknownPersonError
	var duplicate *service.DuplicatePersonError
	var coverage *service.IncompleteCoverageError
	var minimum *service.BelowMinimumError

	switch {
	case errors.Is(err, service.ErrUnitNotFound):
		response.NotFound(c, 12001, "unidade não encontrada")
	case errors.As(err, &unknownGroup):
		response.ErrorWithDetails(c, 400, 12002, "ala desconhecida", unknownGroup.Error())
	case errors.As(err, &unknownPerson):
		response.ErrorWithDetails(c, 400, 12003, "militar não elegível para a escala", unknownPerson.Error())
	case errors.As(err, &duplicate):
		response.ErrorWithDetails(c, 400, 12004, "militar presente em mais de uma ala", duplicate.Error())
	case errors.As(err, &coverage):
		response.ConflictWithDetails(c, 12005, "partição incompleta", coverage.Error())
	case errors.As(err, &minimum):
		response.ConflictWithDetails(c, 12006, "ala abaixo do efetivo mínimo", minimum.Error())
	default:
		response.InternalError(c)
	}
}
