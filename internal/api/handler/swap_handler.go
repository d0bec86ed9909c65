package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// SwapHandler serves the duty-swap protocol.
type SwapHandler struct {
	swapSvc service.SwapService
}

// NewSwapHandler creates a SwapHandler.
func NewSwapHandler(swapSvc service.SwapService) *SwapHandler {
	return &SwapHandler{swapSvc: swapSvc}
}

// Propose opens a swap negotiation.
// POST /api/v1/swaps
func (h *SwapHandler) Propose(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ProposeSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.swapSvc.Propose(c.Request.Context(), userID, &req)
	if err != nil {
		writeSwapError(c, err)
		return
	}
	response.Created(c, result)
}

// Respond records the substitute's answer.
// POST /api/v1/swaps/:id/respond
func (h *SwapHandler) Respond(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RespondSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.swapSvc.Respond(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// Confirm finalizes a pending swap.
// POST /api/v1/swaps/:id/confirm
func (h *SwapHandler) Confirm(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmSwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.swapSvc.Confirm(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// Decide resolves a pending swap administratively.
// POST /api/v1/swaps/:id/decision
func (h *SwapHandler) Decide(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SupervisorDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.swapSvc.SupervisorDecide(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		writeSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// Get returns one swap with its audit trail.
// GET /api/v1/swaps/:id
func (h *SwapHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	result, err := h.swapSvc.Get(c.Request.Context(), c.Param("id"), userID, role)
	if err != nil {
		writeSwapError(c, err)
		return
	}
	response.OK(c, result)
}

// ListMine pages through the caller's negotiations.
// GET /api/v1/swaps?page=&page_size=
func (h *SwapHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SwapListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	swaps, total, err := h.swapSvc.ListMine(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, swaps, total, req.GetPage(), req.GetPageSize())
}

// ListPending returns a unit's open negotiations.
// GET /api/v1/swaps/pending?unit_id=
func (h *SwapHandler) ListPending(c *gin.Context) {
	var req dto.PendingSwapListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	swaps, err := h.swapSvc.ListPending(c.Request.Context(), req.UnitID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, swaps)
}

func writeSwapError(c *gin.Context, err error) {
	var collision *service.CollisionError
	var unknownPerson *service.UnknownPersonError

	switch {
	case errors.Is(err, service.ErrSwapNotFound):
		response.NotFound(c, 14001, "solicitação de troca não encontrada")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 14002, "serviço não encontrado")
	case errors.Is(err, service.ErrSwapAlreadyPending):
		response.Conflict(c, 14003, "serviço já possui troca pendente")
	case errors.Is(err, service.ErrSwapAlreadyResolved):
		response.Conflict(c, 14004, "solicitação de troca já resolvida")
	case errors.Is(err, service.ErrOriginalAssignmentMissing):
		response.Conflict(c, 14005, "serviço original não existe mais")
	case errors.Is(err, service.ErrNotAssignmentHolder):
		response.Forbidden(c, 14006, "serviço pertence a outro militar")
	case errors.Is(err, service.ErrNotSubstitute):
		response.Forbidden(c, 14007, "apenas o substituto indicado pode responder")
	case errors.Is(err, service.ErrNotSwapParty):
		response.Forbidden(c, 14008, "sem acesso a esta solicitação")
	case errors.Is(err, service.ErrSelfSwap):
		response.BadRequest(c, 14009, "não é possível trocar consigo mesmo")
	case errors.Is(err, service.ErrSubstituteIneligible):
		response.BadRequest(c, 14010, "substituto não elegível")
	case errors.Is(err, service.ErrInvalidStartDate):
		response.BadRequest(c, 13002, "data inválida")
	case errors.As(err, &unknownPerson):
		response.ErrorWithDetails(c, 400, 14010, "substituto não elegível", unknownPerson.Error())
	case errors.As(err, &collision):
		response.ConflictWithDetails(c, 13003, "conflito de escala", collision.Error())
	default:
		response.InternalError(c)
	}
}
