package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/response"
)

// NotificationHandler serves the caller's in-app messages.
type NotificationHandler struct {
	notifSvc service.NotificationService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc}
}

// List pages through the caller's notifications.
// GET /api/v1/notifications?unread_only=&page=&page_size=
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	notifications, total, err := h.notifSvc.List(c.Request.Context(), userID, &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, notifications, total, req.GetPage(), req.GetPageSize())
}

// UnreadCount returns the unread badge counter.
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.notifSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// MarkRead marks one notification as read.
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notifSvc.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFound(c, 15001, "notificação não encontrada")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// MarkAllRead marks every notification of the caller as read.
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.notifSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}
