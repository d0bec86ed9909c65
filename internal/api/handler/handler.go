package handler

import "github.com/edmundobop/plataforma-bravo-web-sub001/internal/service"

// Handler is the aggregate entry point for all HTTP handlers.
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Unit         *UnitHandler
	Roster       *RosterHandler
	Schedule     *ScheduleHandler
	Swap         *SwapHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler wires every handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Unit:         NewUnitHandler(svc.Unit),
		Roster:       NewRosterHandler(svc.Roster),
		Schedule:     NewScheduleHandler(svc.Rotation),
		Swap:         NewSwapHandler(svc.Swap),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
