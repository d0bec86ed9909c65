package service

import (
	"go.uber.org/zap"

	"github.com/edmundobop/plataforma-bravo-web-sub001/config"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/jwt"
	"github.com/edmundobop/plataforma-bravo-web-sub001/pkg/redis"
)

// Service is the aggregate entry point for all business services.
type Service struct {
	Auth         AuthService
	User         UserService
	Unit         UnitService
	Roster       RosterService
	Rotation     RotationService
	Swap         SwapService
	Notification NotificationService
	Export       ExportService
}

// NewService wires every service. rdb may be nil when Redis is unavailable.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Unit:         NewUnitService(repo, logger),
		Roster:       NewRosterService(repo, cfg.Duty.MinGroupSize, logger),
		Rotation:     NewRotationService(repo, cfg.Duty, logger),
		Swap:         NewSwapService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}
