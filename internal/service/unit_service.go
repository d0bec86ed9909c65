package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/dto"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/repository"
)

// UnitService exposes fire-unit reads.
type UnitService interface {
	List(ctx context.Context) ([]dto.UnitResponse, error)
	Get(ctx context.Context, unitID string) (*dto.UnitResponse, error)
}

type unitService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUnitService creates a UnitService.
func NewUnitService(repo *repository.Repository, logger *zap.Logger) UnitService {
	return &unitService{repo: repo, logger: logger}
}

func (s *unitService) List(ctx context.Context) ([]dto.UnitResponse, error) {
	units, err := s.repo.Unit.List(ctx)
	if err != nil {
		s.logger.Error("listing units failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UnitResponse, 0, len(units))
	for i := range units {
		result = append(result, toUnitResponse(&units[i]))
	}
	return result, nil
}

func (s *unitService) Get(ctx context.Context, unitID string) (*dto.UnitResponse, error) {
	unit, err := s.repo.Unit.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnitNotFound
		}
		s.logger.Error("loading unit failed", zap.Error(err))
		return nil, err
	}
	resp := toUnitResponse(unit)
	return &resp, nil
}

func toUnitResponse(u *model.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:       u.UnitID,
		Name:     u.Name,
		City:     u.City,
		IsActive: u.IsActive,
	}
}
