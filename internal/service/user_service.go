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

var ErrUserNotFound = errors.New("user not found")

// UserService exposes personnel reads.
type UserService interface {
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Get(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.ListByUnit(ctx, req.UnitID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("listing personnel failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("loading user failed", zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:                 u.UserID,
		Name:               u.Name,
		RegistrationNumber: u.RegistrationNumber,
		Email:              u.Email,
		Role:               u.Role,
		Sector:             u.Sector,
		DutyGroup:          u.DutyGroup,
		IsActive:           u.IsActive,
	}
	if u.Unit != nil {
		resp.Unit = &dto.UnitBrief{ID: u.Unit.UnitID, Name: u.Unit.Name}
	}
	return resp
}
