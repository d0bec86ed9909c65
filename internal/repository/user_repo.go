package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	pkgerrors "github.com/edmundobop/plataforma-bravo-web-sub001/pkg/errors"
)

// UserRepository is the data-access interface for personnel.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByRegistrationNumber(ctx context.Context, registration string) (*model.User, error)
	// ListEligible returns active operational-sector personnel of a unit,
	// ordered by duty group (unassigned last) then name.
	ListEligible(ctx context.Context, unitID string) ([]model.User, error)
	ListByUnit(ctx context.Context, unitID string, offset, limit int) ([]model.User, int64, error)
	ListByRole(ctx context.Context, unitID, role string) ([]model.User, error)
	// ListLabeled returns every user of the unit carrying a duty-group
	// label, eligible or not, so stale labels can be cleared.
	ListLabeled(ctx context.Context, unitID string) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	// UpdateDutyGroup writes only the group label; nil clears it.
	UpdateDutyGroup(ctx context.Context, userID string, group *string, updatedBy string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Where("user_id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByRegistrationNumber(ctx context.Context, registration string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Unit").
		Where("registration_number = ?", registration).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListEligible(ctx context.Context, unitID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND is_active = ? AND sector = ?", unitID, true, model.SectorOperational).
		Order("duty_group ASC NULLS LAST, name ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListByUnit(ctx context.Context, unitID string, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{}).
		Where("unit_id = ?", unitID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Offset(offset).Limit(limit).
		Order("name ASC").
		Find(&users).Error
	return users, total, err
}

func (r *userRepo) ListByRole(ctx context.Context, unitID, role string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND role = ? AND is_active = ?", unitID, role, true).
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListLabeled(ctx context.Context, unitID string) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND duty_group IS NOT NULL", unitID).
		Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	oldVersion := user.Version
	result := r.db.WithContext(ctx).
		Model(user).
		Where("user_id = ? AND version = ?", user.UserID, oldVersion).
		Updates(map[string]interface{}{
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"sector":     user.Sector,
			"duty_group": user.DutyGroup,
			"unit_id":    user.UnitID,
			"is_active":  user.IsActive,
			"updated_by": user.UpdatedBy,
			"version":    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version = oldVersion + 1
	return nil
}

func (r *userRepo) UpdateDutyGroup(ctx context.Context, userID string, group *string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"duty_group": group,
			"updated_by": updatedBy,
		}).Error
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("user_id = ?", userID).
		Update("password_hash", passwordHash).Error
}
