package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
)

// UnitRepository is the data-access interface for units.
type UnitRepository interface {
	GetByID(ctx context.Context, id string) (*model.Unit, error)
	List(ctx context.Context) ([]model.Unit, error)
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db: db}
}

func (r *unitRepo) GetByID(ctx context.Context, id string) (*model.Unit, error) {
	var unit model.Unit
	err := r.db.WithContext(ctx).
		Where("unit_id = ?", id).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepo) List(ctx context.Context) ([]model.Unit, error) {
	var units []model.Unit
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&units).Error
	return units, err
}
