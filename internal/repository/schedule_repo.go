package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	pkgerrors "github.com/edmundobop/plataforma-bravo-web-sub001/pkg/errors"
)

// ScheduleEntryRepository is the data-access interface for duty periods.
type ScheduleEntryRepository interface {
	Create(ctx context.Context, entry *model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	ListByUnitBetween(ctx context.Context, unitID string, from, to time.Time) ([]model.ScheduleEntry, error)
}

// AssignmentRepository is the data-access interface for duty assignments.
type AssignmentRepository interface {
	BatchCreate(ctx context.Context, assignments []model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	// GetByUserAndDate looks up the collision-invariant key.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Assignment, error)
	ListByEntry(ctx context.Context, entryID string) ([]model.Assignment, error)
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Assignment, error)
	ListByUnitBetween(ctx context.Context, unitID string, from, to time.Time) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
}

// ── ScheduleEntry implementation ──

type scheduleEntryRepo struct {
	db *gorm.DB
}

func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

func (r *scheduleEntryRepo) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) ListByUnitBetween(ctx context.Context, unitID string, from, to time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND starts_at >= ? AND starts_at < ?", unitID, from, to).
		Order("starts_at ASC").
		Find(&entries).Error
	return entries, err
}

// ── Assignment implementation ──

type assignmentRepo struct {
	db *gorm.DB
}

func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) BatchCreate(ctx context.Context, assignments []model.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&assignments).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Entry").
		Preload("User").
		Where("assignment_id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND duty_date = ?", userID, date.Format("2006-01-02")).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByEntry(ctx context.Context, entryID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("entry_id = ?", entryID).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Entry").
		Where("user_id = ? AND duty_date >= ? AND duty_date < ?",
			userID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("duty_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) ListByUnitBetween(ctx context.Context, unitID string, from, to time.Time) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Entry").
		Preload("User").
		Where("unit_id = ? AND duty_date >= ? AND duty_date < ?",
			unitID, from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("duty_date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	oldVersion := assignment.Version
	result := r.db.WithContext(ctx).
		Model(assignment).
		Where("assignment_id = ? AND version = ?", assignment.AssignmentID, oldVersion).
		Updates(map[string]interface{}{
			"user_id":         assignment.UserID,
			"duty_date":       assignment.DutyDate,
			"swap_request_id": assignment.SwapRequestID,
			"updated_by":      assignment.UpdatedBy,
			"version":         oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	assignment.Version = oldVersion + 1
	return nil
}
