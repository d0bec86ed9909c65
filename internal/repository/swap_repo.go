package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/edmundobop/plataforma-bravo-web-sub001/internal/model"
	pkgerrors "github.com/edmundobop/plataforma-bravo-web-sub001/pkg/errors"
)

// SwapRequestRepository is the data-access interface for swap negotiations.
type SwapRequestRepository interface {
	Create(ctx context.Context, swap *model.SwapRequest) error
	GetByID(ctx context.Context, id string) (*model.SwapRequest, error)
	ListByParty(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error)
	ListPendingByUnit(ctx context.Context, unitID string) ([]model.SwapRequest, error)
	Update(ctx context.Context, swap *model.SwapRequest) error
}

// SwapHistoryRepository is the append-only audit trail of the swap protocol.
type SwapHistoryRepository interface {
	Create(ctx context.Context, record *model.SwapHistory) error
	ListByRequest(ctx context.Context, swapRequestID string) ([]model.SwapHistory, error)
}

// ── SwapRequest implementation ──

type swapRequestRepo struct {
	db *gorm.DB
}

func NewSwapRequestRepo(db *gorm.DB) SwapRequestRepository {
	return &swapRequestRepo{db: db}
}

func (r *swapRequestRepo) Create(ctx context.Context, swap *model.SwapRequest) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

func (r *swapRequestRepo) GetByID(ctx context.Context, id string) (*model.SwapRequest, error) {
	var swap model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Substitute").
		Where("swap_request_id = ?", id).
		First(&swap).Error
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *swapRequestRepo) ListByParty(ctx context.Context, userID string, offset, limit int) ([]model.SwapRequest, int64, error) {
	var swaps []model.SwapRequest
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SwapRequest{}).
		Where("requester_id = ? OR substitute_id = ?", userID, userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Requester").Preload("Substitute").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&swaps).Error
	return swaps, total, err
}

func (r *swapRequestRepo) ListPendingByUnit(ctx context.Context, unitID string) ([]model.SwapRequest, error) {
	var swaps []model.SwapRequest
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Substitute").
		Joins("JOIN assignments ON assignments.assignment_id = swap_requests.assignment_id").
		Where("swap_requests.status = ? AND assignments.unit_id = ?", model.SwapStatusPending, unitID).
		Order("swap_requests.created_at ASC").
		Find(&swaps).Error
	return swaps, err
}

func (r *swapRequestRepo) Update(ctx context.Context, swap *model.SwapRequest) error {
	oldVersion := swap.Version
	result := r.db.WithContext(ctx).
		Model(swap).
		Where("swap_request_id = ? AND version = ?", swap.SwapRequestID, oldVersion).
		Updates(map[string]interface{}{
			"status":            swap.Status,
			"compensation_date": swap.CompensationDate,
			"approved_by":       swap.ApprovedBy,
			"approved_at":       swap.ApprovedAt,
			"reject_reason":     swap.RejectReason,
			"updated_by":        swap.UpdatedBy,
			"version":           oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	swap.Version = oldVersion + 1
	return nil
}

// ── SwapHistory implementation ──

type swapHistoryRepo struct {
	db *gorm.DB
}

func NewSwapHistoryRepo(db *gorm.DB) SwapHistoryRepository {
	return &swapHistoryRepo{db: db}
}

func (r *swapHistoryRepo) Create(ctx context.Context, record *model.SwapHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *swapHistoryRepo) ListByRequest(ctx context.Context, swapRequestID string) ([]model.SwapHistory, error) {
	var records []model.SwapHistory
	err := r.db.WithContext(ctx).
		Where("swap_request_id = ?", swapRequestID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}
