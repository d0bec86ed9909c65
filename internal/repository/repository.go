package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs fn inside one all-or-nothing scope. Tests inject doubles
// that snapshot and restore in-memory state.
type TxRunner func(ctx context.Context, fn func(*Repository) error) error

// Repository aggregates every data-access interface.
type Repository struct {
	Unit         UnitRepository
	User         UserRepository
	Entry        ScheduleEntryRepository
	Assignment   AssignmentRepository
	Swap         SwapRequestRepository
	SwapHistory  SwapHistoryRepository
	Notification NotificationRepository

	// Tx overrides the transaction runner when set.
	Tx TxRunner

	db *gorm.DB
}

// NewRepository wires the gorm-backed implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Unit:         NewUnitRepo(db),
		User:         NewUserRepo(db),
		Entry:        NewScheduleEntryRepo(db),
		Assignment:   NewAssignmentRepo(db),
		Swap:         NewSwapRequestRepo(db),
		SwapHistory:  NewSwapHistoryRepo(db),
		Notification: NewNotificationRepo(db),
		db:           db,
	}
}

// Transaction runs fn with a Repository bound to a single database
// transaction. Any error from fn rolls back every write made through the
// bound Repository; multi-step mutations in the services must go through
// here so partial application can never be observed.
func (r *Repository) Transaction(ctx context.Context, fn func(*Repository) error) error {
	if r.Tx != nil {
		return r.Tx(ctx, fn)
	}
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
