package repository

import (
	"context"

	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(ctx context.Context, e *model.ActivityLogEntry) error
	CreateTx(tx *gorm.DB, e *model.ActivityLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]model.ActivityLogEntry, error)
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]model.ActivityLogEntry, error)
}

type activityRepo struct{ db *gorm.DB }

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepo{db: db} }

func (r *activityRepo) Create(ctx context.Context, e *model.ActivityLogEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *activityRepo) CreateTx(tx *gorm.DB, e *model.ActivityLogEntry) error {
	return tx.Create(e).Error
}

func (r *activityRepo) ListRecent(ctx context.Context, limit int) ([]model.ActivityLogEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	var entries []model.ActivityLogEntry
	err := r.db.WithContext(ctx).Preload("User").
		Order("created_at DESC").Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *activityRepo) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]model.ActivityLogEntry, error) {
	var entries []model.ActivityLogEntry
	err := r.db.WithContext(ctx).Preload("User").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
