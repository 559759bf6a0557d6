package repository

import (
	"context"

	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterventionRepository interface {
	// CreateTx inserts inside the caller's transaction. The unique index on
	// ticket_id makes a second intervention for the same ticket fail here.
	CreateTx(tx *gorm.DB, i *model.Intervention) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Intervention, error)
	FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Intervention, error)
	List(ctx context.Context, page, limit int) ([]model.Intervention, int64, error)
}

type interventionRepo struct{ db *gorm.DB }

func NewInterventionRepository(db *gorm.DB) InterventionRepository {
	return &interventionRepo{db: db}
}

func (r *interventionRepo) CreateTx(tx *gorm.DB, i *model.Intervention) error {
	return tx.Create(i).Error
}

func (r *interventionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Intervention, error) {
	var i model.Intervention
	err := r.db.WithContext(ctx).
		Preload("Ticket").Preload("Ticket.Client").Preload("Ticket.Machine").
		First(&i, "id = ?", id).Error
	return &i, err
}

func (r *interventionRepo) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*model.Intervention, error) {
	var i model.Intervention
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).First(&i).Error
	return &i, err
}

func (r *interventionRepo) List(ctx context.Context, page, limit int) ([]model.Intervention, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Intervention{}).Preload("Ticket")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var interventions []model.Intervention
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&interventions).Error
	return interventions, total, err
}
