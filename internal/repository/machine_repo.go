package repository

import (
	"context"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MachineRepository interface {
	Create(ctx context.Context, m *model.Machine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error)
	FindBySerial(ctx context.Context, serial string) (*model.Machine, error)
	List(ctx context.Context, filter dto.MachineFilter) ([]model.Machine, int64, error)
	Update(ctx context.Context, m *model.Machine) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type machineRepo struct{ db *gorm.DB }

func NewMachineRepository(db *gorm.DB) MachineRepository { return &machineRepo{db: db} }

func (r *machineRepo) Create(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *machineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error) {
	var m model.Machine
	err := r.db.WithContext(ctx).Preload("Client").First(&m, "id = ?", id).Error
	return &m, err
}

func (r *machineRepo) FindBySerial(ctx context.Context, serial string) (*model.Machine, error) {
	var m model.Machine
	err := r.db.WithContext(ctx).Where("serial = ?", serial).First(&m).Error
	return &m, err
}

func (r *machineRepo) List(ctx context.Context, filter dto.MachineFilter) ([]model.Machine, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Machine{}).Preload("Client")
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var machines []model.Machine
	err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&machines).Error
	return machines, total, err
}

func (r *machineRepo) Update(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *machineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Machine{}, "id = ?", id).Error
}
