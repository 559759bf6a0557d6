package repository

import (
	"context"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartRepository interface {
	// Create inserts the part, joining tx when non-nil.
	Create(ctx context.Context, tx *gorm.DB, p *model.Part) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Part, error)
	FindByReference(ctx context.Context, reference string) (*model.Part, error)
	List(ctx context.Context, filter dto.PartFilter) ([]model.Part, int64, error)
	Update(ctx context.Context, p *model.Part) error
	Delete(ctx context.Context, id uuid.UUID) error

	// AdjustStockTx atomically applies a signed delta, guarded so stock never
	// goes negative. Returns false when the guard rejects the write — the row
	// is left untouched. Concurrent decrements on the same part serialize on
	// this conditional UPDATE.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) (bool, error)

	// ListLowStock returns parts at or below their minimum, most deficient
	// first.
	ListLowStock(ctx context.Context) ([]model.Part, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type partRepo struct{ db *gorm.DB }

func NewPartRepository(db *gorm.DB) PartRepository { return &partRepo{db: db} }

func (r *partRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Part) error {
	if tx != nil {
		return tx.Create(p).Error
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *partRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Part, error) {
	var p model.Part
	err := tx.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *partRepo) FindByReference(ctx context.Context, reference string) (*model.Part, error) {
	var p model.Part
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&p).Error
	return &p, err
}

func (r *partRepo) List(ctx context.Context, filter dto.PartFilter) ([]model.Part, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Part{})
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.LowStock {
		q = q.Where("current_stock <= minimum_stock")
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

	var parts []model.Part
	err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&parts).Error
	return parts, total, err
}

func (r *partRepo) Update(ctx context.Context, p *model.Part) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *partRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Part{}, "id = ?", id).Error
}

func (r *partRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	res := tx.Model(&model.Part{}).
		Where("id = ? AND current_stock + ? >= 0", id, delta).
		Update("current_stock", gorm.Expr("current_stock + ?", delta))
	return res.RowsAffected > 0, res.Error
}

func (r *partRepo) ListLowStock(ctx context.Context) ([]model.Part, error) {
	var parts []model.Part
	err := r.db.WithContext(ctx).
		Where("current_stock <= minimum_stock").
		Order("(current_stock - minimum_stock) ASC").
		Find(&parts).Error
	return parts, err
}

func (r *partRepo) DB() *gorm.DB { return r.db }
