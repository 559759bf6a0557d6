package repository

import (
	"context"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketRepository defines the data access contract for tickets. Services
// depend on this interface, not on the concrete GORM implementation, enabling
// clean unit testing via in-memory stubs.
type TicketRepository interface {
	// Create inserts the ticket, joining the caller's transaction when tx is
	// non-nil.
	Create(ctx context.Context, tx *gorm.DB, t *model.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	List(ctx context.Context, filter dto.TicketFilter) ([]model.Ticket, int64, error)

	// UpdateStatus applies updates only when the ticket is currently in one of
	// the from statuses. Returns false when no row matched — the caller treats
	// that as a state conflict. Concurrent transitions on the same ticket
	// serialize on this conditional write.
	UpdateStatus(ctx context.Context, id uuid.UUID, from []string, updates map[string]any) (bool, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from []string, updates map[string]any) (bool, error)

	// Dashboard reads
	CountNotDone(ctx context.Context) (int64, error)
	CountUrgentNotDone(ctx context.Context) (int64, error)
	CountTotal(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	ListPlannedOn(ctx context.Context, day time.Time) ([]model.Ticket, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type ticketRepo struct{ db *gorm.DB }

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepo{db: db} }

func (r *ticketRepo) Create(ctx context.Context, tx *gorm.DB, t *model.Ticket) error {
	db := r.db.WithContext(ctx)
	if tx != nil {
		db = tx
	}
	return db.Create(t).Error
}

func (r *ticketRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Client").Preload("Machine").Preload("Technician").
		First(&t, "id = ?", id).Error
	return &t, err
}

func (r *ticketRepo) List(ctx context.Context, filter dto.TicketFilter) ([]model.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Preload("Client").Preload("Machine").Preload("Technician")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.TechnicianID != "" {
		q = q.Where("technician_id = ?", filter.TechnicianID)
	}
	if filter.PlannedDate != "" {
		q = q.Where("planned_date = ?", filter.PlannedDate)
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

	var tickets []model.Ticket
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&tickets).Error
	return tickets, total, err
}

func (r *ticketRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from []string, updates map[string]any) (bool, error) {
	return r.UpdateStatusTx(r.db.WithContext(ctx), id, from, updates)
}

func (r *ticketRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from []string, updates map[string]any) (bool, error) {
	res := tx.Model(&model.Ticket{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

func (r *ticketRepo) CountNotDone(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("status <> ?", model.TicketDone).Count(&n).Error
	return n, err
}

func (r *ticketRepo) CountUrgentNotDone(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).
		Where("status <> ? AND priority IN ?", model.TicketDone, []string{model.PriorityHigh, model.PriorityCritical}).
		Count(&n).Error
	return n, err
}

func (r *ticketRepo) CountTotal(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).Count(&n).Error
	return n, err
}

func (r *ticketRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *ticketRepo) ListPlannedOn(ctx context.Context, day time.Time) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Client").Preload("Machine").Preload("Technician").
		Where("planned_date = ? AND status <> ?", day.Format("2006-01-02"), model.TicketDone).
		Order("priority DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *ticketRepo) DB() *gorm.DB { return r.db }
