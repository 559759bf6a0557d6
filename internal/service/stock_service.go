package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"
	"github.com/lesdavils/MedimexResolv/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService manages the parts catalog and its movement ledger.
type StockService interface {
	CreatePart(ctx context.Context, actor Actor, req dto.CreatePartRequest) (*dto.PartResponse, error)
	UpdatePart(ctx context.Context, id uuid.UUID, req dto.UpdatePartRequest) (*dto.PartResponse, error)
	GetPart(ctx context.Context, id uuid.UUID) (*dto.PartResponse, error)
	ListParts(ctx context.Context, filter dto.PartFilter) (*dto.PartListResponse, error)
	ListLowStock(ctx context.Context) ([]dto.PartResponse, error)
	// Adjust moves stock by a signed delta and writes the matching ledger
	// entry in the same transaction.
	Adjust(ctx context.Context, actor Actor, id uuid.UUID, req dto.AdjustStockRequest) (*dto.PartResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type stockService struct {
	repo         repository.PartRepository
	movementRepo repository.StockMovementRepository
	activityRepo repository.ActivityRepository
	dispatcher   *worker.Dispatcher
	alertEmail   string
	timeout      time.Duration
}

func NewStockService(
	repo repository.PartRepository,
	movementRepo repository.StockMovementRepository,
	activityRepo repository.ActivityRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
	timeout time.Duration,
) StockService {
	return &stockService{
		repo:         repo,
		movementRepo: movementRepo,
		activityRepo: activityRepo,
		dispatcher:   dispatcher,
		alertEmail:   alertEmail,
		timeout:      timeout,
	}
}

func (s *stockService) CreatePart(ctx context.Context, actor Actor, req dto.CreatePartRequest) (*dto.PartResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	reference := strings.TrimSpace(req.Reference)
	if existing, err := s.repo.FindByReference(ctx, reference); err == nil && existing != nil {
		return nil, apierror.Conflict(fmt.Sprintf("a part with reference %q already exists", reference))
	}

	part := &model.Part{
		Name:         strings.TrimSpace(req.Name),
		Reference:    reference,
		Barcode:      req.Barcode,
		Supplier:     req.Supplier,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		UnitPrice:    req.UnitPrice,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, part); err != nil {
			return err
		}
		if part.CurrentStock == 0 {
			return nil
		}
		// Opening balance shows up in the ledger like any other movement.
		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			PartID:      part.ID,
			Type:        model.MovementRestock,
			Quantity:    part.CurrentStock,
			StockBefore: 0,
			StockAfter:  part.CurrentStock,
			Reason:      "Initial stock",
			UserID:      actor.ID,
		})
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}
	return partToResponse(part), nil
}

func (s *stockService) UpdatePart(ctx context.Context, id uuid.UUID, req dto.UpdatePartRequest) (*dto.PartResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("part", id, err)
	}

	if req.Name != "" {
		part.Name = strings.TrimSpace(req.Name)
	}
	if req.Barcode != nil {
		part.Barcode = req.Barcode
	}
	if req.Supplier != nil {
		part.Supplier = *req.Supplier
	}
	if req.MinimumStock != nil {
		part.MinimumStock = *req.MinimumStock
	}
	if req.UnitPrice != nil {
		part.UnitPrice = *req.UnitPrice
	}

	if err := s.repo.Update(ctx, part); err != nil {
		return nil, storeErr(err)
	}
	return partToResponse(part), nil
}

func (s *stockService) GetPart(ctx context.Context, id uuid.UUID) (*dto.PartResponse, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("part", id, err)
	}
	return partToResponse(part), nil
}

func (s *stockService) ListParts(ctx context.Context, filter dto.PartFilter) (*dto.PartListResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	parts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	resp := &dto.PartListResponse{
		Data:  make([]dto.PartResponse, 0, len(parts)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range parts {
		resp.Data = append(resp.Data, *partToResponse(&parts[i]))
	}
	return resp, nil
}

func (s *stockService) ListLowStock(ctx context.Context) ([]dto.PartResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	parts, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]dto.PartResponse, 0, len(parts))
	for i := range parts {
		out = append(out, *partToResponse(&parts[i]))
	}
	return out, nil
}

// Adjust never reads-then-writes the stock level: the guarded update in
// AdjustStockTx is the single authority on whether the delta fits, so two
// concurrent adjustments can both succeed without losing either.
func (s *stockService) Adjust(ctx context.Context, actor Actor, id uuid.UUID, req dto.AdjustStockRequest) (*dto.PartResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if req.Delta == 0 {
		return nil, apierror.Validation("delta", "delta must be non-zero")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, notFound("part", id, err)
	}

	var interventionID *uuid.UUID
	if req.InterventionID != nil {
		parsed, err := uuid.Parse(*req.InterventionID)
		if err != nil {
			return nil, apierror.Validation("intervention_id", "invalid id")
		}
		interventionID = &parsed
	}

	movementType := model.MovementRestock
	if req.Delta < 0 {
		movementType = model.MovementAdjustment
	}

	var updated *model.Part
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		before, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound("part", id, err)
		}
		ok, err := s.repo.AdjustStockTx(tx, id, req.Delta)
		if err != nil {
			return err
		}
		if !ok {
			return apierror.InsufficientStock(before.Reference, before.CurrentStock, -req.Delta)
		}
		if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
			PartID:         id,
			Type:           movementType,
			Quantity:       req.Delta,
			StockBefore:    before.CurrentStock,
			StockAfter:     before.CurrentStock + req.Delta,
			Reason:         strings.TrimSpace(req.Reason),
			InterventionID: interventionID,
			UserID:         actor.ID,
		}); err != nil {
			return err
		}
		if err := s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityStockAdjusted,
			Description: fmt.Sprintf("Stock of %s adjusted by %+d", before.Name, req.Delta),
			UserID:      actor.ID,
		}); err != nil {
			return err
		}
		updated = before
		updated.CurrentStock = before.CurrentStock + req.Delta
		return nil
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}

	if updated.LowStock() && s.dispatcher != nil && s.alertEmail != "" {
		_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			ToEmail: s.alertEmail,
			Subject: fmt.Sprintf("Low stock: %s", updated.Name),
			Body:    fmt.Sprintf("Part %s (%s) is down to %d units (minimum %d).", updated.Name, updated.Reference, updated.CurrentStock, updated.MinimumStock),
		})
	}

	return partToResponse(updated), nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	movements, total, err := s.movementRepo.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	resp := &dto.StockMovementListResponse{
		Data:  make([]dto.StockMovementResponse, 0, len(movements)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range movements {
		resp.Data = append(resp.Data, *movementToResponse(&movements[i]))
	}
	return resp, nil
}

func partToResponse(p *model.Part) *dto.PartResponse {
	return &dto.PartResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Reference:    p.Reference,
		Barcode:      p.Barcode,
		Supplier:     p.Supplier,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		UnitPrice:    p.UnitPrice,
		LowStock:     p.LowStock(),
	}
}

func movementToResponse(m *model.StockMovement) *dto.StockMovementResponse {
	resp := &dto.StockMovementResponse{
		ID:          m.ID.String(),
		PartID:      m.PartID.String(),
		Type:        m.Type,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		UserID:      m.UserID.String(),
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}
	if m.InterventionID != nil {
		id := m.InterventionID.String()
		resp.InterventionID = &id
	}
	if m.Part != nil {
		resp.PartName = m.Part.Name
	}
	return resp
}
