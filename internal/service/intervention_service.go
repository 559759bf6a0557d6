package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/infra"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"
	"github.com/lesdavils/MedimexResolv/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InterventionService records completed work against in_progress tickets.
// Record is the only path that moves a ticket to done.
type InterventionService interface {
	Record(ctx context.Context, actor Actor, req dto.RecordInterventionRequest) (*dto.InterventionResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.InterventionResponse, error)
	GetByTicket(ctx context.Context, ticketID uuid.UUID) (*dto.InterventionResponse, error)
	List(ctx context.Context, page, limit int) ([]dto.InterventionResponse, int64, error)
	// ReportPDF renders the intervention report and returns the file path.
	ReportPDF(ctx context.Context, id uuid.UUID) (string, error)
}

type interventionService struct {
	repo         repository.InterventionRepository
	ticketRepo   repository.TicketRepository
	partRepo     repository.PartRepository
	movementRepo repository.StockMovementRepository
	activityRepo repository.ActivityRepository
	dispatcher   *worker.Dispatcher
	alertEmail   string
	pdfPath      string
	timeout      time.Duration
}

func NewInterventionService(
	repo repository.InterventionRepository,
	ticketRepo repository.TicketRepository,
	partRepo repository.PartRepository,
	movementRepo repository.StockMovementRepository,
	activityRepo repository.ActivityRepository,
	dispatcher *worker.Dispatcher,
	alertEmail string,
	pdfPath string,
	timeout time.Duration,
) InterventionService {
	return &interventionService{
		repo:         repo,
		ticketRepo:   ticketRepo,
		partRepo:     partRepo,
		movementRepo: movementRepo,
		activityRepo: activityRepo,
		dispatcher:   dispatcher,
		alertEmail:   alertEmail,
		pdfPath:      pdfPath,
		timeout:      timeout,
	}
}

// Record applies the whole effect — intervention row, one stock movement per
// consumed part, the guarded stock decrements, and the ticket's done
// transition — inside a single transaction. A failure anywhere (unknown part,
// insufficient stock, concurrent close) rolls back everything.
func (s *interventionService) Record(ctx context.Context, actor Actor, req dto.RecordInterventionRequest) (*dto.InterventionResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	ticketID, err := uuid.Parse(req.TicketID)
	if err != nil {
		return nil, apierror.Validation("ticket_id", "invalid id")
	}

	ticket, err := s.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	if ticket.Status != model.TicketInProgress {
		return nil, apierror.Conflict(fmt.Sprintf("ticket is %s, interventions can only be recorded on in_progress tickets", ticket.Status))
	}
	if !actor.Supervisory() {
		if ticket.TechnicianID == nil || *ticket.TechnicianID != actor.ID {
			return nil, apierror.Validation("technician_id", "ticket is assigned to another technician")
		}
	}
	if _, err := s.repo.FindByTicketID(ctx, ticketID); err == nil {
		return nil, apierror.Conflict("ticket already has an intervention")
	}

	// Resolve parts up front so unknown ids fail before any write.
	type consumption struct {
		partID   uuid.UUID
		quantity int
	}
	consumed := make([]consumption, 0, len(req.PartsConsumed))
	for _, pc := range req.PartsConsumed {
		pid, err := uuid.Parse(pc.PartID)
		if err != nil {
			return nil, apierror.Validation("part_id", "invalid id")
		}
		if pc.Quantity <= 0 {
			return nil, apierror.Validation("quantity", "quantity must be positive")
		}
		if _, err := s.partRepo.FindByID(ctx, pid); err != nil {
			return nil, notFound("part", pid, err)
		}
		consumed = append(consumed, consumption{partID: pid, quantity: pc.Quantity})
	}

	// The technician on record is the ticket's assignee; a supervisor closing
	// on a technician's behalf keeps the assignee attribution.
	technicianID := actor.ID
	if ticket.TechnicianID != nil {
		technicianID = *ticket.TechnicianID
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}

	intervention := &model.Intervention{
		TicketID:      ticketID,
		TechnicianID:  technicianID,
		WorkReport:    req.WorkReport,
		MinutesSpent:  req.MinutesSpent,
		Photos:        req.Photos,
		Signature:     req.Signature,
		Satisfaction:  req.Satisfaction,
		ClientComment: req.ClientComment,
		Billable:      billable,
	}

	var crossedLow []model.Part
	now := time.Now()

	txErr := runTx(ctx, s.ticketRepo.DB(), func(tx *gorm.DB) error {
		// Close the ticket first: the guarded update is what serializes
		// concurrent Record calls — the loser sees zero rows and aborts
		// before touching stock.
		ok, err := s.ticketRepo.UpdateStatusTx(tx, ticketID, []string{model.TicketInProgress}, map[string]any{
			"status":    model.TicketDone,
			"closed_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict("ticket was closed by a concurrent request")
		}

		if err := s.repo.CreateTx(tx, intervention); err != nil {
			return err
		}

		for _, c := range consumed {
			part, err := s.partRepo.FindByIDTx(tx, c.partID)
			if err != nil {
				return notFound("part", c.partID, err)
			}
			if part.CurrentStock < c.quantity {
				return apierror.InsufficientStock(part.Reference, part.CurrentStock, c.quantity)
			}
			ok, err := s.partRepo.AdjustStockTx(tx, c.partID, -c.quantity)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.InsufficientStock(part.Reference, part.CurrentStock, c.quantity)
			}
			if err := s.movementRepo.CreateTx(tx, &model.StockMovement{
				PartID:         c.partID,
				Type:           model.MovementConsumption,
				Quantity:       -c.quantity,
				StockBefore:    part.CurrentStock,
				StockAfter:     part.CurrentStock - c.quantity,
				Reason:         fmt.Sprintf("Consumed by intervention on ticket %q", ticket.Title),
				InterventionID: &intervention.ID,
				UserID:         actor.ID,
			}); err != nil {
				return err
			}
			if part.CurrentStock > part.MinimumStock && part.CurrentStock-c.quantity <= part.MinimumStock {
				after := *part
				after.CurrentStock = part.CurrentStock - c.quantity
				crossedLow = append(crossedLow, after)
			}
		}

		if err := s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityInterventionCompleted,
			Description: fmt.Sprintf("Intervention completed: %s", ticket.Title),
			UserID:      actor.ID,
			TicketID:    &ticketID,
		}); err != nil {
			return err
		}
		return s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityTicketDone,
			Description: fmt.Sprintf("Ticket closed: %s", ticket.Title),
			UserID:      actor.ID,
			TicketID:    &ticketID,
		})
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}

	// Best-effort low-stock alerts, outside the transaction.
	if s.dispatcher != nil && s.alertEmail != "" {
		for _, p := range crossedLow {
			_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
				ToEmail: s.alertEmail,
				Subject: fmt.Sprintf("Low stock: %s", p.Name),
				Body:    fmt.Sprintf("Part %s (%s) is down to %d units (minimum %d).", p.Name, p.Reference, p.CurrentStock, p.MinimumStock),
			})
		}
	}

	return s.toResponse(ctx, intervention), nil
}

func (s *interventionService) Get(ctx context.Context, id uuid.UUID) (*dto.InterventionResponse, error) {
	intervention, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("intervention", id, err)
	}
	return s.toResponse(ctx, intervention), nil
}

func (s *interventionService) GetByTicket(ctx context.Context, ticketID uuid.UUID) (*dto.InterventionResponse, error) {
	intervention, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, notFound("intervention", ticketID, err)
	}
	return s.toResponse(ctx, intervention), nil
}

func (s *interventionService) List(ctx context.Context, page, limit int) ([]dto.InterventionResponse, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	interventions, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]dto.InterventionResponse, 0, len(interventions))
	for i := range interventions {
		out = append(out, *s.toResponse(ctx, &interventions[i]))
	}
	return out, total, nil
}

func (s *interventionService) ReportPDF(ctx context.Context, id uuid.UUID) (string, error) {
	intervention, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", notFound("intervention", id, err)
	}
	movements, err := s.movementRepo.ListByIntervention(ctx, id)
	if err != nil {
		return "", storeErr(err)
	}
	return infra.GenerateInterventionReport(intervention, movements, s.pdfPath)
}

func (s *interventionService) toResponse(ctx context.Context, i *model.Intervention) *dto.InterventionResponse {
	resp := &dto.InterventionResponse{
		ID:            i.ID.String(),
		TicketID:      i.TicketID.String(),
		TechnicianID:  i.TechnicianID.String(),
		WorkReport:    i.WorkReport,
		MinutesSpent:  i.MinutesSpent,
		Photos:        i.Photos,
		Signature:     i.Signature,
		Satisfaction:  i.Satisfaction,
		ClientComment: i.ClientComment,
		Billable:      i.Billable,
		CreatedAt:     i.CreatedAt.Format(time.RFC3339),
	}
	if i.Ticket != nil {
		resp.TicketTitle = i.Ticket.Title
	}
	if movements, err := s.movementRepo.ListByIntervention(ctx, i.ID); err == nil {
		for idx := range movements {
			resp.PartsConsumed = append(resp.PartsConsumed, *movementToResponse(&movements[idx]))
		}
	}
	return resp
}
