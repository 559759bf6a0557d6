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

// TicketService drives the ticket state machine:
// open → assigned → in_progress → done, cancellation from any non-terminal
// state. The done transition is owned by InterventionService — a ticket only
// becomes done when an intervention is recorded against it.
type TicketService interface {
	Create(ctx context.Context, actor Actor, req dto.CreateTicketRequest) (*dto.TicketResponse, error)
	Assign(ctx context.Context, actor Actor, ticketID uuid.UUID, req dto.AssignTicketRequest) (*dto.TicketResponse, error)
	Start(ctx context.Context, actor Actor, ticketID uuid.UUID) (*dto.TicketResponse, error)
	Cancel(ctx context.Context, actor Actor, ticketID uuid.UUID, req dto.CancelTicketRequest) (*dto.TicketResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error)
	List(ctx context.Context, filter dto.TicketFilter) (*dto.TicketListResponse, error)
	ListActivity(ctx context.Context, ticketID uuid.UUID) ([]dto.ActivityResponse, error)
}

type ticketService struct {
	repo         repository.TicketRepository
	clientRepo   repository.ClientRepository
	machineRepo  repository.MachineRepository
	userRepo     repository.UserRepository
	activityRepo repository.ActivityRepository
	dispatcher   *worker.Dispatcher
	timeout      time.Duration
}

func NewTicketService(
	repo repository.TicketRepository,
	clientRepo repository.ClientRepository,
	machineRepo repository.MachineRepository,
	userRepo repository.UserRepository,
	activityRepo repository.ActivityRepository,
	dispatcher *worker.Dispatcher,
	timeout time.Duration,
) TicketService {
	return &ticketService{
		repo:         repo,
		clientRepo:   clientRepo,
		machineRepo:  machineRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		dispatcher:   dispatcher,
		timeout:      timeout,
	}
}

func (s *ticketService) Create(ctx context.Context, actor Actor, req dto.CreateTicketRequest) (*dto.TicketResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(req.Title) == "" {
		return nil, apierror.Validation("title", "title must not be empty")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, apierror.Validation("description", "description must not be empty")
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apierror.Validation("client_id", "invalid id")
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		if apierror.IsKind(notFound("client", clientID, err), apierror.KindNotFound) {
			return nil, apierror.Validation("client_id", "unknown client")
		}
		return nil, storeErr(err)
	}

	var machineID *uuid.UUID
	if req.MachineID != nil && *req.MachineID != "" {
		mid, err := uuid.Parse(*req.MachineID)
		if err != nil {
			return nil, apierror.Validation("machine_id", "invalid id")
		}
		machine, err := s.machineRepo.FindByID(ctx, mid)
		if err != nil {
			if apierror.IsKind(notFound("machine", mid, err), apierror.KindNotFound) {
				return nil, apierror.Validation("machine_id", "unknown machine")
			}
			return nil, storeErr(err)
		}
		if machine.ClientID != clientID {
			return nil, apierror.Validation("machine_id", "machine is not owned by the ticket's client")
		}
		machineID = &mid
	}

	// A technician passed at creation is validated and stored, but the ticket
	// stays open until the explicit assign transition.
	var technicianID *uuid.UUID
	if req.TechnicianID != nil && *req.TechnicianID != "" {
		tid, err := uuid.Parse(*req.TechnicianID)
		if err != nil {
			return nil, apierror.Validation("technician_id", "invalid id")
		}
		if err := s.validateTechnician(ctx, tid); err != nil {
			return nil, err
		}
		technicianID = &tid
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	var plannedDate *time.Time
	if req.PlannedDate != "" {
		d, err := time.Parse("2006-01-02", req.PlannedDate)
		if err != nil {
			return nil, apierror.Validation("planned_date", "expected YYYY-MM-DD")
		}
		plannedDate = &d
	}

	ticket := &model.Ticket{
		Title:        req.Title,
		Description:  req.Description,
		ClientID:     clientID,
		MachineID:    machineID,
		TechnicianID: technicianID,
		CreatorID:    actor.ID,
		Status:       model.TicketOpen,
		Priority:     priority,
		PlannedDate:  plannedDate,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, ticket); err != nil {
			return err
		}
		return s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityTicketCreated,
			Description: fmt.Sprintf("Ticket created: %s", ticket.Title),
			UserID:      actor.ID,
			TicketID:    &ticket.ID,
		})
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}

	return s.Get(ctx, ticket.ID)
}

func (s *ticketService) Assign(ctx context.Context, actor Actor, ticketID uuid.UUID, req dto.AssignTicketRequest) (*dto.TicketResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	technicianID, err := uuid.Parse(req.TechnicianID)
	if err != nil {
		return nil, apierror.Validation("technician_id", "invalid id")
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	if err := s.validateTechnician(ctx, technicianID); err != nil {
		return nil, err
	}

	technician, err := s.userRepo.FindByID(ctx, technicianID)
	if err != nil {
		return nil, notFound("user", technicianID, err)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, ticketID, []string{model.TicketOpen}, map[string]any{
			"status":        model.TicketAssigned,
			"technician_id": technicianID,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict(fmt.Sprintf("ticket is %s, only open tickets can be assigned", ticket.Status))
		}
		return s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityTicketAssigned,
			Description: fmt.Sprintf("Ticket assigned to %s %s", technician.FirstName, technician.LastName),
			UserID:      actor.ID,
			TicketID:    &ticketID,
		})
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}

	// Best-effort notification — delivery failures never fail the assignment.
	if s.dispatcher != nil && technician.Email != nil && *technician.Email != "" {
		_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			ToEmail: *technician.Email,
			Subject: fmt.Sprintf("Ticket assigned: %s", ticket.Title),
			Body:    fmt.Sprintf("You have been assigned ticket %q (priority %s).", ticket.Title, ticket.Priority),
		})
	}

	return s.Get(ctx, ticketID)
}

func (s *ticketService) Start(ctx context.Context, actor Actor, ticketID uuid.UUID) (*dto.TicketResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	if !actor.Supervisory() {
		if ticket.TechnicianID == nil || *ticket.TechnicianID != actor.ID {
			return nil, apierror.Validation("technician_id", "ticket is assigned to another technician")
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, ticketID, []string{model.TicketAssigned}, map[string]any{
			"status": model.TicketInProgress,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict(fmt.Sprintf("ticket is %s, only assigned tickets can be started", ticket.Status))
		}
		return s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityTicketStarted,
			Description: fmt.Sprintf("Work started on ticket: %s", ticket.Title),
			UserID:      actor.ID,
			TicketID:    &ticketID,
		})
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}
	return s.Get(ctx, ticketID)
}

func (s *ticketService) Cancel(ctx context.Context, actor Actor, ticketID uuid.UUID, req dto.CancelTicketRequest) (*dto.TicketResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if strings.TrimSpace(req.Reason) == "" {
		return nil, apierror.Validation("reason", "a cancellation reason is required")
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}

	now := time.Now()
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ok, err := s.repo.UpdateStatusTx(tx, ticketID,
			[]string{model.TicketOpen, model.TicketAssigned, model.TicketInProgress},
			map[string]any{
				"status":        model.TicketCancelled,
				"closed_at":     now,
				"cancel_reason": req.Reason,
			})
		if err != nil {
			return err
		}
		if !ok {
			return apierror.Conflict(fmt.Sprintf("ticket is already %s", ticket.Status))
		}
		return s.activityRepo.CreateTx(tx, &model.ActivityLogEntry{
			Type:        model.ActivityTicketCancelled,
			Description: fmt.Sprintf("Ticket cancelled: %s (%s)", ticket.Title, req.Reason),
			UserID:      actor.ID,
			TicketID:    &ticketID,
		})
	})
	if txErr != nil {
		return nil, storeErr(txErr)
	}
	return s.Get(ctx, ticketID)
}

func (s *ticketService) Get(ctx context.Context, id uuid.UUID) (*dto.TicketResponse, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("ticket", id, err)
	}
	return ticketToResponse(ticket), nil
}

func (s *ticketService) List(ctx context.Context, filter dto.TicketFilter) (*dto.TicketListResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	tickets, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storeErr(err)
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, *ticketToResponse(&tickets[i]))
	}
	return &dto.TicketListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *ticketService) ListActivity(ctx context.Context, ticketID uuid.UUID) ([]dto.ActivityResponse, error) {
	if _, err := s.repo.FindByID(ctx, ticketID); err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	entries, err := s.activityRepo.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]dto.ActivityResponse, 0, len(entries))
	for i := range entries {
		out = append(out, *activityToResponse(&entries[i]))
	}
	return out, nil
}

func (s *ticketService) validateTechnician(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if apierror.IsKind(notFound("user", id, err), apierror.KindNotFound) {
			return apierror.Validation("technician_id", "unknown user")
		}
		return storeErr(err)
	}
	if user.Role != model.RoleTechnician {
		return apierror.Validation("technician_id", "user is not a technician")
	}
	if !user.Active {
		return apierror.Validation("technician_id", "technician is not active")
	}
	return nil
}

func ticketToResponse(t *model.Ticket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		Description:  t.Description,
		ClientID:     t.ClientID.String(),
		CreatorID:    t.CreatorID.String(),
		Status:       t.Status,
		Priority:     t.Priority,
		CancelReason: t.CancelReason,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
	if t.Client != nil {
		resp.ClientName = t.Client.Name
	}
	if t.MachineID != nil {
		id := t.MachineID.String()
		resp.MachineID = &id
	}
	if t.Machine != nil {
		resp.MachineName = t.Machine.Name
	}
	if t.TechnicianID != nil {
		id := t.TechnicianID.String()
		resp.TechnicianID = &id
	}
	if t.Technician != nil {
		resp.TechnicianName = t.Technician.FirstName + " " + t.Technician.LastName
	}
	if t.PlannedDate != nil {
		d := t.PlannedDate.Format("2006-01-02")
		resp.PlannedDate = &d
	}
	if t.ClosedAt != nil {
		c := t.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &c
	}
	return resp
}

func activityToResponse(e *model.ActivityLogEntry) *dto.ActivityResponse {
	resp := &dto.ActivityResponse{
		ID:          e.ID.String(),
		Type:        e.Type,
		Description: e.Description,
		UserID:      e.UserID.String(),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if e.User != nil {
		resp.UserName = e.User.FirstName + " " + e.User.LastName
	}
	if e.TicketID != nil {
		id := e.TicketID.String()
		resp.TicketID = &id
	}
	return resp
}
