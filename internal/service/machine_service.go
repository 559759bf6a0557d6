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

	"github.com/google/uuid"
)

type MachineService interface {
	Create(ctx context.Context, req dto.CreateMachineRequest) (*dto.MachineResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateMachineRequest) (*dto.MachineResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.MachineResponse, error)
	List(ctx context.Context, filter dto.MachineFilter) ([]dto.MachineResponse, int64, error)
}

type machineService struct {
	repo       repository.MachineRepository
	clientRepo repository.ClientRepository
	timeout    time.Duration
}

func NewMachineService(repo repository.MachineRepository, clientRepo repository.ClientRepository, timeout time.Duration) MachineService {
	return &machineService{repo: repo, clientRepo: clientRepo, timeout: timeout}
}

func (s *machineService) Create(ctx context.Context, req dto.CreateMachineRequest) (*dto.MachineResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apierror.Validation("client_id", "invalid id")
	}
	if _, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
		return nil, apierror.Validation("client_id", "unknown client")
	}

	serial := strings.TrimSpace(req.Serial)
	if existing, err := s.repo.FindBySerial(ctx, serial); err == nil && existing != nil {
		return nil, apierror.Conflict(fmt.Sprintf("a machine with serial %q already exists", serial))
	}

	status := req.Status
	if status == "" {
		status = model.MachineActive
	}

	machine := &model.Machine{
		Name:     strings.TrimSpace(req.Name),
		Model:    strings.TrimSpace(req.Model),
		Serial:   serial,
		Category: req.Category,
		ClientID: clientID,
		Status:   status,
	}
	if req.InstalledAt != "" {
		installed, err := time.Parse("2006-01-02", req.InstalledAt)
		if err != nil {
			return nil, apierror.Validation("installed_at", "expected YYYY-MM-DD")
		}
		machine.InstalledAt = &installed
	}

	if err := s.repo.Create(ctx, machine); err != nil {
		return nil, storeErr(err)
	}
	return machineToResponse(machine), nil
}

func (s *machineService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateMachineRequest) (*dto.MachineResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	machine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("machine", id, err)
	}

	if req.Name != "" {
		machine.Name = strings.TrimSpace(req.Name)
	}
	if req.Model != "" {
		machine.Model = strings.TrimSpace(req.Model)
	}
	if req.Category != "" {
		machine.Category = req.Category
	}
	if req.Status != "" {
		machine.Status = req.Status
	}

	if err := s.repo.Update(ctx, machine); err != nil {
		return nil, storeErr(err)
	}
	return machineToResponse(machine), nil
}

func (s *machineService) Get(ctx context.Context, id uuid.UUID) (*dto.MachineResponse, error) {
	machine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("machine", id, err)
	}
	return machineToResponse(machine), nil
}

func (s *machineService) List(ctx context.Context, filter dto.MachineFilter) ([]dto.MachineResponse, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	machines, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]dto.MachineResponse, 0, len(machines))
	for i := range machines {
		out = append(out, *machineToResponse(&machines[i]))
	}
	return out, total, nil
}

func machineToResponse(m *model.Machine) *dto.MachineResponse {
	resp := &dto.MachineResponse{
		ID:       m.ID.String(),
		Name:     m.Name,
		Model:    m.Model,
		Serial:   m.Serial,
		Category: m.Category,
		ClientID: m.ClientID.String(),
		Status:   m.Status,
	}
	if m.InstalledAt != nil {
		formatted := m.InstalledAt.Format("2006-01-02")
		resp.InstalledAt = &formatted
	}
	if m.Client != nil {
		resp.ClientName = m.Client.Name
	}
	return resp
}
