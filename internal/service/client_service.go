package service

import (
	"context"
	"strings"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"

	"github.com/google/uuid"
)

type ClientService interface {
	Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error)
	List(ctx context.Context, name string, page, limit int) ([]dto.ClientResponse, int64, error)
}

type clientService struct {
	repo    repository.ClientRepository
	timeout time.Duration
}

func NewClientService(repo repository.ClientRepository, timeout time.Duration) ClientService {
	return &clientService{repo: repo, timeout: timeout}
}

func (s *clientService) Create(ctx context.Context, req dto.CreateClientRequest) (*dto.ClientResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	client := &model.Client{
		Name:        strings.TrimSpace(req.Name),
		Address:     req.Address,
		City:        req.City,
		PostalCode:  req.PostalCode,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		Email:       req.Email,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, storeErr(err)
	}
	return clientToResponse(client), nil
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateClientRequest) (*dto.ClientResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("client", id, err)
	}

	if req.Name != "" {
		client.Name = strings.TrimSpace(req.Name)
	}
	if req.Address != nil {
		client.Address = *req.Address
	}
	if req.City != nil {
		client.City = *req.City
	}
	if req.PostalCode != nil {
		client.PostalCode = *req.PostalCode
	}
	if req.ContactName != nil {
		client.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.Email != nil {
		client.Email = req.Email
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, storeErr(err)
	}
	return clientToResponse(client), nil
}

func (s *clientService) Get(ctx context.Context, id uuid.UUID) (*dto.ClientResponse, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("client", id, err)
	}
	return clientToResponse(client), nil
}

func (s *clientService) List(ctx context.Context, name string, page, limit int) ([]dto.ClientResponse, int64, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	clients, total, err := s.repo.List(ctx, name, page, limit)
	if err != nil {
		return nil, 0, storeErr(err)
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for i := range clients {
		out = append(out, *clientToResponse(&clients[i]))
	}
	return out, total, nil
}

func clientToResponse(c *model.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Address:     c.Address,
		City:        c.City,
		PostalCode:  c.PostalCode,
		ContactName: c.ContactName,
		Phone:       c.Phone,
		Email:       c.Email,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
	}
}
