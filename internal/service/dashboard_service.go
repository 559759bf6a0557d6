package service

import (
	"context"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"
)

// DashboardService aggregates the operational overview shown on the home
// screen. Every call recomputes from the store.
type DashboardService interface {
	Overview(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	ticketRepo   repository.TicketRepository
	partRepo     repository.PartRepository
	activityRepo repository.ActivityRepository
	timeout      time.Duration
}

func NewDashboardService(
	ticketRepo repository.TicketRepository,
	partRepo repository.PartRepository,
	activityRepo repository.ActivityRepository,
	timeout time.Duration,
) DashboardService {
	return &dashboardService{
		ticketRepo:   ticketRepo,
		partRepo:     partRepo,
		activityRepo: activityRepo,
		timeout:      timeout,
	}
}

func (s *dashboardService) Overview(ctx context.Context) (*dto.DashboardResponse, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	open, err := s.ticketRepo.CountNotDone(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	urgent, err := s.ticketRepo.CountUrgentNotDone(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	total, err := s.ticketRepo.CountTotal(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	done, err := s.ticketRepo.CountByStatus(ctx, model.TicketDone)
	if err != nil {
		return nil, storeErr(err)
	}

	resp := &dto.DashboardResponse{
		OpenTickets:    open,
		UrgentTickets:  urgent,
		TotalTickets:   total,
		DoneTickets:    done,
		RecentActivity: []dto.ActivityResponse{},
		TodayTickets:   []dto.TicketResponse{},
		LowStockParts:  []dto.PartResponse{},
	}
	if total > 0 {
		resp.ResolutionRate = float64(done) / float64(total) * 100
	}

	activity, err := s.activityRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, storeErr(err)
	}
	for i := range activity {
		resp.RecentActivity = append(resp.RecentActivity, *activityToResponse(&activity[i]))
	}

	today, err := s.ticketRepo.ListPlannedOn(ctx, time.Now())
	if err != nil {
		return nil, storeErr(err)
	}
	for i := range today {
		resp.TodayTickets = append(resp.TodayTickets, *ticketToResponse(&today[i]))
	}

	lowStock, err := s.partRepo.ListLowStock(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	for i := range lowStock {
		resp.LowStockParts = append(resp.LowStockParts, *partToResponse(&lowStock[i]))
	}

	return resp, nil
}
