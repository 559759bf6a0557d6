package service

// In-memory repository stubs shared by the service tests. The stubs replicate
// the guarded-update semantics of the real repositories so conflict and
// insufficient-stock paths behave like production.

import (
	"context"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── TicketRepository stub ────────────────────────────────────────────────────

type stubTicketRepo struct {
	tickets map[uuid.UUID]*model.Ticket
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[uuid.UUID]*model.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, _ *gorm.DB, t *model.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.tickets[t.ID] = t
	return nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTicketRepo) List(_ context.Context, _ dto.TicketFilter) ([]model.Ticket, int64, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTicketRepo) UpdateStatus(_ context.Context, id uuid.UUID, from []string, updates map[string]any) (bool, error) {
	return r.UpdateStatusTx(nil, id, from, updates)
}

// UpdateStatusTx mirrors the conditional UPDATE: no status match, no write.
func (r *stubTicketRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, from []string, updates map[string]any) (bool, error) {
	t, ok := r.tickets[id]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range from {
		if t.Status == s {
			matched = true
			break
		}
	}
	if !matched {
		return false, nil
	}
	for k, v := range updates {
		switch k {
		case "status":
			t.Status = v.(string)
		case "technician_id":
			tid := v.(uuid.UUID)
			t.TechnicianID = &tid
		case "closed_at":
			at := v.(time.Time)
			t.ClosedAt = &at
		case "cancel_reason":
			reason := v.(string)
			t.CancelReason = &reason
		}
	}
	return true, nil
}

func (r *stubTicketRepo) CountNotDone(_ context.Context) (int64, error) {
	var n int64
	for _, t := range r.tickets {
		if t.Status != model.TicketDone {
			n++
		}
	}
	return n, nil
}

func (r *stubTicketRepo) CountUrgentNotDone(_ context.Context) (int64, error) {
	var n int64
	for _, t := range r.tickets {
		if t.Status != model.TicketDone && (t.Priority == model.PriorityHigh || t.Priority == model.PriorityCritical) {
			n++
		}
	}
	return n, nil
}

func (r *stubTicketRepo) CountTotal(_ context.Context) (int64, error) {
	return int64(len(r.tickets)), nil
}

func (r *stubTicketRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, t := range r.tickets {
		if t.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubTicketRepo) ListPlannedOn(_ context.Context, day time.Time) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range r.tickets {
		if t.PlannedDate != nil && t.PlannedDate.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) DB() *gorm.DB { return nil }

// ── ClientRepository stub ────────────────────────────────────────────────────

type stubClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *stubClientRepo) Create(_ context.Context, c *model.Client) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubClientRepo) List(_ context.Context, _ string, _, _ int) ([]model.Client, int64, error) {
	var out []model.Client
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClientRepo) Update(_ context.Context, c *model.Client) error {
	r.clients[c.ID] = c
	return nil
}

func (r *stubClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

// ── MachineRepository stub ───────────────────────────────────────────────────

type stubMachineRepo struct {
	machines map[uuid.UUID]*model.Machine
}

func newStubMachineRepo() *stubMachineRepo {
	return &stubMachineRepo{machines: make(map[uuid.UUID]*model.Machine)}
}

func (r *stubMachineRepo) Create(_ context.Context, m *model.Machine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.machines[m.ID] = m
	return nil
}

func (r *stubMachineRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Machine, error) {
	m, ok := r.machines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMachineRepo) FindBySerial(_ context.Context, serial string) (*model.Machine, error) {
	for _, m := range r.machines {
		if m.Serial == serial {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubMachineRepo) List(_ context.Context, _ dto.MachineFilter) ([]model.Machine, int64, error) {
	var out []model.Machine
	for _, m := range r.machines {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMachineRepo) Update(_ context.Context, m *model.Machine) error {
	r.machines[m.ID] = m
	return nil
}

func (r *stubMachineRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.machines, id)
	return nil
}

// ── UserRepository stub ──────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id uuid.UUID) error {
	if u, ok := r.users[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

// ── ActivityRepository stub ──────────────────────────────────────────────────

type stubActivityRepo struct {
	entries []model.ActivityLogEntry
}

func newStubActivityRepo() *stubActivityRepo { return &stubActivityRepo{} }

func (r *stubActivityRepo) Create(_ context.Context, e *model.ActivityLogEntry) error {
	return r.CreateTx(nil, e)
}

func (r *stubActivityRepo) CreateTx(_ *gorm.DB, e *model.ActivityLogEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.entries = append(r.entries, *e)
	return nil
}

func (r *stubActivityRepo) ListRecent(_ context.Context, limit int) ([]model.ActivityLogEntry, error) {
	n := len(r.entries)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]model.ActivityLogEntry, 0, n)
	for i := len(r.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *stubActivityRepo) ListByTicket(_ context.Context, ticketID uuid.UUID) ([]model.ActivityLogEntry, error) {
	var out []model.ActivityLogEntry
	for _, e := range r.entries {
		if e.TicketID != nil && *e.TicketID == ticketID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubActivityRepo) byType(t string) []model.ActivityLogEntry {
	var out []model.ActivityLogEntry
	for _, e := range r.entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// ── InterventionRepository stub ──────────────────────────────────────────────

type stubInterventionRepo struct {
	interventions map[uuid.UUID]*model.Intervention
}

func newStubInterventionRepo() *stubInterventionRepo {
	return &stubInterventionRepo{interventions: make(map[uuid.UUID]*model.Intervention)}
}

func (r *stubInterventionRepo) CreateTx(_ *gorm.DB, i *model.Intervention) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.CreatedAt = time.Now()
	r.interventions[i.ID] = i
	return nil
}

func (r *stubInterventionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Intervention, error) {
	i, ok := r.interventions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubInterventionRepo) FindByTicketID(_ context.Context, ticketID uuid.UUID) (*model.Intervention, error) {
	for _, i := range r.interventions {
		if i.TicketID == ticketID {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInterventionRepo) List(_ context.Context, _, _ int) ([]model.Intervention, int64, error) {
	var out []model.Intervention
	for _, i := range r.interventions {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

// ── PartRepository stub ──────────────────────────────────────────────────────

type stubPartRepo struct {
	parts map[uuid.UUID]*model.Part
}

func newStubPartRepo() *stubPartRepo {
	return &stubPartRepo{parts: make(map[uuid.UUID]*model.Part)}
}

func (r *stubPartRepo) Create(_ context.Context, _ *gorm.DB, p *model.Part) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.parts[p.ID] = p
	return nil
}

func (r *stubPartRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Part, error) {
	p, ok := r.parts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPartRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Part, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubPartRepo) FindByReference(_ context.Context, reference string) (*model.Part, error) {
	for _, p := range r.parts {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPartRepo) List(_ context.Context, _ dto.PartFilter) ([]model.Part, int64, error) {
	var out []model.Part
	for _, p := range r.parts {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPartRepo) Update(_ context.Context, p *model.Part) error {
	r.parts[p.ID] = p
	return nil
}

func (r *stubPartRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.parts, id)
	return nil
}

// AdjustStockTx mirrors the guarded UPDATE: the write only lands when the
// resulting stock stays non-negative.
func (r *stubPartRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.parts[id]
	if !ok {
		return false, nil
	}
	if p.CurrentStock+delta < 0 {
		return false, nil
	}
	p.CurrentStock += delta
	return true, nil
}

func (r *stubPartRepo) ListLowStock(_ context.Context) ([]model.Part, error) {
	var out []model.Part
	for _, p := range r.parts {
		if p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPartRepo) DB() *gorm.DB { return nil }

// ── StockMovementRepository stub ─────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if filter.PartID != "" && m.PartID.String() != filter.PartID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) ListByIntervention(_ context.Context, interventionID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.InterventionID != nil && *m.InterventionID == interventionID {
			out = append(out, m)
		}
	}
	return out, nil
}
