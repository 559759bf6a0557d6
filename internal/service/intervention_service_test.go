package service

import (
	"context"
	"testing"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type interventionFixture struct {
	svc           InterventionService
	tickets       *stubTicketRepo
	interventions *stubInterventionRepo
	parts         *stubPartRepo
	movements     *stubMovementRepo
	activity      *stubActivityRepo
	ticket        *model.Ticket
	part          *model.Part
	technician    Actor
}

func newInterventionFixture(t *testing.T) *interventionFixture {
	t.Helper()

	f := &interventionFixture{
		tickets:       newStubTicketRepo(),
		interventions: newStubInterventionRepo(),
		parts:         newStubPartRepo(),
		movements:     newStubMovementRepo(),
		activity:      newStubActivityRepo(),
	}

	techID := uuid.New()
	f.technician = Actor{ID: techID, Role: model.RoleTechnician}

	f.ticket = &model.Ticket{
		ID:           uuid.New(),
		Title:        "Compressor overheating",
		Description:  "Thermal cutoff trips after 20 minutes",
		ClientID:     uuid.New(),
		CreatorID:    uuid.New(),
		TechnicianID: &techID,
		Status:       model.TicketInProgress,
		Priority:     model.PriorityHigh,
	}
	require.NoError(t, f.tickets.Create(context.Background(), nil, f.ticket))

	f.part = &model.Part{
		ID:           uuid.New(),
		Name:         "Thermal fuse 10A",
		Reference:    "TF-10A",
		CurrentStock: 5,
		MinimumStock: 2,
		UnitPrice:    decimal.NewFromFloat(4.90),
	}
	require.NoError(t, f.parts.Create(context.Background(), nil, f.part))

	f.svc = NewInterventionService(f.interventions, f.tickets, f.parts, f.movements, f.activity, nil, "", "", 0)
	return f
}

func (f *interventionFixture) record(consumed []dto.PartConsumption) (*dto.InterventionResponse, error) {
	return f.svc.Record(context.Background(), f.technician, dto.RecordInterventionRequest{
		TicketID:      f.ticket.ID.String(),
		WorkReport:    "Replaced thermal fuse, verified 45 min run",
		MinutesSpent:  60,
		PartsConsumed: consumed,
	})
}

func TestRecordIntervention(t *testing.T) {
	f := newInterventionFixture(t)

	resp, err := f.record([]dto.PartConsumption{{PartID: f.part.ID.String(), Quantity: 2}})
	require.NoError(t, err)

	assert.Equal(t, f.ticket.ID.String(), resp.TicketID)
	assert.Equal(t, f.technician.ID.String(), resp.TechnicianID)
	assert.True(t, resp.Billable)

	// Ticket closed.
	stored, err := f.tickets.FindByID(context.Background(), f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketDone, stored.Status)
	assert.NotNil(t, stored.ClosedAt)

	// Stock decremented with a matching ledger entry.
	part, err := f.parts.FindByID(context.Background(), f.part.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, part.CurrentStock)

	require.Len(t, f.movements.movements, 1)
	m := f.movements.movements[0]
	assert.Equal(t, model.MovementConsumption, m.Type)
	assert.Equal(t, -2, m.Quantity)
	assert.Equal(t, 5, m.StockBefore)
	assert.Equal(t, 3, m.StockAfter)
	require.NotNil(t, m.InterventionID)

	// Audit trail: intervention completed and ticket done.
	assert.Len(t, f.activity.byType(model.ActivityInterventionCompleted), 1)
	assert.Len(t, f.activity.byType(model.ActivityTicketDone), 1)
}

func TestRecordInterventionInsufficientStock(t *testing.T) {
	f := newInterventionFixture(t)

	_, err := f.record([]dto.PartConsumption{{PartID: f.part.ID.String(), Quantity: 9}})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInsufficientStock))

	// The guarded decrement never landed.
	part, err := f.parts.FindByID(context.Background(), f.part.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, part.CurrentStock)
}

func TestRecordInterventionUnknownPart(t *testing.T) {
	f := newInterventionFixture(t)

	_, err := f.record([]dto.PartConsumption{{PartID: uuid.NewString(), Quantity: 1}})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))

	// Pre-resolution fails before any write.
	stored, err := f.tickets.FindByID(context.Background(), f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TicketInProgress, stored.Status)
	assert.Empty(t, f.movements.movements)
}

func TestRecordInterventionWrongStatus(t *testing.T) {
	f := newInterventionFixture(t)
	f.ticket.Status = model.TicketAssigned

	_, err := f.record(nil)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestRecordInterventionDuplicate(t *testing.T) {
	f := newInterventionFixture(t)

	_, err := f.record(nil)
	require.NoError(t, err)

	// A second attempt finds the ticket done already.
	_, err = f.record(nil)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}

func TestRecordInterventionWrongTechnician(t *testing.T) {
	f := newInterventionFixture(t)

	other := Actor{ID: uuid.New(), Role: model.RoleTechnician}
	_, err := f.svc.Record(context.Background(), other, dto.RecordInterventionRequest{
		TicketID:   f.ticket.ID.String(),
		WorkReport: "should not be accepted",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestRecordInterventionSupervisorKeepsAssignee(t *testing.T) {
	f := newInterventionFixture(t)

	supervisor := Actor{ID: uuid.New(), Role: model.RoleSupervisor}
	resp, err := f.svc.Record(context.Background(), supervisor, dto.RecordInterventionRequest{
		TicketID:   f.ticket.ID.String(),
		WorkReport: "Closed on behalf of the field technician",
	})
	require.NoError(t, err)
	// Attribution stays with the assigned technician, not the closer.
	assert.Equal(t, f.technician.ID.String(), resp.TechnicianID)
}

func TestRecordInterventionZeroQuantity(t *testing.T) {
	f := newInterventionFixture(t)

	_, err := f.record([]dto.PartConsumption{{PartID: f.part.ID.String(), Quantity: 0}})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestGetByTicket(t *testing.T) {
	f := newInterventionFixture(t)

	created, err := f.record(nil)
	require.NoError(t, err)

	got, err := f.svc.GetByTicket(context.Background(), f.ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = f.svc.GetByTicket(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestRecordInterventionSetsCreatedAt(t *testing.T) {
	f := newInterventionFixture(t)

	before := time.Now()
	resp, err := f.record(nil)
	require.NoError(t, err)

	createdAt, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.False(t, createdAt.Before(before.Truncate(time.Second)))
}
