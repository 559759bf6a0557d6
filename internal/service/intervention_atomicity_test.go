package service

// Transactional tests for Record against a real SQL engine. The stub-backed
// tests above prove the error taxonomy; these prove that a failure midway
// through the consumption loop rolls back every prior write — the ticket's
// done transition, earlier stock decrements, and the intervention row itself.

import (
	"context"
	"testing"
	"time"

	"github.com/lesdavils/MedimexResolv/internal/apierror"
	"github.com/lesdavils/MedimexResolv/internal/dto"
	"github.com/lesdavils/MedimexResolv/internal/model"
	"github.com/lesdavils/MedimexResolv/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type txFixture struct {
	db         *gorm.DB
	svc        InterventionService
	technician Actor
	ticket     *model.Ticket
}

func setupTxFixture(t *testing.T) *txFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Client{}, &model.Machine{}, &model.Ticket{},
		&model.Part{}, &model.StockMovement{}, &model.Intervention{},
		&model.ActivityLogEntry{},
	))

	techID := uuid.New()
	ticket := &model.Ticket{
		ID:           uuid.New(),
		Title:        "Autoclave door seal leaking",
		Description:  "d",
		ClientID:     uuid.New(),
		CreatorID:    uuid.New(),
		TechnicianID: &techID,
		Status:       model.TicketInProgress,
		Priority:     model.PriorityHigh,
	}
	require.NoError(t, db.Create(ticket).Error)

	svc := NewInterventionService(
		repository.NewInterventionRepository(db),
		repository.NewTicketRepository(db),
		repository.NewPartRepository(db),
		repository.NewStockMovementRepository(db),
		repository.NewActivityRepository(db),
		nil, "", "", 0,
	)
	return &txFixture{
		db:         db,
		svc:        svc,
		technician: Actor{ID: techID, Role: model.RoleTechnician},
		ticket:     ticket,
	}
}

func (f *txFixture) seedPart(t *testing.T, name string, stock int) *model.Part {
	t.Helper()
	p := &model.Part{
		ID:           uuid.New(),
		Name:         name,
		Reference:    "REF-" + uuid.NewString()[:8],
		CurrentStock: stock,
		MinimumStock: 1,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *txFixture) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func TestRecordRollsBackWhenLaterPartRunsOut(t *testing.T) {
	f := setupTxFixture(t)
	seal := f.seedPart(t, "Door seal", 10)
	valve := f.seedPart(t, "Relief valve", 1)

	_, err := f.svc.Record(context.Background(), f.technician, dto.RecordInterventionRequest{
		TicketID:   f.ticket.ID.String(),
		WorkReport: "Replaced seal, valve was also worn",
		PartsConsumed: []dto.PartConsumption{
			{PartID: seal.ID.String(), Quantity: 2},
			{PartID: valve.ID.String(), Quantity: 3},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInsufficientStock))

	// The ticket must not have closed.
	var ticket model.Ticket
	require.NoError(t, f.db.First(&ticket, "id = ?", f.ticket.ID).Error)
	assert.Equal(t, model.TicketInProgress, ticket.Status)
	assert.Nil(t, ticket.ClosedAt)

	// The first part's decrement must not survive the rollback.
	var got model.Part
	require.NoError(t, f.db.First(&got, "id = ?", seal.ID).Error)
	assert.Equal(t, 10, got.CurrentStock)

	// No partial rows of any kind.
	assert.Zero(t, f.count(t, &model.Intervention{}))
	assert.Zero(t, f.count(t, &model.StockMovement{}))
	assert.Zero(t, f.count(t, &model.ActivityLogEntry{}))
}

func TestRecordPersistsWholeEffect(t *testing.T) {
	f := setupTxFixture(t)
	seal := f.seedPart(t, "Door seal", 10)
	valve := f.seedPart(t, "Relief valve", 4)

	resp, err := f.svc.Record(context.Background(), f.technician, dto.RecordInterventionRequest{
		TicketID:     f.ticket.ID.String(),
		WorkReport:   "Replaced seal and relief valve",
		MinutesSpent: 45,
		PartsConsumed: []dto.PartConsumption{
			{PartID: seal.ID.String(), Quantity: 2},
			{PartID: valve.ID.String(), Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	var ticket model.Ticket
	require.NoError(t, f.db.First(&ticket, "id = ?", f.ticket.ID).Error)
	assert.Equal(t, model.TicketDone, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)
	assert.WithinDuration(t, time.Now(), *ticket.ClosedAt, time.Minute)

	var gotSeal model.Part
	require.NoError(t, f.db.First(&gotSeal, "id = ?", seal.ID).Error)
	assert.Equal(t, 8, gotSeal.CurrentStock)
	var gotValve model.Part
	require.NoError(t, f.db.First(&gotValve, "id = ?", valve.ID).Error)
	assert.Equal(t, 3, gotValve.CurrentStock)

	assert.Equal(t, int64(1), f.count(t, &model.Intervention{}))
	assert.Equal(t, int64(2), f.count(t, &model.StockMovement{}))
	assert.Equal(t, int64(2), f.count(t, &model.ActivityLogEntry{}))
}

func TestRecordSecondAttemptConflicts(t *testing.T) {
	f := setupTxFixture(t)

	_, err := f.svc.Record(context.Background(), f.technician, dto.RecordInterventionRequest{
		TicketID:   f.ticket.ID.String(),
		WorkReport: "First and only visit",
	})
	require.NoError(t, err)

	_, err = f.svc.Record(context.Background(), f.technician, dto.RecordInterventionRequest{
		TicketID:   f.ticket.ID.String(),
		WorkReport: "Should not be accepted",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConflict))
}
