package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity types.
const (
	ActivityTicketCreated         = "ticket_created"
	ActivityTicketAssigned        = "ticket_assigned"
	ActivityTicketStarted         = "ticket_started"
	ActivityTicketDone            = "ticket_done"
	ActivityTicketCancelled       = "ticket_cancelled"
	ActivityInterventionCompleted = "intervention_completed"
	ActivityStockAdjusted         = "stock_adjusted"
)

// ActivityLogEntry is an append-only audit record. Entries are never updated
// or deleted.
type ActivityLogEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type        string    `gorm:"type:varchar(40);not null;index"`
	Description string    `gorm:"not null"`
	UserID      uuid.UUID `gorm:"type:uuid;not null"`
	TicketID    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time `gorm:"index"`

	User *User `gorm:"foreignKey:UserID"`
}

// TableName overrides GORM's default pluralization (activity_log_entries → activity_log).
func (ActivityLogEntry) TableName() string { return "activity_log" }

func (a *ActivityLogEntry) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
