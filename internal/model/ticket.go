package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket statuses. Lifecycle: open → assigned → in_progress → done, with
// cancellation allowed from any non-terminal state. done and cancelled are
// terminal.
const (
	TicketOpen       = "open"
	TicketAssigned   = "assigned"
	TicketInProgress = "in_progress"
	TicketDone       = "done"
	TicketCancelled  = "cancelled"
)

// Ticket priorities.
const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Ticket is a reported equipment issue or scheduled work item.
// Invariant: ClosedAt is set iff Status is done or cancelled.
type Ticket struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title        string     `gorm:"not null"`
	Description  string     `gorm:"type:text;not null"`
	ClientID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	MachineID    *uuid.UUID `gorm:"type:uuid;index"`
	TechnicianID *uuid.UUID `gorm:"type:uuid;index"`
	CreatorID    uuid.UUID  `gorm:"type:uuid;not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'open';index"`
	Priority     string     `gorm:"type:varchar(20);not null;default:'normal'"`
	PlannedDate  *time.Time `gorm:"type:date;index"`
	ClosedAt     *time.Time
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Client     *Client  `gorm:"foreignKey:ClientID"`
	Machine    *Machine `gorm:"foreignKey:MachineID"`
	Technician *User    `gorm:"foreignKey:TechnicianID"`
}

func (t *Ticket) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	return status == TicketDone || status == TicketCancelled
}
