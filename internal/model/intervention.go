package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Intervention records the completed technician work against a ticket.
// Exactly one per ticket, created when the ticket reaches done.
type Intervention struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TicketID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TechnicianID uuid.UUID `gorm:"type:uuid;not null;index"`
	WorkReport   string    `gorm:"type:text;not null"`
	MinutesSpent int       `gorm:"not null"`
	Photos       []string  `gorm:"serializer:json"`
	// Signature holds the client sign-off as a data URL captured on site.
	Signature     *string `gorm:"type:text"`
	Satisfaction  *int
	ClientComment *string
	Billable      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time

	Ticket *Ticket `gorm:"foreignKey:TicketID"`
}

func (i *Intervention) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
