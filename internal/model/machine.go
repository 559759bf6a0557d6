package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Machine statuses.
const (
	MachineActive       = "active"
	MachineMaintenance  = "maintenance"
	MachineOutOfService = "out_of_service"
)

// Machine is a piece of medical equipment installed at a client site.
type Machine struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Model       string    `gorm:"not null"`
	Serial      string    `gorm:"uniqueIndex;not null"`
	Category    string
	ClientID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'"`
	InstalledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Client *Client `gorm:"foreignKey:ClientID"`
}

func (m *Machine) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
