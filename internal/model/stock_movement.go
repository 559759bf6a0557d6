package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stock movement reasons.
const (
	MovementConsumption = "consumption"
	MovementRestock     = "restock"
	MovementAdjustment  = "adjustment"
)

// StockMovement registers each signed stock change on a part. Movements are
// never modified or deleted; corrections create inverse entries. The sum of
// movements for a part reconciles with its current stock.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	PartID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Type           string    `gorm:"type:varchar(20);not null"`
	Quantity       int       `gorm:"not null"` // positive = in, negative = out
	StockBefore    int       `gorm:"not null"`
	StockAfter     int       `gorm:"not null"`
	Reason         string
	InterventionID *uuid.UUID `gorm:"type:uuid;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt      time.Time

	Part *Part `gorm:"foreignKey:PartID"`
}

func (m *StockMovement) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
