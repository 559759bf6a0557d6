package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Part is a spare part tracked in stock.
// Low-stock condition: CurrentStock <= MinimumStock.
type Part struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"index;not null"`
	Reference    string    `gorm:"uniqueIndex;not null"`
	Barcode      *string
	Supplier     string
	CurrentStock int             `gorm:"not null;default:0"`
	MinimumStock int             `gorm:"not null;default:0"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Part) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// LowStock reports whether the part is at or below its minimum threshold.
func (p *Part) LowStock() bool { return p.CurrentStock <= p.MinimumStock }
