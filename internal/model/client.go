package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a care facility that owns machines and reports tickets.
type Client struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"index;not null"`
	Address     string
	City        string
	PostalCode  string `gorm:"type:varchar(10)"`
	ContactName string
	Phone       *string
	Email       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Machines []Machine `gorm:"foreignKey:ClientID"`
}

func (c *Client) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
