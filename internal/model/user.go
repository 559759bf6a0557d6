package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles. Referent is a client-side contact allowed to open tickets for their
// own machines; manufacturer accounts get read access to their installed base.
const (
	RoleAdmin        = "admin"
	RoleSupervisor   = "supervisor"
	RoleTechnician   = "technician"
	RoleReferent     = "referent"
	RoleManufacturer = "manufacturer"
)

// User stores system users with role-based access.
// Users are deactivated, never deleted.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        *string
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Phone        *string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
