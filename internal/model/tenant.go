package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// tenants: operator organizations owning lots, drivers and bookings.
type Tenant struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Name    string `gorm:"type:varchar(255);not null"`
	Slug    string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Email   string `gorm:"type:varchar(255);not null"`
	Phone   string `gorm:"type:varchar(32)"`
	Address string `gorm:"type:text"`
	LogoURL string `gorm:"type:text"`

	Settings datatypes.JSON `gorm:"type:jsonb"`
	IsActive bool           `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}
