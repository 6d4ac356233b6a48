package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleOperator UserRole = "operator"
	RoleDriver   UserRole = "driver"
	RoleCustomer UserRole = "customer"
)

// profiles: identity lives in an external auth provider; this row carries
// the role and tenant scope the core needs.
type Profile struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	TenantID *uuid.UUID `gorm:"type:uuid;index"`
	Role     UserRole   `gorm:"type:varchar(16);not null;index"`

	FirstName string `gorm:"type:varchar(128)"`
	LastName  string `gorm:"type:varchar(128)"`
	Phone     string `gorm:"type:varchar(32)"`
	AvatarURL string `gorm:"type:text"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

// drivers: tenant staff performing check-in/out, optionally linked to a profile.
type Driver struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProfileID *uuid.UUID `gorm:"type:uuid;index"`

	FirstName     string `gorm:"type:varchar(128);not null"`
	LastName      string `gorm:"type:varchar(128);not null"`
	Email         string `gorm:"type:varchar(255);not null"`
	Phone         string `gorm:"type:varchar(32)"`
	LicenseNumber string `gorm:"type:varchar(64)"`

	IsActive bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
