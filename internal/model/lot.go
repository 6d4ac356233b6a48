package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// airports
type Airport struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Name     string `gorm:"type:varchar(255);not null"`
	IATACode string `gorm:"type:varchar(3);not null;uniqueIndex;column:iata_code"`
	City     string `gorm:"type:varchar(128);not null"`
	Country  string `gorm:"type:varchar(128);not null"`

	Latitude  *float64
	Longitude *float64

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

// parking_lots: a physical lot under a tenant, with finite capacity.
// AvailableSpots is mutated only through the availability ledger
// (conditional decrement on reservation, clamped increment on release).
type ParkingLot struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	AirportID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name              string          `gorm:"type:varchar(255);not null"`
	Description       string          `gorm:"type:text"`
	Address           string          `gorm:"type:text;not null"`
	DistanceToAirport *float64        `gorm:"column:distance_to_airport"`
	PricePerDay       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	TotalCapacity  int `gorm:"not null"`
	AvailableSpots int `gorm:"not null"`

	ShuttleAvailable bool `gorm:"not null;default:false"`
	ValetAvailable   bool `gorm:"not null;default:false"`

	Features datatypes.JSON `gorm:"type:jsonb"`
	Images   datatypes.JSON `gorm:"type:jsonb"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Airport *Airport `gorm:"foreignKey:AirportID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Tenant  *Tenant  `gorm:"foreignKey:TenantID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
