package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type VehicleCondition string

const (
	ConditionExcellent VehicleCondition = "excellent"
	ConditionGood      VehicleCondition = "good"
	ConditionFair      VehicleCondition = "fair"
	ConditionDamaged   VehicleCondition = "damaged"
)

// ProtocolHalf is one side of a check-in/check-out protocol. Both halves live
// on the same row, each filled exactly once by its own mode; a write for one
// mode never touches the other half's columns.
type ProtocolHalf struct {
	At            *time.Time        `gorm:"type:timestamp with time zone"`
	Mileage       *int
	FuelLevel     *int              // 0, 25, 50, 75 or 100
	Condition     *VehicleCondition `gorm:"type:varchar(16)"`
	Notes         string            `gorm:"type:text"`
	Photos        datatypes.JSON    `gorm:"type:jsonb"`
	Signature     string            `gorm:"type:text"` // base64 PNG
	SignatureName string            `gorm:"type:varchar(128)"`
	SignedAt      *time.Time        `gorm:"type:timestamp with time zone"`
}

// Complete reports whether the half carries everything the state machine
// requires before it commits the corresponding transition.
func (h ProtocolHalf) Complete() bool {
	return h.At != nil && h.Mileage != nil && h.FuelLevel != nil &&
		h.Condition != nil && h.Signature != ""
}

// checkin_protocols: exactly one row per booking (unique on booking_id).
type CheckinProtocol struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`

	DriverID    *uuid.UUID `gorm:"type:uuid;index"`
	ParkingSpot string     `gorm:"type:varchar(16)"`

	Checkin  ProtocolHalf `gorm:"embedded;embeddedPrefix:checkin_"`
	Checkout ProtocolHalf `gorm:"embedded;embeddedPrefix:checkout_"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Driver *Driver `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
