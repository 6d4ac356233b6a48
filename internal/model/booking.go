package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "cash"
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodOnline  PaymentMethod = "online"
	PaymentMethodInvoice PaymentMethod = "invoice"
)

// bookings: the central entity. Rows are never deleted; cancellation is a
// terminal status. PricePerDay is a snapshot taken at reservation time and
// must not track later lot price changes.
type Booking struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingNumber string    `gorm:"type:varchar(32);not null;uniqueIndex"`

	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParkingLotID uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`

	FlightNumber    string     `gorm:"type:varchar(16)"`
	FlightDeparture *time.Time `gorm:"type:timestamp with time zone"`
	FlightArrival   *time.Time `gorm:"type:timestamp with time zone"`

	DropoffDate time.Time `gorm:"type:date;not null"`
	PickupDate  time.Time `gorm:"type:date;not null"`
	TotalDays   int       `gorm:"not null"`

	PricePerDay    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Status        BookingStatus  `gorm:"type:varchar(32);not null;index"`
	PaymentStatus PaymentStatus  `gorm:"type:varchar(32);not null;default:'pending'"`
	PaymentMethod *PaymentMethod `gorm:"type:varchar(16)"`

	Notes string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	ParkingLot *ParkingLot      `gorm:"foreignKey:ParkingLotID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Customer   *Profile         `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Driver     *Driver          `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Vehicle    *Vehicle         `gorm:"foreignKey:BookingID"`
	Protocol   *CheckinProtocol `gorm:"foreignKey:BookingID"`
}

// vehicles: owned exclusively by one booking, created atomically with it.
type Vehicle struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	Make         string `gorm:"type:varchar(64);not null"`
	Model        string `gorm:"type:varchar(64);not null"`
	Year         *int
	Color        string `gorm:"type:varchar(32)"`
	LicensePlate string `gorm:"type:varchar(16);not null;index"`
	VIN          string `gorm:"type:varchar(32);column:vin"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}
