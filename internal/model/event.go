package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit event type.
type EventType string

const (
	EventTypeBookingCreated   EventType = "booking_created"
	EventTypeBookingConfirmed EventType = "booking_confirmed"
	EventTypeBookingCancelled EventType = "booking_cancelled"
	EventTypeBookingCheckedIn EventType = "booking_checked_in"
	EventTypeBookingCompleted EventType = "booking_completed"
	EventTypeDayClosed        EventType = "day_closed"
)

// events: append-only audit trail.
type Event struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	EventType EventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`

	TenantID  *uuid.UUID `gorm:"type:uuid;index"`
	ActorID   *uuid.UUID `gorm:"type:uuid;index"`
	BookingID *uuid.UUID `gorm:"type:uuid;index"`

	Details string `gorm:"type:text"`
}
