package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
)

type RecordProtocolInput struct {
	BookingID     uuid.UUID
	Mode          booking.ProtocolMode
	ParkingSpot   string
	Mileage       int
	FuelLevel     int
	Condition     model.VehicleCondition
	Notes         string
	Photos        []string
	Signature     string // base64 PNG, required
	SignatoryName string
}

// ProtocolService maintains the single protocol row per booking and drives
// the check-in/check-out transitions from it.
type ProtocolService struct {
	db        *gorm.DB
	bookings  repository.BookingRepository
	protocols repository.ProtocolRepository
	drivers   repository.DriverRepository
	log       *zap.Logger
}

func NewProtocolService(
	db *gorm.DB,
	bookings repository.BookingRepository,
	protocols repository.ProtocolRepository,
	drivers repository.DriverRepository,
	log *zap.Logger,
) *ProtocolService {
	return &ProtocolService{
		db:        db,
		bookings:  bookings,
		protocols: protocols,
		drivers:   drivers,
		log:       log,
	}
}

// Record upserts one half of the protocol and advances the booking
// (confirmed -> checked_in for checkin, checked_in -> completed for
// checkout). Re-recording the current mode overwrites only that half and
// leaves the status alone. A missing signature rejects the request before
// anything is written.
func (s *ProtocolService) Record(ctx context.Context, actor booking.Actor, in RecordProtocolInput) (*model.CheckinProtocol, error) {
	if !actor.CanHandleVehicles() {
		return nil, booking.ErrForbidden
	}
	if in.Signature == "" {
		return nil, &booking.MissingSignatureError{BookingID: in.BookingID, Mode: in.Mode}
	}

	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "booking", ID: in.BookingID.String()}
		}
		return nil, err
	}
	if !actor.SameTenant(b.TenantID) {
		return nil, &booking.NotFoundError{Entity: "booking", ID: in.BookingID.String()}
	}

	target := booking.StatusForMode(in.Mode)
	advance := b.Status != target
	if advance {
		if err := booking.CheckTransition(b.ID, b.Status, target); err != nil {
			return nil, err
		}
	}

	var driverID *uuid.UUID
	if actor.Role == model.RoleDriver {
		if d, err := s.drivers.FindByProfileID(ctx, actor.UserID); err == nil {
			driverID = &d.ID
		}
	}

	now := time.Now().UTC()
	photos, err := json.Marshal(in.Photos)
	if err != nil {
		return nil, err
	}
	condition := in.Condition
	half := model.ProtocolHalf{
		At:            &now,
		Mileage:       &in.Mileage,
		FuelLevel:     &in.FuelLevel,
		Condition:     &condition,
		Notes:         in.Notes,
		Photos:        photos,
		Signature:     in.Signature,
		SignatureName: in.SignatoryName,
		SignedAt:      &now,
	}

	var saved *model.CheckinProtocol
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		protocols := repository.NewGormProtocolRepository(tx)
		p, err := protocols.UpsertHalf(ctx, b.ID, b.TenantID, driverID, in.ParkingSpot, in.Mode, half)
		if err != nil {
			return err
		}

		if advance {
			bookings := repository.NewGormBookingRepository(tx)
			if err := bookings.UpdateStatus(ctx, b.ID, b.Status, target); err != nil {
				return err
			}
			eventType := model.EventTypeBookingCheckedIn
			if in.Mode == booking.ModeCheckout {
				eventType = model.EventTypeBookingCompleted
			}
			events := repository.NewGormEventRepository(tx)
			if err := events.Append(ctx, &model.Event{
				EventType: eventType,
				TenantID:  &b.TenantID,
				ActorID:   &actor.UserID,
				BookingID: &b.ID,
				Details:   b.BookingNumber,
			}); err != nil {
				return err
			}
		}

		saved = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("protocol recorded",
		zap.String("booking", b.BookingNumber),
		zap.String("mode", string(in.Mode)))

	return saved, nil
}

// Get returns the booking's protocol row for review before check-out.
func (s *ProtocolService) Get(ctx context.Context, actor booking.Actor, bookingID uuid.UUID) (*model.CheckinProtocol, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "booking", ID: bookingID.String()}
		}
		return nil, err
	}
	if !actor.CanView(b) {
		return nil, &booking.NotFoundError{Entity: "booking", ID: bookingID.String()}
	}

	p, err := s.protocols.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "protocol", ID: bookingID.String()}
		}
		return nil, err
	}
	return p, nil
}
