package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
)

// Column whitelists per protocol half. A write for one mode may only ever
// touch its own columns; the other half stays untouched even when the same
// mode is recorded twice.
var (
	checkinColumns = []string{
		"checkin_at", "checkin_mileage", "checkin_fuel_level", "checkin_condition",
		"checkin_notes", "checkin_photos", "checkin_signature",
		"checkin_signature_name", "checkin_signed_at",
	}
	checkoutColumns = []string{
		"checkout_at", "checkout_mileage", "checkout_fuel_level", "checkout_condition",
		"checkout_notes", "checkout_photos", "checkout_signature",
		"checkout_signature_name", "checkout_signed_at",
	}
)

type ProtocolRepository interface {
	// GetByBookingID returns the single protocol row of a booking.
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.CheckinProtocol, error)
	// UpsertHalf creates the row on first check-in and afterwards overwrites
	// only the columns of the given mode.
	UpsertHalf(
		ctx context.Context,
		bookingID, tenantID uuid.UUID,
		driverID *uuid.UUID,
		parkingSpot string,
		mode booking.ProtocolMode,
		half model.ProtocolHalf,
	) (*model.CheckinProtocol, error)
}

type GormProtocolRepository struct {
	db *gorm.DB
}

func NewGormProtocolRepository(db *gorm.DB) *GormProtocolRepository {
	return &GormProtocolRepository{db: db}
}

func (r *GormProtocolRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.CheckinProtocol, error) {
	var p model.CheckinProtocol
	if err := r.db.WithContext(ctx).Preload("Driver").First(&p, "booking_id = ?", bookingID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProtocolRepository) UpsertHalf(
	ctx context.Context,
	bookingID, tenantID uuid.UUID,
	driverID *uuid.UUID,
	parkingSpot string,
	mode booking.ProtocolMode,
	half model.ProtocolHalf,
) (*model.CheckinProtocol, error) {
	var existing model.CheckinProtocol
	err := r.db.WithContext(ctx).First(&existing, "booking_id = ?", bookingID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		p := model.CheckinProtocol{
			BookingID:   bookingID,
			TenantID:    tenantID,
			DriverID:    driverID,
			ParkingSpot: parkingSpot,
		}
		if mode == booking.ModeCheckout {
			p.Checkout = half
		} else {
			p.Checkin = half
		}
		if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
			return nil, err
		}
		return &p, nil
	case err != nil:
		return nil, err
	}

	upd := model.CheckinProtocol{}
	cols := checkinColumns
	if mode == booking.ModeCheckout {
		upd.Checkout = half
		cols = checkoutColumns
	} else {
		upd.Checkin = half
	}
	cols = append(append([]string{}, cols...), "updated_at")
	upd.UpdatedAt = time.Now().UTC()
	if parkingSpot != "" {
		cols = append(cols, "parking_spot")
		upd.ParkingSpot = parkingSpot
	}
	if driverID != nil {
		cols = append(cols, "driver_id")
		upd.DriverID = driverID
	}

	err = r.db.WithContext(ctx).
		Model(&model.CheckinProtocol{}).
		Where("booking_id = ?", bookingID).
		Select(cols).
		Updates(&upd).
		Error
	if err != nil {
		return nil, err
	}

	return r.GetByBookingID(ctx, bookingID)
}
