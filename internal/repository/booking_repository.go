package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
)

// BookingFilter scopes a booking listing. Exactly one of CustomerID /
// TenantID is normally set, depending on the caller's role.
type BookingFilter struct {
	CustomerID *uuid.UUID
	TenantID   *uuid.UUID
	Status     *model.BookingStatus
}

type BookingRepository interface {
	// Create a new booking row.
	Create(ctx context.Context, b *model.Booking) error
	// Create the booking's vehicle record.
	CreateVehicle(ctx context.Context, v *model.Vehicle) error
	// Fetch a booking with its associations.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// Move the booking from one lifecycle status to another. The write is
	// guarded by the expected current status, so two writers racing on the
	// same booking cannot both apply their transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) error
	// Partial field update (driver assignment, notes, payment fields).
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	// Scoped listing with pagination, newest first.
	List(ctx context.Context, f BookingFilter, limit, offset int) ([]model.Booking, int64, error)
}

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *GormBookingRepository) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	err := r.db.WithContext(ctx).
		Preload("ParkingLot").
		Preload("ParkingLot.Airport").
		Preload("Vehicle").
		Preload("Protocol").
		Preload("Driver").
		First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// The row moved under us (or is gone). Re-read so the error names
		// the status the booking actually has now.
		var current model.Booking
		if err := r.db.WithContext(ctx).Select("status").First(&current, "id = ?", id).Error; err != nil {
			return err
		}
		return &booking.InvalidTransitionError{BookingID: id, From: current.Status, To: to}
	}
	return nil
}

func (r *GormBookingRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id = ?", id).
		Updates(fields).
		Error
}

func (r *GormBookingRepository) List(
	ctx context.Context,
	f BookingFilter,
	limit, offset int,
) ([]model.Booking, int64, error) {
	var (
		bookings []model.Booking
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&model.Booking{})

	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.TenantID != nil {
		q = q.Where("tenant_id = ?", *f.TenantID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.Preload("ParkingLot").Preload("Vehicle").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
