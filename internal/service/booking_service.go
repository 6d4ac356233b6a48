package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
	"github.com/parkly/parking-platform/internal/ws"
)

// VehicleInput describes the customer's car, created atomically with the
// booking.
type VehicleInput struct {
	Make         string
	Model        string
	Year         *int
	Color        string
	LicensePlate string
	VIN          string
}

type CreateBookingInput struct {
	ParkingLotID    uuid.UUID
	DropoffDate     time.Time
	PickupDate      time.Time
	FlightNumber    string
	FlightDeparture *time.Time
	FlightArrival   *time.Time
	PaymentMethod   *model.PaymentMethod
	DiscountAmount  decimal.Decimal
	Notes           string
	Vehicle         VehicleInput
}

// BookingPatch is the validated PATCH surface. A status change goes through
// the transition table like every other status write.
type BookingPatch struct {
	Status        *model.BookingStatus
	DriverID      *uuid.UUID
	Notes         *string
	PaymentStatus *model.PaymentStatus
	PaymentMethod *model.PaymentMethod
}

// BookingService owns the booking lifecycle: reservation, state machine
// transitions and their side effects.
type BookingService struct {
	db       *gorm.DB
	lots     repository.LotRepository
	bookings repository.BookingRepository
	drivers  repository.DriverRepository
	events   repository.EventRepository
	hub      *ws.Hub
	log      *zap.Logger
}

func NewBookingService(
	db *gorm.DB,
	lots repository.LotRepository,
	bookings repository.BookingRepository,
	drivers repository.DriverRepository,
	events repository.EventRepository,
	hub *ws.Hub,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		db:       db,
		lots:     lots,
		bookings: bookings,
		drivers:  drivers,
		events:   events,
		hub:      hub,
		log:      log,
	}
}

// Create reserves a spot and creates the booking and its vehicle in one
// transaction, so a failure partway (including a client disconnect) leaves
// no orphaned reservation behind.
func (s *BookingService) Create(ctx context.Context, actor booking.Actor, in CreateBookingInput) (*model.Booking, error) {
	days, err := booking.StayDays(in.DropoffDate, in.PickupDate)
	if err != nil {
		return nil, err
	}

	var created *model.Booking
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lots := repository.NewGormLotRepository(tx)

		lot, err := lots.Reserve(ctx, in.ParkingLotID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		b := &model.Booking{
			BookingNumber:   booking.NewBookingNumber(now),
			TenantID:        lot.TenantID,
			ParkingLotID:    lot.ID,
			CustomerID:      actor.UserID,
			FlightNumber:    in.FlightNumber,
			FlightDeparture: in.FlightDeparture,
			FlightArrival:   in.FlightArrival,
			DropoffDate:     in.DropoffDate,
			PickupDate:      in.PickupDate,
			TotalDays:       days,
			PricePerDay:     lot.PricePerDay,
			DiscountAmount:  in.DiscountAmount,
			TotalAmount:     booking.Total(lot.PricePerDay, days, in.DiscountAmount),
			Status:          model.BookingStatusPending,
			PaymentStatus:   model.PaymentStatusPending,
			PaymentMethod:   in.PaymentMethod,
			Notes:           in.Notes,
		}

		bookings := repository.NewGormBookingRepository(tx)
		if err := bookings.Create(ctx, b); err != nil {
			return err
		}

		v := &model.Vehicle{
			BookingID:    b.ID,
			Make:         in.Vehicle.Make,
			Model:        in.Vehicle.Model,
			Year:         in.Vehicle.Year,
			Color:        in.Vehicle.Color,
			LicensePlate: in.Vehicle.LicensePlate,
			VIN:          in.Vehicle.VIN,
		}
		if err := bookings.CreateVehicle(ctx, v); err != nil {
			return err
		}
		b.Vehicle = v

		events := repository.NewGormEventRepository(tx)
		if err := events.Append(ctx, &model.Event{
			EventType: model.EventTypeBookingCreated,
			TenantID:  &b.TenantID,
			ActorID:   &actor.UserID,
			BookingID: &b.ID,
			Details:   b.BookingNumber,
		}); err != nil {
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishSpots(ctx, created.ParkingLotID)

	s.log.Info("booking created",
		zap.String("booking", created.BookingNumber),
		zap.String("lot", created.ParkingLotID.String()),
		zap.Int("days", created.TotalDays))

	return created, nil
}

// Confirm moves pending -> confirmed. A payment method must be chosen here,
// have been chosen at creation, or a payment already recorded.
func (s *BookingService) Confirm(ctx context.Context, actor booking.Actor, id uuid.UUID, method *model.PaymentMethod) (*model.Booking, error) {
	b, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() || !actor.SameTenant(b.TenantID) {
		return nil, booking.ErrForbidden
	}

	if err := booking.CheckTransition(b.ID, b.Status, model.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	if method == nil && b.PaymentMethod == nil && b.PaymentStatus != model.PaymentStatusPaid {
		return nil, booking.ErrPaymentMethodRequired
	}

	if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, model.BookingStatusConfirmed); err != nil {
		return nil, err
	}
	if method != nil {
		if err := s.bookings.UpdateFields(ctx, b.ID, map[string]any{"payment_method": *method}); err != nil {
			return nil, err
		}
	}

	s.appendEvent(ctx, model.EventTypeBookingConfirmed, actor, b)

	return s.bookings.GetByID(ctx, b.ID)
}

// Cancel is legal from any non-terminal state and releases the reserved
// spot in the same transaction as the guarded status write. When two
// cancels race, only the one whose write matches the stored status
// commits, so the spot is released exactly once.
func (s *BookingService) Cancel(ctx context.Context, actor booking.Actor, id uuid.UUID) (*model.Booking, error) {
	b, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanCancel(b) {
		return nil, booking.ErrForbidden
	}

	if err := booking.CheckTransition(b.ID, b.Status, model.BookingStatusCancelled); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := repository.NewGormBookingRepository(tx)
		if err := bookings.UpdateStatus(ctx, b.ID, b.Status, model.BookingStatusCancelled); err != nil {
			return err
		}
		lots := repository.NewGormLotRepository(tx)
		if err := lots.Release(ctx, b.ParkingLotID); err != nil {
			return err
		}
		events := repository.NewGormEventRepository(tx)
		return events.Append(ctx, &model.Event{
			EventType: model.EventTypeBookingCancelled,
			TenantID:  &b.TenantID,
			ActorID:   &actor.UserID,
			BookingID: &b.ID,
			Details:   b.BookingNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishSpots(ctx, b.ParkingLotID)

	s.log.Info("booking cancelled", zap.String("booking", b.BookingNumber))

	return s.bookings.GetByID(ctx, b.ID)
}

// Patch applies the operator update surface. Status writes are validated
// against the transition table; an arbitrary status string is never
// accepted as-is.
func (s *BookingService) Patch(ctx context.Context, actor booking.Actor, id uuid.UUID, p BookingPatch) (*model.Booking, error) {
	b, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() || !actor.SameTenant(b.TenantID) {
		return nil, booking.ErrForbidden
	}

	if p.Status != nil && *p.Status != b.Status {
		switch *p.Status {
		case model.BookingStatusCancelled:
			// Cancellation releases the spot; route through Cancel.
			return s.Cancel(ctx, actor, id)
		case model.BookingStatusConfirmed:
			// Confirmation carries the payment-method rule; route through
			// Confirm so there is exactly one place enforcing it.
			return s.Confirm(ctx, actor, id, p.PaymentMethod)
		case model.BookingStatusCheckedIn:
			if err := s.requireHalf(ctx, b, booking.ModeCheckin); err != nil {
				return nil, err
			}
		case model.BookingStatusCompleted:
			if err := s.requireHalf(ctx, b, booking.ModeCheckout); err != nil {
				return nil, err
			}
		}
		if err := booking.CheckTransition(b.ID, b.Status, *p.Status); err != nil {
			return nil, err
		}
	}

	fields := map[string]any{}
	if p.DriverID != nil {
		d, err := s.drivers.GetByID(ctx, *p.DriverID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &booking.NotFoundError{Entity: "driver", ID: p.DriverID.String()}
			}
			return nil, err
		}
		if d.TenantID != b.TenantID {
			return nil, booking.ErrForbidden
		}
		fields["driver_id"] = *p.DriverID
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	if p.PaymentStatus != nil {
		fields["payment_status"] = *p.PaymentStatus
	}
	if p.PaymentMethod != nil {
		fields["payment_method"] = *p.PaymentMethod
	}

	if p.Status != nil && *p.Status != b.Status {
		if err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, *p.Status); err != nil {
			return nil, err
		}
	}
	if err := s.bookings.UpdateFields(ctx, b.ID, fields); err != nil {
		return nil, err
	}

	return s.bookings.GetByID(ctx, b.ID)
}

// Get returns a booking visible to the actor.
func (s *BookingService) Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*model.Booking, error) {
	return s.get(ctx, actor, id)
}

// List returns the actor's booking page: customers see their own rows,
// tenant staff and drivers the whole tenant.
func (s *BookingService) List(
	ctx context.Context,
	actor booking.Actor,
	status *model.BookingStatus,
	page, pageSize int,
) ([]model.Booking, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	f := repository.BookingFilter{Status: status}
	if actor.Role == model.RoleCustomer {
		f.CustomerID = &actor.UserID
	} else {
		if actor.TenantID == nil {
			return nil, 0, booking.ErrForbidden
		}
		f.TenantID = actor.TenantID
	}

	return s.bookings.List(ctx, f, pageSize, (page-1)*pageSize)
}

func (s *BookingService) get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "booking", ID: id.String()}
		}
		return nil, err
	}
	// Out-of-scope rows are indistinguishable from missing ones.
	if !actor.CanView(b) {
		return nil, &booking.NotFoundError{Entity: "booking", ID: id.String()}
	}
	return b, nil
}

func (s *BookingService) requireHalf(ctx context.Context, b *model.Booking, mode booking.ProtocolMode) error {
	p := b.Protocol
	if p == nil {
		return booking.ErrProtocolIncomplete
	}
	half := p.Checkin
	if mode == booking.ModeCheckout {
		half = p.Checkout
	}
	if !half.Complete() {
		return booking.ErrProtocolIncomplete
	}
	return nil
}

func (s *BookingService) appendEvent(ctx context.Context, t model.EventType, actor booking.Actor, b *model.Booking) {
	err := s.events.Append(ctx, &model.Event{
		EventType: t,
		TenantID:  &b.TenantID,
		ActorID:   &actor.UserID,
		BookingID: &b.ID,
		Details:   b.BookingNumber,
	})
	if err != nil {
		s.log.Warn("audit event write failed", zap.Error(err))
	}
}

func (s *BookingService) publishSpots(ctx context.Context, lotID uuid.UUID) {
	if s.hub == nil {
		return
	}
	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return
	}
	s.hub.Publish(ws.SpotUpdate{LotID: lot.ID, Available: lot.AvailableSpots})
}
