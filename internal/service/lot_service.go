package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
)

type CreateLotInput struct {
	AirportID         uuid.UUID
	Name              string
	Description       string
	Address           string
	DistanceToAirport *float64
	PricePerDay       decimal.Decimal
	TotalCapacity     int
	ShuttleAvailable  bool
	ValetAvailable    bool
	Features          []byte
	Images            []byte
}

type LotService struct {
	lots repository.LotRepository
	log  *zap.Logger
}

func NewLotService(lots repository.LotRepository, log *zap.Logger) *LotService {
	return &LotService{lots: lots, log: log}
}

// Search is the public lot listing: active lots with free spots, cheapest
// first.
func (s *LotService) Search(ctx context.Context, f repository.LotFilter) ([]model.ParkingLot, error) {
	return s.lots.Search(ctx, f)
}

func (s *LotService) Get(ctx context.Context, id uuid.UUID) (*model.ParkingLot, error) {
	lot, err := s.lots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "parking lot", ID: id.String()}
		}
		return nil, err
	}
	return lot, nil
}

// Create registers a lot under the operator's tenant. A new lot starts with
// every spot available.
func (s *LotService) Create(ctx context.Context, actor booking.Actor, in CreateLotInput) (*model.ParkingLot, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, booking.ErrForbidden
	}
	if in.TotalCapacity < 0 || in.PricePerDay.IsNegative() {
		return nil, booking.ErrInvalidAmount
	}

	lot := &model.ParkingLot{
		TenantID:          *actor.TenantID,
		AirportID:         in.AirportID,
		Name:              in.Name,
		Description:       in.Description,
		Address:           in.Address,
		DistanceToAirport: in.DistanceToAirport,
		PricePerDay:       in.PricePerDay,
		TotalCapacity:     in.TotalCapacity,
		AvailableSpots:    in.TotalCapacity,
		ShuttleAvailable:  in.ShuttleAvailable,
		ValetAvailable:    in.ValetAvailable,
		Features:          in.Features,
		Images:            in.Images,
		IsActive:          true,
	}
	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, err
	}

	s.log.Info("parking lot created",
		zap.String("lot", lot.ID.String()),
		zap.Int("capacity", lot.TotalCapacity))

	return lot, nil
}

// Deactivate soft-disables a lot; existing bookings are untouched.
func (s *LotService) Deactivate(ctx context.Context, actor booking.Actor, id uuid.UUID) error {
	if !actor.IsStaff() || actor.TenantID == nil {
		return booking.ErrForbidden
	}

	lot, err := s.lots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &booking.NotFoundError{Entity: "parking lot", ID: id.String()}
		}
		return err
	}
	if !actor.SameTenant(lot.TenantID) {
		return &booking.NotFoundError{Entity: "parking lot", ID: id.String()}
	}

	return s.lots.Deactivate(ctx, id)
}
