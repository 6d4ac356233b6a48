package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
)

// LotFilter narrows a public lot search.
type LotFilter struct {
	AirportIATA string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Shuttle     *bool
	Valet       *bool
}

type LotRepository interface {
	// Find a lot by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.ParkingLot, error)
	// Active lots with free spots, filtered, cheapest first.
	Search(ctx context.Context, f LotFilter) ([]model.ParkingLot, error)
	// Create a lot.
	Create(ctx context.Context, lot *model.ParkingLot) error
	// Soft-deactivate a lot; rows are never deleted.
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Reserve atomically takes one spot and returns the post-reservation row
	// (with the price snapshot the booking captures).
	Reserve(ctx context.Context, id uuid.UUID) (*model.ParkingLot, error)
	// Release returns one spot, clamped at total_capacity.
	Release(ctx context.Context, id uuid.UUID) error
}

type GormLotRepository struct {
	db *gorm.DB
}

func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

func (r *GormLotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ParkingLot, error) {
	var lot model.ParkingLot
	if err := r.db.WithContext(ctx).Preload("Airport").First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *GormLotRepository) Search(ctx context.Context, f LotFilter) ([]model.ParkingLot, error) {
	q := r.db.WithContext(ctx).
		Model(&model.ParkingLot{}).
		Preload("Airport").
		Where("is_active = ?", true).
		Where("available_spots > 0")

	if f.AirportIATA != "" {
		q = q.Where("airport_id IN (?)",
			r.db.Model(&model.Airport{}).Select("id").Where("iata_code = ?", f.AirportIATA))
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_day >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_day <= ?", *f.MaxPrice)
	}
	if f.Shuttle != nil {
		q = q.Where("shuttle_available = ?", *f.Shuttle)
	}
	if f.Valet != nil {
		q = q.Where("valet_available = ?", *f.Valet)
	}

	var lots []model.ParkingLot
	if err := q.Order("price_per_day ASC").Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

func (r *GormLotRepository) Create(ctx context.Context, lot *model.ParkingLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *GormLotRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.ParkingLot{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Reserve is the single atomic read-modify-write the availability ledger is
// built on: a conditional decrement that only succeeds while a spot remains.
// Two concurrent reservations against the last spot cannot both pass the
// WHERE clause.
func (r *GormLotRepository) Reserve(ctx context.Context, id uuid.UUID) (*model.ParkingLot, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ParkingLot{}).
		Where("id = ? AND is_active = ? AND available_spots > 0", id, true).
		UpdateColumn("available_spots", gorm.Expr("available_spots - 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Zero rows: the lot is missing, inactive, or full.
		var lot model.ParkingLot
		err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !lot.IsActive) {
			return nil, &booking.NotFoundError{Entity: "parking lot", ID: id.String()}
		}
		if err != nil {
			return nil, err
		}
		return nil, &booking.CapacityExceededError{LotID: id}
	}

	var lot model.ParkingLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// Release increments available_spots, clamped so a retried release can never
// push the counter past total_capacity. Hitting the clamp is not an error.
func (r *GormLotRepository) Release(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.ParkingLot{}).
		Where("id = ? AND available_spots < total_capacity", id).
		UpdateColumn("available_spots", gorm.Expr("available_spots + 1")).
		Error
}
