package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/model"
)

type DriverRepository interface {
	Create(ctx context.Context, d *model.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Driver, error)
	// FindByProfileID resolves the driver record of a logged-in driver user.
	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*model.Driver, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Driver, error)
}

type GormDriverRepository struct {
	db *gorm.DB
}

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

func (r *GormDriverRepository) Create(ctx context.Context, d *model.Driver) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *GormDriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	var d model.Driver
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDriverRepository) FindByProfileID(ctx context.Context, profileID uuid.UUID) (*model.Driver, error) {
	var d model.Driver
	if err := r.db.WithContext(ctx).First(&d, "profile_id = ?", profileID).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormDriverRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]model.Driver, error) {
	var drivers []model.Driver
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("last_name ASC, first_name ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}
