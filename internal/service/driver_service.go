package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
)

type CreateDriverInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	LicenseNumber string
}

type DriverService struct {
	drivers repository.DriverRepository
	log     *zap.Logger
}

func NewDriverService(drivers repository.DriverRepository, log *zap.Logger) *DriverService {
	return &DriverService{drivers: drivers, log: log}
}

func (s *DriverService) Create(ctx context.Context, actor booking.Actor, in CreateDriverInput) (*model.Driver, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, booking.ErrForbidden
	}

	d := &model.Driver{
		TenantID:      *actor.TenantID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Phone:         in.Phone,
		LicenseNumber: in.LicenseNumber,
		IsActive:      true,
	}
	if err := s.drivers.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DriverService) List(ctx context.Context, actor booking.Actor) ([]model.Driver, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, booking.ErrForbidden
	}
	return s.drivers.ListByTenant(ctx, *actor.TenantID)
}
