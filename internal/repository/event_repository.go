package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/model"
)

// EventRepository appends audit events. The table is append-only.
type EventRepository interface {
	Append(ctx context.Context, e *model.Event) error
}

type GormEventRepository struct {
	db *gorm.DB
}

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) Append(ctx context.Context, e *model.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}
