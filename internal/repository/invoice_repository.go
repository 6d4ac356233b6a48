package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/model"
)

type InvoiceFilter struct {
	TenantID   *uuid.UUID
	CustomerID *uuid.UUID
	Status     *model.InvoiceStatus
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *model.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]model.Invoice, error)
	// MarkSent stamps sent_at and moves the invoice to "sent".
	MarkSent(ctx context.Context, id uuid.UUID) error
	// MarkPaid stamps paid_at/payment_method and moves the invoice to "paid".
	MarkPaid(ctx context.Context, id uuid.UUID, method model.PaymentMethod) error
}

type GormInvoiceRepository struct {
	db *gorm.DB
}

func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func (r *GormInvoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *GormInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var inv model.Invoice
	if err := r.db.WithContext(ctx).Preload("Booking").First(&inv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *GormInvoiceRepository) List(ctx context.Context, f InvoiceFilter) ([]model.Invoice, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})

	if f.TenantID != nil {
		q = q.Where("tenant_id = ?", *f.TenantID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var invoices []model.Invoice
	if err := q.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("id = ? AND status = ?", id, model.InvoiceStatusDraft).
		Updates(map[string]any{
			"status":  model.InvoiceStatusSent,
			"sent_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormInvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, method model.PaymentMethod) error {
	res := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("id = ? AND status IN ?", id, []model.InvoiceStatus{
			model.InvoiceStatusDraft, model.InvoiceStatusSent, model.InvoiceStatusOverdue,
		}).
		Updates(map[string]any{
			"status":         model.InvoiceStatusPaid,
			"paid_at":        time.Now().UTC(),
			"payment_method": method,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
