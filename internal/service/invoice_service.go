package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
)

// Default German VAT, applied when the caller sends no rate.
var defaultTaxRate = decimal.NewFromInt(19)

type InvoiceItemInput struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type CreateInvoiceInput struct {
	BookingID      *uuid.UUID
	CustomerID     *uuid.UUID
	Items          []InvoiceItemInput
	TaxRate        *decimal.Decimal
	DueDate        *time.Time
	Notes          string
	RecipientEmail string
	// Send immediately stamps sent_at and skips the draft stage.
	Send bool
}

type InvoiceService struct {
	invoices repository.InvoiceRepository
	log      *zap.Logger
}

func NewInvoiceService(invoices repository.InvoiceRepository, log *zap.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, log: log}
}

// Create builds a draft (or directly sent) invoice. Line totals, subtotal,
// tax and total are computed here with decimal math and stored, never
// recomputed from floats later.
func (s *InvoiceService) Create(ctx context.Context, actor booking.Actor, in CreateInvoiceInput) (*model.Invoice, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, booking.ErrForbidden
	}
	if len(in.Items) == 0 {
		return nil, booking.ErrInvalidAmount
	}

	items := make([]model.InvoiceItem, 0, len(in.Items))
	subtotal := decimal.Zero
	for _, it := range in.Items {
		lineTotal := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, model.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	taxRate := defaultTaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}
	taxAmount := subtotal.Mul(taxRate).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(taxAmount)

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	inv := &model.Invoice{
		InvoiceNumber:  booking.NewInvoiceNumber(now),
		TenantID:       *actor.TenantID,
		BookingID:      in.BookingID,
		CustomerID:     in.CustomerID,
		Items:          raw,
		Subtotal:       subtotal,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		Total:          total,
		Status:         model.InvoiceStatusDraft,
		DueDate:        in.DueDate,
		Notes:          in.Notes,
		RecipientEmail: in.RecipientEmail,
	}
	if in.Send {
		inv.Status = model.InvoiceStatusSent
		inv.SentAt = &now
	}

	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.String("invoice", inv.InvoiceNumber),
		zap.String("total", inv.Total.StringFixed(2)))

	return inv, nil
}

// Send moves a draft to sent.
func (s *InvoiceService) Send(ctx context.Context, actor booking.Actor, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.MarkSent(ctx, inv.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrInvoiceNotDraft
		}
		return nil, err
	}
	return s.invoices.GetByID(ctx, inv.ID)
}

// List returns the actor's invoice scope, newest first.
func (s *InvoiceService) List(ctx context.Context, actor booking.Actor, status *model.InvoiceStatus) ([]model.Invoice, error) {
	f := repository.InvoiceFilter{Status: status}
	if actor.Role == model.RoleCustomer {
		f.CustomerID = &actor.UserID
	} else {
		if actor.TenantID == nil {
			return nil, booking.ErrForbidden
		}
		f.TenantID = actor.TenantID
	}
	return s.invoices.List(ctx, f)
}

func (s *InvoiceService) Get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*model.Invoice, error) {
	return s.get(ctx, actor, id)
}

func (s *InvoiceService) get(ctx context.Context, actor booking.Actor, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "invoice", ID: id.String()}
		}
		return nil, err
	}

	visible := actor.SameTenant(inv.TenantID) && actor.IsStaff()
	if !visible && inv.CustomerID != nil && *inv.CustomerID == actor.UserID {
		visible = true
	}
	if !visible {
		return nil, &booking.NotFoundError{Entity: "invoice", ID: id.String()}
	}
	return inv, nil
}
