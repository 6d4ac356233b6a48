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
)

type RecordPaymentInput struct {
	Amount    decimal.Decimal
	Method    model.PaymentMethod
	BookingID *uuid.UUID
	InvoiceID *uuid.UUID
	Reference string
	// Date defaults to today (UTC) when empty.
	Date string
}

// CashService keeps the per-tenant per-day ledger reconciled: day row,
// method totals, payment rows and booking payment state move together.
type CashService struct {
	db       *gorm.DB
	cash     repository.CashRepository
	bookings repository.BookingRepository
	invoices repository.InvoiceRepository
	events   repository.EventRepository
	log      *zap.Logger
}

func NewCashService(
	db *gorm.DB,
	cash repository.CashRepository,
	bookings repository.BookingRepository,
	invoices repository.InvoiceRepository,
	events repository.EventRepository,
	log *zap.Logger,
) *CashService {
	return &CashService{
		db:       db,
		cash:     cash,
		bookings: bookings,
		invoices: invoices,
		events:   events,
		log:      log,
	}
}

// RecordPayment is one logical unit: ensure the day row, bump the method
// total, append the immutable payment row, and mark the booking/invoice
// paid. Any failure rolls the whole unit back so the ledger can never be
// half-updated.
func (s *CashService) RecordPayment(ctx context.Context, actor booking.Actor, in RecordPaymentInput) (*model.Payment, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, booking.ErrForbidden
	}
	if !in.Amount.IsPositive() {
		return nil, booking.ErrInvalidAmount
	}

	date := in.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	tenantID := *actor.TenantID

	var payment *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cash := repository.NewGormCashRepository(tx)

		day, err := cash.EnsureDay(ctx, tenantID, date)
		if err != nil {
			return err
		}
		if day.ClosedAt != nil {
			return &booking.AlreadyClosedError{TenantID: tenantID, Date: date}
		}

		// IncrementTotal re-checks closed_at in its WHERE clause, so a close
		// that commits between the read above and this write is still rejected.
		if err := cash.IncrementTotal(ctx, day.ID, in.Method, in.Amount); err != nil {
			return err
		}

		now := time.Now().UTC()
		p := &model.Payment{
			TenantID:    tenantID,
			BookingID:   in.BookingID,
			InvoiceID:   in.InvoiceID,
			DailyCashID: &day.ID,
			Amount:      in.Amount,
			Method:      in.Method,
			Status:      model.PaymentStatusPaid,
			Reference:   in.Reference,
			ProcessedBy: &actor.UserID,
			ProcessedAt: &now,
		}
		if err := cash.CreatePayment(ctx, p); err != nil {
			return err
		}

		if in.BookingID != nil {
			bookings := repository.NewGormBookingRepository(tx)
			b, err := bookings.GetByID(ctx, *in.BookingID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &booking.NotFoundError{Entity: "booking", ID: in.BookingID.String()}
				}
				return err
			}
			if b.TenantID != tenantID {
				return &booking.NotFoundError{Entity: "booking", ID: in.BookingID.String()}
			}
			err = bookings.UpdateFields(ctx, b.ID, map[string]any{
				"payment_status": model.PaymentStatusPaid,
				"payment_method": in.Method,
			})
			if err != nil {
				return err
			}
		}

		if in.InvoiceID != nil {
			invoices := repository.NewGormInvoiceRepository(tx)
			inv, err := invoices.GetByID(ctx, *in.InvoiceID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &booking.NotFoundError{Entity: "invoice", ID: in.InvoiceID.String()}
				}
				return err
			}
			if inv.TenantID != tenantID {
				return &booking.NotFoundError{Entity: "invoice", ID: in.InvoiceID.String()}
			}
			if err := invoices.MarkPaid(ctx, inv.ID, in.Method); err != nil {
				return err
			}
		}

		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("tenant", tenantID.String()),
		zap.String("date", date),
		zap.String("method", string(in.Method)),
		zap.String("amount", in.Amount.StringFixed(2)))

	return payment, nil
}

// Day returns the day row (nil when no payment touched the date yet) and
// its payment entries.
func (s *CashService) Day(ctx context.Context, actor booking.Actor, date string) (*model.DailyCash, []model.Payment, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, nil, booking.ErrForbidden
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	day, err := s.cash.GetDay(ctx, *actor.TenantID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	payments, err := s.cash.ListPayments(ctx, day.ID)
	if err != nil {
		return nil, nil, err
	}
	return day, payments, nil
}

// CloseDay stamps the day exactly once; a second close is an
// AlreadyClosedError, reported, never retried.
func (s *CashService) CloseDay(ctx context.Context, actor booking.Actor, date string, closingBalance decimal.Decimal, notes string) (*model.DailyCash, error) {
	if !actor.IsStaff() || actor.TenantID == nil {
		return nil, booking.ErrForbidden
	}
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	tenantID := *actor.TenantID

	day, err := s.cash.CloseDay(ctx, tenantID, date, closingBalance, notes, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "cash day", ID: date}
		}
		return nil, err
	}

	if err := s.events.Append(ctx, &model.Event{
		EventType: model.EventTypeDayClosed,
		TenantID:  &tenantID,
		ActorID:   &actor.UserID,
		Details:   date,
	}); err != nil {
		s.log.Warn("audit event write failed", zap.Error(err))
	}

	s.log.Info("cash day closed", zap.String("tenant", tenantID.String()), zap.String("date", date))

	return day, nil
}

// Reconcile recomputes per-method sums from the payment rows and compares
// them with the day row. A mismatch means a bug elsewhere; it is reported,
// never silently corrected.
func (s *CashService) Reconcile(ctx context.Context, actor booking.Actor, date string) error {
	if !actor.IsStaff() || actor.TenantID == nil {
		return booking.ErrForbidden
	}
	tenantID := *actor.TenantID

	day, err := s.cash.GetDay(ctx, tenantID, date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &booking.NotFoundError{Entity: "cash day", ID: date}
		}
		return err
	}

	sums, err := s.cash.SumPaymentsByMethod(ctx, day.ID)
	if err != nil {
		return err
	}

	ledger := map[model.PaymentMethod]decimal.Decimal{
		model.PaymentMethodCash:    day.TotalCash,
		model.PaymentMethodCard:    day.TotalCard,
		model.PaymentMethodOnline:  day.TotalOnline,
		model.PaymentMethodInvoice: day.TotalInvoice,
	}
	for method, total := range ledger {
		sum, ok := sums[method]
		if !ok {
			sum = decimal.Zero
		}
		if !total.Equal(sum) {
			return &booking.ReconciliationError{
				TenantID: tenantID,
				Date:     date,
				Method:   method,
				Ledger:   total,
				Payments: sum,
			}
		}
	}
	return nil
}
