package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
)

func newInvoiceService(db *gorm.DB) *InvoiceService {
	return NewInvoiceService(repository.NewGormInvoiceRepository(db), nopLogger())
}

func TestInvoiceService_Create_ComputesTotals(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	svc := newInvoiceService(db)

	inv, err := svc.Create(testCtx, f.operatorActor(), CreateInvoiceInput{
		Items: []InvoiceItemInput{
			{Description: "Parking 3 days", Quantity: 3, UnitPrice: decimal.RequireFromString("25.00")},
			{Description: "Valet service", Quantity: 1, UnitPrice: decimal.RequireFromString("10.50")},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !inv.Subtotal.Equal(decimal.RequireFromString("85.50")) {
		t.Fatalf("expected subtotal 85.50, got %s", inv.Subtotal)
	}
	if !inv.TaxRate.Equal(decimal.NewFromInt(19)) {
		t.Fatalf("expected default tax rate 19, got %s", inv.TaxRate)
	}
	if !inv.TaxAmount.Equal(decimal.RequireFromString("16.25")) {
		t.Fatalf("expected tax 16.25, got %s", inv.TaxAmount)
	}
	if !inv.Total.Equal(decimal.RequireFromString("101.75")) {
		t.Fatalf("expected total 101.75, got %s", inv.Total)
	}
	if inv.Status != model.InvoiceStatusDraft {
		t.Fatalf("expected draft, got %s", inv.Status)
	}
	if !strings.HasPrefix(inv.InvoiceNumber, "INV-") {
		t.Fatalf("unexpected invoice number %q", inv.InvoiceNumber)
	}
}

func TestInvoiceService_Create_SendImmediately(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	svc := newInvoiceService(db)

	inv, err := svc.Create(testCtx, f.operatorActor(), CreateInvoiceInput{
		Items: []InvoiceItemInput{{Description: "Parking", Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")}},
		Send:  true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.Status != model.InvoiceStatusSent || inv.SentAt == nil {
		t.Fatalf("expected sent invoice with stamp")
	}

	// Sending a second time is not a draft transition anymore.
	if _, err := svc.Send(testCtx, f.operatorActor(), inv.ID); !errors.Is(err, booking.ErrInvoiceNotDraft) {
		t.Fatalf("expected ErrInvoiceNotDraft, got %v", err)
	}
}

func TestInvoiceService_Send_Draft(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	svc := newInvoiceService(db)

	inv, err := svc.Create(testCtx, f.operatorActor(), CreateInvoiceInput{
		Items: []InvoiceItemInput{{Description: "Parking", Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sent, err := svc.Send(testCtx, f.operatorActor(), inv.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != model.InvoiceStatusSent || sent.SentAt == nil {
		t.Fatalf("expected sent invoice, got %s", sent.Status)
	}
}

func TestInvoiceService_Get_ScopedByTenant(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	svc := newInvoiceService(db)

	inv, err := svc.Create(testCtx, f.operatorActor(), CreateInvoiceInput{
		Items: []InvoiceItemInput{{Description: "Parking", Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// A customer who is not the recipient cannot see it.
	_, err = svc.Get(testCtx, f.customerActor(), inv.ID)
	var nfErr *booking.NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
