package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// daily_cash: one row per (tenant, calendar date). Totals are running sums
// maintained with relative SQL adjustments; the invariant is that for each
// method the total equals the sum of the payment rows aggregated into this
// row. ClosedAt set means the day closed exactly once.
type DailyCash struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_cash_tenant_date"`
	Date     string    `gorm:"type:date;not null;uniqueIndex:idx_daily_cash_tenant_date"` // YYYY-MM-DD

	OpeningBalance decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	ClosingBalance *decimal.Decimal `gorm:"type:decimal(12,2)"`

	TotalCash    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCard    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalOnline  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalInvoice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	Notes    string     `gorm:"type:text"`
	ClosedBy *uuid.UUID `gorm:"type:uuid"`
	ClosedAt *time.Time `gorm:"type:timestamp with time zone"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (DailyCash) TableName() string { return "daily_cash" }

// payments: append-only ledger entries. Never updated or deleted;
// corrections are new rows.
type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID   *uuid.UUID `gorm:"type:uuid;index"`
	InvoiceID   *uuid.UUID `gorm:"type:uuid;index"`
	DailyCashID *uuid.UUID `gorm:"type:uuid;index"`

	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method PaymentMethod   `gorm:"type:varchar(16);not null"`
	Status PaymentStatus   `gorm:"type:varchar(16);not null"`

	Reference   string     `gorm:"type:varchar(64)"`
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt *time.Time `gorm:"type:timestamp with time zone"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}
