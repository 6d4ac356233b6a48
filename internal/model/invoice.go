package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// InvoiceItem is one line in the Items JSON column.
type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// invoices
type Invoice struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	InvoiceNumber string    `gorm:"type:varchar(32);not null;uniqueIndex"`

	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	BookingID  *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index"`

	Items datatypes.JSON `gorm:"type:jsonb;not null"`

	Subtotal  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	TaxAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Status        InvoiceStatus  `gorm:"type:varchar(16);not null;default:'draft';index"`
	DueDate       *time.Time     `gorm:"type:date"`
	PaidAt        *time.Time     `gorm:"type:timestamp with time zone"`
	PaymentMethod *PaymentMethod `gorm:"type:varchar(16)"`

	Notes          string     `gorm:"type:text"`
	PDFURL         string     `gorm:"type:text;column:pdf_url"`
	SentAt         *time.Time `gorm:"type:timestamp with time zone"`
	RecipientEmail string     `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}
