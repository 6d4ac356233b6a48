package booking

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkly/parking-platform/internal/model"
)

// ErrForbidden: actor is outside the entity's tenant/identity scope.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidStayWindow: dropoff date is not before pickup date.
var ErrInvalidStayWindow = errors.New("dropoff date must be before pickup date")

// ErrPaymentMethodRequired: confirming a booking needs a chosen payment
// method or a recorded payment.
var ErrPaymentMethodRequired = errors.New("payment method required to confirm booking")

// ErrProtocolIncomplete: a status change gated on a protocol half whose
// required fields are not all present.
var ErrProtocolIncomplete = errors.New("protocol half is incomplete")

// ErrInvalidAmount: payment amounts must be positive.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrInvoiceNotDraft: only draft invoices can be sent.
var ErrInvoiceNotDraft = errors.New("invoice is not a draft")

// NotFoundError: entity missing or not visible to the caller.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// CapacityExceededError: no spots left in the lot. Not retried: the outcome
// does not change by re-reading the same counter.
type CapacityExceededError struct {
	LotID uuid.UUID
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("parking lot %s has no available spots", e.LotID)
}

// InvalidTransitionError: illegal booking status change.
type InvalidTransitionError struct {
	BookingID uuid.UUID
	From      model.BookingStatus
	To        model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("booking %s: illegal transition %s -> %s", e.BookingID, e.From, e.To)
}

// MissingSignatureError: protocol save attempted without a signature.
type MissingSignatureError struct {
	BookingID uuid.UUID
	Mode      ProtocolMode
}

func (e *MissingSignatureError) Error() string {
	return fmt.Sprintf("booking %s: %s protocol requires a signature", e.BookingID, e.Mode)
}

// AlreadyClosedError: the cash day was closed before.
type AlreadyClosedError struct {
	TenantID uuid.UUID
	Date     string
}

func (e *AlreadyClosedError) Error() string {
	return fmt.Sprintf("cash day %s for tenant %s is already closed", e.Date, e.TenantID)
}

// ReconciliationError: the day row total and the payment rows disagree.
// Must be reported, never auto-corrected.
type ReconciliationError struct {
	TenantID uuid.UUID
	Date     string
	Method   model.PaymentMethod
	Ledger   decimal.Decimal
	Payments decimal.Decimal
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("cash day %s tenant %s: total_%s=%s but payments sum to %s",
		e.Date, e.TenantID, e.Method, e.Ledger, e.Payments)
}
