package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingNumber builds a human-readable unique identifier,
// e.g. PK-20260115-3F9A2C.
func NewBookingNumber(now time.Time) string {
	return fmt.Sprintf("PK-%s-%s", now.UTC().Format("20060102"), randomSuffix())
}

// NewInvoiceNumber follows the same shape with an INV prefix.
func NewInvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), randomSuffix())
}

func randomSuffix() string {
	id := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%x", id[:3]))
}
