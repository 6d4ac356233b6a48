package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// StayDays computes the billed day count for a stay window: whole calendar
// days between dropoff and pickup, never less than one.
func StayDays(dropoff, pickup time.Time) (int, error) {
	if dropoff.IsZero() || pickup.IsZero() || !dropoff.Before(pickup) {
		return 0, ErrInvalidStayWindow
	}

	d := truncateToDay(dropoff)
	p := truncateToDay(pickup)

	days := int(p.Sub(d).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days, nil
}

// Total is price_per_day × days minus the discount, floored at zero.
func Total(pricePerDay decimal.Decimal, days int, discount decimal.Decimal) decimal.Decimal {
	total := pricePerDay.Mul(decimal.NewFromInt(int64(days))).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
