package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
)

type CashRepository interface {
	// EnsureDay returns the (tenant, date) row, creating it with zero totals
	// if absent. Safe under concurrent calls: the unique index plus
	// on-conflict-do-nothing guarantees a single row.
	EnsureDay(ctx context.Context, tenantID uuid.UUID, date string) (*model.DailyCash, error)
	// GetDay fetches the row without creating it.
	GetDay(ctx context.Context, tenantID uuid.UUID, date string) (*model.DailyCash, error)
	// IncrementTotal adds amount to the method's running total as a relative
	// SQL adjustment, never read-compute-write. The write only matches an
	// open day, so a close that lands between the caller's read and this
	// write surfaces as AlreadyClosedError instead of mutating a closed row.
	IncrementTotal(ctx context.Context, dayID uuid.UUID, method model.PaymentMethod, amount decimal.Decimal) error
	// CreatePayment appends an immutable ledger entry.
	CreatePayment(ctx context.Context, p *model.Payment) error
	// ListPayments returns the entries aggregated into a day row, newest first.
	ListPayments(ctx context.Context, dayID uuid.UUID) ([]model.Payment, error)
	// SumPaymentsByMethod recomputes per-method sums from the payment rows,
	// used to verify the day row stayed reconciled.
	SumPaymentsByMethod(ctx context.Context, dayID uuid.UUID) (map[model.PaymentMethod]decimal.Decimal, error)
	// CloseDay stamps the row exactly once.
	CloseDay(ctx context.Context, tenantID uuid.UUID, date string, closingBalance decimal.Decimal, notes string, closedBy uuid.UUID) (*model.DailyCash, error)
}

type GormCashRepository struct {
	db *gorm.DB
}

func NewGormCashRepository(db *gorm.DB) *GormCashRepository {
	return &GormCashRepository{db: db}
}

func (r *GormCashRepository) EnsureDay(ctx context.Context, tenantID uuid.UUID, date string) (*model.DailyCash, error) {
	var day model.DailyCash
	tx := r.db.WithContext(ctx).First(&day, "tenant_id = ? AND date = ?", tenantID, date)
	if tx.Error == nil {
		return &day, nil
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return nil, tx.Error
	}

	day = model.DailyCash{TenantID: tenantID, Date: date}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&day).Error
	if err != nil {
		return nil, err
	}

	// Re-read: a concurrent ensure may have won the insert.
	if err := r.db.WithContext(ctx).First(&day, "tenant_id = ? AND date = ?", tenantID, date).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *GormCashRepository) GetDay(ctx context.Context, tenantID uuid.UUID, date string) (*model.DailyCash, error) {
	var day model.DailyCash
	if err := r.db.WithContext(ctx).First(&day, "tenant_id = ? AND date = ?", tenantID, date).Error; err != nil {
		return nil, err
	}
	return &day, nil
}

func totalColumn(method model.PaymentMethod) string {
	switch method {
	case model.PaymentMethodCard:
		return "total_card"
	case model.PaymentMethodOnline:
		return "total_online"
	case model.PaymentMethodInvoice:
		return "total_invoice"
	default:
		return "total_cash"
	}
}

func (r *GormCashRepository) IncrementTotal(ctx context.Context, dayID uuid.UUID, method model.PaymentMethod, amount decimal.Decimal) error {
	col := totalColumn(method)
	res := r.db.WithContext(ctx).
		Model(&model.DailyCash{}).
		Where("id = ? AND closed_at IS NULL", dayID).
		UpdateColumn(col, gorm.Expr(col+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var day model.DailyCash
		if err := r.db.WithContext(ctx).First(&day, "id = ?", dayID).Error; err != nil {
			return err
		}
		if day.ClosedAt != nil {
			return &booking.AlreadyClosedError{TenantID: day.TenantID, Date: day.Date}
		}
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormCashRepository) CreatePayment(ctx context.Context, p *model.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormCashRepository) ListPayments(ctx context.Context, dayID uuid.UUID) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Where("daily_cash_id = ?", dayID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *GormCashRepository) SumPaymentsByMethod(ctx context.Context, dayID uuid.UUID) (map[model.PaymentMethod]decimal.Decimal, error) {
	type row struct {
		Method model.PaymentMethod
		Total  decimal.Decimal
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("method, COALESCE(SUM(amount), 0) AS total").
		Where("daily_cash_id = ?", dayID).
		Group("method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[model.PaymentMethod]decimal.Decimal, len(rows))
	for _, r := range rows {
		sums[r.Method] = r.Total
	}
	return sums, nil
}

func (r *GormCashRepository) CloseDay(
	ctx context.Context,
	tenantID uuid.UUID,
	date string,
	closingBalance decimal.Decimal,
	notes string,
	closedBy uuid.UUID,
) (*model.DailyCash, error) {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&model.DailyCash{}).
		Where("tenant_id = ? AND date = ? AND closed_at IS NULL", tenantID, date).
		Updates(map[string]any{
			"closing_balance": closingBalance,
			"notes":           notes,
			"closed_by":       closedBy,
			"closed_at":       now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// The row exists and is closed, or there is nothing to close.
		day, err := r.GetDay(ctx, tenantID, date)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &booking.NotFoundError{Entity: "cash day", ID: date}
		}
		if err != nil {
			return nil, err
		}
		if day.ClosedAt != nil {
			return nil, &booking.AlreadyClosedError{TenantID: tenantID, Date: date}
		}
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetDay(ctx, tenantID, date)
}
