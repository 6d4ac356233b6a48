package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
	"github.com/parkly/parking-platform/internal/repository"
)

func newProtocolService(db *gorm.DB) *ProtocolService {
	return NewProtocolService(
		db,
		repository.NewGormBookingRepository(db),
		repository.NewGormProtocolRepository(db),
		repository.NewGormDriverRepository(db),
		nopLogger(),
	)
}

// seeds a confirmed booking ready for check-in.
func seedConfirmedBooking(t *testing.T, db *gorm.DB, f *fixture) *model.Booking {
	t.Helper()
	svc := newBookingService(db)
	b, err := svc.Create(testCtx, f.customerActor(), testBookingInput(f.Lot.ID))
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	method := model.PaymentMethodCash
	b, err = svc.Confirm(testCtx, f.operatorActor(), b.ID, &method)
	if err != nil {
		t.Fatalf("confirm booking: %v", err)
	}
	return b
}

func checkinInput(b *model.Booking, mode booking.ProtocolMode) RecordProtocolInput {
	return RecordProtocolInput{
		BookingID:     b.ID,
		Mode:          mode,
		ParkingSpot:   "A-17",
		Mileage:       48210,
		FuelLevel:     75,
		Condition:     model.ConditionGood,
		Signature:     "data:image/png;base64,aGVsbG8=",
		SignatoryName: "Mia Schmidt",
	}
}

func TestProtocolService_Record_CheckinAdvancesBooking(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	p, err := svc.Record(testCtx, f.operatorActor(), checkinInput(b, booking.ModeCheckin))
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if !p.Checkin.Complete() {
		t.Fatalf("expected complete check-in half")
	}
	if p.Checkout.Complete() || p.Checkout.Signature != "" {
		t.Fatalf("checkout half must stay empty")
	}
	if p.ParkingSpot != "A-17" {
		t.Fatalf("expected parking spot, got %q", p.ParkingSpot)
	}

	var reloaded model.Booking
	if err := db.First(&reloaded, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if reloaded.Status != model.BookingStatusCheckedIn {
		t.Fatalf("expected checked_in, got %s", reloaded.Status)
	}
}

func TestProtocolService_Record_RepeatCheckinOverwritesOnlyThatHalf(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	if _, err := svc.Record(testCtx, f.operatorActor(), checkinInput(b, booking.ModeCheckin)); err != nil {
		t.Fatalf("first record: %v", err)
	}

	in := checkinInput(b, booking.ModeCheckin)
	in.Mileage = 48215
	in.Notes = "scratch on rear bumper"
	p, err := svc.Record(testCtx, f.operatorActor(), in)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}

	if p.Checkin.Mileage == nil || *p.Checkin.Mileage != 48215 {
		t.Fatalf("expected check-in half overwritten")
	}
	if p.Checkout.Signature != "" {
		t.Fatalf("checkout half must stay empty")
	}

	var count int64
	if err := db.Model(&model.CheckinProtocol{}).Where("booking_id = ?", b.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single protocol row, got %d", count)
	}

	var reloaded model.Booking
	if err := db.First(&reloaded, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if reloaded.Status != model.BookingStatusCheckedIn {
		t.Fatalf("repeat check-in moved status to %s", reloaded.Status)
	}
}

func TestProtocolService_Record_CheckoutCompletesAndKeepsCheckinHalf(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	if _, err := svc.Record(testCtx, f.operatorActor(), checkinInput(b, booking.ModeCheckin)); err != nil {
		t.Fatalf("checkin: %v", err)
	}

	out := checkinInput(b, booking.ModeCheckout)
	out.Mileage = 48299
	out.Condition = model.ConditionFair
	out.Signature = "data:image/png;base64,d2VsdGVy"
	p, err := svc.Record(testCtx, f.operatorActor(), out)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if !p.Checkout.Complete() {
		t.Fatalf("expected complete checkout half")
	}
	if p.Checkin.Mileage == nil || *p.Checkin.Mileage != 48210 {
		t.Fatalf("checkout write touched the check-in half")
	}
	if p.Checkin.Signature != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("check-in signature overwritten")
	}

	var reloaded model.Booking
	if err := db.First(&reloaded, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if reloaded.Status != model.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", reloaded.Status)
	}
}

func TestProtocolService_Record_MissingSignatureWritesNothing(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	in := checkinInput(b, booking.ModeCheckin)
	in.Signature = ""
	_, err := svc.Record(testCtx, f.operatorActor(), in)
	var sigErr *booking.MissingSignatureError
	if !errors.As(err, &sigErr) {
		t.Fatalf("expected MissingSignatureError, got %v", err)
	}

	var count int64
	if err := db.Model(&model.CheckinProtocol{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no protocol row, got %d", count)
	}

	var reloaded model.Booking
	if err := db.First(&reloaded, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("load booking: %v", err)
	}
	if reloaded.Status != model.BookingStatusConfirmed {
		t.Fatalf("status moved to %s without a signature", reloaded.Status)
	}
}

func TestProtocolService_Record_CheckoutBeforeCheckinRejected(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	_, err := svc.Record(testCtx, f.operatorActor(), checkinInput(b, booking.ModeCheckout))
	var itErr *booking.InvalidTransitionError
	if !errors.As(err, &itErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
}

func TestProtocolService_Record_CustomerForbidden(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	if _, err := svc.Record(testCtx, f.customerActor(), checkinInput(b, booking.ModeCheckin)); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProtocolService_Record_DriverResolvedFromProfile(t *testing.T) {
	db := openTestDB(t)
	f := seedFixture(t, db, 3)
	b := seedConfirmedBooking(t, db, f)
	svc := newProtocolService(db)

	driverProfile := &model.Profile{ID: uuid.New(), TenantID: &f.Tenant.ID, Role: model.RoleDriver, IsActive: true}
	if err := db.Create(driverProfile).Error; err != nil {
		t.Fatalf("seed driver profile: %v", err)
	}
	driver := &model.Driver{
		TenantID:  f.Tenant.ID,
		ProfileID: &driverProfile.ID,
		FirstName: "Jonas",
		LastName:  "Weber",
		Email:     "jonas@parkly.test",
		IsActive:  true,
	}
	if err := db.Create(driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}

	actor := booking.Actor{UserID: driverProfile.ID, TenantID: &f.Tenant.ID, Role: model.RoleDriver}
	p, err := svc.Record(testCtx, actor, checkinInput(b, booking.ModeCheckin))
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if p.DriverID == nil || *p.DriverID != driver.ID {
		t.Fatalf("expected driver link, got %v", p.DriverID)
	}
}
