package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/parkly/parking-platform/internal/booking"
	"github.com/parkly/parking-platform/internal/model"
)

// Minimal schema for the query/update logic (sqlite-friendly; the postgres
// defaults like gen_random_uuid() and now() are not portable, ids come from
// the model hooks instead).
var testSchema = []string{
	`CREATE TABLE tenants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		logo_url TEXT,
		settings TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE airports (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		iata_code TEXT NOT NULL UNIQUE,
		city TEXT NOT NULL,
		country TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		created_at DATETIME
	);`,
	`CREATE TABLE parking_lots (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		airport_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		address TEXT NOT NULL,
		distance_to_airport REAL,
		price_per_day NUMERIC NOT NULL,
		total_capacity INTEGER NOT NULL,
		available_spots INTEGER NOT NULL,
		shuttle_available INTEGER NOT NULL DEFAULT 0,
		valet_available INTEGER NOT NULL DEFAULT 0,
		features TEXT,
		images TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE profiles (
		id TEXT PRIMARY KEY,
		tenant_id TEXT,
		role TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		avatar_url TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE drivers (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		profile_id TEXT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		license_number TEXT,
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		booking_number TEXT NOT NULL UNIQUE,
		tenant_id TEXT NOT NULL,
		parking_lot_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		driver_id TEXT,
		flight_number TEXT,
		flight_departure DATETIME,
		flight_arrival DATETIME,
		dropoff_date DATETIME NOT NULL,
		pickup_date DATETIME NOT NULL,
		total_days INTEGER NOT NULL,
		price_per_day NUMERIC NOT NULL,
		total_amount NUMERIC NOT NULL,
		discount_amount NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'pending',
		payment_method TEXT,
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE vehicles (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL UNIQUE,
		make TEXT NOT NULL,
		model TEXT NOT NULL,
		year INTEGER,
		color TEXT,
		license_plate TEXT NOT NULL,
		vin TEXT,
		created_at DATETIME
	);`,
	`CREATE TABLE checkin_protocols (
		id TEXT PRIMARY KEY,
		booking_id TEXT NOT NULL UNIQUE,
		tenant_id TEXT NOT NULL,
		driver_id TEXT,
		parking_spot TEXT,
		checkin_at DATETIME,
		checkin_mileage INTEGER,
		checkin_fuel_level INTEGER,
		checkin_condition TEXT,
		checkin_notes TEXT,
		checkin_photos TEXT,
		checkin_signature TEXT,
		checkin_signature_name TEXT,
		checkin_signed_at DATETIME,
		checkout_at DATETIME,
		checkout_mileage INTEGER,
		checkout_fuel_level INTEGER,
		checkout_condition TEXT,
		checkout_notes TEXT,
		checkout_photos TEXT,
		checkout_signature TEXT,
		checkout_signature_name TEXT,
		checkout_signed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE invoices (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		tenant_id TEXT NOT NULL,
		booking_id TEXT,
		customer_id TEXT,
		items TEXT NOT NULL,
		subtotal NUMERIC NOT NULL,
		tax_rate NUMERIC NOT NULL,
		tax_amount NUMERIC NOT NULL,
		total NUMERIC NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		due_date DATETIME,
		paid_at DATETIME,
		payment_method TEXT,
		notes TEXT,
		pdf_url TEXT,
		sent_at DATETIME,
		recipient_email TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE daily_cash (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		date TEXT NOT NULL,
		opening_balance NUMERIC NOT NULL DEFAULT 0,
		closing_balance NUMERIC,
		total_cash NUMERIC NOT NULL DEFAULT 0,
		total_card NUMERIC NOT NULL DEFAULT 0,
		total_online NUMERIC NOT NULL DEFAULT 0,
		total_invoice NUMERIC NOT NULL DEFAULT 0,
		notes TEXT,
		closed_by TEXT,
		closed_at DATETIME,
		created_at DATETIME,
		UNIQUE (tenant_id, date)
	);`,
	`CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		booking_id TEXT,
		invoice_id TEXT,
		daily_cash_id TEXT,
		amount NUMERIC NOT NULL,
		method TEXT NOT NULL,
		status TEXT NOT NULL,
		reference TEXT,
		processed_by TEXT,
		processed_at DATETIME,
		created_at DATETIME
	);`,
	`CREATE TABLE events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		created_at DATETIME,
		tenant_id TEXT,
		actor_id TEXT,
		booking_id TEXT,
		details TEXT
	);`,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// One in-memory database, one connection. Concurrent transactions
	// serialize instead of each getting its own empty :memory: db.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type fixture struct {
	Tenant   *model.Tenant
	Airport  *model.Airport
	Lot      *model.ParkingLot
	Customer *model.Profile
	Operator *model.Profile
}

func seedFixture(t *testing.T, db *gorm.DB, capacity int) *fixture {
	t.Helper()

	tenant := &model.Tenant{Name: "Parkly Hamburg", Slug: "parkly-ham", Email: "ops@parkly.test", IsActive: true}
	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	airport := &model.Airport{Name: "Hamburg Airport", IATACode: "HAM", City: "Hamburg", Country: "Germany"}
	if err := db.Create(airport).Error; err != nil {
		t.Fatalf("seed airport: %v", err)
	}

	lot := &model.ParkingLot{
		TenantID:       tenant.ID,
		AirportID:      airport.ID,
		Name:           "P1 Nord",
		Address:        "Flughafenstr. 1",
		PricePerDay:    decimal.RequireFromString("12.50"),
		TotalCapacity:  capacity,
		AvailableSpots: capacity,
		IsActive:       true,
	}
	if err := db.Create(lot).Error; err != nil {
		t.Fatalf("seed lot: %v", err)
	}

	customer := &model.Profile{ID: uuid.New(), Role: model.RoleCustomer, FirstName: "Mia", IsActive: true}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	operator := &model.Profile{ID: uuid.New(), TenantID: &tenant.ID, Role: model.RoleOperator, IsActive: true}
	if err := db.Create(operator).Error; err != nil {
		t.Fatalf("seed operator: %v", err)
	}

	return &fixture{Tenant: tenant, Airport: airport, Lot: lot, Customer: customer, Operator: operator}
}

func (f *fixture) customerActor() booking.Actor {
	return booking.Actor{UserID: f.Customer.ID, Role: model.RoleCustomer}
}

func (f *fixture) operatorActor() booking.Actor {
	return booking.Actor{UserID: f.Operator.ID, TenantID: &f.Tenant.ID, Role: model.RoleOperator}
}

func testBookingInput(lotID uuid.UUID) CreateBookingInput {
	return CreateBookingInput{
		ParkingLotID: lotID,
		DropoffDate:  time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		PickupDate:   time.Date(2025, 7, 8, 0, 0, 0, 0, time.UTC),
		Vehicle: VehicleInput{
			Make:         "VW",
			Model:        "Golf",
			LicensePlate: "HH-AB 1234",
		},
	}
}

func lotAvailable(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var lot model.ParkingLot
	if err := db.First(&lot, "id = ?", id).Error; err != nil {
		t.Fatalf("load lot: %v", err)
	}
	return lot.AvailableSpots
}

var testCtx = context.Background()

func nopLogger() *zap.Logger { return zap.NewNop() }
