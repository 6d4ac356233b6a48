package model

import "gorm.io/gorm"

// AutoMigrate runs migrations for all core entities.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Tenant{},
		&Profile{},
		&Airport{},
		&ParkingLot{},
		&Driver{},
		&Booking{},
		&Vehicle{},
		&CheckinProtocol{},
		&Invoice{},
		&DailyCash{},
		&Payment{},
		&Event{},
	)
}
