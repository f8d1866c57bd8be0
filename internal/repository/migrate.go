package repository

import "gorm.io/gorm"

// MigratePrimary creates the bookings table.
func MigratePrimary(db *gorm.DB) error {
	return db.AutoMigrate(&bookingModel{})
}

// MigrateLocal creates the session storage and fallback tables.
func MigrateLocal(db *gorm.DB) error {
	return db.AutoMigrate(&localStorageModel{}, &fallbackModel{})
}
