package server

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// OTPTTL is how long a signup code stays redeemable.
	OTPTTL = 10 * time.Minute

	// TokenTTL matches the client's 10-day session lifetime.
	TokenTTL = 10 * 24 * time.Hour
)

// OpenStorage opens (or creates) the backend database and migrates the
// schema. Use ":memory:" for tests.
func OpenStorage(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each pooled connection gets its own in-memory database, so the
		// pool must stay at a single connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Account{}, &TaskRecord{}, &OTP{}, &AuthToken{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SweepExpired deletes OTPs and tokens past their expiry. Run periodically.
func SweepExpired(db *gorm.DB) error {
	now := time.Now()
	if err := db.Where("expires_at < ?", now).Delete(&OTP{}).Error; err != nil {
		return err
	}
	return db.Where("expires_at < ?", now).Delete(&AuthToken{}).Error
}
