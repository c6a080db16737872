package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BrianDuong3003/Room-Booking-System/config"
	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Map driver-specific errors (unique violations in particular) onto
		// gorm.ErrDuplicatedKey so the store can classify them.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := EnsureBookingExclusivityIndex(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate runs AutoMigrate for every entity. Shared with the tests, which
// run it against in-memory SQLite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Building{},
		&model.Room{},
		&model.RoomSchedule{},
		&model.Booking{},
		&model.User{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}
	return nil
}

// EnsureBookingExclusivityIndex adds the storage-level guard behind the
// coordinator's availability check: at most one non-cancelled booking per
// schedule. The transactional re-check alone would be racy below
// serializable isolation, so the index enforces the invariant independently.
func EnsureBookingExclusivityIndex(db *gorm.DB) error {
	ddl := "CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_booking_per_schedule " +
		"ON bookings (room_schedule_id) WHERE status <> 'CANCELLED';"
	if err := db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("DDL failed on %q: %w", ddl, err)
	}
	return nil
}
