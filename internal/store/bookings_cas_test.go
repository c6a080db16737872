package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

// TestCancelBooking_VersionMismatchIsConflict pins the compare-and-swap SQL:
// the cancel update filters on the version read inside the transaction, and
// zero affected rows must roll back and surface as a conflict.
func TestCancelBooking_VersionMismatchIsConflict(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	now := time.Now()
	bookingCols := []string{"id", "room_schedule_id", "user_id", "purpose", "status", "version", "created_at", "updated_at"}
	scheduleCols := []string{"id", "room_id", "start_time", "end_time", "status", "created_at", "updated_at"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WithArgs("bk1", 1).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("bk1", "sch1", "usr1", "lecture", string(model.BookingCompleted), 3, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "room_schedules" WHERE id = $1`)).
		WithArgs("sch1", 1).
		WillReturnRows(sqlmock.NewRows(scheduleCols).
			AddRow("sch1", "rm1", now.Add(time.Hour), now.Add(2*time.Hour), string(model.ScheduleReserved), now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET "status"=$1,"version"=$2,"updated_at"=$3 WHERE id = $4 AND version = $5`)).
		WithArgs(string(model.BookingCancelled), 4, Any{}, "bk1", 3).
		WillReturnResult(sqlmock.NewResult(0, 0)) // another writer got there first
	mock.ExpectRollback()

	_, err := s.CancelBooking(context.Background(), "bk1", "usr1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
