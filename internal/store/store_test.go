package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

// newTestStore opens an in-memory SQLite database with the schema and the
// active-booking unique index applied. Connections are capped at one so
// transactions serialize the same way they would behind the store's
// isolation guarantees.
func newTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(
		&model.Building{}, &model.Room{}, &model.RoomSchedule{},
		&model.Booking{}, &model.User{}, &model.PushSubscription{},
	))
	require.NoError(t, testDB.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_booking_per_schedule "+
			"ON bookings (room_schedule_id) WHERE status <> 'CANCELLED';").Error)

	return NewGormStore(testDB), testDB
}

// seedSchedule creates a building, room, user(s) and one schedule starting at
// the given offset from now.
func seedSchedule(t *testing.T, db *gorm.DB, startOffset time.Duration) (*model.RoomSchedule, *model.User, *model.User) {
	t.Helper()

	building := model.Building{Name: "B" + t.Name(), Address: "268 Ly Thuong Kiet"}
	require.NoError(t, db.Create(&building).Error)

	room := model.Room{Name: "H1-101", Capacity: 40, Floor: 1, BuildingID: building.ID, Status: model.RoomAvailable}
	require.NoError(t, db.Create(&room).Error)

	userA := model.User{Email: "a" + t.Name() + "@hcmut.edu.vn", Password: "x", Role: model.RoleUser, FirstName: "An", LastName: "Nguyen"}
	userB := model.User{Email: "b" + t.Name() + "@hcmut.edu.vn", Password: "x", Role: model.RoleUser, FirstName: "Binh", LastName: "Tran"}
	require.NoError(t, db.Create(&userA).Error)
	require.NoError(t, db.Create(&userB).Error)

	schedule := model.RoomSchedule{
		RoomID:    room.ID,
		StartTime: time.Now().Add(startOffset),
		EndTime:   time.Now().Add(startOffset + time.Hour),
		Status:    model.ScheduleAvailable,
	}
	require.NoError(t, db.Create(&schedule).Error)

	return &schedule, &userA, &userB
}

func TestCreateBooking_Lifecycle(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, userB := seedSchedule(t, db, 2*time.Hour)

	booking, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "lecture")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, booking.Status)
	assert.Equal(t, schedule.ID, booking.RoomScheduleID)
	assert.Equal(t, userA.ID, booking.UserID)
	assert.Equal(t, "lecture", booking.Purpose)

	// Joined projections come back with the booking.
	assert.Equal(t, userA.Email, booking.User.Email)
	assert.Equal(t, "H1-101", booking.RoomSchedule.Room.Name)
	assert.NotEmpty(t, booking.RoomSchedule.Room.Building.Name)

	// The schedule is now reserved.
	var got model.RoomSchedule
	require.NoError(t, db.First(&got, "id = ?", schedule.ID).Error)
	assert.Equal(t, model.ScheduleReserved, got.Status)

	// A second booking against the same slot is refused and writes nothing.
	_, err = s.CreateBooking(ctx, schedule.ID, userB.ID, "meeting")
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Where("room_schedule_id = ?", schedule.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateBooking_ScheduleNotFound(t *testing.T) {
	s, db := newTestStore(t)
	_, userA, _ := seedSchedule(t, db, time.Hour)

	_, err := s.CreateBooking(context.Background(), "no-such-schedule", userA.ID, "lecture")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBooking_PastStartTime(t *testing.T) {
	s, db := newTestStore(t)
	schedule, userA, _ := seedSchedule(t, db, -2*time.Hour)

	_, err := s.CreateBooking(context.Background(), schedule.ID, userA.ID, "lecture")
	assert.ErrorIs(t, err, ErrPastSchedule)

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateBooking_ConcurrentCallsExactlyOneWins(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, userB := seedSchedule(t, db, 3*time.Hour)

	users := []string{userA.ID, userB.ID}
	errs := make([]error, len(users))

	var wg sync.WaitGroup
	for i, uid := range users {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = s.CreateBooking(ctx, schedule.ID, uid, "race")
		}(i, uid)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent create must win")
	assert.Equal(t, 1, conflicts)

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Where("room_schedule_id = ?", schedule.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCancelBooking_ReleasesSchedule(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, _ := seedSchedule(t, db, 2*time.Hour)

	booking, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "lecture")
	require.NoError(t, err)

	result, err := s.CancelBooking(ctx, booking.ID, userA.ID)
	require.NoError(t, err)
	assert.False(t, result.Deleted, "an upcoming booking is cancelled, not deleted")
	assert.Equal(t, model.BookingCancelled, result.Booking.Status)
	assert.Equal(t, booking.Version+1, result.Booking.Version)
	assert.Equal(t, schedule.RoomID, result.FreedRoomID)

	var got model.RoomSchedule
	require.NoError(t, db.First(&got, "id = ?", schedule.ID).Error)
	assert.Equal(t, model.ScheduleAvailable, got.Status)
}

func TestCancelBooking_ElapsedSlotDeletesRow(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, _ := seedSchedule(t, db, 2*time.Hour)

	booking, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "lecture")
	require.NoError(t, err)

	// Move the slot entirely into the past, as if the window has elapsed.
	require.NoError(t, db.Model(&model.RoomSchedule{}).
		Where("id = ?", schedule.ID).
		Updates(map[string]any{
			"start_time": time.Now().Add(-2 * time.Hour),
			"end_time":   time.Now().Add(-time.Hour),
		}).Error)

	result, err := s.CancelBooking(ctx, booking.ID, userA.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)
	assert.Equal(t, booking.ID, result.Booking.ID, "synthetic result keeps the original id")

	var count int64
	require.NoError(t, db.Model(&model.Booking{}).Where("id = ?", booking.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	var got model.RoomSchedule
	require.NoError(t, db.First(&got, "id = ?", schedule.ID).Error)
	assert.Equal(t, model.ScheduleAvailable, got.Status)
}

func TestCancelBooking_NotOwner(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, userB := seedSchedule(t, db, 2*time.Hour)

	booking, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "lecture")
	require.NoError(t, err)

	_, err = s.CancelBooking(ctx, booking.ID, userB.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Nothing changed.
	var got model.Booking
	require.NoError(t, db.First(&got, "id = ?", booking.ID).Error)
	assert.Equal(t, model.BookingCompleted, got.Status)

	var sched model.RoomSchedule
	require.NoError(t, db.First(&sched, "id = ?", schedule.ID).Error)
	assert.Equal(t, model.ScheduleReserved, sched.Status)
}

func TestCancelBooking_TwiceRejected(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, _ := seedSchedule(t, db, 2*time.Hour)

	booking, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "lecture")
	require.NoError(t, err)

	_, err = s.CancelBooking(ctx, booking.ID, userA.ID)
	require.NoError(t, err)

	_, err = s.CancelBooking(ctx, booking.ID, userA.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	var got model.Booking
	require.NoError(t, db.First(&got, "id = ?", booking.ID).Error)
	assert.Equal(t, model.BookingCancelled, got.Status)
}

func TestCancelBooking_NotFound(t *testing.T) {
	s, db := newTestStore(t)
	_, userA, _ := seedSchedule(t, db, time.Hour)

	_, err := s.CancelBooking(context.Background(), "no-such-booking", userA.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlotReusableAfterCancel(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, userB := seedSchedule(t, db, 2*time.Hour)

	first, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "lecture")
	require.NoError(t, err)

	_, err = s.CancelBooking(ctx, first.ID, userA.ID)
	require.NoError(t, err)

	// The freed slot can be booked again, by a different user.
	second, err := s.CreateBooking(ctx, schedule.ID, userB.ID, "meeting")
	require.NoError(t, err)
	assert.Equal(t, userB.ID, second.UserID)

	var got model.RoomSchedule
	require.NoError(t, db.First(&got, "id = ?", schedule.ID).Error)
	assert.Equal(t, model.ScheduleReserved, got.Status)
}

func TestBookingReads(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()
	schedule, userA, userB := seedSchedule(t, db, 2*time.Hour)

	booking, err := s.CreateBooking(ctx, schedule.ID, userA.ID, "thesis defense")
	require.NoError(t, err)

	t.Run("by id round-trip", func(t *testing.T) {
		got, err := s.GetBookingByID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, schedule.ID, got.RoomScheduleID)
		assert.Equal(t, userA.ID, got.UserID)
		assert.Equal(t, "thesis defense", got.Purpose)
		assert.Equal(t, model.BookingCompleted, got.Status)
	})

	t.Run("by user with status filter", func(t *testing.T) {
		got, err := s.ListBookingsByUser(ctx, userA.ID, model.BookingCompleted)
		require.NoError(t, err)
		require.Len(t, got, 1)

		got, err = s.ListBookingsByUser(ctx, userA.ID, model.BookingCancelled)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = s.ListBookingsByUser(ctx, userB.ID, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("by date", func(t *testing.T) {
		got, err := s.ListBookingsByDate(ctx, schedule.StartTime)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, booking.ID, got[0].ID)

		got, err = s.ListBookingsByDate(ctx, schedule.StartTime.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("by room name", func(t *testing.T) {
		start := schedule.StartTime.Add(-time.Hour)
		end := schedule.StartTime.Add(time.Hour)

		got, err := s.ListBookingsByRoomName(ctx, "H1-101", start, end)
		require.NoError(t, err)
		require.Len(t, got, 1)

		got, err = s.ListBookingsByRoomName(ctx, "H6-999", start, end)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("all", func(t *testing.T) {
		got, err := s.ListAllBookings(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, userA.Email, got[0].User.Email)
	})
}
