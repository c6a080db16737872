package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

// bookingPreloads attaches the user summary and the schedule/room/building
// chain that every booking response carries.
func bookingPreloads(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("RoomSchedule").
		Preload("RoomSchedule.Room").
		Preload("RoomSchedule.Room.Building")
}

// CreateBooking reserves a schedule for a user. The availability check, the
// booking insert and the schedule status flip run in one transaction; the
// partial unique index on active bookings backs the check below serializable
// isolation, so of two concurrent calls on the same schedule exactly one
// commits and the other surfaces ErrConflict.
func (s *gormStore) CreateBooking(ctx context.Context, scheduleID, userID, purpose string) (*model.Booking, error) {
	var created model.Booking

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var schedule model.RoomSchedule
		if err := tx.First(&schedule, "id = ?", scheduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load schedule %s: %w", scheduleID, err)
		}

		if schedule.StartTime.Before(time.Now()) {
			return ErrPastSchedule
		}

		var active int64
		if err := tx.Model(&model.Booking{}).
			Where("room_schedule_id = ? AND status <> ?", scheduleID, model.BookingCancelled).
			Count(&active).Error; err != nil {
			return fmt.Errorf("count active bookings for schedule %s: %w", scheduleID, err)
		}
		if active > 0 {
			return ErrConflict
		}

		created = model.Booking{
			RoomScheduleID: scheduleID,
			UserID:         userID,
			Purpose:        purpose,
			Status:         model.BookingCompleted,
		}
		if err := tx.Create(&created).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// The unique index caught a racing create.
				return ErrConflict
			}
			return fmt.Errorf("insert booking for schedule %s: %w", scheduleID, err)
		}

		if err := tx.Model(&model.RoomSchedule{}).
			Where("id = ?", scheduleID).
			Update("status", model.ScheduleReserved).Error; err != nil {
			return fmt.Errorf("reserve schedule %s: %w", scheduleID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBookingByID(ctx, created.ID)
}

// CancelBooking terminates a booking owned by the requester. A booking whose
// slot has fully elapsed is deleted outright; one that is still upcoming is
// moved to CANCELLED behind a compare-and-swap on the version read in this
// transaction. The schedule is returned to AVAILABLE only when no active
// booking remains against it at commit.
func (s *gormStore) CancelBooking(ctx context.Context, bookingID, requesterID string) (*CancelResult, error) {
	var result CancelResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking model.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load booking %s: %w", bookingID, err)
		}

		if booking.UserID != requesterID {
			return ErrForbidden
		}
		if booking.Status == model.BookingCancelled {
			return ErrAlreadyCancelled
		}

		var schedule model.RoomSchedule
		if err := tx.First(&schedule, "id = ?", booking.RoomScheduleID).Error; err != nil {
			return fmt.Errorf("load schedule %s: %w", booking.RoomScheduleID, err)
		}

		now := time.Now()
		if booking.Status == model.BookingCompleted && schedule.EndTime.Before(now) {
			// The slot has fully elapsed; there is nothing worth keeping, so
			// the row is removed instead of being marked CANCELLED.
			if err := tx.Delete(&model.Booking{}, "id = ?", booking.ID).Error; err != nil {
				return fmt.Errorf("delete booking %s: %w", booking.ID, err)
			}
			result.Deleted = true
			result.Booking = &booking
		} else {
			res := tx.Model(&model.Booking{}).
				Where("id = ? AND version = ?", booking.ID, booking.Version).
				Updates(map[string]any{
					"status":  model.BookingCancelled,
					"version": booking.Version + 1,
				})
			if res.Error != nil {
				return fmt.Errorf("cancel booking %s: %w", booking.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				// Someone mutated the booking since we read it.
				return ErrConflict
			}
			booking.Status = model.BookingCancelled
			booking.Version++
			result.Booking = &booking
		}

		var remaining int64
		if err := tx.Model(&model.Booking{}).
			Where("room_schedule_id = ? AND id <> ? AND status <> ?",
				booking.RoomScheduleID, booking.ID, model.BookingCancelled).
			Count(&remaining).Error; err != nil {
			return fmt.Errorf("count remaining bookings for schedule %s: %w", booking.RoomScheduleID, err)
		}

		if remaining == 0 {
			if err := tx.Model(&model.RoomSchedule{}).
				Where("id = ?", booking.RoomScheduleID).
				Update("status", model.ScheduleAvailable).Error; err != nil {
				return fmt.Errorf("release schedule %s: %w", booking.RoomScheduleID, err)
			}
			result.FreedRoomID = schedule.RoomID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Deleted {
		full, err := s.GetBookingByID(ctx, result.Booking.ID)
		if err == nil {
			result.Booking = full
		}
	}
	return &result, nil
}

// GetBookingByID returns one booking with its user, schedule, room and
// building joined for display.
func (s *gormStore) GetBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := bookingPreloads(s.db.WithContext(ctx)).First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load booking %s: %w", id, err)
	}
	return &booking, nil
}

// ListBookingsByUser returns a user's bookings, newest first. A non-empty
// status narrows the result.
func (s *gormStore) ListBookingsByUser(ctx context.Context, userID string, status model.BookingStatus) ([]model.Booking, error) {
	q := bookingPreloads(s.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}

// ListAllBookings returns every booking, newest first.
func (s *gormStore) ListAllBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	err := bookingPreloads(s.db.WithContext(ctx)).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list all bookings: %w", err)
	}
	return bookings, nil
}

// ListBookingsByDate returns the bookings whose schedule starts on the given
// day.
func (s *gormStore) ListBookingsByDate(ctx context.Context, day time.Time) ([]model.Booking, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	var bookings []model.Booking
	err := bookingPreloads(s.db.WithContext(ctx)).
		Joins("JOIN room_schedules rs ON rs.id = bookings.room_schedule_id").
		Where("rs.start_time BETWEEN ? AND ?", start, end).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings on %s: %w", day.Format("2006-01-02"), err)
	}
	return bookings, nil
}

// ListBookingsByRoomName returns the bookings of a room within a time range.
func (s *gormStore) ListBookingsByRoomName(ctx context.Context, roomName string, start, end time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := bookingPreloads(s.db.WithContext(ctx)).
		Joins("JOIN room_schedules rs ON rs.id = bookings.room_schedule_id").
		Joins("JOIN rooms r ON r.id = rs.room_id").
		Where("r.name = ? AND rs.start_time BETWEEN ? AND ?", roomName, start, end).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings for room %q: %w", roomName, err)
	}
	return bookings, nil
}
