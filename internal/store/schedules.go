package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

func (s *gormStore) CreateSchedule(ctx context.Context, roomID string, start, end time.Time) (*model.RoomSchedule, error) {
	if !end.After(start) {
		return nil, ErrInvalidInput
	}

	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load room %s: %w", roomID, err)
	}

	schedule := model.RoomSchedule{
		RoomID:    roomID,
		StartTime: start,
		EndTime:   end,
		Status:    model.ScheduleAvailable,
	}
	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("create schedule for room %s: %w", roomID, err)
	}
	return s.GetScheduleByID(ctx, schedule.ID)
}

func (s *gormStore) GetScheduleByID(ctx context.Context, id string) (*model.RoomSchedule, error) {
	var schedule model.RoomSchedule
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.Building").
		First(&schedule, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load schedule %s: %w", id, err)
	}
	return &schedule, nil
}

func (s *gormStore) ListSchedulesInRange(ctx context.Context, start, end time.Time) ([]model.RoomSchedule, error) {
	var schedules []model.RoomSchedule
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.Building").
		Where("start_time >= ? AND end_time <= ?", start, end).
		Order("start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("list schedules in range: %w", err)
	}
	return schedules, nil
}

func (s *gormStore) ListSchedulesByRoomName(ctx context.Context, roomName string, start, end time.Time) ([]model.RoomSchedule, error) {
	var schedules []model.RoomSchedule
	err := s.db.WithContext(ctx).
		Preload("Room").
		Preload("Room.Building").
		Joins("JOIN rooms r ON r.id = room_schedules.room_id").
		Where("r.name = ? AND room_schedules.start_time BETWEEN ? AND ?", roomName, start, end).
		Order("room_schedules.start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("list schedules for room %q: %w", roomName, err)
	}
	return schedules, nil
}

func (s *gormStore) UpdateScheduleTimes(ctx context.Context, id string, start, end time.Time) (*model.RoomSchedule, error) {
	if !end.After(start) {
		return nil, ErrInvalidInput
	}

	res := s.db.WithContext(ctx).Model(&model.RoomSchedule{}).
		Where("id = ?", id).
		Updates(map[string]any{"start_time": start, "end_time": end})
	if res.Error != nil {
		return nil, fmt.Errorf("update schedule %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetScheduleByID(ctx, id)
}

func (s *gormStore) DeleteSchedule(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.RoomSchedule{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete schedule %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
