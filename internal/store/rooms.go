package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

func (s *gormStore) CreateBuilding(ctx context.Context, building *model.Building) error {
	if err := s.db.WithContext(ctx).Create(building).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return fmt.Errorf("create building %s: %w", building.Name, err)
	}
	return nil
}

func (s *gormStore) ListBuildings(ctx context.Context) ([]model.Building, error) {
	var buildings []model.Building
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&buildings).Error; err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	var building model.Building
	if err := s.db.WithContext(ctx).First(&building, "id = ?", room.BuildingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load building %s: %w", room.BuildingID, err)
	}
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("create room %s: %w", room.Name, err)
	}
	return nil
}

func (s *gormStore) GetRoomByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).Preload("Building").First(&room, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load room %s: %w", id, err)
	}
	return &room, nil
}

// roomSortColumns whitelists the fields the listing can be ordered by.
var roomSortColumns = map[string]string{
	"name":     "name",
	"capacity": "capacity",
	"floor":    "floor",
}

func (s *gormStore) ListRooms(ctx context.Context, opts ListRoomsOptions) ([]model.Room, int64, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	col, ok := roomSortColumns[opts.SortBy]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if opts.SortOrder == "desc" {
		dir = "DESC"
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&model.Room{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count rooms: %w", err)
	}

	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Preload("Building").
		Order(col + " " + dir).
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&rooms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, total, nil
}

func (s *gormStore) SearchRooms(ctx context.Context, term string) ([]model.Room, error) {
	var rooms []model.Room
	err := s.db.WithContext(ctx).
		Preload("Building").
		Where("name LIKE ?", "%"+term+"%").
		Order("name ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("search rooms for %q: %w", term, err)
	}
	return rooms, nil
}

func (s *gormStore) UpdateRoom(ctx context.Context, id string, updates RoomUpdates) (*model.Room, error) {
	fields := map[string]any{}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Capacity != nil {
		fields["capacity"] = *updates.Capacity
	}
	if updates.Floor != nil {
		fields["floor"] = *updates.Floor
	}
	if updates.BuildingID != nil {
		fields["building_id"] = *updates.BuildingID
	}
	if updates.Status != nil {
		fields["status"] = *updates.Status
	}

	if len(fields) > 0 {
		res := s.db.WithContext(ctx).Model(&model.Room{}).
			Where("id = ?", id).
			Updates(fields)
		if res.Error != nil {
			return nil, fmt.Errorf("update room %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetRoomByID(ctx, id)
}

func (s *gormStore) DeleteRoom(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Room{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete room %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
