package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BrianDuong3003/Room-Booking-System/internal/model"
)

// Store defines the interface for all database operations. One instance is
// created at process start and injected into the router and the notification
// worker; nothing else opens connections.
type Store interface {
	// DB exposes the underlying handle for callers that need ad-hoc reads,
	// such as the push-subscription handlers.
	DB() *gorm.DB

	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, userID, hashed string) error

	// Buildings
	CreateBuilding(ctx context.Context, building *model.Building) error
	ListBuildings(ctx context.Context) ([]model.Building, error)

	// Rooms
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoomByID(ctx context.Context, id string) (*model.Room, error)
	ListRooms(ctx context.Context, opts ListRoomsOptions) ([]model.Room, int64, error)
	SearchRooms(ctx context.Context, term string) ([]model.Room, error)
	UpdateRoom(ctx context.Context, id string, updates RoomUpdates) (*model.Room, error)
	DeleteRoom(ctx context.Context, id string) error

	// Schedules
	CreateSchedule(ctx context.Context, roomID string, start, end time.Time) (*model.RoomSchedule, error)
	GetScheduleByID(ctx context.Context, id string) (*model.RoomSchedule, error)
	ListSchedulesInRange(ctx context.Context, start, end time.Time) ([]model.RoomSchedule, error)
	ListSchedulesByRoomName(ctx context.Context, roomName string, start, end time.Time) ([]model.RoomSchedule, error)
	UpdateScheduleTimes(ctx context.Context, id string, start, end time.Time) (*model.RoomSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error

	// Booking coordinator
	CreateBooking(ctx context.Context, scheduleID, userID, purpose string) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID, requesterID string) (*CancelResult, error)
	GetBookingByID(ctx context.Context, id string) (*model.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string, status model.BookingStatus) ([]model.Booking, error)
	ListAllBookings(ctx context.Context) ([]model.Booking, error)
	ListBookingsByDate(ctx context.Context, day time.Time) ([]model.Booking, error)
	ListBookingsByRoomName(ctx context.Context, roomName string, start, end time.Time) ([]model.Booking, error)
}

// CancelResult carries the outcome of a cancellation. Booking is the updated
// row, or a synthetic representation keeping the original id when the row was
// deleted. FreedRoomID is set when the schedule went back to AVAILABLE, so
// the caller can notify watchers of that room.
type CancelResult struct {
	Booking     *model.Booking
	Deleted     bool
	FreedRoomID string
}

// ListRoomsOptions controls pagination and ordering of the room listing.
type ListRoomsOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// RoomUpdates holds the optional fields of a room update; nil means "leave
// unchanged".
type RoomUpdates struct {
	Name       *string
	Capacity   *int
	Floor      *int
	BuildingID *string
	Status     *model.RoomStatus
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}
