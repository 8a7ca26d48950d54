package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateEntry = errors.New("bản ghi đã tồn tại")

// SlotRepository là registry các slot: topology cố định + cờ occupancy sống.
type SlotRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Slot, error)
	FindAll(ctx context.Context) ([]domain.Slot, error)
	// UpdateOccupancy trả về changed=true nếu cờ occupied thực sự đổi.
	UpdateOccupancy(ctx context.Context, id string, occupied bool, readingAt time.Time, source string) (bool, error)
}

// ReservationRepository là ledger các booking theo ngày. (slot, ngày) là duy nhất.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	FindBySlotAndDate(ctx context.Context, slotID string, date domain.Date) (*domain.Reservation, error)
	FindByDate(ctx context.Context, date domain.Date) ([]domain.Reservation, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Reservation, error)
	Delete(ctx context.Context, slotID, userID string, date domain.Date) (*domain.Reservation, error)
	// DeleteEarliest xóa booking có ngày sớm nhất của user trên slot.
	DeleteEarliest(ctx context.Context, slotID, userID string) (*domain.Reservation, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type SensorEventsLogRepository interface {
	Create(ctx context.Context, event *domain.SensorEventLog) error
	FindRecent(ctx context.Context, limit int) ([]domain.SensorEventLog, error)
}
