package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"

	"github.com/google/uuid"
)

type slotDateKey struct {
	slotID string
	date   domain.Date
}

// reservationLedger giữ booking theo thứ tự insert, index theo (slot, ngày).
type reservationLedger struct {
	mu      sync.RWMutex
	records []domain.Reservation
	index   map[slotDateKey]int
	now     func() time.Time
}

func NewReservationLedger() repository.ReservationRepository {
	return &reservationLedger{
		index: make(map[slotDateKey]int),
		now:   time.Now,
	}
}

func (l *reservationLedger) Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := slotDateKey{slotID: r.SlotID, date: r.BookingDate}
	if _, exists := l.index[key]; exists {
		return nil, fmt.Errorf("%w: slot '%s' đã được đặt cho ngày %s", repository.ErrDuplicateEntry, r.SlotID, r.BookingDate)
	}

	rec := *r
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = l.now().UTC()
	}
	l.records = append(l.records, rec)
	l.index[key] = len(l.records) - 1
	return &rec, nil
}

func (l *reservationLedger) FindBySlotAndDate(ctx context.Context, slotID string, date domain.Date) (*domain.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[slotDateKey{slotID: slotID, date: date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rec := l.records[i]
	return &rec, nil
}

func (l *reservationLedger) FindByDate(ctx context.Context, date domain.Date) ([]domain.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.Reservation
	for _, rec := range l.records {
		if rec.BookingDate == date {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (l *reservationLedger) FindByUser(ctx context.Context, userID string) ([]domain.Reservation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []domain.Reservation
	for _, rec := range l.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BookingDate != out[j].BookingDate {
			return out[i].BookingDate.Before(out[j].BookingDate)
		}
		return out[i].SlotID < out[j].SlotID
	})
	return out, nil
}

func (l *reservationLedger) Delete(ctx context.Context, slotID, userID string, date domain.Date) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, ok := l.index[slotDateKey{slotID: slotID, date: date}]
	if !ok || l.records[i].UserID != userID {
		return nil, repository.ErrNotFound
	}
	return l.removeAt(i), nil
}

func (l *reservationLedger) DeleteEarliest(ctx context.Context, slotID, userID string) (*domain.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := -1
	for i, rec := range l.records {
		if rec.SlotID != slotID || rec.UserID != userID {
			continue
		}
		if found < 0 || rec.BookingDate.Before(l.records[found].BookingDate) {
			found = i
		}
	}
	if found < 0 {
		return nil, repository.ErrNotFound
	}
	return l.removeAt(found), nil
}

// removeAt phải được gọi khi đang giữ lock ghi.
func (l *reservationLedger) removeAt(i int) *domain.Reservation {
	rec := l.records[i]
	l.records = append(l.records[:i], l.records[i+1:]...)
	delete(l.index, slotDateKey{slotID: rec.SlotID, date: rec.BookingDate})
	for j := i; j < len(l.records); j++ {
		l.index[slotDateKey{slotID: l.records[j].SlotID, date: l.records[j].BookingDate}] = j
	}
	return &rec
}
