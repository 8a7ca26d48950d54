package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/config"
	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"

	"gopkg.in/guregu/null.v4"
)

type slotRegistry struct {
	mu    sync.RWMutex
	order []string
	slots map[string]*domain.Slot
}

// NewSlotRegistry tạo registry từ topology; thứ tự FindAll giữ đúng thứ tự cấu hình.
func NewSlotRegistry(slots []config.SlotConfig) repository.SlotRepository {
	r := &slotRegistry{
		order: make([]string, 0, len(slots)),
		slots: make(map[string]*domain.Slot, len(slots)),
	}
	for _, sc := range slots {
		r.order = append(r.order, sc.ID)
		r.slots[sc.ID] = &domain.Slot{
			ID:                 sc.ID,
			MallID:             sc.Mall,
			LevelID:            sc.Level,
			SlotNumber:         sc.Number,
			IsReservedDisabled: sc.ReservedDisabled,
			IsReservedElderly:  sc.ReservedElderly,
		}
	}
	return r
}

func (r *slotRegistry) FindByID(ctx context.Context, id string) (*domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, fmt.Errorf("%w: slot '%s'", repository.ErrNotFound, id)
	}
	cp := *s
	return &cp, nil
}

func (r *slotRegistry) FindAll(ctx context.Context) ([]domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Slot, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.slots[id])
	}
	return out, nil
}

func (r *slotRegistry) UpdateOccupancy(ctx context.Context, id string, occupied bool, readingAt time.Time, source string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[id]
	if !ok {
		return false, fmt.Errorf("%w: slot '%s'", repository.ErrNotFound, id)
	}
	changed := s.Occupied != occupied
	s.Occupied = occupied
	s.LastReadingAt = null.TimeFrom(readingAt.UTC())
	s.LastReadingSource = source
	return changed, nil
}
