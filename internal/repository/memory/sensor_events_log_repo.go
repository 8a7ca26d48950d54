package memory

import (
	"context"
	"sync"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
)

// sensorEventsLog là ring buffer; bản ghi cũ nhất bị ghi đè khi đầy.
type sensorEventsLog struct {
	mu     sync.Mutex
	buf    []domain.SensorEventLog
	next   int
	full   bool
	nextID int64
}

func NewSensorEventsLogRepository(capacity int) repository.SensorEventsLogRepository {
	if capacity <= 0 {
		capacity = 256
	}
	return &sensorEventsLog{buf: make([]domain.SensorEventLog, capacity)}
}

func (r *sensorEventsLog) Create(ctx context.Context, event *domain.SensorEventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	event.ID = r.nextID
	r.buf[r.next] = *event
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

// FindRecent trả về tối đa limit bản ghi, mới nhất trước.
func (r *sensorEventsLog) FindRecent(ctx context.Context, limit int) ([]domain.SensorEventLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.next
	if r.full {
		n = len(r.buf)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.SensorEventLog, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (r.next - 1 - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out, nil
}
