// Package hardware chứa driver cảm biến khoảng cách và đèn báo. Core không phân biệt
// backend mock hay thật.
package hardware

import (
	"context"
	"errors"
	"sync"
	"time"
)

// FarAway là khoảng cách giả định khi không đọc được cảm biến (coi như trống).
const FarAway = 999.0

var ErrSensorTimeout = errors.New("đọc cảm biến quá thời gian")

type DistanceSensor interface {
	ReadDistance(ctx context.Context, slotID string) (float64, error)
}

// MockSensor trả về khoảng cách đặt sẵn cho từng slot, mặc định là Default.
type MockSensor struct {
	mu        sync.RWMutex
	Default   float64
	distances map[string]float64
}

func NewMockSensor(defaultDistance float64) *MockSensor {
	return &MockSensor{Default: defaultDistance, distances: make(map[string]float64)}
}

func (m *MockSensor) Set(slotID string, distance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.distances[slotID] = distance
}

func (m *MockSensor) ReadDistance(ctx context.Context, slotID string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.distances[slotID]; ok {
		return d, nil
	}
	return m.Default, nil
}

type timeoutSensor struct {
	inner   DistanceSensor
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]bool // slot đang có lần đọc chưa trả về
}

// WithTimeout bọc sensor để mỗi lần đọc không vượt quá timeout, kể cả khi driver
// bên trong bỏ qua context. Mỗi slot có tối đa một lần đọc đang chạy: nếu lần trước
// vẫn kẹt trong driver thì lần này trả ngay FarAway, ErrSensorTimeout thay vì tạo thêm goroutine.
func WithTimeout(inner DistanceSensor, timeout time.Duration) DistanceSensor {
	return &timeoutSensor{inner: inner, timeout: timeout, pending: make(map[string]bool)}
}

type reading struct {
	distance float64
	err      error
}

func (s *timeoutSensor) ReadDistance(ctx context.Context, slotID string) (float64, error) {
	s.mu.Lock()
	if s.pending[slotID] {
		s.mu.Unlock()
		return FarAway, ErrSensorTimeout
	}
	s.pending[slotID] = true
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ch := make(chan reading, 1) // buffered: goroutine không bị kẹt nếu đã timeout
	go func() {
		d, err := s.inner.ReadDistance(ctx, slotID)
		s.mu.Lock()
		delete(s.pending, slotID)
		s.mu.Unlock()
		ch <- reading{distance: d, err: err}
	}()

	select {
	case r := <-ch:
		if errors.Is(r.err, context.DeadlineExceeded) {
			return FarAway, ErrSensorTimeout
		}
		return r.distance, r.err
	case <-ctx.Done():
		return FarAway, ErrSensorTimeout
	}
}
