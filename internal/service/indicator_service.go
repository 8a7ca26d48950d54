package service

import (
	"context"
	"fmt"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/hardware"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
)

// IndicatorService chiếu ledger + registry thành lệnh đèn. Không lưu state nên
// gọi Refresh bao nhiêu lần cũng được.
type IndicatorService struct {
	slotRepo        repository.SlotRepository
	reservationRepo repository.ReservationRepository
	indicator       hardware.Indicator
	now             Clock
}

func NewIndicatorService(
	slotRepo repository.SlotRepository,
	reservationRepo repository.ReservationRepository,
	indicator hardware.Indicator,
	now Clock,
) *IndicatorService {
	return &IndicatorService{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		indicator:       indicator,
		now:             now,
	}
}

func (s *IndicatorService) bookedToday(ctx context.Context) (map[string]bool, error) {
	today := domain.DateOf(s.now())
	bookings, err := s.reservationRepo.FindByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy booking hôm nay: %w", err)
	}
	booked := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		booked[b.SlotID] = true
	}
	return booked, nil
}

// Refresh bật đèn cho slot có booking hôm nay, tắt cho các slot còn lại.
// Lệnh tới driver được gửi sau khi đã lấy snapshot, không giữ lock nào.
func (s *IndicatorService) Refresh(ctx context.Context) ([]domain.IndicatorState, error) {
	booked, err := s.bookedToday(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := s.slotRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy danh sách slot: %w", err)
	}

	states := make([]domain.IndicatorState, 0, len(slots))
	for _, slot := range slots {
		active := booked[slot.ID]
		s.indicator.SetIndicator(ctx, slot.ID, active)
		states = append(states, domain.IndicatorState{SlotID: slot.ID, Active: active})
	}
	return states, nil
}

// ReservedToday trả về trạng thái reserved-today theo đúng thứ tự slotIDs.
func (s *IndicatorService) ReservedToday(ctx context.Context, slotIDs []string) ([]bool, error) {
	booked, err := s.bookedToday(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(slotIDs))
	for i, id := range slotIDs {
		out[i] = booked[id]
	}
	return out, nil
}
