package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
)

var ErrEligibilityDenied = errors.New("slot này dành riêng cho nhóm người dùng khác")
var ErrInvalidInput = errors.New("dữ liệu đầu vào không hợp lệ")

type ReservationService struct {
	slotRepo        repository.SlotRepository
	reservationRepo repository.ReservationRepository
	userRepo        repository.UserRepository
	indicators      *IndicatorService
	broadcaster     EventBroadcaster
	now             Clock
}

func NewReservationService(
	slotRepo repository.SlotRepository,
	reservationRepo repository.ReservationRepository,
	userRepo repository.UserRepository,
	indicators *IndicatorService,
	broadcaster EventBroadcaster,
	now Clock,
) *ReservationService {
	return &ReservationService{
		slotRepo:        slotRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		indicators:      indicators,
		broadcaster:     broadcaster,
		now:             now,
	}
}

func (s *ReservationService) today() domain.Date {
	return domain.DateOf(s.now())
}

// CheckEligibility: slot dành cho người khuyết tật/người già chỉ user có cờ tương ứng mới đặt được.
func CheckEligibility(slot *domain.Slot, user *domain.User) error {
	if slot.IsReservedDisabled && !user.IsDisabled {
		return fmt.Errorf("%w: Reserved for Disabled usage", ErrEligibilityDenied)
	}
	if slot.IsReservedElderly && !user.IsElderly {
		return fmt.Errorf("%w: Reserved for Elderly usage", ErrEligibilityDenied)
	}
	return nil
}

// Book tạo booking cho (slot, user, ngày). Không đụng tới cờ occupancy của slot.
func (s *ReservationService) Book(ctx context.Context, slotID, userID string, date domain.Date) (*domain.Reservation, error) {
	slot, err := s.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s'", repository.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("lỗi khi tìm người dùng: %w", err)
	}
	if err := CheckEligibility(slot, user); err != nil {
		return nil, err
	}

	booking, err := s.reservationRepo.Create(ctx, &domain.Reservation{
		SlotID:      slot.ID,
		UserID:      user.ID,
		BookingDate: date,
	})
	if err != nil {
		return nil, err
	}
	log.Printf("ReservationService: user '%s' đã đặt slot '%s' cho ngày %s (id %s)", user.ID, slot.ID, date, booking.ID)

	if date == s.today() {
		s.refreshIndicators(ctx)
	}
	d := booking.BookingDate
	broadcast(s.broadcaster, domain.SlotEvent{
		Type:      "booked",
		SlotID:    slot.ID,
		Status:    domain.StatusBooked,
		Date:      &d,
		Timestamp: s.now().Unix(),
	})
	return booking, nil
}

// Cancel xóa booking. Có date thì khớp chính xác (slot, user, date); không có date
// thì xóa booking có ngày sớm nhất của user trên slot đó.
func (s *ReservationService) Cancel(ctx context.Context, slotID, userID string, date *domain.Date) (*domain.Reservation, error) {
	if slotID == "" || userID == "" {
		return nil, fmt.Errorf("%w: thiếu slot_id hoặc user_id", ErrInvalidInput)
	}

	var (
		removed *domain.Reservation
		err     error
	)
	if date != nil {
		removed, err = s.reservationRepo.Delete(ctx, slotID, userID, *date)
	} else {
		removed, err = s.reservationRepo.DeleteEarliest(ctx, slotID, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: không có booking để hủy cho slot '%s'", repository.ErrNotFound, slotID)
		}
		return nil, err
	}
	log.Printf("ReservationService: user '%s' đã hủy slot '%s' ngày %s", userID, slotID, removed.BookingDate)

	if removed.BookingDate == s.today() {
		s.refreshIndicators(ctx)
	}
	d := removed.BookingDate
	broadcast(s.broadcaster, domain.SlotEvent{
		Type:      "cancelled",
		SlotID:    slotID,
		Date:      &d,
		Timestamp: s.now().Unix(),
	})
	return removed, nil
}

func (s *ReservationService) refreshIndicators(ctx context.Context) {
	if s.indicators == nil {
		return
	}
	if _, err := s.indicators.Refresh(ctx); err != nil {
		log.Printf("ReservationService: lỗi refresh đèn sau khi đổi booking: %v", err)
	}
}

// FindForDate trả về booking của slot cho ngày đó, nil nếu không có.
func (s *ReservationService) FindForDate(ctx context.Context, slotID string, date domain.Date) (*domain.Reservation, error) {
	booking, err := s.reservationRepo.FindBySlotAndDate(ctx, slotID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

func (s *ReservationService) IsReservedToday(ctx context.Context, slotID string) (bool, error) {
	booking, err := s.FindForDate(ctx, slotID, s.today())
	if err != nil {
		return false, err
	}
	return booking != nil, nil
}

// ResolveSlot trả về trạng thái của một slot cho queryDate.
func (s *ReservationService) ResolveSlot(ctx context.Context, slotID string, queryDate domain.Date, userID string) (*domain.SlotView, error) {
	slot, err := s.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	booking, err := s.FindForDate(ctx, slotID, queryDate)
	if err != nil {
		return nil, err
	}
	view := ResolveSlot(*slot, booking, queryDate, s.today(), userID)
	return &view, nil
}

// ListSlots resolve toàn bộ slot (hoặc một mall) cho một ngày. Booking của ngày được
// lấy một lần để mọi slot trong danh sách nhìn cùng một snapshot.
func (s *ReservationService) ListSlots(ctx context.Context, queryDate domain.Date, userID, mallID string) ([]domain.SlotView, error) {
	bookings, err := s.reservationRepo.FindByDate(ctx, queryDate)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy booking theo ngày: %w", err)
	}
	bySlot := make(map[string]*domain.Reservation, len(bookings))
	for i := range bookings {
		bySlot[bookings[i].SlotID] = &bookings[i]
	}

	slots, err := s.slotRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("lỗi lấy danh sách slot: %w", err)
	}

	today := s.today()
	views := make([]domain.SlotView, 0, len(slots))
	for _, slot := range slots {
		if mallID != "" && slot.MallID != mallID {
			continue
		}
		views = append(views, ResolveSlot(slot, bySlot[slot.ID], queryDate, today, userID))
	}
	return views, nil
}

func (s *ReservationService) ListUserReservations(ctx context.Context, userID string) ([]domain.Reservation, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user '%s'", repository.ErrNotFound, userID)
		}
		return nil, err
	}
	return s.reservationRepo.FindByUser(ctx, userID)
}
