package service

import "github.com/KeshavDaBoss/smartparkv5/internal/domain"

// ResolveSlot tính trạng thái hiển thị của slot cho queryDate. Hàm thuần, không đổi state.
//
// Cảm biến chỉ có nghĩa cho hôm nay; ngày khác mặc định Free. Booking luôn phủ lên
// trạng thái vật lý (kể cả khi xe đang đỗ) => Booked.
func ResolveSlot(slot domain.Slot, booking *domain.Reservation, queryDate, today domain.Date, userID string) domain.SlotView {
	status := domain.StatusFree
	if queryDate == today {
		status = slot.PhysicalStatus()
	}

	bookedByMe := false
	if booking != nil {
		status = domain.StatusBooked
		bookedByMe = userID != "" && booking.UserID == userID
	}

	return domain.SlotView{
		ID:                 slot.ID,
		MallID:             slot.MallID,
		LevelID:            slot.LevelID,
		SlotNumber:         slot.SlotNumber,
		Status:             status,
		IsMyBooking:        bookedByMe,
		IsReservedDisabled: slot.IsReservedDisabled,
		IsReservedElderly:  slot.IsReservedElderly,
	}
}
