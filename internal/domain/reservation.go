package domain

import "time"

// Reservation gắn một slot với một user cho đúng một ngày. Không sửa tại chỗ:
// muốn đổi thì cancel rồi book lại.
type Reservation struct {
	ID          string    `json:"id"`
	SlotID      string    `json:"slot_id"`
	UserID      string    `json:"user_id"`
	BookingDate Date      `json:"booking_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type BookingRequestDTO struct {
	SlotID      string `json:"slot_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	BookingDate string `json:"booking_date" binding:"required"` // "DDMMYYYY"
}

type CancelRequestDTO struct {
	SlotID string `json:"slot_id"`
	UserID string `json:"user_id"`
	Date   string `json:"date,omitempty"` // Tùy chọn
}
