package domain

import (
	"gopkg.in/guregu/null.v4"
)

type SlotStatus string

const (
	StatusFree     SlotStatus = "free"
	StatusOccupied SlotStatus = "occupied"
	StatusBooked   SlotStatus = "booked"
)

// Slot là một chỗ đỗ vật lý. Các cờ reserved chỉ được gán lúc khởi tạo registry,
// Occupied chỉ do occupancy ingestion cập nhật.
type Slot struct {
	ID                 string    `json:"id"` // Ví dụ: "M1-L1-S1"
	MallID             string    `json:"mall_id"`
	LevelID            int       `json:"level_id"`
	SlotNumber         int       `json:"slot_number"`
	IsReservedDisabled bool      `json:"is_reserved_disabled"`
	IsReservedElderly  bool      `json:"is_reserved_elderly"`
	Occupied           bool      `json:"occupied"`
	LastReadingAt      null.Time `json:"last_reading_at"`
	LastReadingSource  string    `json:"last_reading_source,omitempty"`
}

// PhysicalStatus là trạng thái cảm biến hiện tại (chỉ Occupied hoặc Free).
func (s Slot) PhysicalStatus() SlotStatus {
	if s.Occupied {
		return StatusOccupied
	}
	return StatusFree
}

// SlotView là kết quả resolve trạng thái của một slot cho một ngày.
type SlotView struct {
	ID                 string     `json:"id"`
	MallID             string     `json:"mall_id"`
	LevelID            int        `json:"level_id"`
	SlotNumber         int        `json:"slot_number"`
	Status             SlotStatus `json:"status"`
	IsMyBooking        bool       `json:"is_my_booking"`
	IsReservedDisabled bool       `json:"is_reserved_disabled"`
	IsReservedElderly  bool       `json:"is_reserved_elderly"`
}

// SlotEvent được đẩy qua WebSocket khi slot thay đổi.
type SlotEvent struct {
	Type      string     `json:"type"` // "occupancy" | "booked" | "cancelled"
	SlotID    string     `json:"slot_id"`
	Status    SlotStatus `json:"status,omitempty"`
	Date      *Date      `json:"date,omitempty"`
	Source    string     `json:"source,omitempty"`
	Timestamp int64      `json:"timestamp"`
}
