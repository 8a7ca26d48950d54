package domain

import (
	"encoding/json"
	"time"

	"gopkg.in/guregu/null.v4"
)

// SensorBatch là payload ESP32 (hoặc SQS) gửi lên: khoảng cách theo thứ tự slot.
type SensorBatch struct {
	Distances []float64 `json:"distances" binding:"required"`
	Source    string    `json:"source"` // "esp32_mall2" hoặc "pi_mall1"
}

// SensorBatchResult trả về cho thiết bị: ack và trạng thái LED của chính controller đó.
type SensorBatchResult struct {
	Status  string `json:"status"`
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped"`
	LEDs    []bool `json:"leds"`
}

// IndicatorState là quyết định bật/tắt đèn cho một slot.
type IndicatorState struct {
	SlotID string `json:"slot_id"`
	Active bool   `json:"active"`
}

// --- Lệnh gửi từ backend -> controller ---
type IndicatorCommandPayload struct {
	SlotID    string `json:"slot_id"`
	Command   string `json:"command"` // "on" hoặc "off"
	RequestID string `json:"request_id,omitempty"`
}

// SensorEventLog lưu lại mỗi batch nhận được.
type SensorEventLog struct {
	ID              int64           `json:"id"`
	ReceivedAt      time.Time       `json:"received_at"`
	Source          string          `json:"source"`
	Payload         json.RawMessage `json:"payload"`
	ProcessedStatus string          `json:"processed_status"` // "processed", "partial", "error"
	ProcessingNotes null.String     `json:"processing_notes"`
}
