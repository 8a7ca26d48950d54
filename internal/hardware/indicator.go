package hardware

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/google/uuid"
)

// Indicator điều khiển đèn báo của slot. Best-effort: không trả lỗi, slot không có
// đèn thì bỏ qua.
type Indicator interface {
	SetIndicator(ctx context.Context, slotID string, active bool)
}

// MockIndicator chỉ ghi nhớ trạng thái cho các slot có đèn.
type MockIndicator struct {
	mu     sync.Mutex
	pins   map[string]int
	states map[string]bool
}

func NewMockIndicator(ledPins map[string]int) *MockIndicator {
	return &MockIndicator{pins: ledPins, states: make(map[string]bool)}
}

func (m *MockIndicator) SetIndicator(ctx context.Context, slotID string, active bool) {
	if _, ok := m.pins[slotID]; !ok {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.states[slotID]; !ok || prev != active {
		log.Printf("[MOCK] LED %s (pin %d) -> %v", slotID, m.pins[slotID], active)
	}
	m.states[slotID] = active
}

func (m *MockIndicator) State(slotID string) (active bool, known bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active, known = m.states[slotID]
	return
}

// Publisher là phần của iotdataplane.Client mà IoTIndicator cần.
type Publisher interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// IoTIndicator gửi lệnh bật/tắt đèn qua AWS IoT (MQTT) tới controller.
//
// Mỗi slot có lock riêng, giữ suốt lúc Publish, nên lệnh của cùng một slot luôn tới broker theo
// đúng thứ tự gọi. Trạng thái chỉ được ghi nhớ sau khi publish thành công. Lệnh trùng trạng thái
// được bỏ qua, nhưng sau resendAfter thì gửi lại để controller vừa khởi động lại cũng bắt kịp.
type IoTIndicator struct {
	client      Publisher
	topicPrefix string
	slots       map[string]*iotSlotState // chỉ đọc sau khi khởi tạo
	resendAfter time.Duration
	now         func() time.Time
}

type iotSlotState struct {
	mu     sync.Mutex
	known  bool
	active bool
	sentAt time.Time
}

const DefaultIndicatorResend = 30 * time.Second

func NewIoTIndicator(client Publisher, topicPrefix string, slotIDs []string) *IoTIndicator {
	slots := make(map[string]*iotSlotState, len(slotIDs))
	for _, id := range slotIDs {
		slots[id] = &iotSlotState{}
	}
	return &IoTIndicator{
		client:      client,
		topicPrefix: topicPrefix,
		slots:       slots,
		resendAfter: DefaultIndicatorResend,
		now:         time.Now,
	}
}

// WithResendInterval đặt chu kỳ gửi lại trạng thái không đổi. d <= 0 nghĩa là gửi mỗi lần gọi.
func (i *IoTIndicator) WithResendInterval(d time.Duration) *IoTIndicator {
	i.resendAfter = d
	return i
}

// WithClock dùng trong test.
func (i *IoTIndicator) WithClock(now func() time.Time) *IoTIndicator {
	i.now = now
	return i
}

func (i *IoTIndicator) SetIndicator(ctx context.Context, slotID string, active bool) {
	st, ok := i.slots[slotID]
	if !ok {
		return
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.known && st.active == active && i.now().Sub(st.sentAt) < i.resendAfter {
		return
	}

	command := "off"
	if active {
		command = "on"
	}
	payload := domain.IndicatorCommandPayload{
		SlotID:    slotID,
		Command:   command,
		RequestID: uuid.New().String(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		log.Printf("IoTIndicator: lỗi marshal payload lệnh đèn: %v", err)
		return
	}

	topic := fmt.Sprintf("%s/%s", i.topicPrefix, slotID)
	_, err = i.client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     1,
		Payload: payloadBytes,
	})
	if err != nil {
		log.Printf("IoTIndicator: lỗi publish lệnh '%s' tới topic %s: %v", command, topic, err)
		st.known = false
		return
	}
	st.known = true
	st.active = active
	st.sentAt = i.now()
}
