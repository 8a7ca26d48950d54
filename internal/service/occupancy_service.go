package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/KeshavDaBoss/smartparkv5/internal/config"
	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/hardware"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"

	"gopkg.in/guregu/null.v4"
)

const (
	SourceLocalPoll = "pi_local_poll"
)

// OccupancyService chuyển khoảng cách thành cờ occupied. Hai producer (poll local và
// batch remote) sở hữu hai tập slot tách biệt nên không có xung đột ưu tiên.
type OccupancyService struct {
	slotRepo     repository.SlotRepository
	eventLogRepo repository.SensorEventsLogRepository
	sensor       hardware.DistanceSensor
	indicators   *IndicatorService
	broadcaster  EventBroadcaster
	now          Clock

	localSlots  []string
	remoteSlots []string
	remoteLEDs  []string
	threshold   float64
}

func NewOccupancyService(
	slotRepo repository.SlotRepository,
	eventLogRepo repository.SensorEventsLogRepository,
	sensor hardware.DistanceSensor,
	indicators *IndicatorService,
	broadcaster EventBroadcaster,
	topology *config.Topology,
	threshold float64,
	now Clock,
) *OccupancyService {
	return &OccupancyService{
		slotRepo:     slotRepo,
		eventLogRepo: eventLogRepo,
		sensor:       sensor,
		indicators:   indicators,
		broadcaster:  broadcaster,
		now:          now,
		localSlots:   topology.LocalSlotIDs(),
		remoteSlots:  topology.RemoteSensors.Slots,
		remoteLEDs:   topology.RemoteSensors.LEDs,
		threshold:    threshold,
	}
}

// IsOccupied: gần hơn ngưỡng => có xe.
func (s *OccupancyService) IsOccupied(distance float64) bool {
	return distance < s.threshold
}

func (s *OccupancyService) apply(ctx context.Context, slotID string, distance float64, source string) error {
	occupied := s.IsOccupied(distance)
	at := s.now()
	changed, err := s.slotRepo.UpdateOccupancy(ctx, slotID, occupied, at, source)
	if err != nil {
		return err
	}
	if changed {
		status := domain.StatusFree
		if occupied {
			status = domain.StatusOccupied
		}
		broadcast(s.broadcaster, domain.SlotEvent{
			Type:      "occupancy",
			SlotID:    slotID,
			Status:    status,
			Source:    source,
			Timestamp: at.Unix(),
		})
	}
	return nil
}

// PollLocal đọc từng cảm biến local một lần. Lỗi/timeout được coi là "xa" (trống),
// không bao giờ làm dừng tick.
func (s *OccupancyService) PollLocal(ctx context.Context) {
	for _, slotID := range s.localSlots {
		distance, err := s.sensor.ReadDistance(ctx, slotID)
		if err != nil {
			if !errors.Is(err, hardware.ErrSensorTimeout) {
				log.Printf("OccupancyService: lỗi đọc cảm biến slot '%s': %v", slotID, err)
			}
			distance = hardware.FarAway
		}
		if math.IsNaN(distance) || distance < 0 {
			distance = hardware.FarAway
		}
		if err := s.apply(ctx, slotID, distance, SourceLocalPoll); err != nil {
			log.Printf("OccupancyService: lỗi cập nhật slot '%s': %v", slotID, err)
		}
	}
}

// IngestRemoteBatch áp dụng batch từ controller remote: phần tử thứ i <-> slot thứ i.
// Phần tử thừa hoặc giá trị không hợp lệ bị bỏ qua; slot thiếu dữ liệu giữ nguyên.
func (s *OccupancyService) IngestRemoteBatch(ctx context.Context, batch domain.SensorBatch) (*domain.SensorBatchResult, error) {
	result := &domain.SensorBatchResult{Status: "ok"}
	var notes []string

	for i, distance := range batch.Distances {
		if i >= len(s.remoteSlots) {
			result.Skipped++
			continue
		}
		slotID := s.remoteSlots[i]
		if math.IsNaN(distance) || math.IsInf(distance, 0) || distance < 0 {
			result.Skipped++
			notes = append(notes, fmt.Sprintf("index %d: khoảng cách không hợp lệ", i))
			continue
		}
		if err := s.apply(ctx, slotID, distance, batch.Source); err != nil {
			result.Skipped++
			notes = append(notes, fmt.Sprintf("index %d (%s): %v", i, slotID, err))
			continue
		}
		result.Applied++
	}
	if extra := len(batch.Distances) - len(s.remoteSlots); extra > 0 {
		notes = append(notes, fmt.Sprintf("bỏ qua %d giá trị thừa", extra))
	}

	s.logBatch(ctx, batch, result, notes)

	if s.indicators != nil {
		leds, err := s.indicators.ReservedToday(ctx, s.remoteLEDs)
		if err != nil {
			return nil, err
		}
		result.LEDs = leds
	}
	if result.LEDs == nil {
		result.LEDs = []bool{}
	}
	return result, nil
}

func (s *OccupancyService) logBatch(ctx context.Context, batch domain.SensorBatch, result *domain.SensorBatchResult, notes []string) {
	if s.eventLogRepo == nil {
		return
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		payload = nil
	}
	entry := &domain.SensorEventLog{
		ReceivedAt:      s.now().UTC(),
		Source:          batch.Source,
		Payload:         payload,
		ProcessedStatus: "processed",
	}
	if result.Skipped > 0 {
		entry.ProcessedStatus = "partial"
	}
	if len(notes) > 0 {
		entry.ProcessingNotes = null.StringFrom(fmt.Sprint(notes))
	}
	if err := s.eventLogRepo.Create(ctx, entry); err != nil {
		log.Printf("OccupancyService: lỗi ghi log batch cảm biến: %v", err)
	}
}

func (s *OccupancyService) RecentBatches(ctx context.Context, limit int) ([]domain.SensorEventLog, error) {
	if s.eventLogRepo == nil {
		return []domain.SensorEventLog{}, nil
	}
	return s.eventLogRepo.FindRecent(ctx, limit)
}
