package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/config"
	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/hardware"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository"
	"github.com/KeshavDaBoss/smartparkv5/internal/repository/memory"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"

	"golang.org/x/crypto/bcrypt"
)

var (
	fixedNow = time.Date(2026, time.October, 15, 10, 0, 0, 0, time.Local)
	today    = domain.DateOf(fixedNow)
	tomorrow = today.AddDays(1)
)

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []domain.SlotEvent
}

func (b *recordingBroadcaster) BroadcastSlotEvent(event domain.SlotEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	slots     repository.SlotRepository
	ledger    repository.ReservationRepository
	users     repository.UserRepository
	eventLog  repository.SensorEventsLogRepository
	sensor    *hardware.MockSensor
	leds      *hardware.MockIndicator
	events    *recordingBroadcaster
	indicator *service.IndicatorService
	bookings  *service.ReservationService
	occupancy *service.OccupancyService
	auth      *service.AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	topology, err := config.LoadTopology("")
	if err != nil {
		t.Fatalf("LoadTopology: %v", err)
	}
	clock := service.Clock(func() time.Time { return fixedNow })

	f := &fixture{
		slots:    memory.NewSlotRegistry(topology.Slots),
		ledger:   memory.NewReservationLedger(),
		users:    memory.NewUserRepository(),
		eventLog: memory.NewSensorEventsLogRepository(16),
		sensor:   hardware.NewMockSensor(hardware.FarAway),
		leds:     hardware.NewMockIndicator(topology.LocalLEDPins()),
		events:   &recordingBroadcaster{},
	}
	f.indicator = service.NewIndicatorService(f.slots, f.ledger, f.leds, clock)
	f.bookings = service.NewReservationService(f.slots, f.ledger, f.users, f.indicator, f.events, clock)
	f.occupancy = service.NewOccupancyService(f.slots, f.eventLog, f.sensor, f.indicator, f.events, topology, 10, clock)
	f.auth = service.NewAuthService(f.users, "test-secret", time.Hour).WithBcryptCost(bcrypt.MinCost)

	ctx := context.Background()
	seeds := []struct {
		id  string
		dto domain.SignupUserDTO
	}{
		{"user1", domain.SignupUserDTO{Username: "user1", Password: "password"}},
		{"user2", domain.SignupUserDTO{Username: "user2", Password: "password", IsDisabled: true}},
		{"user3", domain.SignupUserDTO{Username: "user3", Password: "password", IsElderly: true}},
	}
	for _, s := range seeds {
		if err := f.auth.SeedUser(ctx, s.id, s.dto); err != nil {
			t.Fatalf("SeedUser(%s): %v", s.id, err)
		}
	}
	return f
}

func (f *fixture) status(t *testing.T, slotID string, date domain.Date, userID string) domain.SlotView {
	t.Helper()
	view, err := f.bookings.ResolveSlot(context.Background(), slotID, date, userID)
	if err != nil {
		t.Fatalf("ResolveSlot(%s): %v", slotID, err)
	}
	return *view
}
