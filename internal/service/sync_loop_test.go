package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
	"github.com/KeshavDaBoss/smartparkv5/internal/service"
)

func TestSyncLoopTick(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Booking ghi thẳng vào ledger, không qua service => chỉ tick mới bật đèn
	if _, err := f.ledger.Create(ctx, &domain.Reservation{SlotID: "M1-L1-S1", UserID: "user1", BookingDate: today}); err != nil {
		t.Fatal(err)
	}
	f.sensor.Set("M1-L2-S8", 2)

	loop := service.NewSyncLoop(f.occupancy, f.indicator, 0)
	loop.Tick(ctx)

	if active, _ := f.leds.State("M1-L1-S1"); !active {
		t.Fatalf("tick should turn on LED for today's booking")
	}
	if v := f.status(t, "M1-L2-S8", today, ""); v.Status != domain.StatusOccupied {
		t.Fatalf("tick should poll local sensors, got %s", v.Status)
	}
}

func TestSyncLoopRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	loop := service.NewSyncLoop(f.occupancy, f.indicator, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	f.sensor.Set("M1-L1-S3", 1)
	deadline := time.After(2 * time.Second)
	for {
		if v := f.status(t, "M1-L1-S3", today, ""); v.Status == domain.StatusOccupied {
			break
		}
		select {
		case <-deadline:
			t.Fatal("loop never picked up the reading")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
