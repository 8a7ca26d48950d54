package hardware_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/hardware"
)

// stuckSensor bỏ qua context và chỉ trả về khi release bị đóng.
type stuckSensor struct {
	release chan struct{}
	calls   atomic.Int32
}

func (s *stuckSensor) ReadDistance(ctx context.Context, slotID string) (float64, error) {
	s.calls.Add(1)
	<-s.release
	return 3, nil
}

func TestWithTimeoutReturnsFarAwayWhenDriverHangs(t *testing.T) {
	inner := &stuckSensor{release: make(chan struct{})}
	defer close(inner.release)

	sensor := hardware.WithTimeout(inner, 40*time.Millisecond)

	start := time.Now()
	d, err := sensor.ReadDistance(context.Background(), "M1-L1-S1")
	elapsed := time.Since(start)

	if !errors.Is(err, hardware.ErrSensorTimeout) {
		t.Fatalf("err = %v, want ErrSensorTimeout", err)
	}
	if d != hardware.FarAway {
		t.Fatalf("distance = %v, want %v", d, hardware.FarAway)
	}
	if elapsed > time.Second {
		t.Fatalf("read took %v, should be bounded by the timeout", elapsed)
	}
}

func TestWithTimeoutPassesThroughFastReads(t *testing.T) {
	mock := hardware.NewMockSensor(hardware.FarAway)
	mock.Set("M1-L1-S2", 4.5)
	sensor := hardware.WithTimeout(mock, 40*time.Millisecond)

	d, err := sensor.ReadDistance(context.Background(), "M1-L1-S2")
	if err != nil || d != 4.5 {
		t.Fatalf("ReadDistance = %v, %v", d, err)
	}
	d, err = sensor.ReadDistance(context.Background(), "M1-L2-S5")
	if err != nil || d != hardware.FarAway {
		t.Fatalf("default reading = %v, %v", d, err)
	}
}

func TestWithTimeoutDoesNotStackReadsOnStuckDriver(t *testing.T) {
	inner := &stuckSensor{release: make(chan struct{})}
	sensor := hardware.WithTimeout(inner, 10*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := sensor.ReadDistance(ctx, "M1-L1-S1"); !errors.Is(err, hardware.ErrSensorTimeout) {
			t.Fatalf("tick %d: err = %v", i, err)
		}
	}
	if n := inner.calls.Load(); n != 1 {
		t.Fatalf("driver called %d times while stuck, want 1", n)
	}

	// Slot khác vẫn được đọc
	sensor.ReadDistance(ctx, "M1-L1-S2")
	if n := inner.calls.Load(); n != 2 {
		t.Fatalf("other slot should still reach the driver, calls = %d", n)
	}

	// Driver trả về thì slot được đọc lại bình thường
	close(inner.release)
	deadline := time.Now().Add(time.Second)
	for {
		d, err := sensor.ReadDistance(ctx, "M1-L1-S1")
		if err == nil {
			if d != 3 {
				t.Fatalf("distance = %v, want 3", d)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("slot never recovered: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
