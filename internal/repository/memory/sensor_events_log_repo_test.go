package memory

import (
	"context"
	"testing"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
)

func TestSensorEventsLogRing(t *testing.T) {
	ctx := context.Background()
	repo := NewSensorEventsLogRepository(3)

	empty, _ := repo.FindRecent(ctx, 10)
	if len(empty) != 0 {
		t.Fatalf("expected empty log, got %d", len(empty))
	}

	for _, src := range []string{"a", "b", "c", "d"} {
		if err := repo.Create(ctx, &domain.SensorEventLog{Source: src}); err != nil {
			t.Fatal(err)
		}
	}

	got, _ := repo.FindRecent(ctx, 10)
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Source != "d" || got[1].Source != "c" || got[2].Source != "b" {
		t.Fatalf("order = %s,%s,%s", got[0].Source, got[1].Source, got[2].Source)
	}
	if got[0].ID != 4 {
		t.Fatalf("ids should keep increasing, got %d", got[0].ID)
	}

	two, _ := repo.FindRecent(ctx, 2)
	if len(two) != 2 || two[0].Source != "d" {
		t.Fatalf("limit not applied: %+v", two)
	}
}
