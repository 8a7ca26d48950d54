package service

import (
	"context"
	"log"
	"time"
)

// SyncLoop mỗi tick: poll cảm biến local rồi sync đèn.
type SyncLoop struct {
	occupancy  *OccupancyService
	indicators *IndicatorService
	interval   time.Duration
}

func NewSyncLoop(occupancy *OccupancyService, indicators *IndicatorService, interval time.Duration) *SyncLoop {
	if interval <= 0 {
		interval = time.Second
	}
	return &SyncLoop{occupancy: occupancy, indicators: indicators, interval: interval}
}

func (l *SyncLoop) Tick(ctx context.Context) {
	l.occupancy.PollLocal(ctx)
	if _, err := l.indicators.Refresh(ctx); err != nil {
		log.Printf("SyncLoop: lỗi refresh đèn: %v", err)
	}
}

// Run chạy cho tới khi ctx bị hủy (lúc tắt process).
func (l *SyncLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("SyncLoop: context cancelled, stopping.")
			return
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}
