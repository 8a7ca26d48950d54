package service

import (
	"time"

	"github.com/KeshavDaBoss/smartparkv5/internal/domain"
)

// Interface cho WebSocket Manager để tránh circular dependency
type EventBroadcaster interface {
	BroadcastSlotEvent(event domain.SlotEvent)
}

// Clock cho phép test cố định "hôm nay".
type Clock func() time.Time

func broadcast(b EventBroadcaster, event domain.SlotEvent) {
	if b == nil {
		return
	}
	b.BroadcastSlotEvent(event)
}
