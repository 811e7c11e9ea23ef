package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/ltree/pkg/domain"
)

// Event is a lifecycle event encoded for SSE subscribers.
type Event struct {
	Type domain.EventType
	Data string
}

type subscriber struct {
	filter []domain.EventType
}

// StreamManager fans lifecycle events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan Event]subscriber
	logger      *slog.Logger
}

func NewStreamManager(logger *slog.Logger) *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan Event]subscriber),
		logger:      logger,
	}
}

// Subscribe registers a subscriber for the given event types, or all types
// when none are given. The returned func unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(types ...domain.EventType) (<-chan Event, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan Event, 16)
	sm.subscribers[ch] = subscriber{filter: types}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Len returns the number of active subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast delivers an event to every matching subscriber. Slow
// subscribers drop events rather than block renders.
func (sm *StreamManager) Broadcast(typ domain.EventType, payload any) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if len(sm.subscribers) == 0 {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		sm.logger.Warn("SSE: event encode failed", "type", typ, "err", err)
		return
	}
	ev := Event{Type: typ, Data: string(data)}
	for ch, sub := range sm.subscribers {
		if len(sub.filter) > 0 && !slices.Contains(sub.filter, typ) {
			continue
		}
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "type", typ)
		}
	}
}

// Hooks returns lifecycle hooks broadcasting every event.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			sm.Broadcast(domain.EventGenerate, e)
		},
		OnDraw: func(_ context.Context, e *domain.DrawEvent) {
			payload := struct {
				*domain.DrawEvent
				Error string `json:"error,omitempty"`
			}{DrawEvent: e}
			if e.Err != nil {
				payload.Error = e.Err.Error()
			}
			sm.Broadcast(domain.EventDraw, payload)
		},
	}
}
