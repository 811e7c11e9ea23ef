package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGenerate EventType = "generate"
	EventDraw     EventType = "draw"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GenerateEvent is emitted after a signature has been produced.
type GenerateEvent struct {
	EventBase
	Rule       string        `json:"rule"`
	Iterations int           `json:"iterations"`
	Length     int           `json:"length"`
	CacheHit   bool          `json:"cache_hit"`
	Duration   time.Duration `json:"duration"`
}

// DrawEvent is emitted after a signature has been interpreted.
type DrawEvent struct {
	EventBase
	Iterations   int           `json:"iterations"`
	BranchLength float64       `json:"branch_length"`
	Stats        Stats         `json:"stats"`
	Regenerated  bool          `json:"regenerated"`
	Duration     time.Duration `json:"duration"`
	Err          error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnGenerate func(context.Context, *GenerateEvent)
	OnDraw     func(context.Context, *DrawEvent)
}
