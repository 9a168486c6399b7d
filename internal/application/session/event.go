package session

import (
	"fmt"

	"github.com/younwookim/poxel/internal/domain/entity"
)

// EventKind identifies a world event emitted at the end of a tick
type EventKind int

const (
	EventEnemyDied EventKind = iota
	EventPlayerDied
	EventPlatformRemoved
	EventPlatformAdded
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventEnemyDied:
		return "EnemyDied"
	case EventPlayerDied:
		return "PlayerDied"
	case EventPlatformRemoved:
		return "PlatformRemoved"
	case EventPlatformAdded:
		return "PlatformAdded"
	default:
		return "Unknown"
	}
}

// Event is an edge-triggered world event. Each one fires exactly once.
type Event struct {
	Kind     EventKind
	Tick     uint64
	Enemy    entity.EntityID
	Platform entity.PlatformID
}

// String returns a short description for logs
func (e Event) String() string {
	switch e.Kind {
	case EventEnemyDied:
		return fmt.Sprintf("tick %d: %s #%d", e.Tick, e.Kind, e.Enemy)
	case EventPlatformRemoved, EventPlatformAdded:
		return fmt.Sprintf("tick %d: %s %s", e.Tick, e.Kind, e.Platform)
	default:
		return fmt.Sprintf("tick %d: %s", e.Tick, e.Kind)
	}
}
