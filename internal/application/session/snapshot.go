package session

import (
	"github.com/younwookim/poxel/internal/application/state"
	"github.com/younwookim/poxel/internal/domain/entity"
)

// AgentView is the read-only presentation state of one agent
type AgentView struct {
	ID        entity.EntityID
	Kind      string
	Rect      entity.Rect
	Facing    int
	Action    string
	Health    int
	MaxHealth int
	Alive     bool

	// Flashing is set while damage immunity runs
	Flashing bool

	Hitbox    entity.Rect
	HasHitbox bool
}

// Snapshot is a copy of everything a renderer needs for one frame
type Snapshot struct {
	Tick     uint64
	State    state.GameState
	Revision uint64

	// Shake is the current screen shake amplitude in pixels
	Shake float64

	Player      AgentView
	Enemies     []AgentView
	Projectiles []entity.Rect
	Platforms   []entity.Platform
}

// Snapshot copies the observable state; mutating it does not affect the session
func (s *Session) Snapshot() Snapshot {
	p := s.player
	snap := Snapshot{
		Tick:     s.tick,
		State:    s.state,
		Revision: s.world.Revision(),
		Shake:    s.shake,
		Player: AgentView{
			Kind:      "player",
			Rect:      p.Rect(),
			Facing:    p.State.Facing,
			Action:    p.State.Action.String(),
			Health:    p.Masks,
			MaxHealth: p.MaxMasks,
			Alive:     p.Alive,
			Flashing:  p.State.Timers.Invincible > 0,
			Hitbox:    p.Hitbox,
			HasHitbox: p.HitboxLive && p.State.Attacking(),
		},
		Enemies:     make([]AgentView, 0, len(s.enemies)),
		Projectiles: make([]entity.Rect, 0, len(s.shots)),
		Platforms:   s.world.Platforms(),
	}

	for _, e := range s.enemies {
		snap.Enemies = append(snap.Enemies, AgentView{
			ID:        e.ID,
			Kind:      e.Kind,
			Rect:      e.Rect(),
			Facing:    e.Facing,
			Action:    e.AI.String(),
			Health:    e.Health,
			MaxHealth: e.Stats.MaxHealth,
			Alive:     e.Alive,
			Flashing:  e.HitStun > 0,
		})
	}
	for _, pr := range s.shots {
		if pr.Active {
			snap.Projectiles = append(snap.Projectiles, pr.Rect())
		}
	}
	return snap
}
