package entity

import "fmt"

// AIState is the enemy decision state
type AIState int

const (
	AIPatrol AIState = iota
	AIChase
	AIShoot
)

// String returns the string representation of the AI state
func (s AIState) String() string {
	switch s {
	case AIPatrol:
		return "Patrol"
	case AIChase:
		return "Chase"
	case AIShoot:
		return "Shoot"
	default:
		return "Unknown"
	}
}

// EnemyStats are the per-archetype parameters copied from configuration at spawn
type EnemyStats struct {
	MaxHealth      int
	Speed          float64
	ChaseSpeed     float64
	DetectRange    float64
	ShootRange     float64
	ShootCooldown  int
	PatrolDistance float64
	HopChance      float64
	HopImpulse     float64

	ChaseJumpImpulse  float64
	ChaseJumpHeight   float64
	ChaseJumpCooldown int

	Projectile string
}

// Enemy represents an enemy entity
type Enemy struct {
	ID   EntityID
	Kind string
	Body

	Stats  EnemyStats
	Health int
	Alive  bool
	Facing int

	// AI
	AI        AIState
	SpawnX    float64
	PatrolDir int

	// Timers
	ShootTimer int
	JumpTimer  int
	HitStun    int

	died bool
}

// NewEnemy creates a new enemy with full health, patrolling left first
func NewEnemy(id EntityID, kind string, x, y, w, h float64, stats EnemyStats) *Enemy {
	return &Enemy{
		ID:        id,
		Kind:      kind,
		Body:      NewBody(x, y, w, h),
		Stats:     stats,
		Health:    stats.MaxHealth,
		Alive:     true,
		Facing:    -1,
		AI:        AIPatrol,
		SpawnX:    x,
		PatrolDir: -1,
	}
}

// TakeDamage applies damage and returns true if this hit was lethal.
// Health never drops below zero and a dead enemy ignores further damage.
func (e *Enemy) TakeDamage(damage int, stun int) bool {
	if !e.Alive {
		return false
	}
	e.Health -= damage
	e.HitStun = stun
	if e.Health <= 0 {
		e.Health = 0
		e.Alive = false
		e.died = true
		return true
	}
	return false
}

// ConsumeDeath returns true exactly once after the enemy died
func (e *Enemy) ConsumeDeath() bool {
	if !e.died {
		return false
	}
	e.died = false
	return true
}

// Validate checks the enemy invariants
func (e *Enemy) Validate() error {
	if err := e.Body.Validate(); err != nil {
		return fmt.Errorf("enemy %d: %w", e.ID, err)
	}
	if e.Health < 0 || e.Health > e.Stats.MaxHealth {
		return fmt.Errorf("enemy %d: health %d outside [0,%d]", e.ID, e.Health, e.Stats.MaxHealth)
	}
	if e.Health == 0 && e.Alive {
		return fmt.Errorf("enemy %d: alive with zero health", e.ID)
	}
	if e.ShootTimer < 0 || e.JumpTimer < 0 || e.HitStun < 0 {
		return fmt.Errorf("enemy %d: negative timer", e.ID)
	}
	return nil
}

// MustValidate panics when an invariant is broken
func (e *Enemy) MustValidate() {
	if err := e.Validate(); err != nil {
		panic(err)
	}
}
