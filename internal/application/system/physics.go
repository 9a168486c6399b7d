package system

import (
	"math"

	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// PhysicsSystem integrates gravity and moves bodies with axis-separated
// collision resolution against the world's solid platforms
type PhysicsSystem struct {
	config *config.PhysicsConfig
	world  *world.World
}

// NewPhysicsSystem creates a new physics system
func NewPhysicsSystem(cfg *config.PhysicsConfig, w *world.World) *PhysicsSystem {
	return &PhysicsSystem{
		config: cfg,
		world:  w,
	}
}

// SetConfig swaps the tuning; call it between ticks only
func (s *PhysicsSystem) SetConfig(cfg *config.PhysicsConfig) {
	s.config = cfg
}

// Gravity describes how gravity acts on a body for one tick
type Gravity struct {
	Scale      float64 // multiplier on the configured gravity
	MaxFall    float64 // terminal fall speed; zero means the configured value
	Suppressed bool    // forces vy to zero for the tick
}

// NormalGravity is full gravity with the configured terminal speed
var NormalGravity = Gravity{Scale: 1}

// IntegrateGravity returns the vertical velocity after one tick of gravity
func IntegrateGravity(vy, g, maxFall float64, suppressed bool) float64 {
	if suppressed {
		return 0
	}
	return math.Min(vy+g, maxFall)
}

// ApplyGravity updates the body's vertical velocity
func (s *PhysicsSystem) ApplyGravity(b *entity.Body, g Gravity) {
	maxFall := g.MaxFall
	if maxFall <= 0 {
		maxFall = s.config.Physics.MaxFallSpeed
	}
	b.VY = IntegrateGravity(b.VY, s.config.Physics.Gravity*g.Scale, maxFall, g.Suppressed)
}

// Move advances the body by its velocity, x first, resolving each axis
// before the next one moves. Contact flags are rebuilt from scratch.
func (s *PhysicsSystem) Move(b *entity.Body) {
	b.ClearContacts()

	b.X += b.VX
	s.resolveX(b, sign(b.VX))

	b.Y += b.VY
	s.resolveY(b, sign(b.VY))
}

// Step applies gravity then moves the body
func (s *PhysicsSystem) Step(b *entity.Body, g Gravity) {
	s.ApplyGravity(b, g)
	s.Move(b)
}

// resolveX clamps the body against every overlapping solid in registry order.
// The horizontal world edges act as walls.
func (s *PhysicsSystem) resolveX(b *entity.Body, dir int) {
	if dir != 0 {
		for _, p := range s.world.SolidsOverlapping(b.Rect()) {
			if !b.Rect().Overlaps(p.Rect) {
				continue
			}
			if dir > 0 {
				b.X = p.Rect.X - b.W
				b.OnWallRight = true
			} else {
				b.X = p.Rect.Right()
				b.OnWallLeft = true
			}
			b.VX = 0
		}
	}

	if b.X < 0 {
		b.X = 0
		b.VX = 0
		b.OnWallLeft = true
		b.AtBoundary = true
	} else if right := s.world.Width(); b.X+b.W > right {
		b.X = right - b.W
		b.VX = 0
		b.OnWallRight = true
		b.AtBoundary = true
	}
}

// resolveY clamps the body vertically; landing raises OnGround
func (s *PhysicsSystem) resolveY(b *entity.Body, dir int) {
	if dir == 0 {
		return
	}
	for _, p := range s.world.SolidsOverlapping(b.Rect()) {
		if !b.Rect().Overlaps(p.Rect) {
			continue
		}
		if dir > 0 {
			b.Y = p.Rect.Y - b.H
			b.OnGround = true
		} else {
			b.Y = p.Rect.Bottom()
			b.OnCeiling = true
		}
		b.VY = 0
	}
}

// Helper functions
func sign(x float64) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}
