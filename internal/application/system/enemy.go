package system

import (
	"math"
	"math/rand"

	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// ProjectileSink receives projectiles spawned by enemies
type ProjectileSink interface {
	Spawn(p *entity.Projectile)
}

// EnemySystem runs enemy decisions and movement.
// All randomness comes from the injected rng so a seeded session replays exactly.
type EnemySystem struct {
	physics *PhysicsSystem
	config  *config.EntitiesConfig
	rng     *rand.Rand
	sink    ProjectileSink
}

// NewEnemySystem creates a new enemy system. A nil sink drops spawned projectiles.
func NewEnemySystem(physics *PhysicsSystem, cfg *config.EntitiesConfig, rng *rand.Rand, sink ProjectileSink) *EnemySystem {
	return &EnemySystem{
		physics: physics,
		config:  cfg,
		rng:     rng,
		sink:    sink,
	}
}

// SetConfig swaps the tuning; call it between ticks only.
// Already spawned enemies keep their stats.
func (s *EnemySystem) SetConfig(cfg *config.EntitiesConfig) {
	s.config = cfg
}

// UpdateAll updates every live enemy in slice order
func (s *EnemySystem) UpdateAll(enemies []*entity.Enemy, player *entity.Player) {
	for _, e := range enemies {
		s.Update(e, player)
	}
}

// Update picks an AI state from the horizontal distance to the player,
// sets the enemy velocity and moves it through the resolver
func (s *EnemySystem) Update(e *entity.Enemy, player *entity.Player) {
	if !e.Alive {
		return
	}

	countdown(&e.ShootTimer)
	countdown(&e.JumpTimer)

	if e.HitStun > 0 {
		e.HitStun--
		s.physics.Step(&e.Body, NormalGravity)
		return
	}

	st := e.Stats
	dx := player.Rect().CenterX() - e.Rect().CenterX()
	dist := math.Abs(dx)
	dir := sign(dx)

	switch {
	case player.Alive && st.ShootRange > 0 && dist <= st.ShootRange && e.ShootTimer == 0:
		e.AI = entity.AIShoot
		e.VX = 0
		if dir != 0 {
			e.Facing = dir
		}
		s.shoot(e)
		e.ShootTimer = st.ShootCooldown

	case player.Alive && dist <= st.DetectRange:
		e.AI = entity.AIChase
		e.VX = float64(dir) * st.ChaseSpeed
		if dir != 0 {
			e.Facing = dir
		}
		if e.OnGround && e.JumpTimer == 0 && st.ChaseJumpImpulse < 0 &&
			e.Y-player.Y >= st.ChaseJumpHeight {
			e.VY = st.ChaseJumpImpulse
			e.JumpTimer = st.ChaseJumpCooldown
		}

	default:
		e.AI = entity.AIPatrol
		e.Facing = e.PatrolDir
		e.VX = float64(e.PatrolDir) * st.Speed
		if e.OnGround && st.HopChance > 0 && s.rng.Float64() < st.HopChance {
			e.VY = st.HopImpulse
		}
	}

	s.physics.Step(&e.Body, NormalGravity)

	if e.AI == entity.AIPatrol {
		s.turn(e)
	}
}

// turn reverses the patrol at the range edge or on a wall
func (s *EnemySystem) turn(e *entity.Enemy) {
	offset := e.X - e.SpawnX
	limit := e.Stats.PatrolDistance
	switch {
	case e.PatrolDir < 0 && (e.OnWallLeft || offset <= -limit):
		e.PatrolDir = 1
	case e.PatrolDir > 0 && (e.OnWallRight || offset >= limit):
		e.PatrolDir = -1
	}
	e.Facing = e.PatrolDir
}

func (s *EnemySystem) shoot(e *entity.Enemy) {
	if s.sink == nil {
		return
	}
	pc, ok := s.config.Projectiles[e.Stats.Projectile]
	if !ok {
		return
	}
	r := e.Rect()
	cx := r.CenterX() + float64(e.Facing)*(r.W/2+pc.Size.Width/2)
	s.sink.Spawn(entity.NewProjectile(e.ID, cx, r.CenterY(), pc.Size.Width, pc.Size.Height, e.Facing, pc.Speed, pc.Range))
}
