package system

import (
	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// CombatSystem handles combat interactions: attack hitboxes against enemies,
// the downward pogo, enemy contact damage and enemy projectiles
type CombatSystem struct {
	physics  *config.PhysicsConfig
	entities *config.EntitiesConfig
	world    *world.World
	player   *PlayerSystem

	// Event callbacks
	OnEnemyHit  func(e *entity.Enemy, lethal bool)
	OnPlayerHit func(p *entity.Player)
}

// NewCombatSystem creates a new combat system
func NewCombatSystem(cfg *config.GameConfig, w *world.World, player *PlayerSystem) *CombatSystem {
	return &CombatSystem{
		physics:  cfg.Physics,
		entities: cfg.Entities,
		world:    w,
		player:   player,
	}
}

// SetConfig swaps the tuning; call it between ticks only
func (s *CombatSystem) SetConfig(cfg *config.GameConfig) {
	s.physics = cfg.Physics
	s.entities = cfg.Entities
}

// Resolve runs all combat checks for one tick, after every agent has moved
func (s *CombatSystem) Resolve(p *entity.Player, enemies []*entity.Enemy, projectiles []*entity.Projectile) {
	if !p.Alive {
		return
	}
	s.resolveAttack(p, enemies)
	s.resolvePogo(p, enemies)
	s.resolveContact(p, enemies)
	s.resolveProjectiles(p, projectiles)
}

// resolveAttack applies the live hitbox to every enemy it overlaps this tick.
// Once anything was struck the hitbox stops dealing damage.
func (s *CombatSystem) resolveAttack(p *entity.Player, enemies []*entity.Enemy) {
	if !p.HitboxLive || !p.State.Attacking() {
		return
	}

	hit := false
	for _, e := range enemies {
		if !e.Alive || p.HasStruck(e.ID) || !p.Hitbox.Overlaps(e.Rect()) {
			continue
		}
		s.damageEnemy(p, e)
		p.Struck = append(p.Struck, e.ID)
		hit = true
	}
	if hit {
		p.HitboxLive = false
	}
}

func (s *CombatSystem) damageEnemy(p *entity.Player, e *entity.Enemy) {
	dir := p.State.Facing
	if p.State.AttackDir != entity.AttackSide {
		if d := sign(e.Rect().CenterX() - p.Rect().CenterX()); d != 0 {
			dir = d
		}
	}
	e.VX = float64(dir) * s.physics.Combat.EnemyKnockback

	lethal := e.TakeDamage(s.entities.Player.Stats.AttackDamage, s.physics.Combat.EnemyHitStun)
	if s.OnEnemyHit != nil {
		s.OnEnemyHit(e, lethal)
	}
}

// resolvePogo bounces a late downward attack off terrain or a struck enemy
func (s *CombatSystem) resolvePogo(p *entity.Player, enemies []*entity.Enemy) {
	if !s.player.InPogoWindow(p) {
		return
	}

	touching := s.world.OverlapsSolid(p.Hitbox)
	for _, e := range enemies {
		if touching {
			break
		}
		touching = p.HasStruck(e.ID) && p.Hitbox.Overlaps(e.Rect())
	}
	if touching {
		s.player.Pogo(p)
	}
}

// resolveContact applies one hit unit for touching a living enemy
func (s *CombatSystem) resolveContact(p *entity.Player, enemies []*entity.Enemy) {
	for _, e := range enemies {
		if !p.Alive {
			return
		}
		if e.Alive && p.Rect().Overlaps(e.Rect()) {
			s.damagePlayer(p, e.Rect().CenterX())
		}
	}
}

// resolveProjectiles consumes every projectile touching the player
func (s *CombatSystem) resolveProjectiles(p *entity.Player, projectiles []*entity.Projectile) {
	for _, pr := range projectiles {
		if !p.Alive {
			return
		}
		if pr.Active && p.Rect().Overlaps(pr.Rect()) {
			pr.Deactivate()
			s.damagePlayer(p, pr.Rect().CenterX())
		}
	}
}

// damagePlayer consumes one hit unit unless the player is invincible,
// then restarts the invincibility window and knocks the player away from srcX
func (s *CombatSystem) damagePlayer(p *entity.Player, srcX float64) bool {
	cfg := s.physics.Combat
	if !p.Alive || p.IsInvincible(s.physics.Dash.Invincible) {
		return false
	}

	p.TakeHit()
	t := &p.State.Timers
	t.Invincible = cfg.Iframes
	t.Stun = cfg.Knockback.StunFrames
	t.Dash = 0
	t.JumpHold = 0
	p.State.WallSlide = false
	p.State.WallSide = entity.WallNone

	dir := sign(p.Rect().CenterX() - srcX)
	if dir == 0 {
		dir = -p.State.Facing
	}
	p.VX = float64(dir) * cfg.Knockback.Force
	p.VY = -cfg.Knockback.UpForce

	if s.OnPlayerHit != nil {
		s.OnPlayerHit(p)
	}
	return true
}
