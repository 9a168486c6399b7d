package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

func newTestCombat(t *testing.T, cfg *config.GameConfig) *CombatSystem {
	t.Helper()
	w := createTestWorld(t)
	player := NewPlayerSystem(NewPhysicsSystem(cfg.Physics, w), cfg)
	return NewCombatSystem(cfg, w, player)
}

// createAttackingPlayer returns a player mid-attack with a live hitbox
func createAttackingPlayer(cfg *config.GameConfig, dir entity.AttackDir, x, y float64, timer int) *entity.Player {
	pc := cfg.Entities.Player
	p := entity.NewPlayer(x, y, pc.Size.Width, pc.Size.Height, pc.Stats.MaxMasks)
	p.State.AttackDir = dir
	p.State.Timers.Attack = timer
	p.HitboxLive = true
	p.Hitbox = AttackBox(pc.Attacks, dir, p.State.Facing, p.Rect())
	return p
}

func createCombatEnemy(cfg *config.GameConfig, id entity.EntityID, x, y float64) *entity.Enemy {
	ec := cfg.Entities.Enemies["crawler"]
	return entity.NewEnemy(id, "crawler", x, y, ec.Size.Width, ec.Size.Height, ec.EnemyStats())
}

func TestCombatSystem_Attack(t *testing.T) {
	t.Run("hits once per attack", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := createAttackingPlayer(cfg, entity.AttackSide, 100, 100, 10)
		e := createCombatEnemy(cfg, 1, 150, 110)
		damage := cfg.Entities.Player.Stats.AttackDamage

		for i := 0; i < 5; i++ {
			sys.Resolve(p, []*entity.Enemy{e}, nil)
		}
		assert.Equal(t, e.Stats.MaxHealth-damage, e.Health)
		assert.False(t, p.HitboxLive)
		assert.True(t, p.HasStruck(e.ID))
	})

	t.Run("hits every enemy it overlaps on the same tick", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := createAttackingPlayer(cfg, entity.AttackSide, 100, 100, 10)
		a := createCombatEnemy(cfg, 1, 150, 105)
		b := createCombatEnemy(cfg, 2, 160, 115)

		sys.Resolve(p, []*entity.Enemy{a, b}, nil)
		assert.Less(t, a.Health, a.Stats.MaxHealth)
		assert.Less(t, b.Health, b.Stats.MaxHealth)
		assert.Len(t, p.Struck, 2)
	})

	t.Run("knocks the enemy back and stuns it", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := createAttackingPlayer(cfg, entity.AttackSide, 100, 100, 10)
		e := createCombatEnemy(cfg, 1, 150, 110)

		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.Equal(t, cfg.Physics.Combat.EnemyKnockback, e.VX)
		assert.Equal(t, cfg.Physics.Combat.EnemyHitStun, e.HitStun)
	})

	t.Run("lethal damage kills permanently", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		e := createCombatEnemy(cfg, 1, 150, 110)
		e.Health = 5

		var lethalHits int
		sys.OnEnemyHit = func(_ *entity.Enemy, lethal bool) {
			if lethal {
				lethalHits++
			}
		}

		p := createAttackingPlayer(cfg, entity.AttackSide, 100, 100, 10)
		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.False(t, e.Alive)
		assert.Equal(t, 0, e.Health)
		assert.True(t, e.ConsumeDeath())
		assert.False(t, e.ConsumeDeath())

		p = createAttackingPlayer(cfg, entity.AttackSide, 100, 100, 10)
		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.False(t, e.Alive)
		assert.Equal(t, 0, e.Health)
		assert.Equal(t, 1, lethalHits)
	})

	t.Run("a finished attack deals no damage", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := createAttackingPlayer(cfg, entity.AttackSide, 100, 100, 0)
		e := createCombatEnemy(cfg, 1, 150, 110)

		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.Equal(t, e.Stats.MaxHealth, e.Health)
	})
}

func TestCombatSystem_Pogo(t *testing.T) {
	tests := []struct {
		name     string
		y        float64
		vy       float64
		timer    int
		enemy    bool
		wantPogo bool
	}{
		{name: "off the floor in the window", y: 140, vy: 2, timer: 4, wantPogo: true},
		{name: "off a struck enemy", y: 0, vy: 1, timer: 3, enemy: true, wantPogo: true},
		{name: "while resting counts as downward", y: 140, vy: 0, timer: 1, wantPogo: true},
		{name: "too early in the attack", y: 140, vy: 2, timer: 12, wantPogo: false},
		{name: "while rising", y: 140, vy: -3, timer: 4, wantPogo: false},
		{name: "nothing below", y: 0, vy: 2, timer: 4, wantPogo: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			sys := newTestCombat(t, cfg)
			pogo := cfg.Entities.Player.Attacks.Pogo

			p := createAttackingPlayer(cfg, entity.AttackDown, 100, tt.y, tt.timer)
			p.VY = tt.vy
			p.State.Timers.AttackCooldown = 15

			var enemies []*entity.Enemy
			if tt.enemy {
				enemies = append(enemies, createCombatEnemy(cfg, 1, 95, 80))
			}

			sys.Resolve(p, enemies, nil)

			if tt.wantPogo {
				assert.Equal(t, pogo.Bounce, p.VY)
				assert.Less(t, p.VY, 0.0)
				assert.False(t, p.State.Attacking())
				assert.Equal(t, entity.AttackNone, p.State.AttackDir)
				assert.Equal(t, pogo.Cooldown, p.State.Timers.AttackCooldown)
				assert.NotEqual(t, entity.ActionAttackDown, p.State.Action)
				return
			}
			assert.Equal(t, tt.vy, p.VY)
			assert.True(t, p.State.Attacking())
		})
	}
}

func TestCombatSystem_PlayerDamage(t *testing.T) {
	t.Run("contact costs one mask then invincibility protects", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := entity.NewPlayer(100, 190, 40, 60, 5)
		e := createCombatEnemy(cfg, 1, 120, 210)

		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.Equal(t, 4, p.Masks)
		assert.Equal(t, cfg.Physics.Combat.Iframes, p.State.Timers.Invincible)
		assert.True(t, p.IsStunned())
		assert.Less(t, p.VX, 0.0, "knocked away from the enemy")
		assert.Less(t, p.VY, 0.0)

		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.Equal(t, 4, p.Masks)
	})

	t.Run("dead enemies deal no contact damage", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := entity.NewPlayer(100, 190, 40, 60, 5)
		e := createCombatEnemy(cfg, 1, 120, 210)
		e.TakeDamage(e.Health, 0)

		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.Equal(t, 5, p.Masks)
	})

	t.Run("dash grants immunity when configured", func(t *testing.T) {
		for _, immune := range []bool{true, false} {
			cfg := config.Default()
			cfg.Physics.Dash.Invincible = immune
			sys := newTestCombat(t, cfg)
			p := entity.NewPlayer(100, 190, 40, 60, 5)
			p.State.Timers.Dash = 4
			e := createCombatEnemy(cfg, 1, 120, 210)

			sys.Resolve(p, []*entity.Enemy{e}, nil)
			if immune {
				assert.Equal(t, 5, p.Masks)
				assert.True(t, p.State.Dashing())
			} else {
				assert.Equal(t, 4, p.Masks)
				assert.False(t, p.State.Dashing(), "a hit ends the dash")
			}
		}
	})

	t.Run("projectiles are consumed and deal damage", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := entity.NewPlayer(100, 190, 40, 60, 5)
		shot := entity.NewProjectile(9, 145, 220, 12, 8, -1, 6, 400)

		var hits int
		sys.OnPlayerHit = func(*entity.Player) { hits++ }

		sys.Resolve(p, nil, []*entity.Projectile{shot})
		assert.False(t, shot.Active)
		assert.Equal(t, 4, p.Masks)
		assert.Equal(t, 1, hits)
		assert.Less(t, p.VX, 0.0, "knocked away from the shot")
	})

	t.Run("last mask kills", func(t *testing.T) {
		cfg := config.Default()
		sys := newTestCombat(t, cfg)
		p := entity.NewPlayer(100, 190, 40, 60, 1)
		e := createCombatEnemy(cfg, 1, 120, 210)

		sys.Resolve(p, []*entity.Enemy{e}, nil)
		assert.False(t, p.Alive)
		assert.Equal(t, 0, p.Masks)
		require.NotPanics(t, p.MustValidate)
	})
}
