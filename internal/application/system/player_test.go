package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

func createTestTuning() PlayerTuning {
	cfg := config.Default()
	return PlayerTuning{Physics: cfg.Physics, Player: &cfg.Entities.Player}
}

// playerRig drives one player through the full per-tick controller
type playerRig struct {
	cfg     *config.GameConfig
	world   *world.World
	sys     *PlayerSystem
	player  *entity.Player
	tracker InputTracker
}

func newPlayerRig(t *testing.T, x, y float64, extra ...entity.Platform) *playerRig {
	t.Helper()
	cfg := config.Default()
	w := createTestWorld(t, extra...)
	phys := NewPhysicsSystem(cfg.Physics, w)
	pc := cfg.Entities.Player
	return &playerRig{
		cfg:    cfg,
		world:  w,
		sys:    NewPlayerSystem(phys, cfg),
		player: entity.NewPlayer(x, y, pc.Size.Width, pc.Size.Height, pc.Stats.MaxMasks),
	}
}

// newGroundedRig places the player at rest on the floor
func newGroundedRig(t *testing.T, extra ...entity.Platform) *playerRig {
	t.Helper()
	r := newPlayerRig(t, 100, 190, extra...)
	r.step(InputState{})
	require.True(t, r.player.OnGround)
	return r
}

func (r *playerRig) step(raw InputState) {
	r.sys.Update(r.player, r.tracker.Next(raw))
}

func TestTransition_Horizontal(t *testing.T) {
	tun := createTestTuning()
	grounded := Observation{Contacts: entity.Contacts{OnGround: true}}

	t.Run("sets speed and facing", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1}
		next, intent := Transition(tun, st, Input{InputState: InputState{Left: true}}, grounded)
		assert.True(t, intent.SetVX)
		assert.Equal(t, -tun.Physics.Movement.Speed, intent.VX)
		assert.Equal(t, -1, next.Facing)
	})

	t.Run("no input stops and keeps facing", func(t *testing.T) {
		st := entity.PlayerState{Facing: -1}
		next, intent := Transition(tun, st, Input{}, grounded)
		assert.True(t, intent.SetVX)
		assert.Equal(t, 0.0, intent.VX)
		assert.Equal(t, -1, next.Facing)
	})

	blocked := []struct {
		name   string
		timers entity.PlayerTimers
	}{
		{name: "attacking", timers: entity.PlayerTimers{Attack: 5}},
		{name: "dashing", timers: entity.PlayerTimers{Dash: 5}},
		{name: "stunned", timers: entity.PlayerTimers{Stun: 5}},
		{name: "wall jump lock", timers: entity.PlayerTimers{WallJumpLock: 5}},
	}
	for _, tt := range blocked {
		t.Run("ignored while "+tt.name, func(t *testing.T) {
			st := entity.PlayerState{Facing: 1, Timers: tt.timers, AttackDir: entity.AttackSide}
			next, intent := Transition(tun, st, Input{InputState: InputState{Left: true}}, grounded)
			if !next.Dashing() {
				assert.False(t, intent.SetVX)
			}
			assert.Equal(t, 1, next.Facing)
		})
	}
}

func TestTransition_Attack(t *testing.T) {
	tun := createTestTuning()
	grounded := Observation{Contacts: entity.Contacts{OnGround: true}}
	airborne := Observation{}

	tests := []struct {
		name string
		held InputState
		obs  Observation
		want entity.AttackDir
	}{
		{name: "side by default", obs: grounded, want: entity.AttackSide},
		{name: "up when up held", held: InputState{Up: true}, obs: grounded, want: entity.AttackUp},
		{name: "down airborne", held: InputState{Down: true}, obs: airborne, want: entity.AttackDown},
		{name: "down on ground is side", held: InputState{Down: true}, obs: grounded, want: entity.AttackSide},
		{name: "up beats down", held: InputState{Up: true, Down: true}, obs: airborne, want: entity.AttackUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{InputState: tt.held, AttackPressed: true}
			next, intent := Transition(tun, entity.PlayerState{Facing: 1}, in, tt.obs)

			assert.True(t, intent.StartAttack)
			assert.Equal(t, tt.want, next.AttackDir)
			assert.Equal(t, tun.Player.Attacks.Attack(tt.want).Duration, next.Timers.Attack)
			assert.Equal(t, tun.Player.Attacks.Cooldown, next.Timers.AttackCooldown)
		})
	}

	t.Run("blocked by cooldown", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{AttackCooldown: 3}}
		next, intent := Transition(tun, st, Input{AttackPressed: true}, grounded)
		assert.False(t, intent.StartAttack)
		assert.False(t, next.Attacking())
	})

	t.Run("blocked while dashing", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{Dash: 4}}
		next, intent := Transition(tun, st, Input{AttackPressed: true}, grounded)
		assert.False(t, intent.StartAttack)
		assert.False(t, next.Attacking())
	})

	t.Run("held direction is ignored on the trigger tick", func(t *testing.T) {
		in := Input{InputState: InputState{Right: true}, AttackPressed: true}
		next, intent := Transition(tun, entity.PlayerState{Facing: -1}, in, grounded)
		assert.True(t, intent.StartAttack)
		assert.False(t, intent.SetVX)
		assert.Equal(t, -1, next.Facing)
	})

	t.Run("ends when the timer runs out", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, AttackDir: entity.AttackUp, Timers: entity.PlayerTimers{Attack: 1, AttackCooldown: 5}}
		next, _ := Transition(tun, st, Input{}, grounded)
		assert.False(t, next.Attacking())
		assert.Equal(t, entity.AttackNone, next.AttackDir)
		assert.Equal(t, 4, next.Timers.AttackCooldown)
	})
}

func TestTransition_Dash(t *testing.T) {
	tun := createTestTuning()
	obs := Observation{Contacts: entity.Contacts{OnGround: true}}

	t.Run("starts with forced velocity and no gravity", func(t *testing.T) {
		next, intent := Transition(tun, entity.PlayerState{Facing: -1}, Input{DashPressed: true}, obs)
		assert.Equal(t, tun.Physics.Dash.Duration, next.Timers.Dash)
		assert.Equal(t, tun.Physics.Dash.Cooldown, next.Timers.DashCooldown)
		assert.Equal(t, -tun.Physics.Dash.Speed, intent.VX)
		assert.True(t, intent.SetVY)
		assert.Equal(t, 0.0, intent.VY)
		assert.True(t, intent.Gravity.Suppressed)
	})

	blocked := []struct {
		name   string
		timers entity.PlayerTimers
	}{
		{name: "cooldown", timers: entity.PlayerTimers{DashCooldown: 5}},
		{name: "attack", timers: entity.PlayerTimers{Attack: 3}},
	}
	for _, tt := range blocked {
		t.Run("blocked by "+tt.name, func(t *testing.T) {
			st := entity.PlayerState{Facing: 1, AttackDir: entity.AttackSide, Timers: tt.timers}
			next, intent := Transition(tun, st, Input{DashPressed: true}, obs)
			assert.False(t, next.Dashing())
			assert.False(t, intent.Gravity.Suppressed)
		})
	}

	t.Run("from a wall slide dashes away from the wall", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, WallSlide: true, WallSide: entity.WallRight}
		next, intent := Transition(tun, st, Input{DashPressed: true}, Observation{})
		assert.Equal(t, -1, next.Facing)
		assert.False(t, next.WallSlide)
		assert.Less(t, intent.VX, 0.0)
	})

	t.Run("cooldown only counts down after the dash", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{Dash: 5, DashCooldown: 40}}
		next, _ := Transition(tun, st, Input{}, obs)
		assert.Equal(t, 40, next.Timers.DashCooldown)

		st = entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{DashCooldown: 40}}
		next, _ = Transition(tun, st, Input{}, obs)
		assert.Equal(t, 39, next.Timers.DashCooldown)
	})
}

func TestTransition_Jump(t *testing.T) {
	tun := createTestTuning()
	jump := tun.Physics.Jump

	t.Run("grounded press jumps", func(t *testing.T) {
		obs := Observation{Contacts: entity.Contacts{OnGround: true}}
		in := Input{InputState: InputState{Jump: true}, JumpPressed: true}
		next, intent := Transition(tun, entity.PlayerState{Facing: 1}, in, obs)
		assert.True(t, intent.SetVY)
		assert.Equal(t, jump.Impulse, intent.VY)
		assert.Equal(t, 0.0, intent.HoldForce)
		assert.Equal(t, jump.HoldFrames, next.Timers.JumpHold)
	})

	t.Run("airborne press without wall does nothing", func(t *testing.T) {
		in := Input{InputState: InputState{Jump: true}, JumpPressed: true}
		next, intent := Transition(tun, entity.PlayerState{Facing: 1}, in, Observation{VY: 3})
		assert.False(t, intent.SetVY)
		assert.Equal(t, 0, next.Timers.JumpHold)
	})

	t.Run("holding spends the budget", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{JumpHold: 2}}
		in := Input{InputState: InputState{Jump: true}}

		next, intent := Transition(tun, st, in, Observation{VY: -8})
		assert.Equal(t, jump.HoldForce, intent.HoldForce)
		assert.Equal(t, 1, next.Timers.JumpHold)

		next, _ = Transition(tun, next, in, Observation{VY: -8})
		next, intent = Transition(tun, next, in, Observation{VY: -8})
		assert.Equal(t, 0.0, intent.HoldForce)
		assert.Equal(t, 0, next.Timers.JumpHold)
	})

	t.Run("release ends the budget", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{JumpHold: 10}}
		next, intent := Transition(tun, st, Input{JumpReleased: true}, Observation{VY: -8})
		assert.Equal(t, 0.0, intent.HoldForce)
		assert.Equal(t, 0, next.Timers.JumpHold)

		// A fresh press after the release does not revive the old budget
		var tracker InputTracker
		tracker.Next(InputState{Jump: true})
		next, _ = Transition(tun, entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{JumpHold: 10}}, tracker.Next(InputState{}), Observation{VY: -8})
		assert.Equal(t, 0, next.Timers.JumpHold)
	})

	t.Run("wall jump from a left wall slide", func(t *testing.T) {
		st := entity.PlayerState{Facing: -1, WallSlide: true, WallSide: entity.WallLeft}
		in := Input{InputState: InputState{Jump: true, Left: true}, JumpPressed: true}
		next, intent := Transition(tun, st, in, Observation{Contacts: entity.Contacts{OnWallLeft: true}, VY: 2})

		assert.True(t, intent.SetVY)
		assert.Equal(t, jump.Impulse, intent.VY)
		assert.Greater(t, intent.VX, 0.0)
		assert.Equal(t, tun.Physics.Movement.Speed*tun.Physics.WallSlide.JumpPush, intent.VX)
		assert.Equal(t, 1, next.Facing)
		assert.False(t, next.WallSlide)
		assert.Equal(t, entity.WallNone, next.WallSide)
		assert.Equal(t, tun.Physics.WallSlide.LockFrames, next.Timers.WallJumpLock)
	})

	t.Run("wall slide attenuates gravity", func(t *testing.T) {
		st := entity.PlayerState{Facing: 1, WallSlide: true, WallSide: entity.WallRight}
		_, intent := Transition(tun, st, Input{InputState: InputState{Right: true}}, Observation{VY: 2})
		assert.Equal(t, tun.Physics.WallSlide.GravityScale, intent.Gravity.Scale)
		assert.Equal(t, tun.Physics.WallSlide.MaxSpeed, intent.Gravity.MaxFall)
	})
}

func TestTransition_TimersNeverNegative(t *testing.T) {
	tun := createTestTuning()
	st := entity.PlayerState{Facing: 1, Timers: entity.PlayerTimers{
		Dash: 2, DashCooldown: 3, Attack: 1, AttackCooldown: 2, Invincible: 1, Stun: 2, WallJumpLock: 1, JumpHold: 1,
	}}
	for i := 0; i < 100; i++ {
		st, _ = Transition(tun, st, Input{}, Observation{})
	}
	assert.Equal(t, entity.PlayerTimers{}, st.Timers)
}

func TestDisplayAction(t *testing.T) {
	ground := entity.Contacts{OnGround: true}
	air := entity.Contacts{}

	tests := []struct {
		name   string
		st     entity.PlayerState
		c      entity.Contacts
		vx, vy float64
		want   entity.Action
	}{
		{name: "idle", c: ground, want: entity.ActionIdle},
		{name: "run", c: ground, vx: 5, want: entity.ActionRun},
		{name: "jump", c: air, vy: -3, want: entity.ActionJump},
		{name: "fall", c: air, vy: 3, want: entity.ActionFall},
		{name: "wall slide beats airborne", st: entity.PlayerState{WallSlide: true}, c: air, vy: 2, want: entity.ActionWallSlide},
		{name: "dash beats run", st: entity.PlayerState{Timers: entity.PlayerTimers{Dash: 3}}, c: ground, vx: 12, want: entity.ActionDash},
		{
			name: "attack beats dash",
			st:   entity.PlayerState{AttackDir: entity.AttackUp, Timers: entity.PlayerTimers{Attack: 3, Dash: 3}},
			c:    air, vx: 12,
			want: entity.ActionAttackUp,
		},
		{
			name: "down attack",
			st:   entity.PlayerState{AttackDir: entity.AttackDown, Timers: entity.PlayerTimers{Attack: 3}},
			c:    air, vy: 4,
			want: entity.ActionAttackDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayAction(tt.st, tt.c, tt.vx, tt.vy))
		})
	}
}

func TestAttackBox(t *testing.T) {
	attacks := config.DefaultEntities().Player.Attacks
	body := entity.Rect{X: 100, Y: 100, W: 40, H: 60}

	tests := []struct {
		name   string
		dir    entity.AttackDir
		facing int
		want   entity.Rect
	}{
		{name: "side right", dir: entity.AttackSide, facing: 1, want: entity.Rect{X: 140, Y: 105, W: 60, H: 50}},
		{name: "side left", dir: entity.AttackSide, facing: -1, want: entity.Rect{X: 40, Y: 105, W: 60, H: 50}},
		{name: "up", dir: entity.AttackUp, facing: 1, want: entity.Rect{X: 100, Y: 40, W: 40, H: 60}},
		{name: "down", dir: entity.AttackDown, facing: -1, want: entity.Rect{X: 100, Y: 160, W: 40, H: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AttackBox(attacks, tt.dir, tt.facing, body))
		})
	}
}

func TestPlayerSystem_JumpLandsOnSamePlatform(t *testing.T) {
	r := newGroundedRig(t)
	startY := r.player.Y
	jump := r.cfg.Physics.Jump

	r.step(InputState{Jump: true})
	assert.False(t, r.player.OnGround, "airborne within one tick")
	assert.Equal(t, entity.ActionJump, r.player.State.Action)

	ticks := 1
	for !r.player.OnGround && ticks < 200 {
		r.step(InputState{})
		ticks++
	}

	expected := 2 * -jump.Impulse / r.cfg.Physics.Physics.Gravity
	assert.InDelta(t, expected, float64(ticks), 1.5)
	assert.Equal(t, startY, r.player.Y)
	assert.Equal(t, entity.ActionIdle, r.player.State.Action)
}

func TestPlayerSystem_VariableJumpHeight(t *testing.T) {
	apex := func(hold int) float64 {
		r := newGroundedRig(t)
		minY := r.player.Y
		for i := 0; i < 80; i++ {
			r.step(InputState{Jump: i < hold})
			if r.player.Y < minY {
				minY = r.player.Y
			}
		}
		return minY
	}

	tap := apex(1)
	short := apex(5)
	full := apex(30)

	assert.Less(t, short, tap)
	assert.Less(t, full, short)
}

func TestPlayerSystem_Dash(t *testing.T) {
	r := newGroundedRig(t)
	dash := r.cfg.Physics.Dash

	r.step(InputState{Dash: true})
	dashTicks := 1
	require.Equal(t, dash.Speed, r.player.VX)
	require.Equal(t, entity.ActionDash, r.player.State.Action)

	for i := 0; i < 30; i++ {
		r.step(InputState{Left: true})
		if r.player.VX == dash.Speed {
			dashTicks++
			assert.Equal(t, 0.0, r.player.VY, "gravity has no effect during the dash")
			assert.True(t, r.player.IsInvincible(dash.Invincible))
		}
		if i == dash.Duration-1 {
			assert.False(t, r.player.State.Dashing())
			assert.Greater(t, r.player.State.Timers.DashCooldown, 0)
		}
	}
	assert.Equal(t, dash.Duration, dashTicks)

	// A second press right away is refused
	r.step(InputState{Dash: true})
	assert.False(t, r.player.State.Dashing())
}

func TestPlayerSystem_AttackIgnoresDirection(t *testing.T) {
	r := newGroundedRig(t)
	attacks := r.cfg.Entities.Player.Attacks

	r.step(InputState{Attack: true})
	require.True(t, r.player.State.Attacking())
	require.True(t, r.player.HitboxLive)
	assert.Equal(t, entity.ActionAttackSide, r.player.State.Action)
	assert.Equal(t, AttackBox(attacks, entity.AttackSide, 1, r.player.Rect()), r.player.Hitbox)

	for i := 1; i < attacks.Side.Duration; i++ {
		held := InputState{Left: i%2 == 0, Right: i%2 == 1}
		r.step(held)
		require.True(t, r.player.State.Attacking(), "tick %d", i)
		assert.Equal(t, 0.0, r.player.VX)
		assert.Equal(t, 1, r.player.State.Facing)
	}

	r.step(InputState{Left: true})
	assert.False(t, r.player.State.Attacking())
	assert.Equal(t, entity.Rect{}, r.player.Hitbox)
	assert.False(t, r.player.HitboxLive)
	assert.Equal(t, -r.cfg.Physics.Movement.Speed, r.player.VX)
}

func TestPlayerSystem_AttackFromRestKeepsStill(t *testing.T) {
	r := newGroundedRig(t)

	r.step(InputState{Right: true, Attack: true})
	require.True(t, r.player.State.Attacking())
	assert.Equal(t, 0.0, r.player.VX)

	r.step(InputState{Right: true, Attack: true})
	assert.Equal(t, 0.0, r.player.VX)
}

func TestPlayerSystem_DownAttackTracksBody(t *testing.T) {
	r := newPlayerRig(t, 100, 20)
	r.step(InputState{})
	r.step(InputState{Down: true, Attack: true})
	require.Equal(t, entity.AttackDown, r.player.State.AttackDir)

	attacks := r.cfg.Entities.Player.Attacks
	for i := 0; i < 5; i++ {
		r.step(InputState{Down: true})
		assert.Equal(t, AttackBox(attacks, entity.AttackDown, r.player.State.Facing, r.player.Rect()), r.player.Hitbox)
	}
}

func TestPlayerSystem_WallSlide(t *testing.T) {
	wall := solid("wall", 300, 0, 20, 250)

	t.Run("pressing into a wall while falling slides", func(t *testing.T) {
		r := newPlayerRig(t, 255, 50, wall)
		for i := 0; i < 6; i++ {
			r.step(InputState{Right: true})
		}
		assert.True(t, r.player.State.WallSlide)
		assert.Equal(t, entity.WallRight, r.player.State.WallSide)
		assert.Equal(t, entity.ActionWallSlide, r.player.State.Action)
		assert.LessOrEqual(t, r.player.VY, r.cfg.Physics.WallSlide.MaxSpeed)
	})

	t.Run("losing pressure exits", func(t *testing.T) {
		r := newPlayerRig(t, 255, 50, wall)
		for i := 0; i < 6; i++ {
			r.step(InputState{Right: true})
		}
		require.True(t, r.player.State.WallSlide)

		r.step(InputState{})
		assert.False(t, r.player.State.WallSlide)
		assert.Equal(t, entity.ActionFall, r.player.State.Action)
	})

	t.Run("rising against a wall does not slide", func(t *testing.T) {
		r := newGroundedRig(t, wall)
		r.player.X = 255
		r.step(InputState{Right: true, Jump: true})
		r.step(InputState{Right: true, Jump: true})
		assert.True(t, r.player.OnWallRight)
		assert.False(t, r.player.State.WallSlide)
	})

	t.Run("landing exits", func(t *testing.T) {
		r := newPlayerRig(t, 255, 150, wall)
		for i := 0; i < 40 && !r.player.OnGround; i++ {
			r.step(InputState{Right: true})
		}
		require.True(t, r.player.OnGround)
		assert.False(t, r.player.State.WallSlide)
	})

	t.Run("world edge arms the slide", func(t *testing.T) {
		r := newPlayerRig(t, 2, 50)
		for i := 0; i < 4; i++ {
			r.step(InputState{Left: true})
		}
		assert.True(t, r.player.AtBoundary)
		assert.True(t, r.player.State.WallSlide)
		assert.Equal(t, entity.WallLeft, r.player.State.WallSide)
	})
}

func TestPlayerSystem_WallJump(t *testing.T) {
	r := newPlayerRig(t, 2, 50)
	for i := 0; i < 4; i++ {
		r.step(InputState{Left: true})
	}
	require.True(t, r.player.State.WallSlide)

	r.step(InputState{Left: true, Jump: true})
	push := r.cfg.Physics.Movement.Speed * r.cfg.Physics.WallSlide.JumpPush
	assert.Equal(t, push, r.player.VX)
	assert.Less(t, r.player.VY, 0.0)
	assert.False(t, r.player.State.WallSlide)
	assert.Equal(t, 1, r.player.State.Facing)

	// Holding toward the wall does not cancel the push while locked
	for i := 1; i < r.cfg.Physics.WallSlide.LockFrames; i++ {
		r.step(InputState{Left: true, Jump: true})
		assert.Equal(t, push, r.player.VX, "tick %d", i)
	}
	r.step(InputState{Left: true})
	assert.Equal(t, -r.cfg.Physics.Movement.Speed, r.player.VX)
}

func TestPlayerSystem_StunIgnoresInput(t *testing.T) {
	r := newGroundedRig(t)
	r.player.State.Timers.Stun = 3
	r.player.VX = 6

	r.step(InputState{Left: true})
	assert.Equal(t, 6.0, r.player.VX)
	assert.True(t, r.player.IsStunned())
}

func TestPlayerSystem_DeadPlayerIsFrozen(t *testing.T) {
	r := newGroundedRig(t)
	r.player.Masks = 0
	r.player.Alive = false
	x := r.player.X

	r.step(InputState{Right: true, Jump: true})
	assert.Equal(t, x, r.player.X)
	assert.True(t, r.player.OnGround)
}
