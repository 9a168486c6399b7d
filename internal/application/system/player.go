package system

import (
	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// PlayerTuning is the configuration the player controller reads
type PlayerTuning struct {
	Physics *config.PhysicsConfig
	Player  *config.PlayerConfig
}

// Transition is the player state machine. Given the current state, this
// tick's input and what the body observed last tick, it returns the next
// state and the velocity change to apply. It has no side effects.
func Transition(cfg PlayerTuning, st entity.PlayerState, in Input, obs Observation) (entity.PlayerState, Intent) {
	phys := cfg.Physics
	attacks := cfg.Player.Attacks

	next := st
	t := &next.Timers
	intent := Intent{Gravity: NormalGravity}

	countdown(&t.Invincible)
	countdown(&t.Stun)
	countdown(&t.WallJumpLock)
	countdown(&t.AttackCooldown)
	countdown(&t.Dash)
	if t.Dash == 0 {
		countdown(&t.DashCooldown)
	}
	if t.Attack > 0 {
		t.Attack--
		if t.Attack == 0 {
			next.AttackDir = entity.AttackNone
		}
	}

	grounded := obs.OnGround
	if grounded {
		next.WallSlide = false
		next.WallSide = entity.WallNone
	}

	// Attack
	if in.AttackPressed && t.AttackCooldown == 0 && t.Attack == 0 && t.Dash == 0 {
		dir := entity.AttackSide
		switch {
		case in.Up:
			dir = entity.AttackUp
		case in.Down && !grounded:
			dir = entity.AttackDown
		}
		next.AttackDir = dir
		t.Attack = attacks.Attack(dir).Duration
		t.AttackCooldown = attacks.Cooldown
		intent.StartAttack = true
	}

	// Horizontal input, ignored from the tick an attack starts
	if t.Dash == 0 && t.Attack == 0 && t.Stun == 0 && t.WallJumpLock == 0 {
		h := in.Horizontal()
		intent.SetVX = true
		intent.VX = float64(h) * phys.Movement.Speed
		if h != 0 {
			next.Facing = h
		}
	}

	// Dash
	if in.DashPressed && t.Dash == 0 && t.DashCooldown == 0 && t.Attack == 0 {
		if next.WallSlide {
			next.Facing = -next.WallSide.Dir()
		}
		t.Dash = phys.Dash.Duration
		t.DashCooldown = phys.Dash.Cooldown
		t.JumpHold = 0
		next.WallSlide = false
		next.WallSide = entity.WallNone
	}

	// Jump, wall jump and hold
	switch {
	case in.JumpPressed && t.Dash == 0 && grounded:
		intent.SetVY = true
		intent.VY = phys.Jump.Impulse
		t.JumpHold = phys.Jump.HoldFrames
	case in.JumpPressed && t.Dash == 0 && next.WallSlide:
		away := -next.WallSide.Dir()
		intent.SetVX = true
		intent.VX = float64(away) * phys.Movement.Speed * phys.WallSlide.JumpPush
		intent.SetVY = true
		intent.VY = phys.Jump.Impulse
		next.Facing = away
		next.WallSlide = false
		next.WallSide = entity.WallNone
		t.WallJumpLock = phys.WallSlide.LockFrames
		t.JumpHold = 0
	case in.Jump && t.JumpHold > 0:
		intent.HoldForce = phys.Jump.HoldForce
		t.JumpHold--
	}
	if in.JumpReleased {
		t.JumpHold = 0
	}

	if next.WallSlide {
		intent.Gravity = Gravity{Scale: phys.WallSlide.GravityScale, MaxFall: phys.WallSlide.MaxSpeed}
	}

	if t.Dash > 0 {
		intent.SetVX = true
		intent.VX = float64(next.Facing) * phys.Dash.Speed
		intent.SetVY = true
		intent.VY = 0
		intent.HoldForce = 0
		intent.Gravity = Gravity{Suppressed: true}
	}

	return next, intent
}

// DisplayAction picks the shown state: attack, dash, wall slide, airborne, run, idle
func DisplayAction(st entity.PlayerState, c entity.Contacts, vx, vy float64) entity.Action {
	switch {
	case st.Attacking():
		return st.AttackDir.Action()
	case st.Dashing():
		return entity.ActionDash
	case st.WallSlide:
		return entity.ActionWallSlide
	case !c.OnGround:
		if vy < 0 {
			return entity.ActionJump
		}
		return entity.ActionFall
	case vx != 0:
		return entity.ActionRun
	default:
		return entity.ActionIdle
	}
}

// AttackBox returns the hitbox for an attack anchored to the body
func AttackBox(cfg config.AttacksConfig, dir entity.AttackDir, facing int, body entity.Rect) entity.Rect {
	a := cfg.Attack(dir)
	switch dir {
	case entity.AttackUp:
		return entity.Rect{X: body.CenterX() - a.Width/2, Y: body.Y - a.Height, W: a.Width, H: a.Height}
	case entity.AttackDown:
		return entity.Rect{X: body.CenterX() - a.Width/2, Y: body.Bottom(), W: a.Width, H: a.Height}
	default:
		x := body.Right()
		if facing < 0 {
			x = body.X - a.Width
		}
		return entity.Rect{X: x, Y: body.CenterY() - a.Height/2, W: a.Width, H: a.Height}
	}
}

// PlayerSystem runs the player controller each tick
type PlayerSystem struct {
	physics *PhysicsSystem
	tuning  PlayerTuning
}

// NewPlayerSystem creates a new player system
func NewPlayerSystem(physics *PhysicsSystem, cfg *config.GameConfig) *PlayerSystem {
	return &PlayerSystem{
		physics: physics,
		tuning:  PlayerTuning{Physics: cfg.Physics, Player: &cfg.Entities.Player},
	}
}

// SetConfig swaps the tuning; call it between ticks only
func (s *PlayerSystem) SetConfig(cfg *config.GameConfig) {
	s.tuning = PlayerTuning{Physics: cfg.Physics, Player: &cfg.Entities.Player}
}

// Update runs transition, integration, resolution and the contact reaction
func (s *PlayerSystem) Update(p *entity.Player, in Input) {
	if !p.Alive {
		return
	}

	obs := Observation{Contacts: p.Contacts, VX: p.VX, VY: p.VY}
	next, intent := Transition(s.tuning, p.State, in, obs)
	p.State = next

	if !p.State.Attacking() {
		p.Hitbox = entity.Rect{}
		p.HitboxLive = false
		p.Struck = p.Struck[:0]
	}
	if intent.StartAttack {
		p.Struck = p.Struck[:0]
		p.HitboxLive = true
	}

	intent.Apply(&p.Body)
	s.physics.Step(&p.Body, intent.Gravity)
	s.React(p, in)
}

// React updates the state from the contacts the resolver just reported
func (s *PlayerSystem) React(p *entity.Player, in Input) {
	st := &p.State

	if p.OnGround || p.OnCeiling {
		st.Timers.JumpHold = 0
	}

	pressure := 0
	if !st.Attacking() && !st.Dashing() && st.Timers.WallJumpLock == 0 && st.Timers.Stun == 0 {
		pressure = in.Horizontal()
	}
	switch {
	case p.OnGround || st.Dashing():
		st.WallSlide = false
		st.WallSide = entity.WallNone
	case p.VY > 0 && pressure != 0 && p.Wall().Dir() == pressure:
		st.WallSlide = true
		st.WallSide = p.Wall()
	default:
		st.WallSlide = false
		st.WallSide = entity.WallNone
	}

	if st.Attacking() {
		p.Hitbox = AttackBox(s.tuning.Player.Attacks, st.AttackDir, st.Facing, p.Rect())
	}

	st.Action = DisplayAction(*st, p.Contacts, p.VX, p.VY)
}

// Pogo cancels a downward attack into an upward bounce
func (s *PlayerSystem) Pogo(p *entity.Player) {
	pogo := s.tuning.Player.Attacks.Pogo
	p.ClearAttack()
	p.VY = pogo.Bounce
	p.State.Timers.JumpHold = 0
	if p.State.Timers.AttackCooldown > pogo.Cooldown {
		p.State.Timers.AttackCooldown = pogo.Cooldown
	}
	p.State.Action = DisplayAction(p.State, p.Contacts, p.VX, p.VY)
}

// InPogoWindow reports whether a downward attack is in its final ticks while falling
func (s *PlayerSystem) InPogoWindow(p *entity.Player) bool {
	st := p.State
	return st.AttackDir == entity.AttackDown &&
		st.Attacking() &&
		st.Timers.Attack <= s.tuning.Player.Attacks.Pogo.Window &&
		p.VY >= 0
}

func countdown(v *int) {
	if *v > 0 {
		*v--
	}
}
