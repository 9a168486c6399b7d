package entity

import "fmt"

// Action is the displayed/active state of the player state machine
type Action int

const (
	ActionIdle Action = iota
	ActionRun
	ActionJump
	ActionFall
	ActionDash
	ActionWallSlide
	ActionAttackSide
	ActionAttackUp
	ActionAttackDown
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case ActionIdle:
		return "Idle"
	case ActionRun:
		return "Run"
	case ActionJump:
		return "Jump"
	case ActionFall:
		return "Fall"
	case ActionDash:
		return "Dash"
	case ActionWallSlide:
		return "WallSlide"
	case ActionAttackSide:
		return "AttackSide"
	case ActionAttackUp:
		return "AttackUp"
	case ActionAttackDown:
		return "AttackDown"
	default:
		return "Unknown"
	}
}

// IsAttack returns true for the three attack variants
func (a Action) IsAttack() bool {
	return a == ActionAttackSide || a == ActionAttackUp || a == ActionAttackDown
}

// AttackDir is the direction variant of an attack, fixed at trigger time
type AttackDir int

const (
	AttackNone AttackDir = iota
	AttackSide
	AttackUp
	AttackDown
)

// String returns the string representation of the attack direction
func (d AttackDir) String() string {
	switch d {
	case AttackSide:
		return "side"
	case AttackUp:
		return "up"
	case AttackDown:
		return "down"
	default:
		return "none"
	}
}

// Action returns the display action for an attack in this direction
func (d AttackDir) Action() Action {
	switch d {
	case AttackUp:
		return ActionAttackUp
	case AttackDown:
		return ActionAttackDown
	default:
		return ActionAttackSide
	}
}

// PlayerTimers are per-tick countdowns owned by the player state machine.
// Every timer is decremented at most once per tick and never goes below zero.
type PlayerTimers struct {
	JumpHold       int
	Dash           int
	DashCooldown   int
	Attack         int
	AttackCooldown int
	Invincible     int
	Stun           int
	WallJumpLock   int
}

// PlayerState is the controller-owned part of the player:
// the tagged action plus its state-local timers.
type PlayerState struct {
	Action    Action
	Facing    int // -1 or +1
	WallSlide bool
	WallSide  WallSide
	AttackDir AttackDir
	Timers    PlayerTimers
}

// Dashing returns true while the dash timer runs
func (s PlayerState) Dashing() bool {
	return s.Timers.Dash > 0
}

// Attacking returns true while an attack is in progress
func (s PlayerState) Attacking() bool {
	return s.Timers.Attack > 0
}

// Player represents the player entity
type Player struct {
	Body
	State PlayerState

	Masks    int
	MaxMasks int
	Alive    bool

	// Hitbox is the active attack rectangle. HitboxLive is cleared once the
	// attack lands so it cannot hit again; the rectangle keeps tracking the
	// attack until it ends.
	Hitbox     Rect
	HitboxLive bool
	Struck     []EntityID
}

// NewPlayer creates a new player facing right with a full mask pool
func NewPlayer(x, y, w, h float64, maxMasks int) *Player {
	return &Player{
		Body: NewBody(x, y, w, h),
		State: PlayerState{
			Action: ActionIdle,
			Facing: 1,
		},
		Masks:    maxMasks,
		MaxMasks: maxMasks,
		Alive:    true,
	}
}

// IsInvincible returns true if the player currently ignores damage
func (p *Player) IsInvincible(dashImmune bool) bool {
	return p.State.Timers.Invincible > 0 || (dashImmune && p.State.Dashing())
}

// IsStunned returns true while hit stun suppresses input
func (p *Player) IsStunned() bool {
	return p.State.Timers.Stun > 0
}

// HasStruck reports whether the current attack already hit the enemy
func (p *Player) HasStruck(id EntityID) bool {
	for _, s := range p.Struck {
		if s == id {
			return true
		}
	}
	return false
}

// ClearAttack drops the attack hitbox and its struck list
func (p *Player) ClearAttack() {
	p.Hitbox = Rect{}
	p.HitboxLive = false
	p.Struck = p.Struck[:0]
	p.State.AttackDir = AttackNone
	p.State.Timers.Attack = 0
}

// TakeHit consumes one hit unit and reports whether the player died
func (p *Player) TakeHit() bool {
	if !p.Alive || p.Masks <= 0 {
		return false
	}
	p.Masks--
	if p.Masks == 0 {
		p.Alive = false
		return true
	}
	return false
}

// Validate checks the player invariants
func (p *Player) Validate() error {
	if err := p.Body.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if p.Masks < 0 || p.Masks > p.MaxMasks {
		return fmt.Errorf("player: masks %d outside [0,%d]", p.Masks, p.MaxMasks)
	}
	if p.Alive != (p.Masks > 0) {
		return fmt.Errorf("player: alive=%v with %d masks", p.Alive, p.Masks)
	}
	if p.State.Facing != 1 && p.State.Facing != -1 {
		return fmt.Errorf("player: facing %d", p.State.Facing)
	}
	t := p.State.Timers
	for _, v := range [...]int{t.JumpHold, t.Dash, t.DashCooldown, t.Attack, t.AttackCooldown, t.Invincible, t.Stun, t.WallJumpLock} {
		if v < 0 {
			return fmt.Errorf("player: negative timer in %+v", t)
		}
	}
	return nil
}

// MustValidate panics when an invariant is broken
func (p *Player) MustValidate() {
	if err := p.Validate(); err != nil {
		panic(err)
	}
}
