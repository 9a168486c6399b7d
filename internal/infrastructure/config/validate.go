package config

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

type problems []error

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Errorf(format, args...))
}

func (p *problems) positive(name string, v float64) {
	if !(v > 0) {
		p.addf("%s must be positive, got %v", name, v)
	}
}

func (p *problems) positiveInt(name string, v int) {
	if v <= 0 {
		p.addf("%s must be positive, got %d", name, v)
	}
}

func (p *problems) nonNegative(name string, v float64) {
	if !(v >= 0) {
		p.addf("%s must not be negative, got %v", name, v)
	}
}

func (p *problems) nonNegativeInt(name string, v int) {
	if v < 0 {
		p.addf("%s must not be negative, got %d", name, v)
	}
}

func (p *problems) upward(name string, v float64) {
	if !(v < 0) {
		p.addf("%s must be negative (upward), got %v", name, v)
	}
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(p...))
}

// Validate rejects physics tuning that cannot drive a simulation
func (c *PhysicsConfig) Validate() error {
	var p problems

	p.positiveInt("display.screenWidth", c.Display.ScreenWidth)
	p.positiveInt("display.screenHeight", c.Display.ScreenHeight)
	p.positiveInt("display.scale", c.Display.Scale)
	p.positiveInt("display.framerate", c.Display.Framerate)

	p.positive("physics.gravity", c.Physics.Gravity)
	p.positive("physics.maxFallSpeed", c.Physics.MaxFallSpeed)
	p.positive("movement.speed", c.Movement.Speed)

	p.upward("jump.impulse", c.Jump.Impulse)
	if c.Jump.HoldForce > 0 {
		p.addf("jump.holdForce must not push downward, got %v", c.Jump.HoldForce)
	}
	p.nonNegativeInt("jump.holdFrames", c.Jump.HoldFrames)

	if !(c.WallSlide.GravityScale > 0 && c.WallSlide.GravityScale <= 1) {
		p.addf("wallSlide.gravityScale must be in (0,1], got %v", c.WallSlide.GravityScale)
	}
	p.positive("wallSlide.maxSpeed", c.WallSlide.MaxSpeed)
	p.positive("wallSlide.jumpPush", c.WallSlide.JumpPush)
	p.nonNegativeInt("wallSlide.lockFrames", c.WallSlide.LockFrames)

	p.positive("dash.speed", c.Dash.Speed)
	p.positiveInt("dash.duration", c.Dash.Duration)
	p.nonNegativeInt("dash.cooldown", c.Dash.Cooldown)

	p.nonNegativeInt("combat.iframes", c.Combat.Iframes)
	p.nonNegative("combat.knockback.force", c.Combat.Knockback.Force)
	p.nonNegative("combat.knockback.upForce", c.Combat.Knockback.UpForce)
	p.nonNegativeInt("combat.knockback.stunFrames", c.Combat.Knockback.StunFrames)
	p.nonNegative("combat.enemyKnockback", c.Combat.EnemyKnockback)
	p.nonNegativeInt("combat.enemyHitStun", c.Combat.EnemyHitStun)

	return p.err()
}

// Validate rejects entity archetypes with impossible sizes, durations or references
func (c *EntitiesConfig) Validate() error {
	var p problems

	pl := c.Player
	p.positive("player.size.width", pl.Size.Width)
	p.positive("player.size.height", pl.Size.Height)
	p.positiveInt("player.stats.maxMasks", pl.Stats.MaxMasks)
	p.positiveInt("player.stats.attackDamage", pl.Stats.AttackDamage)
	p.nonNegativeInt("player.attacks.cooldown", pl.Attacks.Cooldown)
	for _, a := range []struct {
		name string
		cfg  AttackConfig
	}{{"side", pl.Attacks.Side}, {"up", pl.Attacks.Up}, {"down", pl.Attacks.Down}} {
		p.positive("player.attacks."+a.name+".width", a.cfg.Width)
		p.positive("player.attacks."+a.name+".height", a.cfg.Height)
		p.positiveInt("player.attacks."+a.name+".duration", a.cfg.Duration)
	}
	p.nonNegativeInt("player.attacks.pogo.window", pl.Attacks.Pogo.Window)
	if pl.Attacks.Pogo.Window > pl.Attacks.Down.Duration {
		p.addf("player.attacks.pogo.window %d exceeds down attack duration %d", pl.Attacks.Pogo.Window, pl.Attacks.Down.Duration)
	}
	p.upward("player.attacks.pogo.bounce", pl.Attacks.Pogo.Bounce)
	p.nonNegativeInt("player.attacks.pogo.cooldown", pl.Attacks.Pogo.Cooldown)

	for _, name := range sortedKeys(c.Enemies) {
		e := c.Enemies[name]
		prefix := "enemies." + name
		p.positive(prefix+".size.width", e.Size.Width)
		p.positive(prefix+".size.height", e.Size.Height)
		p.positiveInt(prefix+".stats.maxHealth", e.Stats.MaxHealth)
		p.nonNegative(prefix+".ai.speed", e.AI.Speed)
		p.nonNegative(prefix+".ai.chaseSpeed", e.AI.ChaseSpeed)
		p.nonNegative(prefix+".ai.detectRange", e.AI.DetectRange)
		p.nonNegative(prefix+".ai.shootRange", e.AI.ShootRange)
		p.nonNegativeInt(prefix+".ai.shootCooldown", e.AI.ShootCooldown)
		p.nonNegative(prefix+".ai.patrolDistance", e.AI.PatrolDistance)
		if !(e.AI.HopChance >= 0 && e.AI.HopChance <= 1) {
			p.addf("%s.ai.hopChance must be in [0,1], got %v", prefix, e.AI.HopChance)
		}
		if e.AI.HopImpulse > 0 || e.AI.ChaseJumpImpulse > 0 {
			p.addf("%s.ai jump impulses must be upward", prefix)
		}
		p.nonNegativeInt(prefix+".ai.chaseJumpCooldown", e.AI.ChaseJumpCooldown)
		if e.AI.ShootRange > 0 {
			if _, ok := c.Projectiles[e.AI.Projectile]; !ok {
				p.addf("%s.ai.projectile %q is not defined", prefix, e.AI.Projectile)
			}
		}
	}

	for _, name := range sortedKeys(c.Projectiles) {
		pr := c.Projectiles[name]
		prefix := "projectiles." + name
		p.positive(prefix+".size.width", pr.Size.Width)
		p.positive(prefix+".size.height", pr.Size.Height)
		p.positive(prefix+".speed", pr.Speed)
		p.positive(prefix+".range", pr.Range)
	}

	return p.err()
}

// Validate checks both configs
func (c *GameConfig) Validate() error {
	return errors.Join(c.Physics.Validate(), c.Entities.Validate())
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
