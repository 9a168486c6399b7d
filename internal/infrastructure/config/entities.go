package config

import "github.com/younwookim/poxel/internal/domain/entity"

// EntitiesConfig is the root config for entities.json
type EntitiesConfig struct {
	Player      PlayerConfig                `json:"player"`
	Enemies     map[string]EnemyConfig      `json:"enemies"`
	Projectiles map[string]ProjectileConfig `json:"projectiles"`
}

type PlayerConfig struct {
	Size    SizeConfig    `json:"size"`
	Stats   PlayerStats   `json:"stats"`
	Attacks AttacksConfig `json:"attacks"`
}

type SizeConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PlayerStats struct {
	MaxMasks     int `json:"maxMasks"`
	AttackDamage int `json:"attackDamage"`
}

// AttacksConfig holds one hitbox per direction plus the shared cooldown and pogo tuning
type AttacksConfig struct {
	Cooldown int          `json:"cooldown"`
	Side     AttackConfig `json:"side"`
	Up       AttackConfig `json:"up"`
	Down     AttackConfig `json:"down"`
	Pogo     PogoConfig   `json:"pogo"`
}

type AttackConfig struct {
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Duration int     `json:"duration"`
}

// PogoConfig tunes the downward-strike bounce.
// Window counts the final ticks of the down attack in which a bounce can trigger.
type PogoConfig struct {
	Window   int     `json:"window"`
	Bounce   float64 `json:"bounce"`
	Cooldown int     `json:"cooldown"`
}

// Attack returns the hitbox config for a direction
func (a AttacksConfig) Attack(dir entity.AttackDir) AttackConfig {
	switch dir {
	case entity.AttackUp:
		return a.Up
	case entity.AttackDown:
		return a.Down
	default:
		return a.Side
	}
}

type EnemyConfig struct {
	Size  SizeConfig `json:"size"`
	Stats EnemyStats `json:"stats"`
	AI    AIConfig   `json:"ai"`
}

type EnemyStats struct {
	MaxHealth int `json:"maxHealth"`
}

type AIConfig struct {
	Speed          float64 `json:"speed"`
	ChaseSpeed     float64 `json:"chaseSpeed"`
	DetectRange    float64 `json:"detectRange"`
	ShootRange     float64 `json:"shootRange"`
	ShootCooldown  int     `json:"shootCooldown"`
	Projectile     string  `json:"projectile"`
	PatrolDistance float64 `json:"patrolDistance"`
	HopChance      float64 `json:"hopChance"`
	HopImpulse     float64 `json:"hopImpulse"`

	ChaseJumpImpulse  float64 `json:"chaseJumpImpulse"`
	ChaseJumpHeight   float64 `json:"chaseJumpHeight"`
	ChaseJumpCooldown int     `json:"chaseJumpCooldown"`
}

type ProjectileConfig struct {
	Size  SizeConfig `json:"size"`
	Speed float64    `json:"speed"`
	Range float64    `json:"range"`
}

// EnemyStats converts the archetype into the stats copied onto a spawned enemy
func (c EnemyConfig) EnemyStats() entity.EnemyStats {
	return entity.EnemyStats{
		MaxHealth:         c.Stats.MaxHealth,
		Speed:             c.AI.Speed,
		ChaseSpeed:        c.AI.ChaseSpeed,
		DetectRange:       c.AI.DetectRange,
		ShootRange:        c.AI.ShootRange,
		ShootCooldown:     c.AI.ShootCooldown,
		PatrolDistance:    c.AI.PatrolDistance,
		HopChance:         c.AI.HopChance,
		HopImpulse:        c.AI.HopImpulse,
		ChaseJumpImpulse:  c.AI.ChaseJumpImpulse,
		ChaseJumpHeight:   c.AI.ChaseJumpHeight,
		ChaseJumpCooldown: c.AI.ChaseJumpCooldown,
		Projectile:        c.AI.Projectile,
	}
}
