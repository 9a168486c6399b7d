package config

// PhysicsConfig is the root config for physics.json.
// Speeds are in pixels per tick and durations are in ticks.
type PhysicsConfig struct {
	Display   DisplayConfig   `json:"display"`
	Physics   PhysicsSettings `json:"physics"`
	Movement  MovementConfig  `json:"movement"`
	Jump      JumpConfig      `json:"jump"`
	WallSlide WallSlideConfig `json:"wallSlide"`
	Dash      DashConfig      `json:"dash"`
	Combat    CombatConfig    `json:"combat"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

type PhysicsSettings struct {
	Gravity      float64 `json:"gravity"`
	MaxFallSpeed float64 `json:"maxFallSpeed"`
}

type MovementConfig struct {
	Speed float64 `json:"speed"`
}

// JumpConfig drives the variable-height jump.
// Impulse is negative (upward); HoldForce is added each held tick while HoldFrames last.
type JumpConfig struct {
	Impulse    float64 `json:"impulse"`
	HoldForce  float64 `json:"holdForce"`
	HoldFrames int     `json:"holdFrames"`
}

type WallSlideConfig struct {
	GravityScale float64 `json:"gravityScale"`
	MaxSpeed     float64 `json:"maxSpeed"`
	JumpPush     float64 `json:"jumpPush"`   // multiplier on movement speed
	LockFrames   int     `json:"lockFrames"` // horizontal input ignored after a wall jump
}

type DashConfig struct {
	Speed      float64 `json:"speed"`
	Duration   int     `json:"duration"`
	Cooldown   int     `json:"cooldown"`
	Invincible bool    `json:"invincible"`
}

type CombatConfig struct {
	Iframes        int             `json:"iframes"`
	Knockback      KnockbackConfig `json:"knockback"`
	EnemyKnockback float64         `json:"enemyKnockback"`
	EnemyHitStun   int             `json:"enemyHitStun"`
}

type KnockbackConfig struct {
	Force      float64 `json:"force"`
	UpForce    float64 `json:"upForce"`
	StunFrames int     `json:"stunFrames"`
}
