package config

// DefaultPhysics returns the reference physics tuning.
// Values are per tick at 60 ticks per second.
func DefaultPhysics() *PhysicsConfig {
	return &PhysicsConfig{
		Display: DisplayConfig{
			ScreenWidth:  1200,
			ScreenHeight: 800,
			Scale:        1,
			Framerate:    60,
		},
		Physics: PhysicsSettings{
			Gravity:      0.75,
			MaxFallSpeed: 10,
		},
		Movement: MovementConfig{
			Speed: 5,
		},
		Jump: JumpConfig{
			Impulse:    -11,
			HoldForce:  -0.5,
			HoldFrames: 15,
		},
		WallSlide: WallSlideConfig{
			GravityScale: 0.25,
			MaxSpeed:     2.5,
			JumpPush:     1.6,
			LockFrames:   8,
		},
		Dash: DashConfig{
			Speed:      12,
			Duration:   10,
			Cooldown:   40,
			Invincible: true,
		},
		Combat: CombatConfig{
			Iframes: 60,
			Knockback: KnockbackConfig{
				Force:      6,
				UpForce:    5,
				StunFrames: 12,
			},
			EnemyKnockback: 4,
			EnemyHitStun:   10,
		},
	}
}

// DefaultEntities returns the reference player, enemy and projectile archetypes
func DefaultEntities() *EntitiesConfig {
	return &EntitiesConfig{
		Player: PlayerConfig{
			Size: SizeConfig{Width: 40, Height: 60},
			Stats: PlayerStats{
				MaxMasks:     5,
				AttackDamage: 10,
			},
			Attacks: AttacksConfig{
				Cooldown: 20,
				Side:     AttackConfig{Width: 60, Height: 50, Duration: 12},
				Up:       AttackConfig{Width: 40, Height: 60, Duration: 12},
				Down:     AttackConfig{Width: 40, Height: 60, Duration: 16},
				Pogo: PogoConfig{
					Window:   6,
					Bounce:   -10,
					Cooldown: 6,
				},
			},
		},
		Enemies: map[string]EnemyConfig{
			"crawler": {
				Size:  SizeConfig{Width: 50, Height: 40},
				Stats: EnemyStats{MaxHealth: 30},
				AI: AIConfig{
					Speed:             1.5,
					ChaseSpeed:        2.5,
					DetectRange:       300,
					PatrolDistance:    100,
					HopChance:         0.005,
					HopImpulse:        -6,
					ChaseJumpImpulse:  -11,
					ChaseJumpHeight:   80,
					ChaseJumpCooldown: 90,
				},
			},
			"spitter": {
				Size:  SizeConfig{Width: 40, Height: 50},
				Stats: EnemyStats{MaxHealth: 20},
				AI: AIConfig{
					Speed:          1,
					ChaseSpeed:     1.5,
					DetectRange:    400,
					ShootRange:     250,
					ShootCooldown:  90,
					Projectile:     "spit",
					PatrolDistance: 60,
				},
			},
		},
		Projectiles: map[string]ProjectileConfig{
			"spit": {
				Size:  SizeConfig{Width: 12, Height: 8},
				Speed: 6,
				Range: 400,
			},
		},
	}
}

// Default returns both default configs
func Default() *GameConfig {
	return &GameConfig{
		Physics:  DefaultPhysics(),
		Entities: DefaultEntities(),
	}
}
