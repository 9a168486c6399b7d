package config

import "fmt"

// StageConfig is the root config for stage YAML files
type StageConfig struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Size        StageSizeConfig    `yaml:"size"`
	PlayerSpawn PositionConfig     `yaml:"playerSpawn"`
	Platforms   []PlatformConfig   `yaml:"platforms"`
	Enemies     []EnemySpawnConfig `yaml:"enemies"`
}

type StageSizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PositionConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PlatformConfig describes one platform.
// Platforms are solid and visible unless flagged otherwise; dormant ones
// are only added when an enemy listing them in spawns dies.
type PlatformConfig struct {
	ID         string  `yaml:"id"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	W          float64 `yaml:"w"`
	H          float64 `yaml:"h"`
	Decorative bool    `yaml:"decorative"`
	Invisible  bool    `yaml:"invisible"`
	Dormant    bool    `yaml:"dormant"`
}

// EnemySpawnConfig places an enemy and the world changes its death triggers
type EnemySpawnConfig struct {
	Type        string   `yaml:"type"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	FacingRight bool     `yaml:"facingRight"`
	Unlocks     []string `yaml:"unlocks"`
	Spawns      []string `yaml:"spawns"`
}

// Platform returns the platform config with the given id
func (s *StageConfig) Platform(id string) (PlatformConfig, bool) {
	for _, p := range s.Platforms {
		if p.ID == id {
			return p, true
		}
	}
	return PlatformConfig{}, false
}

// Validate checks the stage on its own and against the entity archetypes
func (s *StageConfig) Validate(entities *EntitiesConfig) error {
	var p problems

	p.positive("size.width", s.Size.Width)
	p.positive("size.height", s.Size.Height)
	if s.PlayerSpawn.X < 0 || s.PlayerSpawn.X > s.Size.Width || s.PlayerSpawn.Y < 0 || s.PlayerSpawn.Y > s.Size.Height {
		p.addf("playerSpawn (%v,%v) outside stage", s.PlayerSpawn.X, s.PlayerSpawn.Y)
	}

	seen := make(map[string]bool, len(s.Platforms))
	for i, pl := range s.Platforms {
		name := pl.ID
		if name == "" {
			p.addf("platforms[%d] has no id", i)
			name = fmt.Sprintf("#%d", i)
		} else if seen[pl.ID] {
			p.addf("platform %q defined twice", pl.ID)
		}
		seen[pl.ID] = true
		p.positive("platform "+name+" w", pl.W)
		p.positive("platform "+name+" h", pl.H)
		if pl.X < 0 || pl.Y < 0 || pl.X+pl.W > s.Size.Width || pl.Y+pl.H > s.Size.Height {
			p.addf("platform %s outside stage", name)
		}
	}

	for i, e := range s.Enemies {
		if entities != nil {
			if _, ok := entities.Enemies[e.Type]; !ok {
				p.addf("enemies[%d] has unknown type %q", i, e.Type)
			}
		}
		for _, id := range e.Unlocks {
			pl, ok := s.Platform(id)
			if !ok {
				p.addf("enemies[%d] unlocks unknown platform %q", i, id)
			} else if pl.Dormant {
				p.addf("enemies[%d] unlocks dormant platform %q", i, id)
			}
		}
		for _, id := range e.Spawns {
			pl, ok := s.Platform(id)
			if !ok {
				p.addf("enemies[%d] spawns unknown platform %q", i, id)
			} else if !pl.Dormant {
				p.addf("enemies[%d] spawns platform %q that is not dormant", i, id)
			}
		}
	}

	return p.err()
}
