package system

import (
	"fmt"

	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// PlatformFromConfig converts a stage platform entry into a platform
func PlatformFromConfig(pc config.PlatformConfig) entity.Platform {
	return entity.Platform{
		ID:      entity.PlatformID(pc.ID),
		Rect:    entity.Rect{X: pc.X, Y: pc.Y, W: pc.W, H: pc.H},
		Solid:   !pc.Decorative,
		Visible: !pc.Invisible,
	}
}

// BuildWorld converts a StageConfig into a committed World.
// Dormant platforms are left out until a death trigger spawns them.
func BuildWorld(cfg *config.StageConfig) (*world.World, error) {
	w := world.New(cfg.Size.Width, cfg.Size.Height)
	for _, pc := range cfg.Platforms {
		if pc.Dormant {
			continue
		}
		if err := w.Add(PlatformFromConfig(pc)); err != nil {
			return nil, fmt.Errorf("stage %s: %w", cfg.ID, err)
		}
	}
	if _, err := w.Commit(); err != nil {
		return nil, fmt.Errorf("stage %s: %w", cfg.ID, err)
	}
	return w, nil
}

// SpawnPlayer creates the player at the stage spawn point
func SpawnPlayer(stage *config.StageConfig, entities *config.EntitiesConfig) *entity.Player {
	pc := entities.Player
	return entity.NewPlayer(stage.PlayerSpawn.X, stage.PlayerSpawn.Y, pc.Size.Width, pc.Size.Height, pc.Stats.MaxMasks)
}

// SpawnEnemies creates the stage enemies in file order with ids starting at 1
func SpawnEnemies(stage *config.StageConfig, entities *config.EntitiesConfig) ([]*entity.Enemy, error) {
	enemies := make([]*entity.Enemy, 0, len(stage.Enemies))
	for i, sc := range stage.Enemies {
		ec, ok := entities.Enemies[sc.Type]
		if !ok {
			return nil, fmt.Errorf("stage %s: enemy %d: unknown type %q", stage.ID, i, sc.Type)
		}
		e := entity.NewEnemy(entity.EntityID(i+1), sc.Type, sc.X, sc.Y, ec.Size.Width, ec.Size.Height, ec.EnemyStats())
		if sc.FacingRight {
			e.Facing = 1
			e.PatrolDir = 1
		}
		enemies = append(enemies, e)
	}
	return enemies, nil
}
