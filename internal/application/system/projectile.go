package system

import (
	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
)

// ProjectileSystem moves projectiles in a straight line
type ProjectileSystem struct {
	world *world.World
}

// NewProjectileSystem creates a new projectile system
func NewProjectileSystem(w *world.World) *ProjectileSystem {
	return &ProjectileSystem{world: w}
}

// UpdateAll advances every active projectile
func (s *ProjectileSystem) UpdateAll(projectiles []*entity.Projectile) {
	for _, p := range projectiles {
		s.Update(p)
	}
}

// Update moves the projectile and retires it on a solid, past the
// horizontal world edge or beyond its range
func (s *ProjectileSystem) Update(p *entity.Projectile) {
	if !p.Active {
		return
	}

	p.X += p.VX
	p.Y += p.VY

	switch {
	case s.world.OverlapsSolid(p.Rect()):
		p.Deactivate()
	case p.X+p.W <= 0 || p.X >= s.world.Width():
		p.Deactivate()
	case p.Travelled() > p.Range:
		p.Deactivate()
	}
}

// Prune drops inactive projectiles, reusing the slice
func Prune(projectiles []*entity.Projectile) []*entity.Projectile {
	kept := projectiles[:0]
	for _, p := range projectiles {
		if p.Active {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(projectiles); i++ {
		projectiles[i] = nil
	}
	return kept
}
