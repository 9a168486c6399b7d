package system

import "github.com/younwookim/poxel/internal/domain/entity"

// Observation is what the player controller sees of its own body:
// last tick's contacts and the current velocity
type Observation struct {
	entity.Contacts
	VX, VY float64
}

// Intent is the velocity change the player controller requests for one tick.
// It is applied before gravity and movement.
type Intent struct {
	SetVX bool
	VX    float64
	SetVY bool
	VY    float64

	// HoldForce is added to vy after SetVY (variable jump height)
	HoldForce float64

	Gravity Gravity

	// StartAttack asks the apply step to build a fresh hitbox
	StartAttack bool
}

// Apply writes the intent into the body velocity
func (i Intent) Apply(b *entity.Body) {
	if i.SetVX {
		b.VX = i.VX
	}
	if i.SetVY {
		b.VY = i.VY
	}
	b.VY += i.HoldForce
}
