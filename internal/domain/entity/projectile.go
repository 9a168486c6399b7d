package entity

// Projectile is a straight-flying shot spawned by a shooting enemy
type Projectile struct {
	Body
	Owner  EntityID
	StartX float64
	Range  float64
	Active bool
}

// NewProjectile creates a projectile centered on (cx, cy) moving horizontally in dir
func NewProjectile(owner EntityID, cx, cy, w, h float64, dir int, speed, maxRange float64) *Projectile {
	x := cx - w/2
	return &Projectile{
		Body: Body{
			X:  x,
			Y:  cy - h/2,
			W:  w,
			H:  h,
			VX: float64(dir) * speed,
		},
		Owner:  owner,
		StartX: x,
		Range:  maxRange,
		Active: true,
	}
}

// Travelled returns the horizontal distance covered since spawn
func (p *Projectile) Travelled() float64 {
	d := p.X - p.StartX
	if d < 0 {
		return -d
	}
	return d
}

// Deactivate marks the projectile as inactive
func (p *Projectile) Deactivate() {
	p.Active = false
}
