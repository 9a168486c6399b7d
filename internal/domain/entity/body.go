package entity

import (
	"fmt"
	"math"
)

// WallSide identifies which side of a body touches a wall
type WallSide int

const (
	WallNone WallSide = iota
	WallLeft
	WallRight
)

// String returns the string representation of the wall side
func (w WallSide) String() string {
	switch w {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	default:
		return "none"
	}
}

// Dir returns -1 for a left wall, +1 for a right wall and 0 otherwise
func (w WallSide) Dir() int {
	switch w {
	case WallLeft:
		return -1
	case WallRight:
		return 1
	default:
		return 0
	}
}

// Contacts are the flags reported by the collision resolver for one tick
type Contacts struct {
	OnGround    bool
	OnCeiling   bool
	OnWallLeft  bool
	OnWallRight bool

	// AtBoundary is set when a wall contact came from the world edge
	AtBoundary bool
}

// Wall returns the side currently in horizontal contact.
// Left wins when both sides touch, which only happens in a gap exactly as wide as the body.
func (c Contacts) Wall() WallSide {
	switch {
	case c.OnWallLeft:
		return WallLeft
	case c.OnWallRight:
		return WallRight
	default:
		return WallNone
	}
}

// Body represents the physical body of an entity.
// Position is the top-left corner in pixels; velocity is in pixels per tick.
type Body struct {
	X, Y   float64
	W, H   float64
	VX, VY float64

	Contacts
}

// NewBody creates a body at rest
func NewBody(x, y, w, h float64) Body {
	return Body{X: x, Y: y, W: w, H: h}
}

// Rect returns the body rectangle in world coordinates
func (b *Body) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// ClearContacts resets all collision flags before a move
func (b *Body) ClearContacts() {
	b.Contacts = Contacts{}
}

// Validate checks the body invariants: positive size and finite kinematics
func (b *Body) Validate() error {
	if !(b.W > 0) || !(b.H > 0) {
		return fmt.Errorf("non-positive body size %vx%v", b.W, b.H)
	}
	for _, v := range [...]float64{b.X, b.Y, b.W, b.H, b.VX, b.VY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite body state pos=(%v,%v) vel=(%v,%v)", b.X, b.Y, b.VX, b.VY)
		}
	}
	return nil
}
