// Package keyboard samples ebiten key state into the raw input snapshot the
// simulation consumes. Edge detection happens in the simulation, not here.
package keyboard

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/poxel/internal/application/system"
)

// Bindings maps each control to the keys that hold it
type Bindings struct {
	Left   []ebiten.Key
	Right  []ebiten.Key
	Up     []ebiten.Key
	Down   []ebiten.Key
	Jump   []ebiten.Key
	Dash   []ebiten.Key
	Attack []ebiten.Key
}

// DefaultBindings covers both WASD and arrow keys
func DefaultBindings() Bindings {
	return Bindings{
		Left:   []ebiten.Key{ebiten.KeyA, ebiten.KeyArrowLeft},
		Right:  []ebiten.Key{ebiten.KeyD, ebiten.KeyArrowRight},
		Up:     []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp},
		Down:   []ebiten.Key{ebiten.KeyS, ebiten.KeyArrowDown},
		Jump:   []ebiten.Key{ebiten.KeySpace, ebiten.KeyZ},
		Dash:   []ebiten.Key{ebiten.KeyShiftLeft, ebiten.KeyC},
		Attack: []ebiten.Key{ebiten.KeyJ, ebiten.KeyX},
	}
}

// Keyboard reads held keys through a key-state function
type Keyboard struct {
	bindings Bindings
	pressed  func(ebiten.Key) bool
}

// New polls the real keyboard
func New(b Bindings) *Keyboard {
	return NewWithSource(b, ebiten.IsKeyPressed)
}

// NewWithSource polls pressed instead of ebiten, for tests and bots
func NewWithSource(b Bindings, pressed func(ebiten.Key) bool) *Keyboard {
	return &Keyboard{bindings: b, pressed: pressed}
}

// Sample returns which controls are held right now
func (k *Keyboard) Sample() system.InputState {
	return system.InputState{
		Left:   k.any(k.bindings.Left),
		Right:  k.any(k.bindings.Right),
		Up:     k.any(k.bindings.Up),
		Down:   k.any(k.bindings.Down),
		Jump:   k.any(k.bindings.Jump),
		Dash:   k.any(k.bindings.Dash),
		Attack: k.any(k.bindings.Attack),
	}
}

func (k *Keyboard) any(keys []ebiten.Key) bool {
	for _, key := range keys {
		if k.pressed(key) {
			return true
		}
	}
	return false
}

// Help returns a one-line summary of the bindings for the HUD
func (b Bindings) Help() string {
	return "Move: " + keyName(b.Left) + "/" + keyName(b.Right) +
		" | Jump: " + keyName(b.Jump) +
		" | Dash: " + keyName(b.Dash) +
		" | Attack: " + keyName(b.Attack)
}

func keyName(keys []ebiten.Key) string {
	if len(keys) == 0 {
		return "-"
	}
	return keys[0].String()
}
