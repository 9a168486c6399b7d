// Package replay stores per-tick input so a session can be played back
// exactly: same seed, same stage, same input, same outcome.
package replay

import "github.com/younwookim/poxel/internal/application/system"

// FormatVersion is written into every recording
const FormatVersion = "2.0"

// FrameInput records the held controls for a single tick
type FrameInput struct {
	F   int  `json:"f"`             // Tick number
	L   bool `json:"l,omitempty"`   // Left
	R   bool `json:"r,omitempty"`   // Right
	U   bool `json:"u,omitempty"`   // Up
	D   bool `json:"d,omitempty"`   // Down
	J   bool `json:"j,omitempty"`   // Jump
	Dsh bool `json:"dsh,omitempty"` // Dash
	Atk bool `json:"atk,omitempty"` // Attack
}

// FrameFromInput converts a raw input snapshot for tick f
func FrameFromInput(f int, in system.InputState) FrameInput {
	return FrameInput{
		F:   f,
		L:   in.Left,
		R:   in.Right,
		U:   in.Up,
		D:   in.Down,
		J:   in.Jump,
		Dsh: in.Dash,
		Atk: in.Attack,
	}
}

// InputState returns the raw snapshot. Edges are derived again on playback.
func (fi FrameInput) InputState() system.InputState {
	return system.InputState{
		Left:   fi.L,
		Right:  fi.R,
		Up:     fi.U,
		Down:   fi.D,
		Jump:   fi.J,
		Dash:   fi.Dsh,
		Attack: fi.Atk,
	}
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string       `json:"version"`
	Seed      int64        `json:"seed"`
	Stage     string       `json:"stage"`
	StartTime string       `json:"startTime"`
	Frames    []FrameInput `json:"frames"`
}
