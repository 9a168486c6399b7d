package state

// GameState represents the lifecycle state of a play session
type GameState int

const (
	StateLoading GameState = iota
	StateRunning
	StatePaused
	StatePlayerDead
)

// String returns the string representation of the game state
func (s GameState) String() string {
	switch s {
	case StateLoading:
		return "Loading"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StatePlayerDead:
		return "PlayerDead"
	default:
		return "Unknown"
	}
}

// Ticking reports whether the simulation advances in this state.
// The world keeps running after the player dies so the scene can show it.
func (s GameState) Ticking() bool {
	return s == StateRunning || s == StatePlayerDead
}
