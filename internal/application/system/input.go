package system

// InputState is the raw per-tick input snapshot: which controls are held.
// The core never reads devices; the shell samples them into this struct.
type InputState struct {
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Jump   bool
	Dash   bool
	Attack bool
}

// Input is an InputState plus the rising edges derived from the previous tick
type Input struct {
	InputState

	JumpPressed   bool
	JumpReleased  bool
	DashPressed   bool
	AttackPressed bool
}

// Horizontal returns -1, 0 or +1. Right wins when both directions are held.
func (in InputState) Horizontal() int {
	if in.Right {
		return 1
	}
	if in.Left {
		return -1
	}
	return 0
}

// InputTracker derives edge triggers by remembering the previous snapshot
type InputTracker struct {
	prev InputState
}

// Next returns the input for this tick and remembers raw for the next one
func (t *InputTracker) Next(raw InputState) Input {
	in := Input{
		InputState:    raw,
		JumpPressed:   raw.Jump && !t.prev.Jump,
		JumpReleased:  !raw.Jump && t.prev.Jump,
		DashPressed:   raw.Dash && !t.prev.Dash,
		AttackPressed: raw.Attack && !t.prev.Attack,
	}
	t.prev = raw
	return in
}

// Reset forgets the previous snapshot so held keys count as fresh presses
func (t *InputTracker) Reset() {
	t.prev = InputState{}
}
