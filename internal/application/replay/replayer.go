package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/poxel/internal/application/system"
)

// Replayer handles input playback from recorded data
type Replayer struct {
	data  ReplayData
	frame int
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{
		data:  data,
		frame: 0,
	}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.Stage == "" {
		return nil, fmt.Errorf("replay %s: missing stage", filename)
	}

	return &data, nil
}

// Save writes replay data to a file as indented JSON
func Save(filename string, data ReplayData) error {
	if len(data.Frames) == 0 {
		return fmt.Errorf("no frames to save")
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// GetInput returns the input for the current frame and advances
func (r *Replayer) GetInput() (system.InputState, bool) {
	if r.frame >= len(r.data.Frames) {
		return system.InputState{}, false
	}

	fi := r.data.Frames[r.frame]
	r.frame++

	return fi.InputState(), true
}

// CurrentFrame returns the current frame number
func (r *Replayer) CurrentFrame() int {
	return r.frame
}

// TotalFrames returns the total number of frames
func (r *Replayer) TotalFrames() int {
	return len(r.data.Frames)
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// Stage returns the stage the replay was recorded on
func (r *Replayer) Stage() string {
	return r.data.Stage
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.frame = 0
}

// Script builds replay data tick by tick, for tests and scripted runs
type Script struct {
	data ReplayData
}

// NewScript starts an empty script for the stage and seed
func NewScript(seed int64, stage string) *Script {
	return &Script{data: ReplayData{
		Version:   FormatVersion,
		Seed:      seed,
		Stage:     stage,
		StartTime: time.Now().Format(time.RFC3339),
	}}
}

// Hold appends frames ticks holding in
func (s *Script) Hold(in system.InputState, frames int) *Script {
	for i := 0; i < frames; i++ {
		s.data.Frames = append(s.data.Frames, FrameFromInput(len(s.data.Frames), in))
	}
	return s
}

// Idle appends frames ticks with nothing held
func (s *Script) Idle(frames int) *Script {
	return s.Hold(system.InputState{}, frames)
}

// Data returns the built replay
func (s *Script) Data() ReplayData {
	return s.data
}

// CreateTestReplayData creates replay data for testing (idle player)
func CreateTestReplayData(frames int) ReplayData {
	return NewScript(12345, "test").Idle(frames).Data()
}
