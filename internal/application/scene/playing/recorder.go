package playing

import (
	"fmt"
	"time"

	"github.com/younwookim/poxel/internal/application/replay"
	"github.com/younwookim/poxel/internal/application/system"
)

// Recorder captures the raw input of every simulated tick
type Recorder struct {
	data      replay.ReplayData
	recording bool
}

// NewRecorder creates a new recorder with seed for deterministic replay
func NewRecorder(seed int64, stage string) *Recorder {
	data := replay.NewScript(seed, stage).Data()
	data.Frames = make([]replay.FrameInput, 0, 3600) // ~1 minute at 60 ticks/s
	return &Recorder{
		data:      data,
		recording: true,
	}
}

// RecordFrame records a single tick's input
func (r *Recorder) RecordFrame(input system.InputState) {
	if !r.recording {
		return
	}
	r.data.Frames = append(r.data.Frames, replay.FrameFromInput(len(r.data.Frames), input))
}

// Restart drops the recorded frames; a restarted session replays from tick 0
func (r *Recorder) Restart(stage string) {
	r.data.Stage = stage
	r.data.StartTime = time.Now().Format(time.RFC3339)
	r.data.Frames = r.data.Frames[:0]
}

// Save writes the replay data to a file
func (r *Recorder) Save(filename string) error {
	return replay.Save(filename, r.data)
}

// Stop stops recording
func (r *Recorder) Stop() {
	r.recording = false
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// FrameCount returns the number of recorded frames
func (r *Recorder) FrameCount() int {
	return len(r.data.Frames)
}

// Data returns the replay data
func (r *Recorder) Data() replay.ReplayData {
	return r.data
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
