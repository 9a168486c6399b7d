package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/younwookim/poxel/internal/application/replay"
	"github.com/younwookim/poxel/internal/application/session"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// ReplayResult summarizes a headless playback
type ReplayResult struct {
	Stage  string
	Seed   int64
	Final  session.Snapshot
	Events []session.Event
}

// String returns a short report for the terminal
func (r ReplayResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "stage %s, seed %d: %d ticks, %s\n", r.Stage, r.Seed, r.Final.Tick, r.Final.State)
	p := r.Final.Player
	fmt.Fprintf(&b, "player at (%.1f, %.1f) %s, masks %d/%d\n", p.Rect.X, p.Rect.Y, p.Action, p.Health, p.MaxHealth)

	alive := 0
	for _, e := range r.Final.Enemies {
		if e.Alive {
			alive++
		}
	}
	fmt.Fprintf(&b, "enemies alive %d/%d\n", alive, len(r.Final.Enemies))
	for _, e := range r.Events {
		fmt.Fprintf(&b, "  %s\n", e)
	}
	return b.String()
}

// RunReplay feeds a recording through a fresh session on the recorded stage and seed
func RunReplay(loader *config.Loader, cfg *config.GameConfig, data *replay.ReplayData, logger *log.Logger) (ReplayResult, error) {
	stage, err := loader.LoadStageFor(cfg, data.Stage)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	sess, err := session.New(cfg, stage, session.Options{Seed: data.Seed, Logger: logger})
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}
	defer sess.Close()

	result := ReplayResult{Stage: data.Stage, Seed: data.Seed}
	replayer := replay.NewReplayer(*data)
	for {
		input, ok := replayer.GetInput()
		if !ok {
			break
		}
		result.Events = append(result.Events, sess.Step(input)...)
	}
	result.Final = sess.Snapshot()
	return result, nil
}
