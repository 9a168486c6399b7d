// Command game runs the platformer in a window, or plays a recording back
// headlessly with -replay.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/younwookim/poxel/internal/application/game"
	"github.com/younwookim/poxel/internal/application/replay"
	"github.com/younwookim/poxel/internal/application/scene/playing"
	"github.com/younwookim/poxel/internal/application/session"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

func main() {
	// Parse command line flags
	stageFlag := flag.String("stage", "demo", "Stage to play (stages/<name>.yaml)")
	configFlag := flag.String("config", "", "Config directory (default: embedded configs)")
	watchFlag := flag.Bool("watch", false, "Hot-reload tuning and the current stage (requires -config)")
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Play a recording back without a window and print the result")
	seedFlag := flag.Int64("seed", 0, "RNG seed (0 = time based)")
	flag.Parse()

	loader, err := newLoader(*configFlag)
	if err != nil {
		log.Fatalf("Failed to open configs: %v", err)
	}
	cfg, err := loader.LoadAll()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *replayFlag != "" {
		data, err := replay.LoadReplay(*replayFlag)
		if err != nil {
			log.Fatalf("Failed to load replay: %v", err)
		}
		result, err := RunReplay(loader, cfg, data, session.DiscardLogger())
		if err != nil {
			log.Fatalf("Failed to run replay: %v", err)
		}
		fmt.Print(result)
		return
	}

	// Load stage
	stage, err := loader.LoadStageFor(cfg, *stageFlag)
	if err != nil {
		log.Fatalf("Failed to load stage: %v", err)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sess, err := session.New(cfg, stage, session.Options{Seed: seed})
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	var watcher *config.Watcher
	if *watchFlag {
		if *configFlag == "" {
			log.Fatalf("-watch needs -config: embedded configs cannot change")
		}
		watcher, err = config.NewWatcher(*configFlag, filepath.Join(*configFlag, "stages"))
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", *configFlag, err)
		}
		log.Printf("Watching %s for changes", *configFlag)
	}

	display := cfg.Physics.Display
	scene := playing.New(sess, display.ScreenWidth, display.ScreenHeight, playing.Options{
		StageName:  *stageFlag,
		RecordPath: *recordFlag,
		Loader:     loader,
		Watcher:    watcher,
	})
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight)

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Poxel")
	ebiten.SetTPS(display.Framerate)

	// Run game
	err = ebiten.RunGame(g)
	g.Close()
	if watcher != nil {
		_ = watcher.Close()
	}
	if err != nil {
		log.Fatal(err)
	}
}
