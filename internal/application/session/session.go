// Package session owns one play session: the world, the agents and the
// fixed-tick pipeline that advances them.
package session

import (
	"fmt"
	"io"
	"log"
	"math/rand"

	"github.com/younwookim/poxel/internal/application/state"
	"github.com/younwookim/poxel/internal/application/system"
	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
	"github.com/younwookim/poxel/internal/infrastructure/config"
)

// Options tune a session beyond its configuration
type Options struct {
	// Seed drives every random decision; the same seed and input replay exactly
	Seed int64

	// Logger receives lifecycle messages. Nil uses log.Default().
	Logger *log.Logger
}

// Session is the explicit owner of all per-run state.
// Lifecycle: New (Loading) → Step per tick (Running, Paused, PlayerDead) → Close.
type Session struct {
	config *config.GameConfig
	stage  *config.StageConfig
	opts   Options
	log    *log.Logger

	world       *world.World
	physics     *system.PhysicsSystem
	players     *system.PlayerSystem
	enemySystem *system.EnemySystem
	projectiles *system.ProjectileSystem
	combat      *system.CombatSystem
	tracker     system.InputTracker

	player  *entity.Player
	enemies []*entity.Enemy
	shots   []*entity.Projectile

	// Death triggers keyed by enemy, and spawns waiting for agents to clear the area
	triggers map[entity.EntityID]config.EnemySpawnConfig
	deferred []entity.PlatformID

	state     state.GameState
	tick      uint64
	deathSent bool

	// Screen shake feedback raised by hits and decayed every tick
	shake float64
}

const (
	shakePlayerHit = 6.0
	shakeEnemyHit  = 2.0
	shakeEnemyKill = 4.0
	shakeDecay     = 0.85
)

// New builds a session for the stage. The stage is validated against the
// configured archetypes first.
func New(cfg *config.GameConfig, stage *config.StageConfig, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := stage.Validate(cfg.Entities); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Session{
		config: cfg,
		stage:  stage,
		opts:   opts,
		log:    logger,
		state:  state.StateLoading,
	}
	if err := s.build(); err != nil {
		return nil, err
	}
	return s, nil
}

// build creates the world and agents from the stage and starts running
func (s *Session) build() error {
	w, err := system.BuildWorld(s.stage)
	if err != nil {
		return err
	}
	enemies, err := system.SpawnEnemies(s.stage, s.config.Entities)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(s.opts.Seed))

	s.world = w
	s.physics = system.NewPhysicsSystem(s.config.Physics, w)
	s.players = system.NewPlayerSystem(s.physics, s.config)
	s.enemySystem = system.NewEnemySystem(s.physics, s.config.Entities, rng, s)
	s.projectiles = system.NewProjectileSystem(w)
	s.combat = system.NewCombatSystem(s.config, w, s.players)
	s.combat.OnPlayerHit = func(*entity.Player) { s.raiseShake(shakePlayerHit) }
	s.combat.OnEnemyHit = func(_ *entity.Enemy, lethal bool) {
		if lethal {
			s.raiseShake(shakeEnemyKill)
			return
		}
		s.raiseShake(shakeEnemyHit)
	}
	s.tracker.Reset()

	s.player = system.SpawnPlayer(s.stage, s.config.Entities)
	s.enemies = enemies
	s.shots = s.shots[:0]

	s.triggers = make(map[entity.EntityID]config.EnemySpawnConfig)
	for i, sc := range s.stage.Enemies {
		if len(sc.Unlocks) > 0 || len(sc.Spawns) > 0 {
			s.triggers[enemies[i].ID] = sc
		}
	}
	s.deferred = nil

	s.tick = 0
	s.deathSent = false
	s.shake = 0
	s.state = state.StateRunning

	s.log.Printf("session: stage %q started (%d platforms, %d enemies, seed %d)",
		s.stage.ID, len(w.Platforms()), len(enemies), s.opts.Seed)
	return nil
}

// Step advances the simulation by one tick and returns the events it produced.
// Platform changes requested during the tick are committed before Step returns.
func (s *Session) Step(raw system.InputState) []Event {
	if !s.state.Ticking() {
		return nil
	}

	in := s.tracker.Next(raw)

	s.shake *= shakeDecay
	if s.shake < 0.1 {
		s.shake = 0
	}

	s.world.BeginTick()
	s.players.Update(s.player, in)
	s.enemySystem.UpdateAll(s.enemies, s.player)
	s.projectiles.UpdateAll(s.shots)
	s.combat.Resolve(s.player, s.enemies, s.shots)
	s.world.EndTick()

	events := s.collectDeaths()
	events = append(events, s.commit()...)

	s.shots = system.Prune(s.shots)
	s.mustValidate()
	s.tick++
	return events
}

// collectDeaths turns death edges into events and queues their world changes
func (s *Session) collectDeaths() []Event {
	var events []Event
	for _, e := range s.enemies {
		if !e.ConsumeDeath() {
			continue
		}
		events = append(events, Event{Kind: EventEnemyDied, Tick: s.tick, Enemy: e.ID})
		s.log.Printf("session: %s #%d died at tick %d", e.Kind, e.ID, s.tick)
		s.queueTriggers(e.ID)
	}

	if !s.player.Alive && !s.deathSent {
		s.deathSent = true
		s.state = state.StatePlayerDead
		events = append(events, Event{Kind: EventPlayerDied, Tick: s.tick})
		s.log.Printf("session: player died at tick %d", s.tick)
	}
	return events
}

func (s *Session) queueTriggers(id entity.EntityID) {
	sc, ok := s.triggers[id]
	if !ok {
		return
	}
	delete(s.triggers, id)

	for _, pid := range sc.Unlocks {
		if err := s.world.Remove(entity.PlatformID(pid)); err != nil {
			s.log.Printf("session: unlock %s: %v", pid, err)
		}
	}
	s.deferred = append(s.deferred, toPlatformIDs(sc.Spawns)...)
}

// commit adds the spawns whose area is clear of agents and applies all
// queued changes to the world
func (s *Session) commit() []Event {
	waiting := s.deferred[:0]
	for _, id := range s.deferred {
		pc, ok := s.stage.Platform(string(id))
		if !ok {
			s.log.Printf("session: spawn %s: not in stage", id)
			continue
		}
		p := system.PlatformFromConfig(pc)
		if p.Solid && s.occupied(p.Rect) {
			waiting = append(waiting, id)
			continue
		}
		if err := s.world.Add(p); err != nil {
			s.log.Printf("session: spawn %s: %v", id, err)
		}
	}
	s.deferred = waiting

	if s.world.Pending() == 0 {
		return nil
	}
	changes, err := s.world.Commit()
	if err != nil {
		panic(fmt.Errorf("session: commit outside tick failed: %w", err))
	}

	events := make([]Event, 0, len(changes))
	for _, c := range changes {
		kind := EventPlatformAdded
		if c.Kind == world.PlatformRemoved {
			kind = EventPlatformRemoved
		}
		events = append(events, Event{Kind: kind, Tick: s.tick, Platform: c.Platform.ID})
		s.log.Printf("session: %s %s", c.Kind, c.Platform.ID)
	}
	return events
}

// occupied reports whether any living agent overlaps r
func (s *Session) occupied(r entity.Rect) bool {
	if s.player.Alive && s.player.Rect().Overlaps(r) {
		return true
	}
	for _, e := range s.enemies {
		if e.Alive && e.Rect().Overlaps(r) {
			return true
		}
	}
	return false
}

func (s *Session) mustValidate() {
	s.player.MustValidate()
	for _, e := range s.enemies {
		e.MustValidate()
	}
}

func (s *Session) raiseShake(v float64) {
	if v > s.shake {
		s.shake = v
	}
}

// Spawn adds an enemy projectile; it implements system.ProjectileSink
func (s *Session) Spawn(p *entity.Projectile) {
	s.shots = append(s.shots, p)
}

// Pause stops the simulation until Resume
func (s *Session) Pause() {
	if s.state == state.StateRunning {
		s.state = state.StatePaused
	}
}

// Resume continues a paused session
func (s *Session) Resume() {
	if s.state == state.StatePaused {
		s.state = state.StateRunning
	}
}

// TogglePause switches between Running and Paused
func (s *Session) TogglePause() {
	switch s.state {
	case state.StateRunning:
		s.Pause()
	case state.StatePaused:
		s.Resume()
	}
}

// Restart rebuilds the world and agents from the stage. The player is
// reconstructed, never revived.
func (s *Session) Restart() error {
	s.state = state.StateLoading
	return s.build()
}

// SetConfig swaps the tuning between ticks. Spawned enemies keep their stats
// until the next restart.
func (s *Session) SetConfig(cfg *config.GameConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.stage.Validate(cfg.Entities); err != nil {
		return err
	}

	s.config = cfg
	s.physics.SetConfig(cfg.Physics)
	s.players.SetConfig(cfg)
	s.enemySystem.SetConfig(cfg.Entities)
	s.combat.SetConfig(cfg)
	s.log.Printf("session: tuning updated at tick %d", s.tick)
	return nil
}

// SetStage replaces the stage and restarts on it
func (s *Session) SetStage(stage *config.StageConfig) error {
	if err := stage.Validate(s.config.Entities); err != nil {
		return err
	}
	prev := s.stage
	s.stage = stage
	if err := s.Restart(); err != nil {
		s.stage = prev
		if rerr := s.Restart(); rerr != nil {
			return fmt.Errorf("%w (restoring previous stage: %v)", err, rerr)
		}
		return err
	}
	return nil
}

// Close ends the session
func (s *Session) Close() {
	s.state = state.StateLoading
	s.log.Printf("session: stage %q closed after %d ticks", s.stage.ID, s.tick)
}

// State returns the lifecycle state
func (s *Session) State() state.GameState { return s.state }

// Tick returns the number of completed ticks
func (s *Session) Tick() uint64 { return s.tick }

// World returns the platform registry
func (s *Session) World() *world.World { return s.world }

// Player returns the player agent
func (s *Session) Player() *entity.Player { return s.player }

// Enemies returns the enemy agents in spawn order
func (s *Session) Enemies() []*entity.Enemy { return s.enemies }

// Projectiles returns the live projectiles
func (s *Session) Projectiles() []*entity.Projectile { return s.shots }

// Config returns the active tuning
func (s *Session) Config() *config.GameConfig { return s.config }

// Stage returns the active stage
func (s *Session) Stage() *config.StageConfig { return s.stage }

// Seed returns the rng seed
func (s *Session) Seed() int64 { return s.opts.Seed }

// DiscardLogger returns a logger that drops everything, for tests and headless runs
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func toPlatformIDs(ids []string) []entity.PlatformID {
	out := make([]entity.PlatformID, len(ids))
	for i, id := range ids {
		out[i] = entity.PlatformID(id)
	}
	return out
}
