// Package playing provides the main gameplay scene.
package playing

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/younwookim/poxel/internal/application/scene"
	"github.com/younwookim/poxel/internal/application/session"
	"github.com/younwookim/poxel/internal/application/state"
	"github.com/younwookim/poxel/internal/application/system"
	"github.com/younwookim/poxel/internal/domain/entity"
	"github.com/younwookim/poxel/internal/domain/world"
	"github.com/younwookim/poxel/internal/infrastructure/config"
	"github.com/younwookim/poxel/internal/infrastructure/keyboard"
	"golang.org/x/image/font/basicfont"
)

// Colors for rendering
var (
	colorBG         = color.RGBA{26, 26, 46, 255}
	colorWall       = color.RGBA{80, 80, 100, 255}
	colorDecor      = color.RGBA{60, 110, 70, 255}
	colorHidden     = color.RGBA{120, 120, 160, 255}
	colorPlayer     = color.RGBA{100, 200, 100, 255}
	colorFlash      = color.RGBA{255, 255, 255, 200}
	colorHitbox     = color.RGBA{255, 230, 120, 160}
	colorEnemy      = color.RGBA{200, 100, 100, 255}
	colorProjectile = color.RGBA{255, 140, 60, 255}
	colorMask       = color.RGBA{230, 230, 240, 255}
	colorMaskEmpty  = color.RGBA{60, 60, 60, 255}
	colorHealthBG   = color.RGBA{60, 60, 60, 255}
	colorHealthFG   = color.RGBA{200, 80, 80, 255}
	colorText       = color.RGBA{220, 220, 230, 255}
)

const (
	maxMessages = 5
	lineHeight  = 16
)

// Options configure the optional collaborators of the scene
type Options struct {
	// StageName is the stage file the session was loaded from; defaults to the stage ID
	StageName string

	// Keyboard samples input each tick. Nil polls the default bindings.
	Keyboard *keyboard.Keyboard
	Help     string

	// RecordPath enables input recording; the file is written on death, F5 and exit
	RecordPath string

	// Loader and Watcher enable hot reload of tuning and the current stage
	Loader  *config.Loader
	Watcher *config.Watcher
}

// Playing is the main gameplay scene
type Playing struct {
	session   *session.Session
	stageName string
	keys      *keyboard.Keyboard
	help      string
	screenW   int
	screenH   int
	face      text.Face

	background backgroundCache

	loader  *config.Loader
	watcher *config.Watcher

	// Input recording
	recorder   *Recorder
	recordPath string

	messages []string
	debug    bool
}

// New creates a new Playing scene around a running session
func New(sess *session.Session, screenW, screenH int, opts Options) *Playing {
	p := &Playing{
		session:    sess,
		stageName:  opts.StageName,
		keys:       opts.Keyboard,
		help:       opts.Help,
		screenW:    screenW,
		screenH:    screenH,
		face:       text.NewGoXFace(basicfont.Face7x13),
		loader:     opts.Loader,
		watcher:    opts.Watcher,
		recordPath: opts.RecordPath,
	}
	if p.stageName == "" {
		p.stageName = sess.Stage().ID
	}
	if p.keys == nil {
		bindings := keyboard.DefaultBindings()
		p.keys = keyboard.New(bindings)
		p.help = bindings.Help()
	}

	if p.recordPath != "" {
		p.recorder = NewRecorder(sess.Seed(), p.stageName)
		log.Printf("Recording enabled: %s (seed: %d)", p.recordPath, sess.Seed())
	}

	return p
}

// Update proceeds the game state (implements scene.Scene)
func (p *Playing) Update() (scene.Scene, error) {
	p.pollWatcher()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		p.session.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		p.restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		p.saveRecording()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		p.debug = !p.debug
	}

	p.step(p.keys.Sample())
	return nil, nil // nil = stay on this scene
}

// step feeds one sampled input to the session while it is ticking
func (p *Playing) step(in system.InputState) {
	if !p.session.State().Ticking() {
		return
	}
	if p.recorder != nil {
		p.recorder.RecordFrame(in)
	}
	p.note(p.session.Step(in))
}

func (p *Playing) note(events []session.Event) {
	for _, e := range events {
		p.messages = append(p.messages, e.String())
		if e.Kind == session.EventPlayerDied {
			// Auto-save recording on death
			p.saveRecording()
		}
	}
	if n := len(p.messages); n > maxMessages {
		p.messages = append(p.messages[:0], p.messages[n-maxMessages:]...)
	}
}

func (p *Playing) restart() {
	if err := p.session.Restart(); err != nil {
		log.Printf("Restart failed: %v", err)
		return
	}
	p.messages = p.messages[:0]
	if p.recorder != nil {
		p.recorder.Restart(p.stageName)
		log.Printf("Recording restarted (seed: %d)", p.session.Seed())
	}
}

// saveRecording saves the current recording to file
func (p *Playing) saveRecording() {
	if p.recorder == nil {
		return
	}

	filename := p.recordPath
	if filename == "" {
		filename = GenerateFilename()
	}

	if err := p.recorder.Save(filename); err != nil {
		log.Printf("Failed to save recording: %v", err)
	} else {
		log.Printf("Recording saved: %s (%d frames)", filename, p.recorder.FrameCount())
	}
}

// pollWatcher applies changed config files between ticks
func (p *Playing) pollWatcher() {
	if p.watcher == nil {
		return
	}
	for _, path := range p.watcher.Poll() {
		p.reload(path)
	}
	select {
	case err := <-p.watcher.Errors:
		log.Printf("Config watcher: %v", err)
	default:
	}
}

// reload swaps tuning or the current stage. A file that fails to load or
// validate is reported and the session keeps running unchanged.
func (p *Playing) reload(path string) {
	if p.loader == nil {
		return
	}

	if config.IsStageFile(path) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if name != p.stageName {
			return
		}
		stage, err := p.loader.LoadStageFor(p.session.Config(), name)
		if err != nil {
			log.Printf("Reload %s: %v (keeping current stage)", path, err)
			return
		}
		if err := p.session.SetStage(stage); err != nil {
			log.Printf("Reload %s: %v (keeping current stage)", path, err)
			return
		}
		p.messages = p.messages[:0]
		if p.recorder != nil {
			p.recorder.Restart(p.stageName)
		}
		log.Printf("Stage %s reloaded", name)
		return
	}

	cfg, err := p.loader.LoadAll()
	if err != nil {
		log.Printf("Reload %s: %v (keeping current tuning)", path, err)
		return
	}
	if err := p.session.SetConfig(cfg); err != nil {
		log.Printf("Reload %s: %v (keeping current tuning)", path, err)
		return
	}
	log.Printf("Tuning reloaded from %s", path)
}

// Draw renders the game screen
func (p *Playing) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)

	snap := p.session.Snapshot()
	w := p.session.World()
	camX, camY := Camera(snap.Player.Rect, w.Width(), w.Height(), p.screenW, p.screenH)
	sx, sy := shakeOffset(snap.Tick, snap.Shake)
	camX += sx
	camY += sy

	p.drawBackground(screen, w, camX, camY)
	if p.debug {
		p.drawHidden(screen, snap.Platforms, camX, camY)
	}
	p.drawEnemies(screen, snap, camX, camY)
	p.drawProjectiles(screen, snap.Projectiles, camX, camY)
	p.drawPlayer(screen, snap, camX, camY)

	// Draw UI - always on top
	p.drawUI(screen, snap)

	// Draw state overlays
	switch snap.State {
	case state.StatePaused:
		p.drawOverlay(screen, color.RGBA{0, 0, 0, 128}, "PAUSED\n\nPress ESC to resume")
	case state.StatePlayerDead:
		p.drawOverlay(screen, color.RGBA{100, 0, 0, 150}, "YOU DIED\n\nPress R to restart")
	}
}

// drawBackground blits the pre-composited platform layer, rebuilding it
// when the platform set changed
func (p *Playing) drawBackground(screen *ebiten.Image, w *world.World, camX, camY float64) {
	c := &p.background
	if c.image == nil || c.needsRebuild(w) {
		c.attach(w)
		bw, bh := int(w.Width()), int(w.Height())
		if c.image == nil || c.image.Bounds().Dx() != bw || c.image.Bounds().Dy() != bh {
			if c.image != nil {
				c.image.Deallocate()
			}
			c.image = ebiten.NewImage(bw, bh)
		}
		c.image.Clear()
		for _, pl := range w.Platforms() {
			if !pl.Visible {
				continue
			}
			clr := colorWall
			if !pl.Solid {
				clr = colorDecor
			}
			fillRect(c.image, pl.Rect, 0, 0, clr)
		}
		c.markBuilt()
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-camX, -camY)
	screen.DrawImage(c.image, op)
}

func (p *Playing) drawHidden(screen *ebiten.Image, platforms []entity.Platform, camX, camY float64) {
	for _, pl := range platforms {
		if !pl.Visible {
			strokeRect(screen, pl.Rect, camX, camY, colorHidden)
		}
	}
}

func (p *Playing) drawPlayer(screen *ebiten.Image, snap session.Snapshot, camX, camY float64) {
	pv := snap.Player

	// Flash when invincible
	c := colorPlayer
	if pv.Flashing && (snap.Tick/4)%2 == 0 {
		c = colorFlash
	}
	fillRect(screen, pv.Rect, camX, camY, c)

	// Facing marker
	eye := entity.Rect{X: pv.Rect.X + pv.Rect.W*0.6, Y: pv.Rect.Y + 8, W: 6, H: 6}
	if pv.Facing < 0 {
		eye.X = pv.Rect.X + pv.Rect.W*0.4 - eye.W
	}
	fillRect(screen, eye, camX, camY, colorBG)

	if pv.HasHitbox {
		fillRect(screen, pv.Hitbox, camX, camY, colorHitbox)
	}
	if p.debug {
		strokeRect(screen, pv.Rect, camX, camY, colorText)
	}
}

func (p *Playing) drawEnemies(screen *ebiten.Image, snap session.Snapshot, camX, camY float64) {
	for _, e := range snap.Enemies {
		if !e.Alive {
			continue
		}

		// Flash on hit
		c := colorEnemy
		if e.Flashing {
			c = colorFlash
		}
		fillRect(screen, e.Rect, camX, camY, c)

		// Health bar
		bar := entity.Rect{X: e.Rect.X, Y: e.Rect.Y - 6, W: e.Rect.W, H: 3}
		fillRect(screen, bar, camX, camY, colorHealthBG)
		if e.MaxHealth > 0 {
			bar.W *= float64(e.Health) / float64(e.MaxHealth)
			fillRect(screen, bar, camX, camY, colorHealthFG)
		}

		if p.debug {
			p.drawText(screen, e.Action, e.Rect.X-camX, e.Rect.Y-camY-20, colorText)
		}
	}
}

func (p *Playing) drawProjectiles(screen *ebiten.Image, shots []entity.Rect, camX, camY float64) {
	for _, r := range shots {
		fillRect(screen, r, camX, camY, colorProjectile)
	}
}

func (p *Playing) drawUI(screen *ebiten.Image, snap session.Snapshot) {
	// Masks
	for i := 0; i < snap.Player.MaxHealth; i++ {
		c := colorMaskEmpty
		if i < snap.Player.Health {
			c = colorMask
		}
		ebitenutil.DrawRect(screen, float64(10+i*18), 10, 12, 16, c)
	}

	status := fmt.Sprintf("Tick %d | %s | %s", snap.Tick, snap.State, snap.Player.Action)
	if p.recorder != nil {
		status += fmt.Sprintf(" | REC %d", p.recorder.FrameCount())
	}
	p.drawText(screen, status, 10, 34, colorText)

	for i, msg := range p.messages {
		p.drawText(screen, msg, 10, float64(34+(i+1)*lineHeight), colorText)
	}

	// Controls
	controls := p.help + " | ESC: Pause | R: Restart | Tab: Debug"
	p.drawText(screen, controls, 10, float64(p.screenH-20), colorText)
}

func (p *Playing) drawOverlay(screen *ebiten.Image, c color.Color, msg string) {
	ebitenutil.DrawRect(screen, 0, 0, float64(p.screenW), float64(p.screenH), c)
	p.drawText(screen, msg, float64(p.screenW/2-60), float64(p.screenH/2-30), colorText)
}

func (p *Playing) drawText(screen *ebiten.Image, msg string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.LineSpacing = lineHeight
	text.Draw(screen, msg, p.face, op)
}

// OnEnter is called when entering this scene
func (p *Playing) OnEnter() {
	log.Printf("Playing stage %s", p.stageName)
}

// OnExit is called when leaving this scene
func (p *Playing) OnExit() {
	p.saveRecording()
	p.session.Close()
}

// Session returns the session the scene drives
func (p *Playing) Session() *session.Session {
	return p.session
}

// Camera returns the top-left world position of a screen centred on target,
// clamped to the world bounds
func Camera(target entity.Rect, worldW, worldH float64, screenW, screenH int) (float64, float64) {
	x := target.CenterX() - float64(screenW)/2
	y := target.CenterY() - float64(screenH)/2
	return clampCamera(x, worldW-float64(screenW)), clampCamera(y, worldH-float64(screenH))
}

// shakeOffset jitters the camera by up to amp pixels, varying with the tick
func shakeOffset(tick uint64, amp float64) (float64, float64) {
	if amp == 0 {
		return 0, 0
	}
	f := float64(tick)
	return amp * math.Sin(f*12.9898), amp * math.Cos(f*78.233)
}

func clampCamera(v, limit float64) float64 {
	if limit <= 0 || v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

func fillRect(dst *ebiten.Image, r entity.Rect, camX, camY float64, c color.Color) {
	vector.DrawFilledRect(dst, float32(r.X-camX), float32(r.Y-camY), float32(r.W), float32(r.H), c, false)
}

func strokeRect(dst *ebiten.Image, r entity.Rect, camX, camY float64, c color.Color) {
	vector.StrokeRect(dst, float32(r.X-camX), float32(r.Y-camY), float32(r.W), float32(r.H), 1, c, false)
}

// backgroundCache tracks whether the composited platform layer matches the world
type backgroundCache struct {
	image    *ebiten.Image
	world    *world.World
	dirty    bool
	rebuilds int
}

// attach follows w; a new world is always dirty and marks the cache dirty on every change
func (c *backgroundCache) attach(w *world.World) {
	if c.world == w {
		return
	}
	c.world = w
	c.dirty = true
	w.OnChange(func(uint64, []world.Change) {
		if c.world == w {
			c.dirty = true
		}
	})
}

func (c *backgroundCache) needsRebuild(w *world.World) bool {
	return c.world != w || c.dirty
}

func (c *backgroundCache) markBuilt() {
	c.dirty = false
	c.rebuilds++
}
