// Package game implements the sandbox loop: input sampling each frame,
// fixed physics steps, rendering and sound cues.
package game

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/engine/audio"
	"github.com/Faultbox/swingline/internal/engine/camera"
	"github.com/Faultbox/swingline/internal/engine/debug"
	"github.com/Faultbox/swingline/internal/engine/input"
	"github.com/Faultbox/swingline/internal/engine/renderer"
	"github.com/Faultbox/swingline/internal/engine/window"
	"github.com/Faultbox/swingline/internal/game/world"
	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/swing"
)

const title = "swingline"

// maxFrameSeconds caps a single frame's delta, e.g. after a window drag.
const maxFrameSeconds = 0.25

var (
	colorGround   = mgl32.Vec4{0.30, 0.33, 0.38, 1}
	colorRope     = mgl32.Vec4{0.76, 0.62, 0.42, 1}
	colorGrip     = mgl32.Vec4{0.95, 0.55, 0.20, 1}
	colorGripHot  = mgl32.Vec4{1.00, 0.85, 0.30, 1}
	colorAvatar   = mgl32.Vec4{0.40, 0.75, 0.95, 1}
	colorSwinging = mgl32.Vec4{0.55, 0.95, 0.55, 1}
	colorLocked   = mgl32.Vec4{0.95, 0.45, 0.45, 1}
	colorReach    = mgl32.Vec4{1, 1, 1, 0.12}
	colorTether   = mgl32.Vec4{1, 1, 1, 0.5}
)

// Game is the main game instance.
type Game struct {
	cfg *config.Config
	log *zap.Logger

	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	camera   *camera.FollowCamera
	input    *input.Reader
	audio    *audio.Manager
	shots    *debug.Screenshots

	level *world.Level

	pendingConfig chan string
	captureNext   bool

	frames   int
	fps      int
	fpsTimer time.Time
}

// New creates a new game instance with its window, renderer and level.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:           cfg,
		log:           logger.Named("game"),
		input:         input.NewReader(input.DefaultBindings()),
		pendingConfig: make(chan string, 1),
		shots:         debug.NewScreenshots(filepath.Join(config.ConfigDir(), "screenshots"), title),
	}

	g.log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	g.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    4,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just created.
	dw, dh := g.window.DrawableSize()
	g.renderer, err = renderer.New(renderer.Config{
		Width:      dw,
		Height:     dh,
		Background: mgl32.Vec4{0.10, 0.10, 0.15, 1},
	}, logger.Named("renderer"))
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.camera = camera.NewFollowCamera(cfg.Graphics.PixelsPerUnit, dw, dh)

	g.audio = audio.New(logger.Named("audio"))
	g.applyAudioConfig()
	if err := g.audio.Init(); err != nil {
		// Sandbox stays playable without sound.
		g.log.Warn("audio unavailable", zap.Error(err))
	}

	if err := g.rebuild(cfg); err != nil {
		g.Close()
		return nil, err
	}

	g.log.Info("game initialized successfully")
	return g, nil
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	g.fpsTimer = lastTime
	minFrame := time.Duration(0)
	if g.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(g.cfg.Graphics.FPSLimit)
	}

	g.log.Info("starting game loop")

	for g.running {
		frameStart := time.Now()
		dt := math.Min(frameStart.Sub(lastTime).Seconds(), maxFrameSeconds)
		lastTime = frameStart

		// 1. Process input
		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()
		g.input.Tick(false)

		// 2. Update simulation
		g.update(dt)

		// 3. Render and present
		g.render()
		if g.captureNext {
			g.captureNext = false
			g.screenshot()
		}
		g.window.SwapBuffers()

		g.countFrame()

		if minFrame > 0 {
			if rest := minFrame - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// Level returns the level being played.
func (g *Game) Level() *world.Level {
	return g.level
}

func (g *Game) handleEvents() {
	for _, event := range g.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := g.window.DrawableSize()
			g.renderer.Resize(w, h)
			g.camera.SetViewport(w, h)
		case input.EventKeyDown:
			g.handleKey(event.Key)
		}
	}

	select {
	case path := <-g.pendingConfig:
		g.loadConfig(path)
	default:
	}
}

func (g *Game) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		g.running = false
	case sdl.SCANCODE_R:
		if err := g.rebuild(g.cfg); err != nil {
			g.log.Error("restart failed", zap.Error(err))
		}
	case sdl.SCANCODE_K:
		g.knockback()
	case sdl.SCANCODE_M:
		g.audio.SetMuted(!g.audio.Muted())
		g.log.Info("audio muted", zap.Bool("muted", g.audio.Muted()))
	case sdl.SCANCODE_F2:
		g.openConfigDialog()
	case sdl.SCANCODE_F5:
		g.saveConfig()
	case sdl.SCANCODE_F12:
		g.captureNext = true
	case sdl.SCANCODE_F11:
		g.window.ToggleFullscreen()
	case sdl.SCANCODE_EQUALS:
		g.camera.HandleZoom(1)
	case sdl.SCANCODE_MINUS:
		g.camera.HandleZoom(-1)
	}
}

func (g *Game) update(dt float64) {
	g.level.Frame(g.input.Current())
	g.level.Advance(dt)

	avatar := g.level.Avatar()
	g.camera.Follow(avatar.Position(), avatar.Velocity(), dt)
}

func (g *Game) render() {
	g.renderer.Begin(g.camera.Projection(), g.camera.PixelsPerUnit)

	for _, box := range g.level.Ground() {
		g.renderer.FillBox(box.Center.Vec(), box.HalfExtents.Vec(), 0, colorGround)
		g.renderer.StrokeBox(box.Center.Vec(), box.HalfExtents.Vec(), 0, colorReach)
	}

	snap := g.level.Snapshot()
	attached := g.level.Controller().Attached()

	for _, chain := range g.level.Ropes() {
		pts := chain.Points()
		for i := 1; i < len(pts); i++ {
			g.renderer.Segment(pts[i-1], pts[i], 0.08, colorRope)
		}
		grip := chain.Grip()
		if grip == nil {
			continue
		}
		c := colorGrip
		if grip.IsGrabbed() || grip == g.level.Controller().Nearby() {
			c = colorGripHot
		}
		g.renderer.Disc(grip.Position(), chain.Config().GripRadius, c)
	}

	half := g.level.AvatarHalfExtents()
	body := colorAvatar
	switch {
	case snap.State == swing.StateAttached:
		body = colorSwinging
	case snap.Timers.MotorLock > 0:
		body = colorLocked
	}
	g.renderer.FillBox(snap.Position, half, 0, body)

	facing := 1.0
	if !snap.FacingRight {
		facing = -1
	}
	eye := snap.Position.Add(mgl64.Vec2{facing * half.X() * 0.5, half.Y() * 0.5})
	g.renderer.Disc(eye, 0.08, colorGround)

	if attached != nil {
		g.renderer.Line(snap.Position, attached.Position(), colorTether)
	} else {
		g.renderer.Circle(snap.Position, g.level.Controller().Tuning().MaxAttachDistance, colorReach)
	}

	g.renderer.End()
}

func (g *Game) countFrame() {
	g.frames++
	if time.Since(g.fpsTimer) < time.Second/4 {
		return
	}
	g.fps = int(float64(g.frames) / time.Since(g.fpsTimer).Seconds())
	g.frames = 0
	g.fpsTimer = time.Now()
	g.window.SetTitle(hudTitle(g.level.Snapshot(), g.fps))
}

// hudTitle formats the debug readout shown in the window title.
func hudTitle(s world.Snapshot, fps int) string {
	return fmt.Sprintf("%s | %s | speed %.1f (%.1f, %.1f) | gravity x%.2f | lock %.2fs | recover %.0f%% | %d fps",
		title,
		s.State,
		s.Velocity.Len(), s.Velocity.X(), s.Velocity.Y(),
		s.GravityScale,
		s.Timers.MotorLock,
		s.Timers.RecoverProgress()*100,
		fps,
	)
}

// rebuild replaces the level and physics world with fresh ones built from cfg.
func (g *Game) rebuild(cfg *config.Config) error {
	level, w, err := world.Build(cfg, g.log, world.WithSwingListener(g.onSwingEvent))
	if err != nil {
		return fmt.Errorf("build level: %w", err)
	}
	g.cfg = cfg
	g.level = level
	g.camera.Snap(level.Avatar().Position())
	g.applyAudioConfig()
	g.log.Info("level built",
		zap.Int("bodies", w.BodyCount()),
		zap.Int("joints", w.JointCount()),
	)
	return nil
}

func (g *Game) onSwingEvent(e swing.Event) {
	var err error
	switch e.Kind {
	case swing.EventAttached:
		err = g.audio.Play(audio.CueAttach, 0)
	case swing.EventDetached:
		top := g.cfg.Swing.ReleaseHorizSpeedMax
		intensity := 0.0
		if top > 0 {
			intensity = e.ReleaseVelocity.Len() / top
		}
		err = g.audio.Play(audio.CueRelease, intensity)
	}
	if err != nil && !errors.Is(err, audio.ErrNotInitialized) {
		g.log.Warn("cue failed", zap.Stringer("event", e.Kind), zap.Error(err))
	}
}

func (g *Game) knockback() {
	facing := 1.0
	if g.level.Motor().FacingRight() {
		facing = -1
	}
	g.level.Knockback(mgl64.Vec2{facing * 8, 6}, 0.35)
	if err := g.audio.Play(audio.CueKnockback, 0); err != nil && !errors.Is(err, audio.ErrNotInitialized) {
		g.log.Warn("cue failed", zap.Error(err))
	}
}

func (g *Game) applyAudioConfig() {
	a := g.cfg.Audio
	g.audio.SetMasterVolume(float64(a.MasterVolume))
	g.audio.SetSFXVolume(float64(a.SFXVolume))
	g.audio.SetMuted(a.Muted)
}

// openConfigDialog asks for a tuning file off the main thread; the level
// is rebuilt on the main thread once a path arrives.
func (g *Game) openConfigDialog() {
	go func() {
		path, err := dialog.File().
			Filter("YAML tuning", "yaml", "yml").
			Filter("All Files", "*").
			Title("Load tuning").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				g.log.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case g.pendingConfig <- path:
		default:
		}
	}()
}

func (g *Game) loadConfig(path string) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		g.log.Error("load tuning failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := g.rebuild(cfg); err != nil {
		g.log.Error("rebuild failed", zap.String("path", path), zap.Error(err))
		return
	}
	g.log.Info("tuning loaded", zap.String("path", path))
}

func (g *Game) saveConfig() {
	path, err := g.cfg.Save()
	if err != nil {
		g.log.Error("save config failed", zap.Error(err))
		return
	}
	g.log.Info("config saved", zap.String("path", path))
}

func (g *Game) screenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	path, err := g.shots.Save(pixels, w, h)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}
