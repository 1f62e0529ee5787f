// Package world assembles a playable level: physics world, avatar, ropes,
// swing controller and motor, and routes sensor overlaps between them.
package world

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/engine/timestep"
	"github.com/Faultbox/swingline/internal/input"
	"github.com/Faultbox/swingline/internal/locomotion"
	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/physics"
	"github.com/Faultbox/swingline/internal/rope"
	"github.com/Faultbox/swingline/internal/swing"
)

// Part tags colliders that are not rope grips.
type Part uint8

const (
	PartAvatar Part = iota + 1
	PartFoot
	PartGround
)

func (p Part) String() string {
	switch p {
	case PartAvatar:
		return "avatar"
	case PartFoot:
		return "foot"
	case PartGround:
		return "ground"
	default:
		return "unknown"
	}
}

// Option configures a Level.
type Option func(*Level)

// WithLogger sets the level logger. Components get named children.
func WithLogger(log *zap.Logger) Option {
	return func(l *Level) { l.log = logger.OrNop(log) }
}

// WithSwingListener forwards swing events, e.g. to audio cues.
func WithSwingListener(fn func(swing.Event)) Option {
	return func(l *Level) { l.listeners = append(l.listeners, fn) }
}

// Level owns everything simulated in one play session.
type Level struct {
	cfg       config.Config
	log       *zap.Logger
	listeners []func(swing.Event)

	world  physics.World
	clock  *timestep.Accumulator
	avatar physics.Body
	hinge  physics.Hinge
	foot   *locomotion.FootSensor
	swing  *swing.Controller
	motor  *locomotion.Motor
	ropes  []*rope.Chain

	pending input.Intent
	steps   uint64
	elapsed float64
}

// New builds a level from cfg inside w.
func New(cfg *config.Config, w physics.World, opts ...Option) *Level {
	l := &Level{
		cfg:   *cfg,
		log:   zap.NewNop(),
		world: w,
		clock: timestep.New(cfg.Physics.FixedStep, cfg.Physics.MaxStepsPerFrame),
		foot:  &locomotion.FootSensor{},
	}
	for _, opt := range opts {
		opt(l)
	}

	l.buildGround()
	l.buildAvatar()
	l.buildRopes()

	l.swing = swing.NewController(l.avatar, l.hinge, cfg.Swing,
		swing.WithLogger(l.log.Named("swing")),
		swing.WithListener(l.publish),
	)
	l.motor = locomotion.NewMotor(l.avatar, cfg.Locomotion,
		locomotion.WithLock(locomotion.Locks(l.swing)),
		locomotion.WithGroundProbe(l.foot),
		locomotion.WithLogger(l.log.Named("motor")),
	)

	w.SetOverlapListener(physics.OverlapFuncs{
		Began: l.overlapBegan,
		Ended: l.overlapEnded,
	})

	l.log.Info("level ready",
		zap.Int("ropes", len(l.ropes)),
		zap.Int("ground", len(cfg.Level.Ground)),
		zap.Float64("fixed_step", cfg.Physics.FixedStep),
	)
	return l
}

func (l *Level) buildGround() {
	for _, g := range l.cfg.Level.Ground {
		body := l.world.CreateBody(physics.BodyDef{
			Kind:     physics.BodyStatic,
			Position: g.Center.Vec(),
			Owner:    PartGround,
		})
		l.world.AddCollider(body, physics.ColliderDef{
			HalfExtents: g.HalfExtents.Vec(),
			Friction:    g.Friction,
			Owner:       PartGround,
		})
	}
}

func (l *Level) buildAvatar() {
	a := l.cfg.Avatar
	l.avatar = l.world.CreateBody(physics.BodyDef{
		Kind:          physics.BodyDynamic,
		Position:      a.Spawn.Vec(),
		Mass:          a.Mass,
		GravityScale:  a.GravityScale,
		FixedRotation: true,
		Owner:         PartAvatar,
	})
	l.world.AddCollider(l.avatar, physics.ColliderDef{
		HalfExtents: mgl64.Vec2{a.HalfWidth, a.HalfHeight},
		Friction:    a.Friction,
		Owner:       PartAvatar,
	})
	l.world.AddCollider(l.avatar, physics.ColliderDef{
		Radius: a.FootRadius,
		Offset: mgl64.Vec2{0, -a.HalfHeight},
		Sensor: true,
		Owner:  PartFoot,
	})
	l.hinge = l.world.CreateHinge(physics.HingeDef{Body: l.avatar})
}

func (l *Level) buildRopes() {
	log := l.log.Named("rope")
	for i, rc := range l.cfg.Ropes {
		c := rope.New(l.world, rc.Chain(),
			rope.WithLogger(log.With(zap.Int("rope", i))),
			rope.WithOwner(i),
		)
		c.Build()
		l.ropes = append(l.ropes, c)
	}
}

func (l *Level) publish(e swing.Event) {
	for _, fn := range l.listeners {
		fn(e)
	}
}

// Frame merges this frame's input into the intent pending for the next
// physics step. Edges survive until a step consumes them.
func (l *Level) Frame(intent input.Intent) {
	l.pending = l.pending.Merge(intent)
}

// Advance runs as many fixed steps as frame seconds allow and returns the
// count.
func (l *Level) Advance(frame float64) int {
	n := l.clock.Advance(frame)
	for i := 0; i < n; i++ {
		l.Step(l.clock.Step())
	}
	if d := l.clock.Dropped(); d > 0 {
		l.log.Debug("frame time dropped", zap.Float64("seconds", d))
	}
	return n
}

// Step runs one physics step: controller, motor, ropes, then the engine.
func (l *Level) Step(dt float64) {
	in := l.pending
	l.swing.Frame(in)
	l.motor.Frame(in)

	l.swing.FixedStep(dt)
	l.motor.FixedStep(dt)
	for _, c := range l.ropes {
		c.FixedStep()
	}
	l.world.Step(dt)

	l.pending = in.Consumed()
	l.steps++
	l.elapsed += dt
}

// Knockback throws the avatar and suspends steering.
func (l *Level) Knockback(v mgl64.Vec2, seconds float64) {
	l.motor.ApplyKnockback(v, seconds)
}

func (l *Level) overlapBegan(a, b any) {
	l.route(a, b, true)
	l.route(b, a, true)
}

func (l *Level) overlapEnded(a, b any) {
	l.route(a, b, false)
	l.route(b, a, false)
}

// route handles one ordering of an overlap pair.
func (l *Level) route(self, other any, began bool) {
	part, ok := self.(Part)
	if !ok {
		return
	}
	switch part {
	case PartAvatar:
		g, ok := other.(*rope.GripPoint)
		if !ok {
			return
		}
		if began {
			l.swing.GripEntered(g)
		} else {
			l.swing.GripExited(g)
		}
	case PartFoot:
		if p, ok := other.(Part); !ok || p != PartGround {
			return
		}
		if began {
			l.foot.Touch()
		} else {
			l.foot.Leave()
		}
	}
}

// Snapshot is a read-only view of the avatar for rendering and the HUD.
type Snapshot struct {
	State        swing.State
	Position     mgl64.Vec2
	Velocity     mgl64.Vec2
	GravityScale float64
	Grounded     bool
	FacingRight  bool
	NearGrip     bool
	Timers       swing.ReleaseTimers
	Steps        uint64
	Elapsed      float64
}

// Snapshot returns the current avatar state.
func (l *Level) Snapshot() Snapshot {
	return Snapshot{
		State:        l.swing.State(),
		Position:     l.avatar.Position(),
		Velocity:     l.avatar.Velocity(),
		GravityScale: l.avatar.GravityScale(),
		Grounded:     l.foot.Grounded(),
		FacingRight:  l.motor.FacingRight(),
		NearGrip:     l.swing.Nearby() != nil,
		Timers:       l.swing.Timers(),
		Steps:        l.steps,
		Elapsed:      l.elapsed,
	}
}

func (l *Level) Config() config.Config { return l.cfg }

func (l *Level) Avatar() physics.Body { return l.avatar }

// AvatarHalfExtents returns the avatar box half size.
func (l *Level) AvatarHalfExtents() mgl64.Vec2 {
	return mgl64.Vec2{l.cfg.Avatar.HalfWidth, l.cfg.Avatar.HalfHeight}
}

func (l *Level) Ropes() []*rope.Chain { return l.ropes }

func (l *Level) Ground() []config.BoxConfig { return l.cfg.Level.Ground }

func (l *Level) Controller() *swing.Controller { return l.swing }

func (l *Level) Motor() *locomotion.Motor { return l.motor }

func (l *Level) Foot() *locomotion.FootSensor { return l.foot }

// Pending returns the intent the next step will see.
func (l *Level) Pending() input.Intent { return l.pending }
