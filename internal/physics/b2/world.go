// Package b2 implements the physics contract on top of the box2d engine.
package b2

import (
	"errors"
	"fmt"

	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/physics"
)

// Config holds solver settings.
type Config struct {
	Gravity            mgl64.Vec2
	VelocityIterations int
	PositionIterations int
	AllowSleeping      bool
}

// DefaultConfig returns box2d's recommended iteration counts with Earth
// gravity.
func DefaultConfig() Config {
	return Config{
		Gravity:            mgl64.Vec2{0, -9.81},
		VelocityIterations: 8,
		PositionIterations: 3,
		AllowSleeping:      true,
	}
}

// Validate checks solver settings.
func (c Config) Validate() error {
	var errs []error
	if c.VelocityIterations <= 0 {
		errs = append(errs, fmt.Errorf("velocity iterations must be positive, got %d", c.VelocityIterations))
	}
	if c.PositionIterations <= 0 {
		errs = append(errs, fmt.Errorf("position iterations must be positive, got %d", c.PositionIterations))
	}
	return errors.Join(errs...)
}

// World wraps a box2d world.
type World struct {
	cfg Config
	log *zap.Logger

	b2       *box2d.B2World
	contacts *contactQueue
	listener physics.OverlapListener

	hinges  []*Hinge
	pending []*Hinge
	steps   uint64
}

// NewWorld creates an empty world.
func NewWorld(cfg Config, log *zap.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("b2 world: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	bw := box2d.MakeB2World(vec(cfg.Gravity))
	bw.SetAllowSleeping(cfg.AllowSleeping)

	w := &World{
		cfg:      cfg,
		log:      log,
		b2:       &bw,
		contacts: &contactQueue{},
	}
	w.b2.SetContactListener(w.contacts)

	log.Debug("world created",
		zap.Float64("gravity_y", cfg.Gravity.Y()),
		zap.Int("velocity_iterations", cfg.VelocityIterations),
		zap.Int("position_iterations", cfg.PositionIterations),
	)
	return w, nil
}

// CreateBody implements physics.World.
func (w *World) CreateBody(def physics.BodyDef) physics.Body {
	bd := box2d.MakeB2BodyDef()
	bd.Type = box2d.B2BodyType.B2_staticBody
	if def.Kind == physics.BodyDynamic {
		bd.Type = box2d.B2BodyType.B2_dynamicBody
	}
	bd.Position = vec(def.Position)
	bd.LinearDamping = def.Damping.Linear
	bd.AngularDamping = def.Damping.Angular
	bd.GravityScale = def.GravityScale
	bd.FixedRotation = def.FixedRotation
	bd.UserData = def.Owner

	b := &Body{
		world:   w,
		b2:      w.b2.CreateBody(&bd),
		kind:    def.Kind,
		mass:    def.Mass,
		inertia: def.Inertia,
	}
	b.applyMass()
	return b
}

// AddCollider implements physics.World. Colliders on bodies from another
// world are ignored.
func (w *World) AddCollider(pb physics.Body, def physics.ColliderDef) {
	b, ok := pb.(*Body)
	if !ok || b.world != w {
		w.log.Warn("collider on foreign body ignored")
		return
	}

	fd := box2d.MakeB2FixtureDef()
	fd.IsSensor = def.Sensor
	fd.Density = def.Density
	fd.Friction = def.Friction
	fd.UserData = def.Owner

	if def.Radius > 0 {
		shape := box2d.MakeB2CircleShape()
		shape.M_radius = def.Radius
		shape.M_p = vec(def.Offset)
		fd.Shape = &shape
	} else {
		shape := box2d.MakeB2PolygonShape()
		shape.SetAsBoxFromCenterAndAngle(def.HalfExtents.X(), def.HalfExtents.Y(), vec(def.Offset), 0)
		fd.Shape = &shape
	}

	b.b2.CreateFixtureFromDef(&fd)
	if def.Density > 0 {
		// Fixture density resets mass data; keep the declared mass.
		b.applyMass()
	}
}

// CreateHinge implements physics.World.
func (w *World) CreateHinge(def physics.HingeDef) physics.Hinge {
	body, _ := def.Body.(*Body)
	h := &Hinge{
		world:           w,
		body:            body,
		connected:       w.own(def.Connected),
		localAnchor:     def.LocalAnchor,
		connectedAnchor: def.ConnectedAnchor,
		limits:          def.Limits,
		collide:         def.CollideConnected,
		enabled:         def.Enabled,
	}
	if body == nil {
		w.log.Warn("hinge without a body from this world")
	}
	w.hinges = append(w.hinges, h)
	w.sync(h)
	return h
}

// SetOverlapListener implements physics.World.
func (w *World) SetOverlapListener(l physics.OverlapListener) {
	w.listener = l
}

// Step advances the simulation by dt and then delivers queued overlap
// notifications and deferred hinge changes.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.b2.Step(dt, w.cfg.VelocityIterations, w.cfg.PositionIterations)
	w.steps++

	pending := w.pending
	w.pending = nil
	for _, h := range pending {
		w.sync(h)
	}

	for _, e := range w.contacts.drain() {
		if w.listener == nil {
			continue
		}
		if e.began {
			w.listener.OverlapBegan(e.a, e.b)
		} else {
			w.listener.OverlapEnded(e.a, e.b)
		}
	}
}

// Steps returns the number of completed steps.
func (w *World) Steps() uint64 { return w.steps }

// JointCount returns the number of live box2d joints.
func (w *World) JointCount() int { return w.b2.GetJointCount() }

// BodyCount returns the number of box2d bodies.
func (w *World) BodyCount() int { return w.b2.GetBodyCount() }

// Config returns the solver settings.
func (w *World) Config() Config { return w.cfg }

// own returns b as a body of this world, or nil.
func (w *World) own(b physics.Body) *Body {
	if b == nil {
		return nil
	}
	body, ok := b.(*Body)
	if !ok || body.world != w {
		w.log.Warn("foreign body ignored")
		return nil
	}
	return body
}

// sync brings the box2d joint of h in line with its enabled state. While
// the world is locked the change is deferred to the end of Step.
func (w *World) sync(h *Hinge) {
	if w.b2.IsLocked() {
		w.pending = append(w.pending, h)
		return
	}
	if h.joint != nil {
		w.b2.DestroyJoint(h.joint)
		h.joint = nil
	}
	if !h.enabled || h.body == nil || h.connected == nil {
		return
	}
	h.joint = w.b2.CreateJoint(h.def())
}

func vec(v mgl64.Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(v.X(), v.Y())
}

func fromVec(v box2d.B2Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.X, v.Y}
}

var _ physics.World = (*World)(nil)
