// Package physicstest provides a deterministic in-memory implementation of
// the physics contract for tests.
//
// Bodies integrate with semi-implicit Euler and box2d-style damping. Hinges
// are recorded but not solved; tests drive velocities directly when they
// need a swinging body.
package physicstest

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/swingline/internal/physics"
)

// AppliedForce records one ApplyForce call.
type AppliedForce struct {
	Force mgl64.Vec2
	Mode  physics.ForceMode
}

// Body is a fake rigid body. Fields are exported so tests can arrange state.
type Body struct {
	Kind            physics.BodyKind
	Pos             mgl64.Vec2
	Vel             mgl64.Vec2
	AngularVelocity float64
	Gravity         float64
	MassValue       float64
	Drag            physics.Damping
	Owner           any
	Colliders       []physics.ColliderDef

	pending mgl64.Vec2
	applied []AppliedForce
}

// NewBody returns a dynamic body of unit mass and gravity scale at pos.
func NewBody(pos mgl64.Vec2) *Body {
	return &Body{Kind: physics.BodyDynamic, Pos: pos, Gravity: 1, MassValue: 1}
}

func (b *Body) Position() mgl64.Vec2 { return b.Pos }
func (b *Body) WorldCenter() mgl64.Vec2 { return b.Pos }
func (b *Body) Velocity() mgl64.Vec2 { return b.Vel }
func (b *Body) SetVelocity(v mgl64.Vec2) {
	if b.Kind == physics.BodyStatic {
		return
	}
	b.Vel = v
}
func (b *Body) GravityScale() float64 { return b.Gravity }
func (b *Body) SetGravityScale(scale float64) { b.Gravity = scale }
func (b *Body) Mass() float64 { return b.MassValue }
func (b *Body) Damping() physics.Damping { return b.Drag }
func (b *Body) SetDamping(d physics.Damping) { b.Drag = d }

// ApplyForce accumulates continuous forces until the next step and applies
// impulses immediately.
func (b *Body) ApplyForce(f mgl64.Vec2, mode physics.ForceMode) {
	b.applied = append(b.applied, AppliedForce{Force: f, Mode: mode})
	if b.Kind == physics.BodyStatic {
		return
	}
	switch mode {
	case physics.ForceImpulse:
		b.Vel = b.Vel.Add(f.Mul(b.invMass()))
	default:
		b.pending = b.pending.Add(f)
	}
}

// PointVelocity returns v + ω × (p − c).
func (b *Body) PointVelocity(world mgl64.Vec2) mgl64.Vec2 {
	r := world.Sub(b.Pos)
	return b.Vel.Add(mgl64.Vec2{-b.AngularVelocity * r.Y(), b.AngularVelocity * r.X()})
}

// Applied returns the forces applied since the last step.
func (b *Body) Applied() []AppliedForce {
	return b.applied
}

// NetForce sums the continuous forces applied since the last step.
func (b *Body) NetForce() mgl64.Vec2 {
	var sum mgl64.Vec2
	for _, f := range b.applied {
		if f.Mode == physics.ForceContinuous {
			sum = sum.Add(f.Force)
		}
	}
	return sum
}

// ClearApplied forgets recorded forces without stepping.
func (b *Body) ClearApplied() {
	b.applied = b.applied[:0]
	b.pending = mgl64.Vec2{}
}

func (b *Body) invMass() float64 {
	if b.MassValue <= 0 {
		return 1
	}
	return 1 / b.MassValue
}

func (b *Body) integrate(gravity mgl64.Vec2, dt float64) {
	if b.Kind == physics.BodyStatic {
		b.ClearApplied()
		return
	}
	accel := gravity.Mul(b.Gravity).Add(b.pending.Mul(b.invMass()))
	b.Vel = b.Vel.Add(accel.Mul(dt))
	b.Vel = b.Vel.Mul(1 / (1 + dt*b.Drag.Linear))
	b.AngularVelocity *= 1 / (1 + dt*b.Drag.Angular)
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
	b.ClearApplied()
}

// Hinge is a recorded, unsolved rotational constraint.
type Hinge struct {
	Owner           physics.Body
	Connected       physics.Body
	LocalAnchor     mgl64.Vec2
	ConnectedAnchor mgl64.Vec2
	AngleLimits     *physics.AngleLimits
	Collide         bool
	On              bool

	// Toggles counts SetEnabled transitions, for tests.
	Toggles int
}

func (h *Hinge) Enabled() bool { return h.On }

func (h *Hinge) SetEnabled(enabled bool) {
	if h.On != enabled {
		h.Toggles++
	}
	h.On = enabled
}

func (h *Hinge) ConnectedBody() physics.Body { return h.Connected }

func (h *Hinge) SetConnectedBody(b physics.Body) { h.Connected = b }

func (h *Hinge) SetAnchors(local, connected mgl64.Vec2) {
	h.LocalAnchor = local
	h.ConnectedAnchor = connected
}

func (h *Hinge) Limits() *physics.AngleLimits { return h.AngleLimits }

func (h *Hinge) CollideConnected() bool { return h.Collide }

// World is a fake physics world.
type World struct {
	Gravity mgl64.Vec2
	Bodies  []*Body
	Hinges  []*Hinge
	Steps   int

	listener physics.OverlapListener
}

// NewWorld creates an empty world with the given gravity.
func NewWorld(gravity mgl64.Vec2) *World {
	return &World{Gravity: gravity}
}

// CreateBody implements physics.World.
func (w *World) CreateBody(def physics.BodyDef) physics.Body {
	b := &Body{
		Kind:      def.Kind,
		Pos:       def.Position,
		Gravity:   def.GravityScale,
		MassValue: def.Mass,
		Drag:      def.Damping,
		Owner:     def.Owner,
	}
	if b.MassValue <= 0 && b.Kind == physics.BodyDynamic {
		b.MassValue = 1
	}
	w.Bodies = append(w.Bodies, b)
	return b
}

// AddCollider implements physics.World.
func (w *World) AddCollider(b physics.Body, def physics.ColliderDef) {
	if fb, ok := b.(*Body); ok {
		fb.Colliders = append(fb.Colliders, def)
	}
}

// CreateHinge implements physics.World.
func (w *World) CreateHinge(def physics.HingeDef) physics.Hinge {
	h := &Hinge{
		Owner:           def.Body,
		Connected:       def.Connected,
		LocalAnchor:     def.LocalAnchor,
		ConnectedAnchor: def.ConnectedAnchor,
		AngleLimits:     def.Limits,
		Collide:         def.CollideConnected,
		On:              def.Enabled,
	}
	w.Hinges = append(w.Hinges, h)
	return h
}

// SetOverlapListener implements physics.World.
func (w *World) SetOverlapListener(l physics.OverlapListener) {
	w.listener = l
}

// Step integrates every body by dt.
func (w *World) Step(dt float64) {
	for _, b := range w.Bodies {
		b.integrate(w.Gravity, dt)
	}
	w.Steps++
}

// Overlap delivers an OverlapBegan notification for two owners.
func (w *World) Overlap(a, b any) {
	if w.listener != nil {
		w.listener.OverlapBegan(a, b)
	}
}

// Separate delivers an OverlapEnded notification for two owners.
func (w *World) Separate(a, b any) {
	if w.listener != nil {
		w.listener.OverlapEnded(a, b)
	}
}

var (
	_ physics.World = (*World)(nil)
	_ physics.Body  = (*Body)(nil)
	_ physics.Hinge = (*Hinge)(nil)
)
