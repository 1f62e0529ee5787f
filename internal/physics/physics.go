// Package physics defines the rigid-body contract the swing core consumes.
//
// The engine itself (integration, constraint solving, contact detection) is
// provided by the host; see package b2 for the box2d implementation and
// package physicstest for a deterministic fake.
package physics

import "github.com/go-gl/mathgl/mgl64"

// ForceMode selects how ApplyForce affects a body.
type ForceMode uint8

const (
	// ForceContinuous is integrated over the next step (N).
	ForceContinuous ForceMode = iota
	// ForceImpulse changes momentum immediately (N·s).
	ForceImpulse
)

// String returns the mode name.
func (m ForceMode) String() string {
	switch m {
	case ForceContinuous:
		return "force"
	case ForceImpulse:
		return "impulse"
	default:
		return "unknown"
	}
}

// BodyKind distinguishes immovable bodies from simulated ones.
type BodyKind uint8

const (
	BodyStatic BodyKind = iota
	BodyDynamic
)

// Damping is a linear/angular drag pair.
type Damping struct {
	Linear  float64 `yaml:"linear"`
	Angular float64 `yaml:"angular"`
}

// Body is a rigid body owned by the physics engine.
type Body interface {
	Position() mgl64.Vec2
	WorldCenter() mgl64.Vec2
	Velocity() mgl64.Vec2
	SetVelocity(v mgl64.Vec2)
	GravityScale() float64
	SetGravityScale(scale float64)
	Mass() float64
	Damping() Damping
	SetDamping(d Damping)
	ApplyForce(f mgl64.Vec2, mode ForceMode)
	// PointVelocity returns the velocity of the body at a world point,
	// including the contribution of its angular velocity.
	PointVelocity(world mgl64.Vec2) mgl64.Vec2
}

// AngleLimits bounds the relative rotation of a hinge, in degrees.
type AngleLimits struct {
	Min float64
	Max float64
}

// SymmetricLimits returns ±deg limits, or nil when deg is too small to
// be meaningful (limiting disabled).
func SymmetricLimits(deg float64) *AngleLimits {
	if deg <= 0.01 {
		return nil
	}
	return &AngleLimits{Min: -deg, Max: deg}
}

// HingeDef describes a rotational constraint between Body and Connected.
// Anchors are in each body's local frame.
type HingeDef struct {
	Body             Body
	Connected        Body
	LocalAnchor      mgl64.Vec2
	ConnectedAnchor  mgl64.Vec2
	Limits           *AngleLimits
	CollideConnected bool
	Enabled          bool
}

// Hinge is a rotational constraint that can be switched on and off and
// re-targeted at another body.
type Hinge interface {
	Enabled() bool
	SetEnabled(enabled bool)
	ConnectedBody() Body
	SetConnectedBody(b Body)
	SetAnchors(local, connected mgl64.Vec2)
	Limits() *AngleLimits
	CollideConnected() bool
}

// BodyDef describes a body to create. Mass and Inertia apply to dynamic
// bodies only; zero inertia with FixedRotation false lets the engine
// pick one.
type BodyDef struct {
	Kind          BodyKind
	Position      mgl64.Vec2
	Mass          float64
	Inertia       float64
	Damping       Damping
	GravityScale  float64
	FixedRotation bool
	Owner         any
}

// ColliderDef attaches a shape to a body. Radius > 0 makes a circle,
// otherwise HalfExtents makes a box. Sensors report overlaps but never
// produce a collision response.
type ColliderDef struct {
	Radius      float64
	HalfExtents mgl64.Vec2
	Offset      mgl64.Vec2
	Sensor      bool
	Density     float64
	Friction    float64
	Owner       any
}

// OverlapListener receives sensor overlap notifications. Arguments are the
// collider owners of the two fixtures involved, in no particular order.
type OverlapListener interface {
	OverlapBegan(a, b any)
	OverlapEnded(a, b any)
}

// OverlapFuncs adapts two functions to OverlapListener.
type OverlapFuncs struct {
	Began func(a, b any)
	Ended func(a, b any)
}

// OverlapBegan implements OverlapListener.
func (f OverlapFuncs) OverlapBegan(a, b any) {
	if f.Began != nil {
		f.Began(a, b)
	}
}

// OverlapEnded implements OverlapListener.
func (f OverlapFuncs) OverlapEnded(a, b any) {
	if f.Ended != nil {
		f.Ended(a, b)
	}
}

// World creates bodies and constraints and advances the simulation.
type World interface {
	CreateBody(def BodyDef) Body
	AddCollider(b Body, def ColliderDef)
	CreateHinge(def HingeDef) Hinge
	SetOverlapListener(l OverlapListener)
	Step(dt float64)
}
