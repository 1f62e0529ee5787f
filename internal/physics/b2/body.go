package b2

import (
	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/swingline/internal/physics"
)

// Body wraps a box2d body.
type Body struct {
	world   *World
	b2      *box2d.B2Body
	kind    physics.BodyKind
	mass    float64
	inertia float64
}

// applyMass overrides the fixture-derived mass of dynamic bodies with the
// declared one. Without a declared mass box2d keeps its own.
func (b *Body) applyMass() {
	if b.kind != physics.BodyDynamic || b.mass <= 0 {
		return
	}
	b.b2.SetMassData(&box2d.B2MassData{
		Mass:   b.mass,
		Center: box2d.MakeB2Vec2(0, 0),
		I:      b.inertia,
	})
}

func (b *Body) Position() mgl64.Vec2 { return fromVec(b.b2.GetPosition()) }

func (b *Body) WorldCenter() mgl64.Vec2 { return fromVec(b.b2.GetWorldCenter()) }

func (b *Body) Velocity() mgl64.Vec2 { return fromVec(b.b2.GetLinearVelocity()) }

func (b *Body) SetVelocity(v mgl64.Vec2) { b.b2.SetLinearVelocity(vec(v)) }

func (b *Body) GravityScale() float64 { return b.b2.GetGravityScale() }

func (b *Body) SetGravityScale(scale float64) { b.b2.SetGravityScale(scale) }

func (b *Body) Mass() float64 { return b.b2.GetMass() }

func (b *Body) Angle() float64 { return b.b2.GetAngle() }

func (b *Body) Damping() physics.Damping {
	return physics.Damping{
		Linear:  b.b2.GetLinearDamping(),
		Angular: b.b2.GetAngularDamping(),
	}
}

func (b *Body) SetDamping(d physics.Damping) {
	b.b2.SetLinearDamping(d.Linear)
	b.b2.SetAngularDamping(d.Angular)
}

// ApplyForce implements physics.Body. Forces wake the body.
func (b *Body) ApplyForce(f mgl64.Vec2, mode physics.ForceMode) {
	switch mode {
	case physics.ForceImpulse:
		b.b2.ApplyLinearImpulseToCenter(vec(f), true)
	default:
		b.b2.ApplyForceToCenter(vec(f), true)
	}
}

func (b *Body) PointVelocity(world mgl64.Vec2) mgl64.Vec2 {
	return fromVec(b.b2.GetLinearVelocityFromWorldPoint(vec(world)))
}

// Owner returns the owner given at creation.
func (b *Body) Owner() any { return b.b2.GetUserData() }

var _ physics.Body = (*Body)(nil)
