package b2

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/swingline/internal/physics"
)

const step = 1.0 / 50

func newWorld(t *testing.T, gravity mgl64.Vec2) *World {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Gravity = gravity
	w, err := NewWorld(cfg, nil)
	if err != nil {
		t.Fatalf("NewWorld failed: %v", err)
	}
	return w
}

func TestNewWorldValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VelocityIterations = 0
	cfg.PositionIterations = -1

	if _, err := NewWorld(cfg, nil); err == nil {
		t.Fatal("expected error for non-positive iterations")
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("expected default config to validate, got %v", err)
	}
}

func TestBodyFallsWithGravityScale(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{0, -10})
	falling := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl64.Vec2{0, 5}, Mass: 1, GravityScale: 1})
	floating := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl64.Vec2{3, 5}, Mass: 1, GravityScale: 0})
	anchor := w.CreateBody(physics.BodyDef{Kind: physics.BodyStatic, Position: mgl64.Vec2{-3, 5}})

	for i := 0; i < 10; i++ {
		w.Step(step)
	}

	if falling.Velocity().Y() >= 0 || falling.Position().Y() >= 5 {
		t.Errorf("expected body to fall, got pos %v vel %v", falling.Position(), falling.Velocity())
	}
	if floating.Velocity().Y() != 0 {
		t.Errorf("expected zero gravity body at rest, got %v", floating.Velocity())
	}
	if anchor.Position() != (mgl64.Vec2{-3, 5}) {
		t.Errorf("expected static body fixed, got %v", anchor.Position())
	}
	if w.Steps() != 10 {
		t.Errorf("expected 10 steps, got %d", w.Steps())
	}
}

func TestDeclaredMassSurvivesDenseCollider(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{})
	b := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Mass: 2, FixedRotation: true, GravityScale: 1})
	w.AddCollider(b, physics.ColliderDef{HalfExtents: mgl64.Vec2{1, 1}, Density: 5})

	if math.Abs(b.Mass()-2) > 1e-9 {
		t.Errorf("expected mass 2, got %v", b.Mass())
	}

	b.ApplyForce(mgl64.Vec2{4, 0}, physics.ForceImpulse)
	if !b.Velocity().ApproxEqual(mgl64.Vec2{2, 0}) {
		t.Errorf("expected velocity (2, 0) after impulse, got %v", b.Velocity())
	}
	if !b.PointVelocity(mgl64.Vec2{0, 3}).ApproxEqual(mgl64.Vec2{2, 0}) {
		t.Errorf("expected point velocity (2, 0), got %v", b.PointVelocity(mgl64.Vec2{0, 3}))
	}
}

func TestDampingAndGravityScale(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{0, -10})
	b := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Mass: 1, GravityScale: 1})

	b.SetDamping(physics.Damping{Linear: 2.2, Angular: 0.05})
	if d := b.Damping(); d.Linear != 2.2 || d.Angular != 0.05 {
		t.Errorf("expected damping {2.2 0.05}, got %+v", d)
	}

	b.SetGravityScale(0.55)
	if b.GravityScale() != 0.55 {
		t.Errorf("expected gravity scale 0.55, got %v", b.GravityScale())
	}
}

func TestHingeJointLifecycle(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{})
	avatar := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Mass: 1, FixedRotation: true, GravityScale: 1})
	grip := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl64.Vec2{0, 1}, Mass: 0.2, Inertia: 0.01, GravityScale: 1})

	h := w.CreateHinge(physics.HingeDef{Body: avatar})
	hinge := h.(*Hinge)

	h.SetEnabled(true)
	if hinge.Active() || w.JointCount() != 0 {
		t.Fatal("expected no joint without a connected body")
	}

	h.SetConnectedBody(grip)
	if !hinge.Active() || w.JointCount() != 1 {
		t.Fatalf("expected one joint after connecting, got %d", w.JointCount())
	}

	h.SetAnchors(mgl64.Vec2{0, 0.1}, mgl64.Vec2{})
	if w.JointCount() != 1 {
		t.Errorf("expected joint rebuilt in place, got %d joints", w.JointCount())
	}

	h.SetEnabled(false)
	h.SetConnectedBody(nil)
	if hinge.Active() || w.JointCount() != 0 {
		t.Errorf("expected joint destroyed, got %d", w.JointCount())
	}
	if h.ConnectedBody() != nil {
		t.Error("expected no connected body")
	}
}

func TestHingeLimitsAndForeignBodies(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{})
	other := newWorld(t, mgl64.Vec2{})

	a := w.CreateBody(physics.BodyDef{Kind: physics.BodyStatic})
	b := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl64.Vec2{0, -0.5}, Mass: 0.2, Inertia: 0.004, GravityScale: 1})
	foreign := other.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Mass: 1, GravityScale: 1})

	h := w.CreateHinge(physics.HingeDef{
		Body:        b,
		Connected:   a,
		LocalAnchor: mgl64.Vec2{0, 0.25},
		Limits:      physics.SymmetricLimits(18),
		Enabled:     true,
	})
	if h.Limits() == nil || h.Limits().Max != 18 {
		t.Errorf("expected ±18 limits, got %+v", h.Limits())
	}
	if w.JointCount() != 1 {
		t.Fatalf("expected enabled hinge to create a joint, got %d", w.JointCount())
	}

	h.SetConnectedBody(foreign)
	if h.ConnectedBody() != nil || w.JointCount() != 0 {
		t.Error("expected foreign body rejected")
	}
}

type recorder struct {
	began, ended [][2]any
}

func (r *recorder) OverlapBegan(a, b any) { r.began = append(r.began, [2]any{a, b}) }
func (r *recorder) OverlapEnded(a, b any) { r.ended = append(r.ended, [2]any{a, b}) }

func hasPair(pairs [][2]any, x, y any) bool {
	for _, p := range pairs {
		if (p[0] == x && p[1] == y) || (p[0] == y && p[1] == x) {
			return true
		}
	}
	return false
}

func TestSensorOverlapDeliveredAfterStep(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{})
	rec := &recorder{}
	w.SetOverlapListener(rec)

	sensor := w.CreateBody(physics.BodyDef{Kind: physics.BodyStatic})
	w.AddCollider(sensor, physics.ColliderDef{Radius: 0.5, Sensor: true, Owner: "grip"})

	mover := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Mass: 1, FixedRotation: true, GravityScale: 1})
	w.AddCollider(mover, physics.ColliderDef{HalfExtents: mgl64.Vec2{0.25, 0.25}, Owner: "avatar"})

	w.Step(step)
	if !hasPair(rec.began, "grip", "avatar") {
		t.Fatalf("expected overlap began, got %v", rec.began)
	}

	mover.SetVelocity(mgl64.Vec2{0, 100})
	for i := 0; i < 3; i++ {
		w.Step(step)
	}
	if !hasPair(rec.ended, "grip", "avatar") {
		t.Errorf("expected overlap ended, got %v", rec.ended)
	}
}

func TestSolidContactsNotReported(t *testing.T) {
	w := newWorld(t, mgl64.Vec2{0, -10})
	rec := &recorder{}
	w.SetOverlapListener(rec)

	ground := w.CreateBody(physics.BodyDef{Kind: physics.BodyStatic})
	w.AddCollider(ground, physics.ColliderDef{HalfExtents: mgl64.Vec2{5, 0.5}, Owner: "ground"})
	box := w.CreateBody(physics.BodyDef{Kind: physics.BodyDynamic, Position: mgl64.Vec2{0, 0.9}, Mass: 1, GravityScale: 1})
	w.AddCollider(box, physics.ColliderDef{HalfExtents: mgl64.Vec2{0.5, 0.5}, Friction: 0.4, Owner: "box"})

	for i := 0; i < 5; i++ {
		w.Step(step)
	}
	if len(rec.began) != 0 {
		t.Errorf("expected no overlap for solid contacts, got %v", rec.began)
	}
}
