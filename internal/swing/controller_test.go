package swing

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/swingline/internal/input"
	"github.com/Faultbox/swingline/internal/physics"
	"github.com/Faultbox/swingline/internal/physics/physicstest"
	"github.com/Faultbox/swingline/internal/rope"
)

const step = 0.02

type rig struct {
	ctrl   *Controller
	avatar *physicstest.Body
	hinge  *physicstest.Hinge
	grip   *rope.GripPoint
	anchor *physicstest.Body
	events []Event
}

// newRig places the avatar at the origin and a grip gripDist above it.
func newRig(tuning Tuning, gripDist float64) *rig {
	r := &rig{
		avatar: physicstest.NewBody(mgl64.Vec2{0, 0}),
		anchor: physicstest.NewBody(mgl64.Vec2{0, gripDist}),
	}
	r.hinge = &physicstest.Hinge{Owner: r.avatar, On: true}
	r.grip = rope.NewGripPoint(r.anchor, nil)
	r.ctrl = NewController(r.avatar, r.hinge, tuning, WithListener(func(e Event) {
		r.events = append(r.events, e)
	}))
	return r
}

func (r *rig) hold(h float64) {
	r.ctrl.Frame(input.Intent{Horizontal: h, JumpHeld: true})
}

func (r *rig) release(h float64) {
	r.ctrl.Frame(input.Intent{Horizontal: h, JumpUp: true})
}

// attach grabs the grip and runs one step.
func (r *rig) attach(t *testing.T) {
	t.Helper()
	r.ctrl.GripEntered(r.grip)
	r.hold(0)
	r.ctrl.FixedStep(step)
	if !r.ctrl.IsSwinging() {
		t.Fatalf("expected attached after grab, got state %v", r.ctrl.State())
	}
	r.avatar.ClearApplied()
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestNewControllerConfiguresHinge(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	if r.hinge.On {
		t.Error("expected hinge disabled after construction")
	}
	if r.hinge.LocalAnchor != (mgl64.Vec2{}) || r.hinge.ConnectedAnchor != (mgl64.Vec2{}) {
		t.Errorf("expected zero anchors, got %v %v", r.hinge.LocalAnchor, r.hinge.ConnectedAnchor)
	}
	if r.ctrl.State() != StateDetached {
		t.Errorf("expected detached, got %v", r.ctrl.State())
	}
}

func TestAttachDistance(t *testing.T) {
	tests := []struct {
		name   string
		dist   float64
		attach bool
	}{
		{"well inside", 1.0, true},
		{"on the boundary", 1.25, true},
		{"just outside", 1.3, false},
		{"far away", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(DefaultTuning(), tt.dist)
			r.ctrl.GripEntered(r.grip)
			r.hold(0)
			r.ctrl.FixedStep(step)

			if r.ctrl.IsSwinging() != tt.attach {
				t.Errorf("expected swinging=%v at distance %v, got %v", tt.attach, tt.dist, r.ctrl.IsSwinging())
			}
			if r.grip.IsGrabbed() != tt.attach {
				t.Errorf("expected grabbed=%v, got %v", tt.attach, r.grip.IsGrabbed())
			}
			if r.hinge.On != tt.attach {
				t.Errorf("expected hinge enabled=%v, got %v", tt.attach, r.hinge.On)
			}
		})
	}
}

func TestAttachWithoutCandidateIgnored(t *testing.T) {
	r := newRig(DefaultTuning(), 0.5)
	r.hold(0)
	r.ctrl.FixedStep(step)

	if r.ctrl.IsSwinging() {
		t.Error("expected no attach without a nearby grip")
	}
	if len(r.events) != 0 {
		t.Errorf("expected no events, got %d", len(r.events))
	}
}

func TestAttachRequiresGrab(t *testing.T) {
	r := newRig(DefaultTuning(), 0.5)
	r.ctrl.GripEntered(r.grip)
	r.ctrl.Frame(input.Intent{Horizontal: 1})
	r.ctrl.FixedStep(step)

	if r.ctrl.IsSwinging() {
		t.Error("expected no attach while grab is not held")
	}
}

func TestAttachConnectsHinge(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.attach(t)

	if r.hinge.ConnectedBody() != physics.Body(r.anchor) {
		t.Error("expected hinge connected to grip body")
	}
	if r.ctrl.Attached() != r.grip {
		t.Error("expected attached grip to be the candidate")
	}
	if len(r.events) != 1 || r.events[0].Kind != EventAttached {
		t.Fatalf("expected one attached event, got %+v", r.events)
	}
	if r.events[0].Grip != r.grip {
		t.Error("expected event to carry the grip")
	}
}

func TestGripExitedOnlyClearsSameGrip(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	other := rope.NewGripPoint(physicstest.NewBody(mgl64.Vec2{3, 0}), nil)

	r.ctrl.GripEntered(r.grip)
	r.ctrl.GripExited(other)
	if r.ctrl.Nearby() != r.grip {
		t.Error("expected candidate kept when another grip exits")
	}

	r.ctrl.GripExited(r.grip)
	if r.ctrl.Nearby() != nil {
		t.Error("expected candidate cleared")
	}
}

func TestDetachNoMomentumStealing(t *testing.T) {
	tests := []struct {
		name     string
		avatar   mgl64.Vec2
		grip     mgl64.Vec2
		expected mgl64.Vec2
	}{
		{"grip faster", mgl64.Vec2{2, 0}, mgl64.Vec2{0, 10}, mgl64.Vec2{0, 10}},
		{"avatar faster", mgl64.Vec2{6, 1}, mgl64.Vec2{1, 1}, mgl64.Vec2{6, 1}},
		{"equal speed keeps avatar", mgl64.Vec2{3, 4}, mgl64.Vec2{5, 0}, mgl64.Vec2{3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tuning.EnableDetachUpwardAssist = false
			r := newRig(tuning, 1)
			r.attach(t)

			r.avatar.Vel = tt.avatar
			r.anchor.Vel = tt.grip
			r.release(0)
			r.ctrl.FixedStep(step)

			if r.ctrl.IsSwinging() {
				t.Fatal("expected detached after release")
			}
			if !r.avatar.Vel.ApproxEqual(tt.expected) {
				t.Errorf("expected release velocity %v, got %v", tt.expected, r.avatar.Vel)
			}
		})
	}
}

func TestDetachInheritanceDisabled(t *testing.T) {
	tuning := DefaultTuning()
	tuning.InheritGripPointVelocityOnDetach = false
	r := newRig(tuning, 1)
	r.attach(t)

	r.avatar.Vel = mgl64.Vec2{2, 0}
	r.anchor.Vel = mgl64.Vec2{0, 10}
	r.ctrl.Detach()

	if !r.avatar.Vel.ApproxEqual(mgl64.Vec2{2, 0}) {
		t.Errorf("expected avatar velocity kept, got %v", r.avatar.Vel)
	}
}

func TestDetachWithoutConnectedBodySkipsInheritance(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.attach(t)

	r.hinge.Connected = nil
	r.avatar.Vel = mgl64.Vec2{1, 0}
	r.ctrl.Detach()

	if r.ctrl.IsSwinging() {
		t.Fatal("expected detached")
	}
	if !r.avatar.Vel.ApproxEqual(mgl64.Vec2{1, 0}) {
		t.Errorf("expected avatar velocity kept, got %v", r.avatar.Vel)
	}
}

func TestDetachReleasesGripAndHinge(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.attach(t)

	r.release(0)
	r.ctrl.FixedStep(step)

	if r.grip.IsGrabbed() {
		t.Error("expected grip released")
	}
	if r.hinge.On || r.hinge.Connected != nil {
		t.Error("expected hinge disabled and disconnected")
	}
	if r.ctrl.Attached() != nil {
		t.Error("expected no attached grip")
	}
	if len(r.events) != 2 || r.events[1].Kind != EventDetached {
		t.Fatalf("expected detached event, got %+v", r.events)
	}

	// Further released steps must not detach again.
	r.ctrl.FixedStep(step)
	if len(r.events) != 2 {
		t.Errorf("expected exactly one detach, got %d events", len(r.events))
	}
	if r.grip.Holders() != 0 {
		t.Errorf("expected 0 holders, got %d", r.grip.Holders())
	}
}

func TestReleaseGravityRecovery(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ReleaseRecoverTimeFast = 0.5
	tuning.ReleaseRecoverTimeSlow = 0.5
	r := newRig(tuning, 1)
	r.avatar.Gravity = 3
	r.ctrl = NewController(r.avatar, r.hinge, tuning)
	r.attach(t)

	r.release(0)
	r.ctrl.FixedStep(step)
	if r.avatar.Gravity != 0 {
		t.Fatalf("expected gravity 0 right after release, got %v", r.avatar.Gravity)
	}

	const dt = 0.05
	for i := 0; i < 5; i++ {
		r.ctrl.FixedStep(dt)
	}
	if !approx(r.avatar.Gravity, 1.5) {
		t.Errorf("expected gravity 1.5 halfway, got %v", r.avatar.Gravity)
	}

	for i := 0; i < 6; i++ {
		r.ctrl.FixedStep(dt)
	}
	if r.avatar.Gravity != 3 {
		t.Errorf("expected gravity 3 after recovery, got %v", r.avatar.Gravity)
	}
	if r.ctrl.Timers().Recovering {
		t.Error("expected recovery finished")
	}
}

func TestAttachDuringRecoveryKeepsBaseline(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.avatar.Gravity = 2
	r.ctrl = NewController(r.avatar, r.hinge, DefaultTuning())
	r.attach(t)

	r.release(0)
	r.ctrl.FixedStep(step)
	r.ctrl.FixedStep(step)
	if !r.ctrl.Timers().Recovering {
		t.Fatal("expected recovery in flight")
	}

	r.attach(t)
	if r.ctrl.OriginalGravityScale() != 2 {
		t.Errorf("expected baseline 2, got %v", r.ctrl.OriginalGravityScale())
	}
	if r.ctrl.Timers().Recovering {
		t.Error("expected recovery cancelled on attach")
	}
}

func TestFixedReleaseGravityDoesNotCompound(t *testing.T) {
	tuning := DefaultTuning()
	tuning.UseVelocityBasedReleaseGravity = false
	tuning.UseUpDownGravityProfile = false
	r := newRig(tuning, 1)
	r.attach(t)

	r.release(0)
	r.ctrl.FixedStep(step)
	if !approx(r.avatar.Gravity, 0.7) {
		t.Fatalf("expected gravity 0.7 after release, got %v", r.avatar.Gravity)
	}

	r.attach(t)
	if r.ctrl.OriginalGravityScale() != 1 {
		t.Errorf("expected baseline 1, got %v", r.ctrl.OriginalGravityScale())
	}
	if !approx(r.avatar.Gravity, 0.7) {
		t.Errorf("expected gravity 0.7 while attached, got %v", r.avatar.Gravity)
	}
}

func TestGravityProfileWhileAttached(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.attach(t)

	r.avatar.Vel = mgl64.Vec2{0, 4}
	r.hold(0)
	r.ctrl.FixedStep(step)
	if !approx(r.avatar.Gravity, 0.55) {
		t.Errorf("expected up multiplier 0.55, got %v", r.avatar.Gravity)
	}

	r.avatar.Vel = mgl64.Vec2{0, -4}
	r.ctrl.FixedStep(step)
	if !approx(r.avatar.Gravity, 0.85) {
		t.Errorf("expected down multiplier 0.85, got %v", r.avatar.Gravity)
	}
}

func TestEndToEndJumpCutLock(t *testing.T) {
	tuning := DefaultTuning()
	r := newRig(tuning, 1)
	r.attach(t)

	if !r.ctrl.ShouldIgnoreJumpCut() || !r.ctrl.ShouldBlockMotor() {
		t.Fatal("expected locks while attached")
	}

	r.avatar.Vel = mgl64.Vec2{10, 12}
	r.release(0)
	r.ctrl.FixedStep(step)

	lock := tuning.MotorLockDuration(10)
	if !approx(r.ctrl.Timers().MotorLock, lock) {
		t.Fatalf("expected lock %v, got %v", lock, r.ctrl.Timers().MotorLock)
	}
	if len(r.events) != 2 || !approx(r.events[1].LockDuration, lock) {
		t.Errorf("expected detached event with lock %v, got %+v", lock, r.events)
	}

	elapsed := 0.0
	for r.ctrl.ShouldIgnoreJumpCut() {
		r.ctrl.FixedStep(step)
		elapsed += step
		if elapsed > 2 {
			t.Fatal("lock never expired")
		}
	}
	if elapsed < lock-1e-9 || elapsed >= lock+step {
		t.Errorf("expected lock to expire after %v, got %v", lock, elapsed)
	}
	if r.ctrl.ShouldBlockMotor() {
		t.Error("expected motor unblocked after lock")
	}
}

func TestBlockMotorWhileSwingingDisabled(t *testing.T) {
	tuning := DefaultTuning()
	tuning.BlockMotorWhileSwinging = false
	r := newRig(tuning, 1)
	r.attach(t)

	if r.ctrl.ShouldBlockMotor() {
		t.Error("expected motor free while attached")
	}
	if !r.ctrl.ShouldIgnoreJumpCut() {
		t.Error("expected jump cut ignored while attached")
	}
}

func TestMotorLockKeepsLongerRemaining(t *testing.T) {
	tuning := DefaultTuning()
	r := newRig(tuning, 1)
	r.attach(t)
	r.avatar.Vel = mgl64.Vec2{18, 0}
	r.ctrl.Detach()

	first := r.ctrl.Timers().MotorLock
	r.attach(t)
	r.avatar.Vel = mgl64.Vec2{}
	r.anchor.Vel = mgl64.Vec2{}
	r.ctrl.Detach()

	if r.ctrl.Timers().MotorLock < tuning.ReleaseMotorLockMin || r.ctrl.Timers().MotorLock > first {
		t.Errorf("expected lock between min and %v, got %v", first, r.ctrl.Timers().MotorLock)
	}
	if !approx(r.ctrl.Timers().MotorLock, first-step) {
		t.Errorf("expected remaining lock %v kept, got %v", first-step, r.ctrl.Timers().MotorLock)
	}
}

func TestDriveForce(t *testing.T) {
	const force = 35
	pivot := mgl64.Vec2{0, 0}
	s := 35 / math.Sqrt2

	tests := []struct {
		name     string
		avatar   mgl64.Vec2
		pivot    *mgl64.Vec2
		h        float64
		expected mgl64.Vec2
	}{
		{"below pivot right", mgl64.Vec2{0, -1}, &pivot, 1, mgl64.Vec2{35, 0}},
		{"below pivot left", mgl64.Vec2{0, -1}, &pivot, -1, mgl64.Vec2{-35, 0}},
		{"half input", mgl64.Vec2{0, -2}, &pivot, 0.5, mgl64.Vec2{17.5, 0}},
		{"diagonal right", mgl64.Vec2{1, -1}, &pivot, 1, mgl64.Vec2{s, s}},
		{"diagonal left", mgl64.Vec2{1, -1}, &pivot, -1, mgl64.Vec2{-s, -s}},
		{"at pivot", mgl64.Vec2{0.001, 0}, &pivot, 1, mgl64.Vec2{35, 0}},
		{"no pivot", mgl64.Vec2{4, 4}, nil, -1, mgl64.Vec2{-35, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DriveForce(tt.avatar, tt.pivot, tt.h, force)
			if !got.ApproxEqualThreshold(tt.expected, 1e-9) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestDriveAppliedWhileAttached(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.attach(t)

	r.hold(1)
	r.ctrl.FixedStep(step)
	if !r.avatar.NetForce().ApproxEqual(mgl64.Vec2{35, 0}) {
		t.Errorf("expected drive (35, 0), got %v", r.avatar.NetForce())
	}

	r.avatar.ClearApplied()
	r.hold(0.005)
	r.ctrl.FixedStep(step)
	if len(r.avatar.Applied()) != 0 {
		t.Errorf("expected no force inside dead zone, got %v", r.avatar.Applied())
	}
}

func TestReleaseAssists(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ReleaseSteerForce = 0
	r := newRig(tuning, 1)
	r.attach(t)

	r.avatar.Vel = mgl64.Vec2{-10, 5}
	r.release(0)
	r.ctrl.FixedStep(step)
	r.avatar.ClearApplied()

	timers := r.ctrl.Timers()
	if !approx(timers.UpwardAssist, tuning.ReleaseUpwardAssistSeconds) {
		t.Errorf("expected upward assist %v, got %v", tuning.ReleaseUpwardAssistSeconds, timers.UpwardAssist)
	}
	if timers.HorizontalSign != -1 {
		t.Errorf("expected horizontal sign -1, got %v", timers.HorizontalSign)
	}

	r.ctrl.FixedStep(step)
	expected := mgl64.Vec2{-tuning.ReleaseHorizontalAssistForce, tuning.ReleaseUpwardAssistForce}
	if !r.avatar.NetForce().ApproxEqual(expected) {
		t.Errorf("expected assist force %v, got %v", expected, r.avatar.NetForce())
	}

	for i := 0; i < 20; i++ {
		r.ctrl.FixedStep(step)
	}
	r.avatar.ClearApplied()
	r.ctrl.FixedStep(step)
	if len(r.avatar.Applied()) != 0 {
		t.Errorf("expected assists expired, got %v", r.avatar.Applied())
	}
	if timers := r.ctrl.Timers(); timers.UpwardAssist != 0 || timers.HorizontalAssist != 0 {
		t.Errorf("expected zero timers, got %+v", timers)
	}
}

func TestReleaseAssistsNeedSpeed(t *testing.T) {
	r := newRig(DefaultTuning(), 1)
	r.attach(t)

	r.avatar.Vel = mgl64.Vec2{2, -3}
	r.ctrl.Detach()

	timers := r.ctrl.Timers()
	if timers.UpwardAssist != 0 || timers.HorizontalAssist != 0 {
		t.Errorf("expected no assists for a slow downward release, got %+v", timers)
	}
}

func TestReleaseSteeringDecays(t *testing.T) {
	tuning := DefaultTuning()
	tuning.EnableReleaseUpwardAssist = false
	tuning.EnableReleaseHorizontalAssist = false
	r := newRig(tuning, 1)
	r.attach(t)

	r.avatar.Vel = mgl64.Vec2{10, 0}
	r.release(0)
	r.ctrl.FixedStep(step)
	r.avatar.ClearApplied()

	prev := math.Inf(1)
	r.ctrl.Frame(input.Intent{Horizontal: -1})
	for r.ctrl.Timers().MotorLock > 0 {
		timers := r.ctrl.Timers()
		r.ctrl.FixedStep(step)
		remaining := math.Max(timers.MotorLock-step, 0)
		expected := -tuning.ReleaseSteerForce * remaining / timers.MotorLockDuration

		got := r.avatar.NetForce().X()
		if !approx(got, expected) {
			t.Fatalf("expected steering %v, got %v", expected, got)
		}
		if math.Abs(got) > prev {
			t.Fatalf("expected steering to decay, got %v after %v", got, prev)
		}
		prev = math.Abs(got)
		r.avatar.ClearApplied()
	}
}

func TestDetachUpwardPop(t *testing.T) {
	tuning := DefaultTuning()
	tuning.EnableDetachUpwardAssist = true
	r := newRig(tuning, 1)
	r.attach(t)

	r.avatar.Vel = mgl64.Vec2{0, 5}
	r.ctrl.Detach()
	if !approx(r.avatar.Vel.Y(), 5*1.12) {
		t.Errorf("expected popped vy %v, got %v", 5*1.12, r.avatar.Vel.Y())
	}

	r.attach(t)
	r.avatar.Vel = mgl64.Vec2{0, 0.2}
	r.ctrl.Detach()
	if !approx(r.avatar.Vel.Y(), 0.2) {
		t.Errorf("expected vy unchanged below threshold, got %v", r.avatar.Vel.Y())
	}
}

func TestNilCollaborators(t *testing.T) {
	c := NewController(nil, nil, DefaultTuning())
	c.Frame(input.Intent{JumpHeld: true})
	c.GripEntered(nil)
	c.FixedStep(step)
	c.Detach()
	if c.Attach(rope.NewGripPoint(physicstest.NewBody(mgl64.Vec2{}), nil)) {
		t.Error("expected attach without a body to fail")
	}

	avatar := physicstest.NewBody(mgl64.Vec2{})
	grip := rope.NewGripPoint(physicstest.NewBody(mgl64.Vec2{0, 1}), nil)
	c = NewController(avatar, nil, DefaultTuning())
	if !c.Attach(grip) {
		t.Fatal("expected attach without a hinge to succeed")
	}
	avatar.Vel = mgl64.Vec2{3, 0}
	c.Detach()
	if !avatar.Vel.ApproxEqual(mgl64.Vec2{3, 0}) {
		t.Errorf("expected velocity kept without a connected body, got %v", avatar.Vel)
	}
}
