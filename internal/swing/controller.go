// Package swing implements grapple attachment to rope grip points: attach
// and detach, swing drive, gravity shaping while attached and the
// momentum-preserving release with its smoothing timers.
package swing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/input"
	"github.com/Faultbox/swingline/internal/physics"
	"github.com/Faultbox/swingline/internal/rope"
	pmath "github.com/Faultbox/swingline/pkg/math"
)

// minTangentRadiusSqr is the squared avatar-to-grip distance under which
// the drive falls back to a plain horizontal push.
const minTangentRadiusSqr = 1e-4

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithListener registers a callback for attach and detach events.
func WithListener(fn func(Event)) Option {
	return func(c *Controller) {
		c.listeners = append(c.listeners, fn)
	}
}

// Controller owns the avatar's swing state. Frame stores the input intent;
// FixedStep does all the work once per physics step.
type Controller struct {
	body   physics.Body
	hinge  physics.Hinge
	tuning Tuning

	log       *zap.Logger
	listeners []func(Event)

	intent   input.Intent
	state    State
	nearby   *rope.GripPoint
	attached *rope.GripPoint

	originalGravity float64
	// gravityOwned is set while the body's gravity scale holds a value the
	// controller derived from originalGravity.
	gravityOwned bool

	timers ReleaseTimers
}

// NewController creates a detached controller for the avatar body. The
// hinge is the avatar's attachment constraint; it is disabled and its
// anchors zeroed here.
func NewController(body physics.Body, hinge physics.Hinge, tuning Tuning, opts ...Option) *Controller {
	c := &Controller{
		body:   body,
		hinge:  hinge,
		tuning: tuning.Sanitize(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if body != nil {
		c.originalGravity = body.GravityScale()
	}
	if hinge != nil {
		hinge.SetEnabled(false)
		hinge.SetConnectedBody(nil)
		hinge.SetAnchors(mgl64.Vec2{}, mgl64.Vec2{})
		if hinge.CollideConnected() {
			c.log.Warn("attachment hinge collides with connected body")
		}
	}
	return c
}

// Frame stores the intent for the next physics step.
func (c *Controller) Frame(intent input.Intent) {
	c.intent = intent.Clamped()
}

// GripEntered marks g as the attach candidate.
func (c *Controller) GripEntered(g *rope.GripPoint) {
	if g == nil {
		return
	}
	c.nearby = g
}

// GripExited clears the candidate if it is g.
func (c *Controller) GripExited(g *rope.GripPoint) {
	if c.nearby == g {
		c.nearby = nil
	}
}

// FixedStep advances the controller by one physics step of dt seconds.
func (c *Controller) FixedStep(dt float64) {
	if c.body == nil || dt <= 0 {
		return
	}

	c.timers.MotorLock = countdown(c.timers.MotorLock, dt)

	grab := c.intent.Grab()
	if c.state == StateAttached && !grab {
		c.detach()
		return
	}
	if c.state == StateDetached && grab && c.inRange(c.nearby) {
		c.attach(c.nearby)
	}

	c.updateGravity(dt)

	if c.state == StateDetached {
		c.applyReleaseAssists(dt)
		c.applyReleaseSteering()
	}
	if c.state == StateAttached {
		c.applyDrive()
	}
}

// Attach connects the avatar to g if it is within MaxAttachDistance. It
// reports whether the avatar is attached afterwards.
func (c *Controller) Attach(g *rope.GripPoint) bool {
	if c.body == nil || c.state == StateAttached {
		return c.state == StateAttached
	}
	if !c.inRange(g) {
		return false
	}
	c.attach(g)
	return true
}

// Detach releases the avatar if attached.
func (c *Controller) Detach() {
	if c.body == nil || c.state != StateAttached {
		return
	}
	c.detach()
}

func (c *Controller) inRange(g *rope.GripPoint) bool {
	if g == nil || g.Body() == nil {
		return false
	}
	return pmath.Distance(c.body.Position(), g.Position()) <= c.tuning.MaxAttachDistance
}

func (c *Controller) attach(g *rope.GripPoint) {
	if c.hinge != nil {
		c.hinge.SetConnectedBody(g.Body())
		c.hinge.SetAnchors(mgl64.Vec2{}, mgl64.Vec2{})
		c.hinge.SetEnabled(true)
	}
	c.state = StateAttached
	c.attached = g

	switch {
	case c.timers.Recovering:
		c.originalGravity = c.timers.RecoverTarget
	case !c.gravityOwned:
		c.originalGravity = c.body.GravityScale()
	}
	c.timers.Recovering = false
	c.timers.RecoverElapsed = 0
	c.timers.RecoverDuration = 0
	c.timers.RecoverTarget = 0

	c.body.SetGravityScale(c.originalGravity * c.tuning.GravityMultiplier(c.body.Velocity().Y()))
	c.gravityOwned = true
	g.SetGrabbed(true)

	pos := c.body.Position()
	c.log.Info("attached",
		zap.Float64("grip_x", g.Position().X()),
		zap.Float64("grip_y", g.Position().Y()),
		zap.Float64("base_gravity", c.originalGravity),
	)
	c.publish(Event{Kind: EventAttached, Grip: g, Position: pos})
}

func (c *Controller) detach() {
	t := c.tuning
	release := c.body.Velocity()

	var connected physics.Body
	if c.hinge != nil {
		connected = c.hinge.ConnectedBody()
	}
	if t.InheritGripPointVelocityOnDetach && connected != nil {
		pv := connected.PointVelocity(c.body.WorldCenter())
		if pv.Len() > release.Len() {
			release = pv
		}
	}

	grip := c.attached
	if grip != nil {
		grip.SetGrabbed(false)
	}
	if c.hinge != nil {
		c.hinge.SetEnabled(false)
		c.hinge.SetConnectedBody(nil)
	}
	c.state = StateDetached
	c.attached = nil

	vx, vy := release.X(), release.Y()

	lock := math.Max(c.timers.MotorLock, t.MotorLockDuration(vx))
	c.timers.MotorLock = lock
	c.timers.MotorLockDuration = lock

	if t.UseVelocityBasedReleaseGravity {
		c.timers.Recovering = true
		c.timers.RecoverElapsed = 0
		c.timers.RecoverDuration = t.RecoverDuration(vy)
		c.timers.RecoverTarget = c.originalGravity
		c.body.SetGravityScale(0)
	} else {
		c.timers.Recovering = false
		c.body.SetGravityScale(c.originalGravity * t.GravityMultiplier(vy))
	}

	if t.EnableReleaseUpwardAssist && vy > t.ReleaseUpwardAssistMinUp {
		c.timers.UpwardAssist = math.Max(c.timers.UpwardAssist, t.ReleaseUpwardAssistSeconds)
	} else {
		c.timers.UpwardAssist = 0
	}
	if t.EnableReleaseHorizontalAssist && math.Abs(vx) > t.ReleaseHorizontalAssistMin {
		c.timers.HorizontalAssist = math.Max(c.timers.HorizontalAssist, t.ReleaseHorizontalAssistSeconds)
		c.timers.HorizontalSign = pmath.Sign(vx)
	} else {
		c.timers.HorizontalAssist = 0
		c.timers.HorizontalSign = 0
	}

	if t.EnableDetachUpwardAssist && vy > t.DetachUpwardMinSpeed {
		release = pmath.WithY(release, vy*t.DetachUpwardVelocityMultiplier)
	}
	c.body.SetVelocity(release)

	c.log.Info("detached",
		zap.Float64("vx", release.X()),
		zap.Float64("vy", release.Y()),
		zap.Float64("lock", lock),
		zap.Float64("recover", c.timers.RecoverDuration),
	)
	c.publish(Event{
		Kind:            EventDetached,
		Grip:            grip,
		Position:        c.body.Position(),
		ReleaseVelocity: release,
		LockDuration:    lock,
	})
}

func (c *Controller) updateGravity(dt float64) {
	if c.state == StateAttached {
		c.body.SetGravityScale(c.originalGravity * c.tuning.GravityMultiplier(c.body.Velocity().Y()))
		return
	}
	if !c.timers.Recovering {
		return
	}

	c.timers.RecoverElapsed += dt
	p := pmath.Clamp01(c.timers.RecoverElapsed / c.timers.RecoverDuration)
	c.body.SetGravityScale(pmath.Lerp(0, c.timers.RecoverTarget, p))
	if p >= 1 {
		c.body.SetGravityScale(c.timers.RecoverTarget)
		c.timers.Recovering = false
		c.timers.RecoverElapsed = 0
		c.timers.RecoverDuration = 0
		c.gravityOwned = false
		c.log.Debug("gravity recovered", zap.Float64("scale", c.timers.RecoverTarget))
	}
}

func (c *Controller) applyReleaseAssists(dt float64) {
	t := c.tuning
	if c.timers.UpwardAssist > 0 {
		c.body.ApplyForce(mgl64.Vec2{0, t.ReleaseUpwardAssistForce}, physics.ForceContinuous)
		c.timers.UpwardAssist = countdown(c.timers.UpwardAssist, dt)
	}
	if c.timers.HorizontalAssist > 0 {
		c.body.ApplyForce(mgl64.Vec2{c.timers.HorizontalSign * t.ReleaseHorizontalAssistForce, 0}, physics.ForceContinuous)
		c.timers.HorizontalAssist = countdown(c.timers.HorizontalAssist, dt)
		if c.timers.HorizontalAssist == 0 {
			c.timers.HorizontalSign = 0
		}
	}
}

func (c *Controller) applyReleaseSteering() {
	h := c.intent.Horizontal
	if c.timers.MotorLock <= 0 || c.timers.MotorLockDuration <= 0 || math.Abs(h) <= c.tuning.InputDeadZone {
		return
	}
	decay := pmath.Clamp01(c.timers.MotorLock / c.timers.MotorLockDuration)
	c.body.ApplyForce(mgl64.Vec2{h * c.tuning.ReleaseSteerForce * decay, 0}, physics.ForceContinuous)
}

func (c *Controller) applyDrive() {
	h := c.intent.Horizontal
	if math.Abs(h) < c.tuning.InputDeadZone {
		return
	}
	c.body.ApplyForce(DriveForce(c.body.Position(), c.connectedPosition(), h, c.tuning.SwingDriveForce), physics.ForceContinuous)
}

func (c *Controller) connectedPosition() *mgl64.Vec2 {
	if c.hinge == nil || c.hinge.ConnectedBody() == nil {
		return nil
	}
	p := c.hinge.ConnectedBody().Position()
	return &p
}

// DriveForce returns the swing drive for horizontal input h. The force is
// tangent to the circle around pivot, oriented along the input direction.
// Without a pivot, or too close to it, the drive is horizontal.
func DriveForce(avatar mgl64.Vec2, pivot *mgl64.Vec2, h, force float64) mgl64.Vec2 {
	if pivot == nil {
		return mgl64.Vec2{h * force, 0}
	}
	r := avatar.Sub(*pivot)
	if pmath.LenSqr(r) < minTangentRadiusSqr {
		return mgl64.Vec2{h * force, 0}
	}
	tangent := pmath.Normalize(pmath.Perp(r))
	if tangent.X()*h < 0 {
		tangent = tangent.Mul(-1)
	}
	return tangent.Mul(math.Abs(h) * force)
}

func (c *Controller) publish(e Event) {
	for _, fn := range c.listeners {
		fn(e)
	}
}

// IsSwinging reports whether the avatar is attached.
func (c *Controller) IsSwinging() bool {
	return c.state == StateAttached
}

// ShouldBlockMotor reports whether the motor must leave horizontal
// velocity alone this step.
func (c *Controller) ShouldBlockMotor() bool {
	return (c.tuning.BlockMotorWhileSwinging && c.state == StateAttached) || c.timers.MotorLock > 0
}

// ShouldIgnoreJumpCut reports whether a released jump must keep its
// vertical speed.
func (c *Controller) ShouldIgnoreJumpCut() bool {
	return c.state == StateAttached || c.timers.MotorLock > 0
}

func (c *Controller) State() State { return c.state }
func (c *Controller) Attached() *rope.GripPoint { return c.attached }
func (c *Controller) Nearby() *rope.GripPoint { return c.nearby }
func (c *Controller) Timers() ReleaseTimers { return c.timers }
func (c *Controller) OriginalGravityScale() float64 { return c.originalGravity }
func (c *Controller) Tuning() Tuning { return c.tuning }
