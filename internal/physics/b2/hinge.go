package b2

import (
	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/swingline/internal/physics"
)

// Hinge is a revolute joint that exists in box2d only while enabled.
type Hinge struct {
	world *World
	// body is the hinge owner (box2d body B); connected is body A.
	body      *Body
	connected *Body

	localAnchor     mgl64.Vec2
	connectedAnchor mgl64.Vec2
	limits          *physics.AngleLimits
	collide         bool
	enabled         bool

	joint box2d.B2JointInterface
}

func (h *Hinge) Enabled() bool { return h.enabled }

// SetEnabled creates or destroys the underlying joint.
func (h *Hinge) SetEnabled(enabled bool) {
	if h.enabled == enabled {
		return
	}
	h.enabled = enabled
	h.world.sync(h)
}

func (h *Hinge) ConnectedBody() physics.Body {
	if h.connected == nil {
		return nil
	}
	return h.connected
}

// SetConnectedBody retargets the hinge, rebuilding the joint if enabled.
func (h *Hinge) SetConnectedBody(b physics.Body) {
	h.connected = h.world.own(b)
	if h.enabled {
		h.world.sync(h)
	}
}

// SetAnchors moves both anchors, rebuilding the joint if enabled.
func (h *Hinge) SetAnchors(local, connected mgl64.Vec2) {
	if h.localAnchor == local && h.connectedAnchor == connected {
		return
	}
	h.localAnchor = local
	h.connectedAnchor = connected
	if h.enabled {
		h.world.sync(h)
	}
}

func (h *Hinge) Limits() *physics.AngleLimits { return h.limits }

func (h *Hinge) CollideConnected() bool { return h.collide }

// Active reports whether a box2d joint currently exists.
func (h *Hinge) Active() bool { return h.joint != nil }

func (h *Hinge) def() *box2d.B2RevoluteJointDef {
	jd := box2d.MakeB2RevoluteJointDef()
	jd.BodyA = h.connected.b2
	jd.BodyB = h.body.b2
	jd.LocalAnchorA = vec(h.connectedAnchor)
	jd.LocalAnchorB = vec(h.localAnchor)
	jd.ReferenceAngle = h.body.b2.GetAngle() - h.connected.b2.GetAngle()
	jd.CollideConnected = h.collide
	if h.limits != nil {
		jd.EnableLimit = true
		jd.LowerAngle = mgl64.DegToRad(h.limits.Min)
		jd.UpperAngle = mgl64.DegToRad(h.limits.Max)
	}
	return &jd
}

var _ physics.Hinge = (*Hinge)(nil)
