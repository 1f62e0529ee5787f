package rope

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/physics"
)

// GripPoint is the attachable end of a chain. It counts how many holders
// currently grab it; rope damping keys off that count.
type GripPoint struct {
	body    physics.Body
	holders int
	log     *zap.Logger
}

// NewGripPoint wraps the body that attachers connect to. log may be nil.
func NewGripPoint(body physics.Body, log *zap.Logger) *GripPoint {
	return &GripPoint{body: body, log: logger.OrNop(log)}
}

// Body returns the underlying rigid body.
func (g *GripPoint) Body() physics.Body {
	return g.body
}

// Position returns the grip body position, or the origin without a body.
func (g *GripPoint) Position() mgl64.Vec2 {
	if g.body == nil {
		return mgl64.Vec2{}
	}
	return g.body.Position()
}

// IsGrabbed reports whether at least one holder is attached.
func (g *GripPoint) IsGrabbed() bool {
	return g.holders > 0
}

// Holders returns the current grab count. It is never negative.
func (g *GripPoint) Holders() int {
	return g.holders
}

// SetGrabbed adds or removes one holder. Releasing an ungrabbed grip
// leaves the count at zero.
func (g *GripPoint) SetGrabbed(grabbed bool) {
	if grabbed {
		g.holders++
		return
	}
	if g.holders == 0 {
		g.log.Debug("grip released with no holders")
		return
	}
	g.holders--
}

// PointVelocity returns the velocity of the grip body at a world point.
func (g *GripPoint) PointVelocity(world mgl64.Vec2) mgl64.Vec2 {
	if g.body == nil {
		return mgl64.Vec2{}
	}
	return g.body.PointVelocity(world)
}
