// Package rope builds hanging cable chains that an avatar can grab and
// swing on.
//
// A Chain is a static anchor followed by a fixed number of dynamic
// segments joined by limited hinges. The last segment carries a sensor and
// is exposed as the GripPoint. The physics engine does the swinging; the
// chain only switches damping between a settling profile and a lively one
// depending on whether the grip is held.
package rope

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/physics"
)

// Lower bounds applied to degenerate configuration.
const (
	MinSegmentLength = 0.01
	MinSegmentMass   = 0.001
	MinGripRadius    = 0.05
)

// Config describes a chain. Zero or negative values are clamped to safe
// minimums rather than rejected.
type Config struct {
	Anchor         mgl64.Vec2
	SegmentCount   int
	SegmentLength  float64
	SegmentMass    float64
	MaxBendDegrees float64
	GripRadius     float64
	Grabbed        physics.Damping
	Idle           physics.Damping
}

// DefaultConfig returns the cable used across the levels: twelve half-metre
// links that settle quickly when left alone.
func DefaultConfig() Config {
	return Config{
		SegmentCount:   12,
		SegmentLength:  0.5,
		SegmentMass:    0.2,
		MaxBendDegrees: 18,
		GripRadius:     0.25,
		Grabbed:        physics.Damping{Linear: 0.5, Angular: 0.05},
		Idle:           physics.Damping{Linear: 2.2, Angular: 2.2},
	}
}

// Length returns the rest length of the chain from anchor to grip centre.
func (c Config) Length() float64 {
	return float64(c.SegmentCount) * c.SegmentLength
}

// sanitize clamps degenerate values and reports which fields changed.
func (c Config) sanitize() (Config, []string) {
	var clamped []string
	if c.SegmentCount < 1 {
		c.SegmentCount = 1
		clamped = append(clamped, "segment_count")
	}
	if c.SegmentLength < MinSegmentLength {
		c.SegmentLength = MinSegmentLength
		clamped = append(clamped, "segment_length")
	}
	if c.SegmentMass < MinSegmentMass {
		c.SegmentMass = MinSegmentMass
		clamped = append(clamped, "segment_mass")
	}
	if c.GripRadius < MinGripRadius {
		c.GripRadius = MinGripRadius
		clamped = append(clamped, "grip_radius")
	}
	if c.MaxBendDegrees < 0 {
		c.MaxBendDegrees = 0
		clamped = append(clamped, "max_bend_angle")
	}
	return c, clamped
}

// Option configures a Chain.
type Option func(*Chain)

// WithLogger sets the chain logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chain) { c.log = logger.OrNop(l) }
}

// WithOwner tags every body of the chain with owner (for overlap routing
// and debugging).
func WithOwner(owner any) Option {
	return func(c *Chain) { c.owner = owner }
}

// Chain is a hanging cable ending in a GripPoint.
type Chain struct {
	cfg   Config
	world physics.World
	log   *zap.Logger
	owner any

	built    bool
	anchor   physics.Body
	segments []physics.Body
	hinges   []physics.Hinge
	grip     *GripPoint
	damping  physics.Damping
}

// New prepares a chain in world. Nothing is created until Build.
func New(world physics.World, cfg Config, opts ...Option) *Chain {
	c := &Chain{
		world: world,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var clamped []string
	c.cfg, clamped = cfg.sanitize()
	if len(clamped) > 0 {
		c.log.Warn("rope config clamped", zap.Strings("fields", clamped))
	}
	return c
}

// Build creates the anchor, segments, hinges and grip sensor. Calling it
// again is a no-op.
func (c *Chain) Build() {
	if c.built {
		c.log.Debug("rope already built")
		return
	}
	if c.world == nil {
		c.log.Warn("rope has no physics world, skipping build")
		return
	}
	c.built = true

	c.anchor = c.world.CreateBody(physics.BodyDef{
		Kind:     physics.BodyStatic,
		Position: c.cfg.Anchor,
		Owner:    c.owner,
	})

	n := c.cfg.SegmentCount
	l := c.cfg.SegmentLength
	limits := physics.SymmetricLimits(c.cfg.MaxBendDegrees)

	c.segments = make([]physics.Body, 0, n)
	c.hinges = make([]physics.Hinge, 0, n)
	c.damping = c.cfg.Idle

	prev := c.anchor
	for i := 0; i < n; i++ {
		pos := c.cfg.Anchor.Sub(mgl64.Vec2{0, l * (float64(i) + 0.5)})

		body := c.world.CreateBody(physics.BodyDef{
			Kind:         physics.BodyDynamic,
			Position:     pos,
			Mass:         c.cfg.SegmentMass,
			Inertia:      c.cfg.SegmentMass * l * l / 12,
			Damping:      c.cfg.Idle,
			GravityScale: 1,
			Owner:        c.owner,
		})

		connectedAnchor := mgl64.Vec2{0, -l / 2}
		if i == 0 {
			connectedAnchor = mgl64.Vec2{}
		}
		hinge := c.world.CreateHinge(physics.HingeDef{
			Body:            body,
			Connected:       prev,
			LocalAnchor:     mgl64.Vec2{0, l / 2},
			ConnectedAnchor: connectedAnchor,
			Limits:          limits,
			Enabled:         true,
		})

		c.segments = append(c.segments, body)
		c.hinges = append(c.hinges, hinge)
		prev = body
	}

	// Only the grip has a collider, and it is a sensor: the avatar must
	// not push mid-chain links around.
	last := c.segments[n-1]
	c.grip = NewGripPoint(last, c.log)
	c.world.AddCollider(last, physics.ColliderDef{
		Radius: c.cfg.GripRadius,
		Sensor: true,
		Owner:  c.grip,
	})

	c.log.Info("rope built",
		zap.Float64("anchor_x", c.cfg.Anchor.X()),
		zap.Float64("anchor_y", c.cfg.Anchor.Y()),
		zap.Int("segments", n),
		zap.Float64("length", c.cfg.Length()),
		zap.Bool("limited", limits != nil),
	)
}

// FixedStep switches every segment to the grabbed or idle damping profile.
func (c *Chain) FixedStep() {
	if !c.built || len(c.segments) == 0 {
		return
	}

	target := c.cfg.Idle
	if c.grip != nil && c.grip.IsGrabbed() {
		target = c.cfg.Grabbed
	}
	if target != c.damping {
		c.log.Debug("rope damping switched",
			zap.Float64("linear", target.Linear),
			zap.Float64("angular", target.Angular),
		)
	}
	c.damping = target

	for _, b := range c.segments {
		if b == nil {
			continue
		}
		b.SetDamping(target)
	}
}

// Built reports whether Build has run.
func (c *Chain) Built() bool {
	return c.built
}

// Config returns the configuration after clamping.
func (c *Chain) Config() Config {
	return c.cfg
}

// Grip returns the grip point, or nil before Build.
func (c *Chain) Grip() *GripPoint {
	return c.grip
}

// Anchor returns the static anchor body, or nil before Build.
func (c *Chain) Anchor() physics.Body {
	return c.anchor
}

// Segments returns the segment bodies ordered from the anchor down.
func (c *Chain) Segments() []physics.Body {
	out := make([]physics.Body, len(c.segments))
	copy(out, c.segments)
	return out
}

// SegmentCount returns the number of segments the chain has (or will
// have once built).
func (c *Chain) SegmentCount() int {
	return c.cfg.SegmentCount
}

// Hinges returns the segment hinges in segment order.
func (c *Chain) Hinges() []physics.Hinge {
	out := make([]physics.Hinge, len(c.hinges))
	copy(out, c.hinges)
	return out
}

// ActiveDamping returns the profile written on the last step.
func (c *Chain) ActiveDamping() physics.Damping {
	return c.damping
}

// Points returns the anchor position followed by each segment position,
// for drawing.
func (c *Chain) Points() []mgl64.Vec2 {
	if !c.built {
		return nil
	}
	pts := make([]mgl64.Vec2, 0, len(c.segments)+1)
	pts = append(pts, c.anchor.Position())
	for _, b := range c.segments {
		pts = append(pts, b.Position())
	}
	return pts
}
