package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/input"
	"github.com/Faultbox/swingline/internal/physics"
	pmath "github.com/Faultbox/swingline/pkg/math"
)

// Config holds motor tuning.
type Config struct {
	MoveSpeed float64 `yaml:"move_speed"`
	// GroundLerp and AirLerp are exponential smoothing rates toward the
	// target speed. Zero snaps immediately.
	GroundLerp    float64 `yaml:"ground_lerp"`
	AirLerp       float64 `yaml:"air_lerp"`
	JumpPower     float64 `yaml:"jump_power"`
	JumpCutFactor float64 `yaml:"jump_cut_factor"`
}

// DefaultConfig returns the shipped motor tuning.
func DefaultConfig() Config {
	return Config{
		MoveSpeed:     10,
		GroundLerp:    22,
		AirLerp:       0,
		JumpPower:     21,
		JumpCutFactor: 0.5,
	}
}

// facingDeadZone is the smallest input that turns the avatar.
const facingDeadZone = 0.0001

// Option configures a Motor.
type Option func(*Motor)

// WithLock sets the lock consulted before writing velocity.
func WithLock(l Lock) Option {
	return func(m *Motor) {
		m.lock = l
	}
}

// WithGroundProbe sets the ground probe used for jumps and smoothing rates.
func WithGroundProbe(g GroundProbe) Option {
	return func(m *Motor) {
		m.ground = g
	}
}

// WithLogger sets the motor logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Motor) {
		if log != nil {
			m.log = log
		}
	}
}

// Motor moves the avatar from input intent.
type Motor struct {
	body   physics.Body
	cfg    Config
	lock   Lock
	ground GroundProbe
	log    *zap.Logger

	intent      input.Intent
	knockback   float64
	facingRight bool
}

// NewMotor creates a motor for body.
func NewMotor(body physics.Body, cfg Config, opts ...Option) *Motor {
	m := &Motor{
		body:        body,
		cfg:         cfg,
		log:         zap.NewNop(),
		facingRight: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Frame stores the intent for the next physics step.
func (m *Motor) Frame(intent input.Intent) {
	m.intent = intent.Clamped()
}

// FixedStep applies one physics step of movement.
func (m *Motor) FixedStep(dt float64) {
	if m.body == nil || dt <= 0 {
		return
	}

	blocked := m.lock != nil && m.lock.ShouldBlockMotor()
	knocked := m.knockback > 0
	m.knockback = math.Max(0, m.knockback-dt)

	if !blocked && !knocked {
		m.face(m.intent.Horizontal)
		m.smoothHorizontal(dt)
	}

	if m.intent.JumpDown && m.Grounded() {
		v := m.body.Velocity()
		m.body.SetVelocity(pmath.WithY(v, m.cfg.JumpPower))
		m.log.Debug("jump", zap.Float64("vy", m.cfg.JumpPower))
	}

	if m.intent.JumpUp {
		m.cutJump()
	}
}

func (m *Motor) smoothHorizontal(dt float64) {
	rate := m.cfg.AirLerp
	if m.Grounded() {
		rate = m.cfg.GroundLerp
	}
	v := m.body.Velocity()
	target := m.intent.Horizontal * m.cfg.MoveSpeed
	x := pmath.Lerp(v.X(), target, pmath.ExpSmoothing(rate, dt))
	m.body.SetVelocity(mgl64.Vec2{x, v.Y()})
}

func (m *Motor) cutJump() {
	if m.lock != nil && m.lock.ShouldIgnoreJumpCut() {
		return
	}
	v := m.body.Velocity()
	if v.Y() <= 0 {
		return
	}
	m.body.SetVelocity(pmath.WithY(v, v.Y()*m.cfg.JumpCutFactor))
}

func (m *Motor) face(h float64) {
	if math.Abs(h) < facingDeadZone {
		return
	}
	m.facingRight = h > 0
}

// ApplyKnockback sets the avatar velocity and suspends steering for at
// least seconds.
func (m *Motor) ApplyKnockback(v mgl64.Vec2, seconds float64) {
	if m.body == nil {
		return
	}
	m.body.SetVelocity(v)
	m.knockback = math.Max(m.knockback, seconds)
}

// Grounded reports the ground probe state; false without a probe.
func (m *Motor) Grounded() bool {
	return m.ground != nil && m.ground.Grounded()
}

// FacingRight reports the last horizontal direction the avatar turned to.
func (m *Motor) FacingRight() bool { return m.facingRight }

// KnockbackLocked reports whether a knockback suspends steering.
func (m *Motor) KnockbackLocked() bool { return m.knockback > 0 }

// Config returns the motor tuning.
func (m *Motor) Config() Config { return m.cfg }
