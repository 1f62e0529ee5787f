// Package config handles sandbox configuration loading and management.
package config

import (
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/swingline/internal/locomotion"
	"github.com/Faultbox/swingline/internal/physics"
	"github.com/Faultbox/swingline/internal/rope"
	"github.com/Faultbox/swingline/internal/swing"
)

// Config holds all sandbox settings.
type Config struct {
	Graphics   GraphicsConfig    `yaml:"graphics"`
	Audio      AudioConfig       `yaml:"audio"`
	Physics    PhysicsConfig     `yaml:"physics"`
	Avatar     AvatarConfig      `yaml:"avatar"`
	Locomotion locomotion.Config `yaml:"locomotion"`
	Swing      swing.Tuning      `yaml:"swing"`
	Ropes      []RopeConfig      `yaml:"ropes"`
	Level      LevelConfig       `yaml:"level"`
	Sim        SimConfig         `yaml:"sim"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// Point is a 2D position in world units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Vec converts p to a vector.
func (p Point) Vec() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	Fullscreen    bool    `yaml:"fullscreen"`
	VSync         bool    `yaml:"vsync"`
	FPSLimit      int     `yaml:"fps_limit"`
	PixelsPerUnit float32 `yaml:"pixels_per_unit"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
}

// PhysicsConfig holds world and stepping settings.
type PhysicsConfig struct {
	Gravity            Point   `yaml:"gravity"`
	FixedStep          float64 `yaml:"fixed_step"` // Seconds per physics step
	MaxStepsPerFrame   int     `yaml:"max_steps_per_frame"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	AllowSleeping      bool    `yaml:"allow_sleeping"`
}

// AvatarConfig describes the player body.
type AvatarConfig struct {
	Spawn        Point   `yaml:"spawn"`
	HalfWidth    float64 `yaml:"half_width"`
	HalfHeight   float64 `yaml:"half_height"`
	Mass         float64 `yaml:"mass"`
	GravityScale float64 `yaml:"gravity_scale"`
	Friction     float64 `yaml:"friction"`
	FootRadius   float64 `yaml:"foot_radius"` // Ground check circle under the body
}

// RopeConfig places one hanging rope.
type RopeConfig struct {
	Anchor         Point           `yaml:"anchor"`
	Segments       int             `yaml:"segments"`
	SegmentLength  float64         `yaml:"segment_length"`
	SegmentMass    float64         `yaml:"segment_mass"`
	MaxBendDegrees float64         `yaml:"max_bend_degrees"`
	GripRadius     float64         `yaml:"grip_radius"`
	Grabbed        physics.Damping `yaml:"grabbed_damping"`
	Idle           physics.Damping `yaml:"idle_damping"`
}

// DefaultRope returns a rope with the standard cable settings hanging
// from anchor.
func DefaultRope(anchor Point) RopeConfig {
	c := rope.DefaultConfig()
	return RopeConfig{
		Anchor:         anchor,
		Segments:       c.SegmentCount,
		SegmentLength:  c.SegmentLength,
		SegmentMass:    c.SegmentMass,
		MaxBendDegrees: c.MaxBendDegrees,
		GripRadius:     c.GripRadius,
		Grabbed:        c.Grabbed,
		Idle:           c.Idle,
	}
}

// UnmarshalYAML fills fields missing from the document with the standard
// cable settings.
func (r *RopeConfig) UnmarshalYAML(node *yaml.Node) error {
	type plain RopeConfig
	p := plain(DefaultRope(Point{}))
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = RopeConfig(p)
	return nil
}

// Chain converts r to a chain description.
func (r RopeConfig) Chain() rope.Config {
	return rope.Config{
		Anchor:         r.Anchor.Vec(),
		SegmentCount:   r.Segments,
		SegmentLength:  r.SegmentLength,
		SegmentMass:    r.SegmentMass,
		MaxBendDegrees: r.MaxBendDegrees,
		GripRadius:     r.GripRadius,
		Grabbed:        r.Grabbed,
		Idle:           r.Idle,
	}
}

// BoxConfig is a static solid box.
type BoxConfig struct {
	Center      Point   `yaml:"center"`
	HalfExtents Point   `yaml:"half_extents"`
	Friction    float64 `yaml:"friction"`
}

// LevelConfig holds static level geometry.
type LevelConfig struct {
	Ground []BoxConfig `yaml:"ground"`
}

// SimPhase is one segment of the headless input script.
type SimPhase struct {
	Name       string  `yaml:"name"`
	Seconds    float64 `yaml:"seconds"`
	Horizontal float64 `yaml:"horizontal"`
	Jump       bool    `yaml:"jump"` // Jump/grab button held
}

// SimConfig drives the headless simulation.
type SimConfig struct {
	Steps  int        `yaml:"steps"` // 0 runs the script to its end
	Trace  bool       `yaml:"trace"`
	Script []SimPhase `yaml:"script"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			FPSLimit:      0,
			PixelsPerUnit: 48,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			Muted:        false,
		},
		Physics: PhysicsConfig{
			Gravity:            Point{X: 0, Y: -9.81},
			FixedStep:          0.02,
			MaxStepsPerFrame:   5,
			VelocityIterations: 8,
			PositionIterations: 3,
			AllowSleeping:      true,
		},
		Avatar: AvatarConfig{
			Spawn:        Point{X: 2, Y: 1},
			HalfWidth:    0.4,
			HalfHeight:   0.6,
			Mass:         1,
			GravityScale: 4,
			Friction:     0,
			FootRadius:   0.2,
		},
		Locomotion: locomotion.DefaultConfig(),
		Swing:      swing.DefaultTuning(),
		Ropes: []RopeConfig{
			DefaultRope(Point{X: 7, Y: 9}),
			DefaultRope(Point{X: 14, Y: 9}),
		},
		Level: LevelConfig{
			Ground: []BoxConfig{
				{Center: Point{X: 2, Y: -0.5}, HalfExtents: Point{X: 4, Y: 0.5}, Friction: 0.4},
				{Center: Point{X: 22, Y: -0.5}, HalfExtents: Point{X: 4, Y: 0.5}, Friction: 0.4},
			},
		},
		Sim: SimConfig{
			Steps: 0,
			Trace: false,
			Script: []SimPhase{
				// The first ledge ends at x=6; jump before running off it.
				{Name: "run", Seconds: 0.3, Horizontal: 1},
				{Name: "jump", Seconds: 0.6, Horizontal: 1, Jump: true},
				{Name: "pump", Seconds: 1.2, Horizontal: 1, Jump: true},
				{Name: "release", Seconds: 1.5, Horizontal: 0},
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
