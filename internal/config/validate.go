package config

import (
	"errors"
	"fmt"
)

// ErrInvalid marks configuration values the sandbox cannot run with.
var ErrInvalid = errors.New("invalid config")

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate reports every setting the host cannot start with. Core tuning
// is clamped by its owners instead and never rejected here.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		fail("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Graphics.PixelsPerUnit <= 0 {
		fail("graphics.pixels_per_unit must be positive, got %v", c.Graphics.PixelsPerUnit)
	}
	if c.Graphics.FPSLimit < 0 {
		fail("graphics.fps_limit must not be negative, got %d", c.Graphics.FPSLimit)
	}

	for name, v := range map[string]float32{
		"audio.master_volume": c.Audio.MasterVolume,
		"audio.sfx_volume":    c.Audio.SFXVolume,
	} {
		if v < 0 || v > 1 {
			fail("%s must be in [0, 1], got %v", name, v)
		}
	}

	if c.Physics.FixedStep <= 0 {
		fail("physics.fixed_step must be positive, got %v", c.Physics.FixedStep)
	}
	if c.Physics.MaxStepsPerFrame < 1 {
		fail("physics.max_steps_per_frame must be at least 1, got %d", c.Physics.MaxStepsPerFrame)
	}
	if c.Physics.VelocityIterations <= 0 || c.Physics.PositionIterations <= 0 {
		fail("physics iterations must be positive, got %d/%d", c.Physics.VelocityIterations, c.Physics.PositionIterations)
	}

	if c.Avatar.HalfWidth <= 0 || c.Avatar.HalfHeight <= 0 {
		fail("avatar size must be positive, got %vx%v", c.Avatar.HalfWidth, c.Avatar.HalfHeight)
	}
	if c.Avatar.Mass <= 0 {
		fail("avatar.mass must be positive, got %v", c.Avatar.Mass)
	}

	for i, g := range c.Level.Ground {
		if g.HalfExtents.X <= 0 || g.HalfExtents.Y <= 0 {
			fail("level.ground[%d] extents must be positive", i)
		}
	}

	if c.Sim.Steps < 0 {
		fail("sim.steps must not be negative, got %d", c.Sim.Steps)
	}
	for i, p := range c.Sim.Script {
		if p.Seconds < 0 {
			fail("sim.script[%d] seconds must not be negative", i)
		}
	}

	if !logLevels[c.Logging.Level] {
		fail("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	return errors.Join(errs...)
}
