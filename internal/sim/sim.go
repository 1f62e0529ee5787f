// Package sim runs a level headless from a scripted input sequence and
// summarises the swing it produced.
package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/game/world"
	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/swing"
)

// Summary describes one simulation run.
type Summary struct {
	Steps      int
	Elapsed    float64
	MaxHeight  float64
	MaxSpeed   float64
	Attaches   int
	Releases   int
	FinalState swing.State
	Final      mgl64.Vec2

	// Last release, zero if the avatar never let go.
	ReleaseVelocity mgl64.Vec2
	LockDuration    float64
}

// Run builds a box2d level from cfg and plays cfg.Sim.Script through it.
// cfg.Sim.Steps overrides the script length when positive.
func Run(cfg *config.Config, log *zap.Logger) (Summary, error) {
	log = logger.OrNop(log)

	var sum Summary
	record := func(e swing.Event) {
		switch e.Kind {
		case swing.EventAttached:
			sum.Attaches++
		case swing.EventDetached:
			sum.Releases++
			sum.ReleaseVelocity = e.ReleaseVelocity
			sum.LockDuration = e.LockDuration
		}
	}

	level, _, err := world.Build(cfg, log, world.WithSwingListener(record))
	if err != nil {
		return Summary{}, fmt.Errorf("sim: %w", err)
	}

	dt := cfg.Physics.FixedStep
	script := NewScript(cfg.Sim.Script)
	steps := cfg.Sim.Steps
	if steps <= 0 {
		steps = script.Steps(dt)
	}

	log.Info("simulation started",
		zap.Int("steps", steps),
		zap.Float64("dt", dt),
		zap.Int("phases", len(cfg.Sim.Script)),
	)

	sum.MaxHeight = level.Avatar().Position().Y()
	for i := 0; i < steps; i++ {
		phase := script.Phase()
		level.Frame(script.Next(dt))
		level.Step(dt)

		snap := level.Snapshot()
		sum.MaxHeight = max(sum.MaxHeight, snap.Position.Y())
		sum.MaxSpeed = max(sum.MaxSpeed, snap.Velocity.Len())

		if cfg.Sim.Trace {
			log.Debug("step",
				zap.Int("i", i),
				zap.String("phase", phase),
				zap.Stringer("state", snap.State),
				zap.Float64("x", snap.Position.X()),
				zap.Float64("y", snap.Position.Y()),
				zap.Float64("vx", snap.Velocity.X()),
				zap.Float64("vy", snap.Velocity.Y()),
				zap.Float64("gravity", snap.GravityScale),
				zap.Float64("lock", snap.Timers.MotorLock),
				zap.Bool("grounded", snap.Grounded),
			)
		}
	}

	final := level.Snapshot()
	sum.Steps = steps
	sum.Elapsed = final.Elapsed
	sum.FinalState = final.State
	sum.Final = final.Position

	log.Info("simulation finished",
		zap.Int("steps", sum.Steps),
		zap.Float64("max_height", sum.MaxHeight),
		zap.Float64("max_speed", sum.MaxSpeed),
		zap.Int("attaches", sum.Attaches),
		zap.Int("releases", sum.Releases),
		zap.Float64("release_vx", sum.ReleaseVelocity.X()),
		zap.Float64("release_vy", sum.ReleaseVelocity.Y()),
		zap.Float64("lock_duration", sum.LockDuration),
		zap.Stringer("final_state", sum.FinalState),
	)
	return sum, nil
}
