package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/physics/b2"
)

// NewB2World creates the box2d host world described by the physics config.
func NewB2World(cfg *config.Config, log *zap.Logger) (*b2.World, error) {
	p := cfg.Physics
	w, err := b2.NewWorld(b2.Config{
		Gravity:            p.Gravity.Vec(),
		VelocityIterations: p.VelocityIterations,
		PositionIterations: p.PositionIterations,
		AllowSleeping:      p.AllowSleeping,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create physics world: %w", err)
	}
	return w, nil
}

// Build creates a box2d world and a level in it.
func Build(cfg *config.Config, log *zap.Logger, opts ...Option) (*Level, *b2.World, error) {
	log = logger.OrNop(log)
	w, err := NewB2World(cfg, log.Named("b2"))
	if err != nil {
		return nil, nil, err
	}
	opts = append([]Option{WithLogger(log.Named("level"))}, opts...)
	return New(cfg, w, opts...), w, nil
}
