// Package main runs the swing headless from the configured input script.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/logger"
	"github.com/Faultbox/swingline/internal/sim"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sum, err := sim.Run(cfg, logger.Named("sim"))
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("steps=%d elapsed=%.2fs max_height=%.2f max_speed=%.2f attaches=%d releases=%d release=(%.2f, %.2f) lock=%.3fs final=%s\n",
		sum.Steps, sum.Elapsed, sum.MaxHeight, sum.MaxSpeed,
		sum.Attaches, sum.Releases,
		sum.ReleaseVelocity.X(), sum.ReleaseVelocity.Y(),
		sum.LockDuration, sum.FinalState,
	)
}
