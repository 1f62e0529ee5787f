package sim

import (
	"testing"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/input"
)

func TestScriptEdges(t *testing.T) {
	s := NewScript([]config.SimPhase{
		{Name: "run", Seconds: 0.04, Horizontal: 1},
		{Name: "hold", Seconds: 0.04, Horizontal: 1, Jump: true},
		{Name: "let go", Seconds: 0.04, Horizontal: -1},
	})

	want := []input.Intent{
		{Horizontal: 1},
		{Horizontal: 1},
		{Horizontal: 1, JumpDown: true, JumpHeld: true},
		{Horizontal: 1, JumpHeld: true},
		{Horizontal: -1, JumpUp: true},
		{Horizontal: -1},
		{},
	}
	for i, w := range want {
		got := s.Next(0.02)
		if got != w {
			t.Errorf("step %d: expected %+v, got %+v", i, w, got)
		}
	}
	if !s.Done() {
		t.Error("expected script done")
	}
	if s.Phase() != "idle" {
		t.Errorf("expected idle phase, got %q", s.Phase())
	}
}

func TestScriptReleasesAtEnd(t *testing.T) {
	s := NewScript([]config.SimPhase{{Name: "hold", Seconds: 0.02, Jump: true}})

	if got := s.Next(0.02); !got.JumpDown {
		t.Errorf("expected press on first step, got %+v", got)
	}
	if got := s.Next(0.02); !got.JumpUp || got.JumpHeld {
		t.Errorf("expected release after the script ends, got %+v", got)
	}
}

func TestScriptSkipsEmptyPhases(t *testing.T) {
	s := NewScript([]config.SimPhase{
		{Name: "nothing", Seconds: 0},
		{Name: "walk", Seconds: 0.02, Horizontal: 0.5},
		{Name: "negative", Seconds: -1},
	})

	if s.Phase() != "walk" {
		t.Fatalf("expected walk first, got %q", s.Phase())
	}
	if got := s.Next(0.02); got.Horizontal != 0.5 {
		t.Errorf("expected horizontal 0.5, got %f", got.Horizontal)
	}
	if !s.Done() {
		t.Errorf("expected trailing empty phase skipped, got %q", s.Phase())
	}
}

func TestScriptClampsAxis(t *testing.T) {
	s := NewScript([]config.SimPhase{{Name: "fast", Seconds: 1, Horizontal: 3}})
	if got := s.Next(0.02); got.Horizontal != 1 {
		t.Errorf("expected horizontal clamped to 1, got %f", got.Horizontal)
	}
}

func TestScriptSteps(t *testing.T) {
	tests := []struct {
		phases []config.SimPhase
		dt     float64
		want   int
	}{
		{config.Default().Sim.Script, 0.02, 180},
		{[]config.SimPhase{{Seconds: 1.5}}, 0.02, 75},
		{[]config.SimPhase{{Seconds: 0.05}}, 0.02, 3},
		{nil, 0.02, 0},
		{[]config.SimPhase{{Seconds: 1}}, 0, 0},
	}

	for _, tt := range tests {
		if got := NewScript(tt.phases).Steps(tt.dt); got != tt.want {
			t.Errorf("Steps(%v): expected %d, got %d", tt.dt, tt.want, got)
		}
	}
}

func TestRunDefaultScript(t *testing.T) {
	cfg := config.Default()

	sum, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Steps != 180 {
		t.Errorf("expected 180 steps, got %d", sum.Steps)
	}
	if sum.Elapsed < 3.59 || sum.Elapsed > 3.61 {
		t.Errorf("expected 3.6s elapsed, got %f", sum.Elapsed)
	}
	if sum.MaxHeight <= cfg.Avatar.Spawn.Y {
		t.Errorf("expected the jump to gain height, got max %f", sum.MaxHeight)
	}
	if sum.Attaches < 1 {
		t.Errorf("expected the avatar to grab a rope, got %d attaches", sum.Attaches)
	}
	if sum.Releases < 1 {
		t.Errorf("expected the avatar to let go, got %d releases", sum.Releases)
	}
	if sum.Releases > sum.Attaches {
		t.Errorf("expected no more releases than attaches, got %d > %d", sum.Releases, sum.Attaches)
	}
	if sum.LockDuration <= 0 {
		t.Errorf("expected a motor lock after release, got %f", sum.LockDuration)
	}
}

func TestRunStepsOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Sim.Steps = 10

	sum, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Steps != 10 {
		t.Errorf("expected 10 steps, got %d", sum.Steps)
	}
}

func TestRunBadPhysics(t *testing.T) {
	cfg := config.Default()
	cfg.Physics.PositionIterations = 0

	if _, err := Run(cfg, nil); err == nil {
		t.Error("expected error for zero position iterations")
	}
}
