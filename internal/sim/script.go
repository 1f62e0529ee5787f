package sim

import (
	"math"

	"github.com/Faultbox/swingline/internal/config"
	"github.com/Faultbox/swingline/internal/input"
)

// Script plays a list of timed phases back as per-step intents. The jump
// button's press and release edges are derived from consecutive phases.
type Script struct {
	phases   []config.SimPhase
	phase    int
	inPhase  float64
	prevJump bool
}

// NewScript creates a script over phases. Zero-length phases are skipped.
func NewScript(phases []config.SimPhase) *Script {
	s := &Script{phases: phases}
	s.skipEmpty()
	return s
}

// Duration returns the total scripted time in seconds.
func (s *Script) Duration() float64 {
	var d float64
	for _, p := range s.phases {
		d += p.Seconds
	}
	return d
}

// Steps returns how many steps of dt cover the script.
func (s *Script) Steps(dt float64) int {
	if dt <= 0 {
		return 0
	}
	// The epsilon keeps 1.5/0.02 from rounding up to 76.
	return int(math.Ceil(s.Duration()/dt - 1e-9))
}

// Done reports whether every phase has played.
func (s *Script) Done() bool {
	return s.phase >= len(s.phases)
}

// Phase returns the name of the playing phase, or "idle" after the end.
func (s *Script) Phase() string {
	if s.Done() {
		return "idle"
	}
	return s.phases[s.phase].Name
}

// Next returns the intent for the coming step and advances by dt. After
// the script ends the avatar idles with the button up.
func (s *Script) Next(dt float64) input.Intent {
	var h float64
	jump := false
	if !s.Done() {
		p := s.phases[s.phase]
		h = p.Horizontal
		jump = p.Jump
	}

	in := input.Intent{
		Horizontal: h,
		JumpDown:   jump && !s.prevJump,
		JumpHeld:   jump,
		JumpUp:     !jump && s.prevJump,
	}
	s.prevJump = jump

	if !s.Done() {
		s.inPhase += dt
		// Tolerate float drift so a 0.5 s phase lasts exactly 25 steps of 0.02.
		for !s.Done() && s.inPhase >= s.phases[s.phase].Seconds-1e-9 {
			s.inPhase -= s.phases[s.phase].Seconds
			s.phase++
			s.skipEmpty()
		}
	}
	return in.Clamped()
}

func (s *Script) skipEmpty() {
	for !s.Done() && s.phases[s.phase].Seconds <= 0 {
		s.phase++
	}
}
