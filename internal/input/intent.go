// Package input defines the per-frame intent the movement controllers consume.
package input

import "math"

// Intent is the avatar's requested action for one frame. It is a value;
// consumers never see it change under them.
type Intent struct {
	Horizontal float64 // [-1, 1]
	Vertical   float64 // [-1, 1]
	JumpDown   bool    // pressed this frame
	JumpHeld   bool    // held this frame
	JumpUp     bool    // released this frame
}

// Grab reports whether the swing grab input is held. The jump button
// doubles as grab.
func (i Intent) Grab() bool {
	return i.JumpHeld
}

// Merge folds a newer frame into a pending intent. Held state and axes take
// the newer value; press/release edges accumulate so a frame that produced
// no physics step does not lose them.
func (i Intent) Merge(next Intent) Intent {
	return Intent{
		Horizontal: next.Horizontal,
		Vertical:   next.Vertical,
		JumpHeld:   next.JumpHeld,
		JumpDown:   i.JumpDown || next.JumpDown,
		JumpUp:     i.JumpUp || next.JumpUp,
	}
}

// Consumed returns the intent with its edges cleared, for the second and
// later physics steps of a frame.
func (i Intent) Consumed() Intent {
	i.JumpDown = false
	i.JumpUp = false
	return i
}

// Clamped returns the intent with axes limited to [-1, 1]; NaN becomes 0.
func (i Intent) Clamped() Intent {
	i.Horizontal = clampAxis(i.Horizontal)
	i.Vertical = clampAxis(i.Vertical)
	return i
}

func clampAxis(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < -1:
		return -1
	case v > 1:
		return 1
	default:
		return v
	}
}
