// Package timestep converts variable frame time into whole fixed steps.
package timestep

// Accumulator collects frame time and hands out fixed steps.
type Accumulator struct {
	step     float64
	maxSteps int
	acc      float64
	dropped  float64
}

// New creates an accumulator for a fixed step in seconds. maxSteps caps
// the steps returned per Advance; values below 1 mean one step.
func New(step float64, maxSteps int) *Accumulator {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Accumulator{step: step, maxSteps: maxSteps}
}

// Advance adds frame seconds and returns how many fixed steps to run.
// Time beyond the cap is dropped and reported by Dropped.
func (a *Accumulator) Advance(frame float64) int {
	if a.step <= 0 || frame <= 0 {
		return 0
	}
	a.acc += frame

	n := int(a.acc / a.step)
	if n > a.maxSteps {
		a.dropped += a.acc - float64(a.maxSteps)*a.step
		a.acc = 0
		return a.maxSteps
	}
	a.acc -= float64(n) * a.step
	if a.acc < 0 {
		a.acc = 0
	}
	return n
}

// Alpha returns the fraction of a step left in the accumulator, for render
// interpolation.
func (a *Accumulator) Alpha() float64 {
	if a.step <= 0 {
		return 0
	}
	return a.acc / a.step
}

// Step returns the fixed step in seconds.
func (a *Accumulator) Step() float64 { return a.step }

// Dropped returns the total seconds discarded by the step cap and resets it.
func (a *Accumulator) Dropped() float64 {
	d := a.dropped
	a.dropped = 0
	return d
}

// Reset discards accumulated time.
func (a *Accumulator) Reset() {
	a.acc = 0
	a.dropped = 0
}
