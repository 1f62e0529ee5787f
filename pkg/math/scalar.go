package math

import "math"

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates from a to b by t, with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// InverseLerp returns where v sits between a and b, clamped to [0, 1].
// A degenerate range (a == b) yields 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// Sign returns 1 for v >= 0 and -1 otherwise.
func Sign(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return -1
}

// ExpSmoothing returns the frame-rate independent blend factor for
// approaching a target at the given rate over dt. A non-positive rate
// snaps immediately.
func ExpSmoothing(rate, dt float64) float64 {
	if rate <= 0 {
		return 1
	}
	return 1 - math.Exp(-rate*dt)
}

// Approx reports whether a and b differ by at most eps.
func Approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
