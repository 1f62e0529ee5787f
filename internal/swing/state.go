package swing

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/swingline/internal/rope"
)

// State is the attachment state of the avatar.
type State uint8

const (
	StateDetached State = iota
	StateAttached
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateAttached:
		return "attached"
	default:
		return "unknown"
	}
}

// EventKind identifies a controller event.
type EventKind uint8

const (
	EventAttached EventKind = iota + 1
	EventDetached
)

func (k EventKind) String() string {
	switch k {
	case EventAttached:
		return "attached"
	case EventDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Event is published on every attach and detach.
type Event struct {
	Kind EventKind
	Grip *rope.GripPoint
	// Position is the avatar position when the event fired.
	Position mgl64.Vec2
	// ReleaseVelocity and LockDuration are set for EventDetached only.
	ReleaseVelocity mgl64.Vec2
	LockDuration    float64
}

// ReleaseTimers is a snapshot of the post-release countdowns. All values
// are zero once expired.
type ReleaseTimers struct {
	MotorLock         float64
	MotorLockDuration float64

	Recovering      bool
	RecoverElapsed  float64
	RecoverDuration float64
	RecoverTarget   float64

	UpwardAssist     float64
	HorizontalAssist float64
	HorizontalSign   float64
}

// RecoverProgress returns recovery progress in [0, 1], or 1 when no
// recovery is running.
func (t ReleaseTimers) RecoverProgress() float64 {
	if !t.Recovering || t.RecoverDuration <= 0 {
		return 1
	}
	p := t.RecoverElapsed / t.RecoverDuration
	if p > 1 {
		return 1
	}
	return p
}

// countdown decrements v by dt and floors it at zero.
func countdown(v, dt float64) float64 {
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}
